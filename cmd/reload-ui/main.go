package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/config"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/retained"
	"github.com/plus3/spritereload/sprite"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	assetRoot := flag.String("assets", "", "Override the asset root directory.")
	watch := flag.Bool("watch", false, "Reload the sprite whenever its file changes.")
	flag.Parse()

	log.SetPrefix("reload-ui: ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *assetRoot != "" {
		cfg.Assets.Root = *assetRoot
	}

	server := asset.NewServer(asset.Config{
		Source:  os.DirFS(cfg.Assets.Root),
		Workers: cfg.Assets.Workers,
	})
	defer server.Close()

	var changes func() []string
	if cfg.Assets.Watch || *watch {
		watcher, err := asset.NewWatcher(cfg.Assets.Root, ".png")
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
		go func() {
			for err := range watcher.Errors {
				log.Printf("watch: %v", err)
			}
		}()
		changes = watcher.Drain
		log.Printf("watching %s", cfg.Assets.Root)
	}

	registry := ecs.NewComponentRegistry()
	sprite.RegisterComponents(registry)
	retained.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	widgets := retained.NewWidgets()
	sprite.Install(storage, scheduler, server, sprite.Options{
		Path:    cfg.Assets.Sprite,
		Single:  true,
		Changes: changes,
	})
	retained.Install(scheduler, &retained.BuildSystem{Widgets: widgets})

	game := &Game{
		scheduler: scheduler,
		widgets:   widgets,
		renderer:  sprite.NewRenderer(storage, server),
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
