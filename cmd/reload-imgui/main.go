package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/config"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/ecs/debugui"
	debugui_ebiten "github.com/plus3/spritereload/ecs/debugui/ebiten"
	"github.com/plus3/spritereload/overlay"
	"github.com/plus3/spritereload/sprite"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	assetRoot := flag.String("assets", "", "Override the asset root directory.")
	watch := flag.Bool("watch", false, "Reload the sprite whenever its file changes.")
	debug := flag.Bool("debug", false, "Show the entity browser and performance windows.")
	flag.Parse()

	log.SetPrefix("reload-imgui: ")

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

	backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)

	registry := ecs.NewComponentRegistry()
	sprite.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	storage.AddSingleton(backend)
	storage.AddSingleton(debugui.ImguiInputState{})

	sprite.Install(storage, scheduler, server, sprite.Options{
		Path:    cfg.Assets.Sprite,
		Changes: changes,
	})
	overlay.Install(storage, scheduler, server, overlay.ImguiPanel{})
	scheduler.Register(&debugui.ImguiSystem{})
	if *debug {
		debugui.SpawnDebugUI(storage, scheduler)
	}

	game := &Game{
		scheduler: scheduler,
		backend:   ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
		renderer:  sprite.NewRenderer(storage, server),
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
