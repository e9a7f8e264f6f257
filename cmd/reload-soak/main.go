package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/config"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/sprite"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	assetRoot := flag.String("assets", "", "Override the asset root directory.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	reloadEvery := flag.Int("reload-every", 30, "Reload the sprite every N frames.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.SetPrefix("reload-soak: ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *assetRoot != "" {
		cfg.Assets.Root = *assetRoot
	}
	if *reloadEvery <= 0 {
		log.Fatalf("reload-every must be positive, got %d", *reloadEvery)
	}

	log.Printf("Starting soak against %s/%s...", cfg.Assets.Root, cfg.Assets.Sprite)

	server := asset.NewServer(asset.Config{
		Source:  os.DirFS(cfg.Assets.Root),
		Workers: cfg.Assets.Workers,
	})
	defer server.Close()

	registry := ecs.NewComponentRegistry()
	sprite.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	sprite.Install(storage, scheduler, server, sprite.Options{Path: cfg.Assets.Sprite, Single: true})
	outcomes := &OutcomeSystem{}
	scheduler.Register(outcomes)
	scheduler.Register(&PeriodicReloadSystem{Every: uint64(*reloadEvery)})

	report := &Report{
		Duration:       *duration,
		Sprite:         cfg.Assets.Sprite,
		ReloadEvery:    *reloadEvery,
		Workers:        cfg.Assets.Workers,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running for %s...", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(scheduler.Tick())
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	var reloads *sprite.ReloadState
	if storage.ReadSingleton(&reloads) {
		report.Reloads = reloads.Count
	}
	report.Requested = outcomes.Requested
	report.Loaded = outcomes.Loaded
	report.Failed = outcomes.Failed
	report.LoadTime.Samples = outcomes.LoadTimes
	report.LoadTime.Finalize()
	report.Assets = server.Stats()
	report.Entities = storage.EntityCount()

	log.Println("Soak finished.")

	fmt.Println("\n\n--- Reload Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
