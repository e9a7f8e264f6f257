package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/spritereload/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type SetupSystem struct{}

func (s *SetupSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Transform{X: 0, Y: 0}, Speed{DX: 10, DY: 5})
	frame.Commands.Spawn(Transform{X: 100, Y: 100}, Speed{DX: -5, DY: -5})
}

type PhysicsSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Speed
	}]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		entity.Transform.X += entity.Speed.DX * float32(frame.DeltaTime)
		entity.Transform.Y += entity.Speed.DY * float32(frame.DeltaTime)
	}
}

type ReportSystem struct {
	Entities ecs.Query[struct{ *Transform }]
}

func (s *ReportSystem) Execute(frame *ecs.UpdateFrame) {
	fmt.Printf("frame %d: %d entities\n", frame.Tick, s.Entities.Count())
}

// ExampleScheduler runs startup systems once, flushes what they spawned, and
// then runs update systems in registration order every frame. Queries are
// refreshed before each system executes.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	storage := ecs.NewStorage(registry)

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&SetupSystem{})
	scheduler.Register(&PhysicsSystem{})
	scheduler.Register(&ReportSystem{})

	scheduler.Once(1.0)
	scheduler.Once(1.0)

	view := ecs.NewView[struct{ *Transform }](storage)
	for item := range view.Values() {
		fmt.Printf("Position: (%.0f, %.0f)\n", item.Transform.X, item.Transform.Y)
	}

	// Output:
	// frame 1: 2 entities
	// frame 2: 2 entities
	// Position: (20, 10)
	// Position: (90, 90)
}

// ExampleScheduler_Run demonstrates running a continuous game loop.
// The Run method blocks and executes all systems at a fixed interval
// until the context is cancelled.
func ExampleScheduler_Run() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Transform{X: 0, Y: 0}, Speed{DX: 1, DY: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&PhysicsSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx, 16*time.Millisecond)

	fmt.Println("Scheduler stopped after at least one frame:", scheduler.Tick() > 0)
	// Output:
	// Scheduler stopped after at least one frame: true
}
