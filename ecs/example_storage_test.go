package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/spritereload/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and components.
// Components are organized by archetype, while entity ids stay stable for the
// lifetime of the entity.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn(Position{X: 10, Y: 20})

	storage.AddComponent(player, Velocity{DX: 1, DY: 0})
	fmt.Printf("Has velocity: %v\n", storage.HasComponent(player, reflect.TypeOf(Velocity{})))

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("Player at (%.0f, %.0f)\n", pos.X, pos.Y)

	storage.Delete(player)
	replacement := storage.Spawn(Position{})
	fmt.Printf("Old id alive: %v, ids equal: %v\n", storage.Alive(player), player == replacement)

	// Output:
	// Has velocity: true
	// Player at (10, 20)
	// Old id alive: false, ids equal: false
}
