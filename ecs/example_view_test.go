package ecs_test

import (
	"fmt"

	"github.com/plus3/spritereload/ecs"
)

// ExampleView demonstrates filtering with an excluded component. Fields tagged
// `ecs:"without"` skip every entity that carries that component, which is the
// usual way to find entities still waiting to be initialized.
func ExampleView() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Name{Value: "ready"}, Health{Current: 10, Max: 10})
	storage.Spawn(Name{Value: "pending"})

	view := ecs.NewView[struct {
		*Name
		Health *Health `ecs:"without"`
	}](storage)

	for item := range view.Values() {
		fmt.Println(item.Name.Value)
	}

	// Output:
	// pending
}
