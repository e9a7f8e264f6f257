package main

import (
	"io"
	"log"
	"testing"
	"testing/fstest"
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicReloadCountsOutcomes(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	sprite.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	server := asset.NewServer(asset.Config{Source: fstest.MapFS{}, Logger: log.New(io.Discard, "", 0)})
	t.Cleanup(func() { server.Close() })

	sprite.Install(storage, scheduler, server, sprite.Options{Single: true})
	outcomes := &OutcomeSystem{}
	scheduler.Register(outcomes)
	periodic := &PeriodicReloadSystem{Every: 5}
	scheduler.Register(periodic)

	for range 20 {
		scheduler.Once(1.0 / 60)
	}

	var state *sprite.ReloadState
	require.True(t, storage.ReadSingleton(&state))
	assert.Equal(t, 4, state.Count)
	assert.Equal(t, "periodic", state.LastReason)

	periodic.Every = 0
	require.Eventually(t, func() bool {
		scheduler.Once(1.0 / 60)
		return outcomes.Failed > 0
	}, 2*time.Second, time.Millisecond)
	assert.Zero(t, outcomes.Loaded)
	assert.LessOrEqual(t, outcomes.Failed, outcomes.Requested)
	assert.Len(t, outcomes.LoadTimes, outcomes.Loaded+outcomes.Failed)
}
