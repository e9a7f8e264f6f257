package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/spritereload/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)
	assert.Zero(t, stats.SingletonCount)

	storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 2})
	doomed := storage.Spawn(Marker{})
	storage.Spawn(Name{Value: "survivor"})
	storage.Delete(doomed)

	storage.AddSingleton(Score(3))
	storage.AddSingleton(Health{Current: 1, Max: 1})

	stats = storage.CollectStats()
	assert.Equal(t, 3, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Health", "ecs_test.Score"}, stats.SingletonTypes)

	counts := make(map[int]int)
	for i, arch := range stats.ArchetypeBreakdown {
		if i > 0 {
			assert.Less(t, stats.ArchetypeBreakdown[i-1].ID, arch.ID, "breakdown is ordered by id")
		}
		counts[len(arch.ComponentTypes)] += arch.EntityCount
	}
	assert.Equal(t, map[int]int{2: 2, 1: 1}, counts)
}

type sleepySystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *sleepySystem) Execute(frame *ecs.UpdateFrame) {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	stats := scheduler.GetStats()
	assert.Zero(t, stats.SystemCount)
	assert.Zero(t, stats.TotalExecutions)

	startup := &sleepySystem{}
	sys1 := &sleepySystem{sleepDur: time.Millisecond}
	sys2 := &sleepySystem{sleepDur: 2 * time.Millisecond}
	scheduler.RegisterStartup(startup)
	scheduler.Register(sys1)
	scheduler.Register(sys2)

	require.Equal(t, 2, scheduler.GetStats().SystemCount, "startup systems are not reported")

	for range 3 {
		scheduler.Once(0.016)
	}

	stats = scheduler.GetStats()
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)

	for _, sysStats := range stats.Systems {
		assert.Equal(t, "sleepySystem", sysStats.Name)
		assert.Equal(t, int64(3), sysStats.ExecutionCount)
		assert.NotZero(t, sysStats.MinDuration)
		assert.NotZero(t, sysStats.LastDuration)
		assert.NotZero(t, sysStats.TotalDuration)
		assert.LessOrEqual(t, sysStats.MinDuration, sysStats.AvgDuration)
		assert.LessOrEqual(t, sysStats.AvgDuration, sysStats.MaxDuration)
	}

	assert.Equal(t, 1, startup.executeCount)
	assert.Equal(t, 3, sys1.executeCount)
	assert.Equal(t, 3, sys2.executeCount)
	assert.Equal(t, uint64(3), scheduler.Tick())
}
