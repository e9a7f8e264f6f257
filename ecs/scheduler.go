package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats summarizes update-system timings. Startup systems are not counted.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds the timings of one update system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// queryExecutor is implemented by every Query[T].
type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []queryExecutor
	stats   SystemStats
}

func (rs *registeredSystem) run(frame *UpdateFrame) time.Duration {
	start := time.Now()
	for _, q := range rs.queries {
		q.Execute()
	}
	rs.system.Execute(frame)
	return time.Since(start)
}

func (rs *registeredSystem) record(d time.Duration) {
	st := &rs.stats
	if st.ExecutionCount == 0 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.ExecutionCount++
	st.LastDuration = d
	st.TotalDuration += d
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

// Scheduler runs startup systems once and update systems every frame, in
// registration order, flushing the frame's Commands after the last system.
type Scheduler struct {
	storage *Storage
	startup []*registeredSystem
	systems []*registeredSystem
	started bool
	tick    uint64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds an update system and binds its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, s.bind(system))
}

// RegisterStartup adds a system that runs exactly once, before the first update.
// Commands queued by startup systems are flushed before any update system runs.
func (s *Scheduler) RegisterStartup(system System) {
	s.startup = append(s.startup, s.bind(system))
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (s *Scheduler) bind(system System) *registeredSystem {
	rs := &registeredSystem{
		system: system,
		stats:  SystemStats{Name: systemName(system)},
	}

	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return rs
	}

	storage := reflect.ValueOf(s.storage)
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		name := field.Type().Name()
		if !strings.HasPrefix(name, "Query[") && !strings.HasPrefix(name, "Singleton[") {
			continue
		}

		init := field.Addr().MethodByName("Init")
		if !init.IsValid() {
			panic("Init method not found on field " + v.Type().Field(i).Name)
		}
		init.Call([]reflect.Value{storage})

		if q, ok := field.Addr().Interface().(queryExecutor); ok {
			rs.queries = append(rs.queries, q)
		}
	}
	return rs
}

func (s *Scheduler) runStartup(dt float64) {
	s.started = true
	if len(s.startup) == 0 {
		return
	}

	frame := newUpdateFrame(dt, s.tick, s.storage)
	for _, rs := range s.startup {
		rs.run(frame)
	}
	frame.Commands.Flush(s.storage)
}

// Once executes all registered systems once with the given delta time.
// Startup systems run first on the very first call.
func (s *Scheduler) Once(dt float64) {
	if !s.started {
		s.runStartup(dt)
	}

	s.tick++
	frame := newUpdateFrame(dt, s.tick, s.storage)
	for _, rs := range s.systems {
		rs.record(rs.run(frame))
	}
	frame.Commands.Flush(s.storage)
}

// Tick returns the number of update frames executed so far.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Once(dt)
		}
	}
}

// GetStats returns a snapshot of update-system timings.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		stats.Systems[i] = rs.stats
		stats.TotalExecutions += rs.stats.ExecutionCount
	}
	return stats
}
