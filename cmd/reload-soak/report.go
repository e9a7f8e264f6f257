package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/spritereload/asset"
)

type Report struct {
	// Configuration
	Duration    time.Duration
	Sprite      string
	ReloadEvery int
	Workers     int64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	LoadTime       Stats
	Reloads        int
	Requested      int
	Loaded         int
	Failed         int
	Assets         asset.Stats
	Entities       int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Discarded counts requests whose entity was replaced before the load settled.
func (r *Report) Discarded() int {
	return r.Requested - r.Loaded - r.Failed
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Sprite Reload Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Sprite:** {{.Sprite}}
- **Reload Every:** {{.ReloadEvery}} frames
- **Loader Workers:** {{.Workers}}

## Reloads
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Reloads:** {{.Reloads}}
- **Texture Requests:** {{.Requested}}
  - **Loaded:** {{.Loaded}}
  - **Failed:** {{.Failed}}
  - **Discarded or pending:** {{.Discarded}}
- **Live Handles:** {{.Assets.Loading}} loading, {{.Assets.Loaded}} loaded, {{.Assets.Failed}} failed
- **Live Entities:** {{.Entities}}

## Timing
- **Update Time (Frame):** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}
- **Load Time:** avg {{.LoadTime.Avg}}, min {{.LoadTime.Min}}, max {{.LoadTime.Max}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
