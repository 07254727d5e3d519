package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
	"github.com/plus3/ironrails/spatial"
)

type Report struct {
	// Configuration
	Level       int
	Cars        int
	Step        time.Duration
	MaxDuration time.Duration

	// Results
	Runs           []RunResult
	TotalTime      time.Duration
	Victories      int
	Defeats        int
	Unfinished     int
	AvgKills       float64
	AvgScrap       float64
	AvgDistance    float64
	TickTime       Stats
	Systems        []SystemSummary
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type RunResult struct {
	Id        string
	Seed      string
	Stats     sim.RunStats
	WallTime  time.Duration
	Scheduler *ecs.SchedulerStats
	Grid      spatial.Stats
}

type SystemSummary struct {
	Name string
	Avg  time.Duration
	Max  time.Duration
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

// Finalize aggregates the per-run results.
func (r *Report) Finalize() {
	if len(r.Runs) == 0 {
		return
	}

	systems := make(map[string]*SystemSummary)
	var order []string
	totals := make(map[string]time.Duration)
	counts := make(map[string]int64)

	for _, run := range r.Runs {
		switch run.Stats.Outcome {
		case sim.OutcomeVictory:
			r.Victories++
		case sim.OutcomeDefeat:
			r.Defeats++
		default:
			r.Unfinished++
		}
		r.AvgKills += float64(run.Stats.Kills)
		r.AvgScrap += run.Stats.ScrapCollected
		r.AvgDistance += run.Stats.Distance

		if run.Stats.Ticks > 0 {
			r.TickTime.Samples = append(r.TickTime.Samples, run.WallTime/time.Duration(run.Stats.Ticks))
		}
		if run.Scheduler == nil {
			continue
		}
		for _, sys := range run.Scheduler.Systems {
			summary, ok := systems[sys.Name]
			if !ok {
				summary = &SystemSummary{Name: sys.Name}
				systems[sys.Name] = summary
				order = append(order, sys.Name)
			}
			summary.Max = max(summary.Max, sys.MaxDuration)
			totals[sys.Name] += sys.TotalDuration
			counts[sys.Name] += sys.ExecutionCount
		}
	}

	n := float64(len(r.Runs))
	r.AvgKills /= n
	r.AvgScrap /= n
	r.AvgDistance /= n
	r.TickTime.Finalize()

	for _, name := range order {
		summary := systems[name]
		if counts[name] > 0 {
			summary.Avg = totals[name] / time.Duration(counts[name])
		}
		r.Systems = append(r.Systems, *summary)
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Convoy Simulation Report

## Configuration
- **Level:** {{.Level}}
- **Trailing Cars:** {{.Cars}}
- **Step:** {{.Step}}
- **Max Duration:** {{.MaxDuration}}

## Outcomes
- **Runs:** {{len .Runs}}
- **Victories:** {{.Victories}}
- **Defeats:** {{.Defeats}}
- **Unfinished:** {{.Unfinished}}
- **Avg Kills:** {{printf "%.1f" .AvgKills}}
- **Avg Scrap:** {{printf "%.1f" .AvgScrap}}
- **Avg Distance:** {{printf "%.0f" .AvgDistance}}

| Run | Seed | Outcome | Sim Time | Distance | Kills | Scrap | Cars Lost | Health | Peak Bucket |
|-----|------|---------|----------|----------|-------|-------|-----------|--------|-------------|
{{- range .Runs}}
| {{short .Id}} | {{.Seed}} | {{.Stats.Outcome}} | {{.Stats.Elapsed}} | {{printf "%.0f" .Stats.Distance}} | {{.Stats.Kills}} | {{printf "%.0f" .Stats.ScrapCollected}} | {{.Stats.CarsLost}} | {{printf "%.0f/%.0f" .Stats.Health .Stats.MaxHealth}} | {{.Grid.MaxBucketSize}} |
{{- end}}

## Performance Results
- **Total Time:** {{.TotalTime}}
- **Tick Time (avg per run):**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

| System | Avg | Max |
|--------|-----|-----|
{{- range .Systems}}
| {{.Name}} | {{.Avg}} | {{.Max}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"short": func(id string) string {
			if len(id) > 8 {
				return id[:8]
			}
			return id
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
