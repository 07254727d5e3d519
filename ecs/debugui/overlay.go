package debugui

import (
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/spatial"
)

// GridStatsFunc reports spatial index occupancy for the performance panel.
type GridStatsFunc func() spatial.Stats

// Overlay bundles the inspector panels for one registry and the scheduler
// that drives it.
type Overlay struct {
	Registry  *ecs.Registry
	Scheduler *ecs.Scheduler
	GridStats GridStatsFunc

	browser   *EntityBrowser
	inspector *ComponentInspector
	kinds     *KindViewer
	perf      *PerformanceStats
	query     *QueryDebugger
	timer     *FrameTimer
}

func NewOverlay(registry *ecs.Registry, scheduler *ecs.Scheduler) *Overlay {
	return &Overlay{
		Registry:  registry,
		Scheduler: scheduler,
		browser:   NewEntityBrowser(100),
		inspector: NewComponentInspector(),
		kinds:     NewKindViewer(),
		perf:      NewPerformanceStats(120),
		query:     NewQueryDebugger(),
		timer:     NewFrameTimer(),
	}
}

// Install adds the overlay's panels to an ImguiSystem.
func (o *Overlay) Install(system *ImguiSystem) {
	system.Add(o.Render)
}

// Render draws every panel. Clicking a kind filters the entity browser and
// selecting an entity shows it in the inspector.
func (o *Overlay) Render() {
	dt := o.timer.GetDeltaTime()

	if kind, ok := o.kinds.Render(o.Registry); ok {
		o.browser.FilterKind(kind)
	}
	o.browser.Render(o.Registry)
	o.inspector.Render(o.Registry, o.browser.SelectedEntity())
	o.perf.Render(o.Registry, o.Scheduler, o.gridStats(), dt)
	o.query.Render(o.Registry)
}

func (o *Overlay) gridStats() *spatial.Stats {
	if o.GridStats == nil {
		return nil
	}
	stats := o.GridStats()
	return &stats
}
