package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/spatial"
)

type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// Render draws entity counts, frame timing and per-system timings, plus
// the scheduler's clock controls. grid may be nil.
func (ps *PerformanceStats) Render(reg *ecs.Registry, scheduler *ecs.Scheduler, grid *spatial.Stats, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := reg.Stats()
	sched := scheduler.GetStats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Next Id: %d", stats.NextId))
	imgui.Text(fmt.Sprintf("Sim Time: %s (%d ticks)", sched.SimTime.Truncate(time.Millisecond), sched.Ticks))

	paused := scheduler.Paused()
	if imgui.Checkbox("Paused", &paused) {
		scheduler.SetPaused(paused)
	}
	imgui.SameLine()
	scale := float32(scheduler.TimeScale())
	imgui.SetNextItemWidth(100)
	if imgui.InputFloat("Time Scale", &scale) {
		scheduler.SetTimeScale(float64(scale))
	}

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableSetupColumn("Last")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Store Details") {
		for _, store := range stats.Stores {
			imgui.BulletText(fmt.Sprintf("%s: %d", store.Name, store.Count))
		}
		imgui.TreePop()
	}

	if grid != nil && imgui.TreeNodeStr("Spatial Grid") {
		imgui.BulletText(fmt.Sprintf("Cell Size: %.0f", grid.CellSize))
		imgui.BulletText(fmt.Sprintf("Tracked: %d", grid.Tracked))
		imgui.BulletText(fmt.Sprintf("Cells: %d", grid.Cells))
		imgui.BulletText(fmt.Sprintf("Max Bucket: %d", grid.MaxBucketSize))
		imgui.BulletText(fmt.Sprintf("Avg Bucket: %.2f", grid.AvgBucketSize))
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
