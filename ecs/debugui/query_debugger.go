package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
)

// QueryDebugger shows which entities hold every selected component.
type QueryDebugger struct {
	selectedComponentTypes map[string]bool
	componentTypes         []string
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{
		selectedComponentTypes: make(map[string]bool),
	}
}

func (qd *QueryDebugger) Render(reg *ecs.Registry) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if qd.componentTypes == nil {
		qd.componentTypes = reg.StoreNames()
		sort.Strings(qd.componentTypes)
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}

	for _, compType := range qd.componentTypes {
		selected := qd.selectedComponentTypes[compType]
		if imgui.Checkbox(compType, &selected) {
			qd.Select(compType, selected)
		}
	}

	imgui.Separator()

	selected := qd.Selected()
	if len(selected) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := MatchComponents(reg, selected)
	perKind := make(map[ecs.Kind]int)
	for _, e := range matching {
		perKind[e.Kind]++
	}

	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Kind Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryKindTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Kind")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, kind := range ecs.Kinds {
				count := perKind[kind]
				if count == 0 {
					continue
				}
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(kind.String())

				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) Select(component string, selected bool) {
	if selected {
		qd.selectedComponentTypes[component] = true
	} else {
		delete(qd.selectedComponentTypes, component)
	}
}

// Selected returns the selected component names, sorted.
func (qd *QueryDebugger) Selected() []string {
	names := make([]string, 0, len(qd.selectedComponentTypes))
	for name := range qd.selectedComponentTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchComponents returns the live entities holding every named component,
// ordered by id.
func MatchComponents(reg *ecs.Registry, components []string) []ecs.Entity {
	var matching []ecs.Entity
	for _, e := range reg.All() {
		if hasAll(reg.Components(e.Id), components) {
			matching = append(matching, e)
		}
	}
	return matching
}

func hasAll(have, required []string) bool {
	set := make(map[string]bool, len(have))
	for _, name := range have {
		set[name] = true
	}
	for _, name := range required {
		if !set[name] {
			return false
		}
	}
	return true
}
