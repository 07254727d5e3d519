package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
)

type KindInfo struct {
	Kind        ecs.Kind
	EntityCount int
}

// KindViewer lists entity counts per kind. Selecting a row reports the
// kind so the entity browser can filter on it.
type KindViewer struct {
	kinds         []KindInfo
	selectedKind  *ecs.Kind
	sortColumn    int
	sortAscending bool
}

func NewKindViewer() *KindViewer {
	return &KindViewer{
		sortColumn:    1,
		sortAscending: false,
	}
}

// Render draws the panel and returns the kind clicked this frame, if any.
func (kv *KindViewer) Render(reg *ecs.Registry) (ecs.Kind, bool) {
	if !imgui.BeginV("Kind Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return 0, false
	}

	kv.Refresh(reg)

	maxEntityCount := 0
	for _, info := range kv.kinds {
		maxEntityCount = max(maxEntityCount, info.EntityCount)
	}

	var clicked ecs.Kind
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("KindTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			kv.sortColumn = int(spec.ColumnIndex())
			kv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			kv.sortKinds()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, info := range kv.kinds {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := kv.selectedKind != nil && *kv.selectedKind == info.Kind
			if imgui.SelectableBoolV(info.Kind.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				kind := info.Kind
				kv.selectedKind = &kind
				clicked, ok = kind, true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(info.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked, ok
}

// Refresh reloads the per-kind counts.
func (kv *KindViewer) Refresh(reg *ecs.Registry) {
	kv.kinds = kv.kinds[:0]
	for _, kind := range ecs.Kinds {
		kv.kinds = append(kv.kinds, KindInfo{Kind: kind, EntityCount: reg.CountKind(kind)})
	}
	kv.sortKinds()
}

// Kinds returns the rows in display order.
func (kv *KindViewer) Kinds() []KindInfo {
	return kv.kinds
}

func (kv *KindViewer) sortKinds() {
	sort.SliceStable(kv.kinds, func(i, j int) bool {
		a, b := kv.kinds[i], kv.kinds[j]
		if !kv.sortAscending {
			a, b = b, a
		}

		if kv.sortColumn == 0 {
			return a.Kind < b.Kind
		}
		return a.EntityCount < b.EntityCount
	})
}
