package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
)

type EntityInfo struct {
	Id             ecs.EntityId
	Kind           ecs.Kind
	ComponentTypes []string
	ComponentCount int
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastLen       int
	lastNextId    ecs.EntityId
	sortColumn    int
	sortAscending bool
}

type EntityBrowser struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterKind         *ecs.Kind
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(reg *ecs.Registry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(reg)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = nil
		eb.currentPage = 0
	}
	if eb.filterKind != nil {
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("kind: %s", *eb.filterKind))
	}

	filteredEntities := eb.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
			filteredEntities = eb.Filtered()
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.Id
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.Id), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.Id
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Kind.String())

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		eb.currentPage = min(eb.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Refresh rebuilds the cached entity list when entities were created or
// removed since the last call.
func (eb *EntityBrowser) Refresh(reg *ecs.Registry) {
	eb.rebuildCacheIfNeeded(reg)
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(reg *ecs.Registry) {
	nextId := reg.Stats().NextId
	if eb.cache.lastLen != reg.Len() || eb.cache.lastNextId != nextId {
		eb.cache.entities = nil
		eb.cache.lastLen = reg.Len()
		eb.cache.lastNextId = nextId
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(reg)
	}
}

func (eb *EntityBrowser) rebuildCache(reg *ecs.Registry) {
	eb.cache.entities = make([]EntityInfo, 0, reg.Len())

	for _, e := range reg.All() {
		componentTypes := reg.Components(e.Id)
		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			Id:             e.Id,
			Kind:           e.Kind,
			ComponentTypes: componentTypes,
			ComponentCount: len(componentTypes),
		})
	}

	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		if !eb.cache.sortAscending {
			a, b = b, a
		}

		switch eb.cache.sortColumn {
		case 1:
			return a.Kind < b.Kind
		case 2:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.Id < b.Id
		}
	})
}

// SetFilter sets the search text. Entities match when their id, kind or
// any component name contains it, case-insensitively.
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// FilterKind restricts the list to one kind.
func (eb *EntityBrowser) FilterKind(kind ecs.Kind) {
	eb.filterKind = &kind
	eb.currentPage = 0
}

// Filtered returns the cached entities passing the current filters.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" && eb.filterKind == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterKind != nil && entity.Kind != *eb.filterKind {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.Id)
			kindStr := entity.Kind.String()
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(kindStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) SelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}
