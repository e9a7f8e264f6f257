package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/spritereload/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Parent         ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// CollectEntities lists every live entity ordered by id. A non-empty filter keeps
// entities whose id or component names contain it, case-insensitively.
func CollectEntities(storage *ecs.Storage, filter string) []EntityInfo {
	filter = strings.ToLower(filter)
	entities := make([]EntityInfo, 0, storage.EntityCount())

	for _, archetype := range storage.Archetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}
		haystack := strings.ToLower(strings.Join(componentTypes, " "))

		for _, entityId := range archetype.Iter() {
			if filter != "" && !strings.Contains(entityId.String(), filter) && !strings.Contains(haystack, filter) {
				continue
			}
			parent, _ := storage.Parent(entityId)
			entities = append(entities, EntityInfo{
				ID:             entityId,
				Parent:         parent,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		a, b := entities[i].ID, entities[j].ID
		if a.Index() != b.Index() {
			return a.Index() < b.Index()
		}
		return a.Generation() < b.Generation()
	})
	return entities
}

// EntityBrowser is a window listing live entities. It is rebuilt every frame so
// respawned entities show up with their new ids immediately.
type EntityBrowser struct {
	selected           ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

// NewEntityBrowser shows at most maxEntitiesPerPage rows per page, and at least one.
func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{maxEntitiesPerPage: max(1, maxEntitiesPerPage)}
}

// PageCount returns how many pages n entities span.
func (eb *EntityBrowser) PageCount(n int) int {
	return max(1, (n+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage)
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	entities := CollectEntities(storage, eb.filterText)
	totalPages := eb.PageCount(len(entities))
	eb.currentPage = min(eb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Parent")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		start := eb.currentPage * eb.maxEntitiesPerPage
		end := min(start+eb.maxEntitiesPerPage, len(entities))
		for _, entity := range entities[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(entity.ID.String(), eb.selected == entity.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			if entity.Parent != 0 {
				imgui.Text(entity.Parent.String())
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if totalPages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(entities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(entities)))
	}

	imgui.End()
}

// Selected returns the entity last clicked in the table.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selected
}
