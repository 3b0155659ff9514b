// Package view builds the Event tab: a single table fed directly by
// EventPoller's merged, Last-Seen-ordered rows (spec §4.6, §4.3).
package view

import (
	"github.com/kubetui/kubetui/internal/bus"
	eventkube "github.com/kubetui/kubetui/internal/features/event/kube"
	"github.com/kubetui/kubetui/internal/ui"
)

// Tab composes the Event table.
type Tab struct {
	Table *ui.TableWidget
	*ui.Tab
}

// New builds the Event tab.
func New() *Tab {
	table := ui.NewTableWidget("events")

	layout := ui.NewNestedWidgetLayout(ui.Vertical, []ui.NestedLayoutElement{
		{Constraint: ui.Pct(100), Element: ui.WidgetIndex(0)},
	})

	t := &Tab{Table: table}
	t.Tab = ui.NewTab("events-tab", "Events", []ui.Widget{table}, layout)
	return t
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	payload, ok := msg.Kube.(eventkube.Response)
	if !ok {
		return false
	}
	if payload.Err == nil {
		t.Table.SetTable(payload.Table)
	}
	return true
}
