// Package view builds the Network tab: the merged Ingress/Service/Pod/
// NetworkPolicy/Gateway/HTTPRoute table over a description panel (spec
// §4.3, §4.5, §4.6). The panel describes Gateway and HTTPRoute rows together
// with their related resources; for any other row the description streamer
// returns an error, which Update drops, so the panel stays empty.
package view

import (
	"context"

	"github.com/kubetui/kubetui/internal/bus"
	networkkube "github.com/kubetui/kubetui/internal/features/network/kube"
	"github.com/kubetui/kubetui/internal/kubetable"
	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// Tab composes the Network list and its description panel.
type Tab struct {
	Table *ui.TableWidget
	Body  *ui.TextWidget
	*ui.Tab

	sup *supervisor.Supervisor
}

// New builds the Network tab; selecting a row starts a
// NetworkDescriptionRequest for that object's kind (spec §4.2, §4.5).
func New(sup *supervisor.Supervisor) *Tab {
	table := ui.NewTableWidget("network")
	body := ui.NewTextWidget("network-body")

	t := &Tab{Table: table, Body: body, sup: sup}

	table.OnSelect = func(row kubetable.Row) ui.EventResult {
		return ui.CallbackResult(func(*ui.Window) ui.EventResult {
			t.selectRow(row)
			return ui.Nop()
		})
	}

	layout := ui.NewNestedWidgetLayout(ui.Horizontal, []ui.NestedLayoutElement{
		{Constraint: ui.Pct(50), Element: ui.WidgetIndex(0)},
		{Constraint: ui.Pct(50), Element: ui.WidgetIndex(1)},
	})
	t.Tab = ui.NewTab("network-tab", "Network", []ui.Widget{table, body}, layout)
	return t
}

func (t *Tab) selectRow(row kubetable.Row) {
	t.Body.SetLines(nil)
	t.sup.StartNetworkDescription(context.Background(), supervisor.NetworkDescriptionRequest{
		Kind:      row.Metadata["kind"],
		Name:      row.Name,
		Namespace: row.Namespace,
	})
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	switch payload := msg.Kube.(type) {
	case networkkube.Response:
		if payload.Err == nil {
			t.Table.SetTable(payload.Table)
		}
		return true
	case networkkube.DescriptionResponse:
		if payload.Err == nil {
			t.Body.SetLines(payload.Lines)
		}
		return true
	}
	return false
}
