// Package view builds the Config tab: a ConfigMap/Secret table over a YAML
// detail panel, selection-driven the same way the Network tab drives its
// description panel (spec §4.6 selection handlers, §4.5 YamlStreamer reused
// rather than re-implementing a one-off ConfigMap/Secret fetch path).
package view

import (
	"context"

	"github.com/kubetui/kubetui/internal/bus"
	configkube "github.com/kubetui/kubetui/internal/features/config/kube"
	yamlkube "github.com/kubetui/kubetui/internal/features/yaml/kube"
	"github.com/kubetui/kubetui/internal/kubetable"
	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// Tab composes the Config/Secret list and its YAML detail panel.
type Tab struct {
	Table *ui.TableWidget
	Body  *ui.TextWidget
	*ui.Tab

	sup *supervisor.Supervisor
}

// New builds the Config tab; selecting a row starts a YamlRequest for that
// object's kind (spec §4.2 YamlRequest, §4.6).
func New(sup *supervisor.Supervisor) *Tab {
	table := ui.NewTableWidget("config")
	body := ui.NewTextWidget("config-body")

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
	t.Tab = ui.NewTab("config-tab", "Config", []ui.Widget{table, body}, layout)
	return t
}

func (t *Tab) selectRow(row kubetable.Row) {
	t.Body.SetLines(nil)
	t.sup.StartYaml(context.Background(), supervisor.YamlRequest{
		Kind:      row.Metadata["kind"],
		Name:      row.Name,
		Namespace: row.Namespace,
	})
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	switch payload := msg.Kube.(type) {
	case configkube.Response:
		if payload.Err == nil {
			t.Table.SetTable(payload.Table)
		}
		return true
	case yamlkube.Response:
		if payload.Err == nil {
			t.Body.SetLines(payload.Lines)
		}
		return true
	}
	return false
}
