// Package view builds the API tab: a table of the cluster's discovered
// ApiResource set, refreshed only when ApiPoller observes a change
// (spec §4.3 ApiPoller, §4.6).
package view

import (
	"github.com/kubetui/kubetui/internal/bus"
	apikube "github.com/kubetui/kubetui/internal/features/api/kube"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/kubetable"
	"github.com/kubetui/kubetui/internal/ui"
)

var header = []string{"GROUP", "VERSION", "KIND", "NAME", "NAMESPACED"}

// ChecklistDialogID is the id the API-resources checklist dialog registers
// under in a Window's DialogRegistry (spec §4.6 Dialogs).
const ChecklistDialogID = "api-resources"

// Tab composes the API-resource table and the kind checklist that narrows
// which of it are shown.
type Tab struct {
	Table     *ui.TableWidget
	Checklist *ui.CheckListWidget
	*ui.Tab

	resources []kubestate.ApiResource
	visible   map[string]bool
}

// New builds the API tab.
func New() *Tab {
	table := ui.NewTableWidget("api-resources")
	checklist := ui.NewCheckListWidget(ChecklistDialogID, nil)

	layout := ui.NewNestedWidgetLayout(ui.Vertical, []ui.NestedLayoutElement{
		{Constraint: ui.Pct(100), Element: ui.WidgetIndex(0)},
	})

	t := &Tab{Table: table, Checklist: checklist}
	t.Tab = ui.NewTab("api-tab", "API", []ui.Widget{table}, layout)

	checklist.OnConfirm = func(chosen []string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			t.visible = kindSet(chosen)
			t.render()
			return ui.Nop()
		})
	}

	return t
}

// ChecklistDialog returns the API-resources checklist as a ui.Dialog, for
// registration with a Window's DialogRegistry.
func (t *Tab) ChecklistDialog() ui.Dialog {
	return ui.Dialog{ID: ChecklistDialogID, Widget: t.Checklist}
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	payload, ok := msg.Kube.(apikube.Response)
	if !ok {
		return false
	}
	if payload.Err != nil {
		return true
	}
	t.resources = payload.Resources
	t.Checklist.SetItems(kindsOf(payload.Resources))
	t.render()
	return true
}

func (t *Tab) render() {
	resources := t.resources
	if len(t.visible) > 0 {
		filtered := make([]kubestate.ApiResource, 0, len(resources))
		for _, r := range resources {
			if t.visible[r.Kind] {
				filtered = append(filtered, r)
			}
		}
		resources = filtered
	}
	tbl, err := kubetable.New(header, rowsFor(resources))
	if err != nil {
		return
	}
	t.Table.SetTable(tbl)
}

func kindsOf(resources []kubestate.ApiResource) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range resources {
		if !seen[r.Kind] {
			seen[r.Kind] = true
			out = append(out, r.Kind)
		}
	}
	return out
}

func kindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func rowsFor(resources []kubestate.ApiResource) []kubetable.Row {
	rows := make([]kubetable.Row, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, kubetable.Row{
			Cells:    []string{r.Group, r.Version, r.Kind, r.Name, namespacedCell(r.Namespaced)},
			Name:     r.Name,
			Metadata: map[string]string{"kind": r.Kind},
		})
	}
	return rows
}

func namespacedCell(namespaced bool) string {
	if namespaced {
		return "true"
	}
	return "false"
}
