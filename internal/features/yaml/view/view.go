// Package view builds the Yaml tab: kind and namespace/name input forms
// driving YamlStreamer, rendered into a scrolling text body (spec §4.2
// YamlRequest, §4.5 YamlStreamer, §4.6). The dedicated YAML kind/name
// picker dialogs spec §4.6 names select from the discovered API resource
// set and pre-fill these same fields; this tab works standalone off typed
// input so it never depends on a dialog being open.
package view

import (
	"context"
	"strings"

	"github.com/kubetui/kubetui/internal/bus"
	apikube "github.com/kubetui/kubetui/internal/features/api/kube"
	yamlkube "github.com/kubetui/kubetui/internal/features/yaml/kube"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// KindPickerDialogID and NamePickerDialogID are the ids the YAML kind/name
// picker dialogs register under in a Window's DialogRegistry (spec §4.6
// Dialogs).
const (
	KindPickerDialogID = "yaml-kind-picker"
	NamePickerDialogID = "yaml-name-picker"
)

// Tab composes the kind/name inputs and the YAML body.
type Tab struct {
	Kind *ui.InputFormWidget
	Name *ui.InputFormWidget
	Body *ui.TextWidget
	*ui.Tab

	kindPicker *ui.SingleSelectWidget

	sup            *supervisor.Supervisor
	kind           string
	discoveredKind []string
}

// New builds the Yaml tab; submitting Kind stages the object kind,
// submitting Name (as "namespace/name", or bare "name" for cluster-scoped
// objects) starts the YamlRequest.
func New(sup *supervisor.Supervisor) *Tab {
	kind := ui.NewInputFormWidget("yaml-kind")
	name := ui.NewInputFormWidget("yaml-name")
	body := ui.NewTextWidget("yaml-body")

	t := &Tab{Kind: kind, Name: name, Body: body, sup: sup}

	kind.OnSubmit = func(raw string) ui.EventResult {
		return ui.CallbackResult(func(*ui.Window) ui.EventResult {
			t.kind = strings.TrimSpace(raw)
			return ui.Nop()
		})
	}
	name.OnSubmit = func(raw string) ui.EventResult {
		return ui.CallbackResult(func(*ui.Window) ui.EventResult {
			t.submitName(raw)
			return ui.Nop()
		})
	}

	t.kindPicker = ui.NewSingleSelectWidget(KindPickerDialogID, nil)
	t.kindPicker.OnChoose = func(chosen string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			t.kind = chosen
			t.Kind.SetValue(chosen)
			return ui.Nop()
		})
	}

	layout := ui.NewNestedWidgetLayout(ui.Vertical, []ui.NestedLayoutElement{
		{Constraint: ui.Len(3), Element: ui.WidgetIndex(0)},
		{Constraint: ui.Len(3), Element: ui.WidgetIndex(1)},
		{Constraint: ui.Pct(100), Element: ui.WidgetIndex(2)},
	})
	t.Tab = ui.NewTab("yaml-tab", "Yaml", []ui.Widget{kind, name, body}, layout)
	return t
}

func (t *Tab) submitName(raw string) {
	if t.kind == "" {
		return
	}
	namespace, name := splitNamespacedName(raw)
	t.Body.SetLines(nil)
	t.sup.StartYaml(context.Background(), supervisor.YamlRequest{
		Kind:      t.kind,
		Name:      name,
		Namespace: namespace,
	})
}

// splitNamespacedName parses "namespace/name", falling back to a
// cluster-scoped bare name when there is no slash.
func splitNamespacedName(raw string) (namespace, name string) {
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}

// KindPickerDialog returns the YAML kind picker as a ui.Dialog, for
// registration with a Window's DialogRegistry (spec §4.6).
func (t *Tab) KindPickerDialog() ui.Dialog {
	return ui.Dialog{ID: KindPickerDialogID, Widget: t.kindPicker}
}

// NamePickerDialog surfaces the tab's own Name field as a modal dialog
// (spec §4.6 "YAML name picker"): picking a kind first, then typing the
// namespace/name into the same InputForm either inline or via this dialog,
// both submit through the identical OnSubmit path.
func (t *Tab) NamePickerDialog() ui.Dialog {
	return ui.Dialog{ID: NamePickerDialogID, Widget: t.Name}
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	switch payload := msg.Kube.(type) {
	case yamlkube.Response:
		if payload.Err == nil {
			t.Body.SetLines(payload.Lines)
		}
		return true
	case apikube.Response:
		if payload.Err == nil {
			t.discoveredKind = kindsOf(payload.Resources)
			t.kindPicker.SetItems(t.discoveredKind)
		}
		return true
	}
	return false
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
