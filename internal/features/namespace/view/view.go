// Package view builds the single- and multi-namespace picker dialogs
// (spec §4.6 Dialogs, §4.2 SetNamespacesRequest).
package view

import (
	"context"

	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// SingleDialogID and MultiDialogID are the ids these dialogs register
// under in a Window's DialogRegistry.
const (
	SingleDialogID = "namespace-picker"
	MultiDialogID  = "namespace-multi-picker"
)

// NewSingle builds the single-namespace picker: choosing an entry replaces
// the active context's target namespaces with that one namespace.
func NewSingle(sup *supervisor.Supervisor, namespaces []string) ui.Dialog {
	widget := ui.NewSingleSelectWidget(SingleDialogID, namespaces)

	widget.OnChoose = func(name string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			sup.SetNamespaces([]string{name})
			return ui.Nop()
		})
	}

	return ui.Dialog{ID: SingleDialogID, Widget: widget}
}

// NewMulti builds the multi-namespace picker: confirming the selection
// with Enter replaces the active context's target namespaces with the
// chosen set (spec §4.2: "SetNamespaces ... replaces the active context's
// target namespaces").
func NewMulti(sup *supervisor.Supervisor, namespaces []string) ui.Dialog {
	widget := ui.NewMultipleSelectWidget(MultiDialogID, namespaces)

	widget.OnConfirm = func(chosen []string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			sup.SetNamespaces(chosen)
			return ui.Nop()
		})
	}

	return ui.Dialog{ID: MultiDialogID, Widget: widget}
}

// RefreshChoices re-lists the cluster's namespaces, for rebuilding either
// dialog after a context switch (the choice set is fixed at dialog
// construction time since SingleSelectWidget/MultipleSelectWidget take
// their item list up front; callers should rebuild and re-register the
// dialog on SetContextResponse).
func RefreshChoices(sup *supervisor.Supervisor) []string {
	names, err := sup.ListNamespaces(context.Background())
	if err != nil {
		return nil
	}
	return names
}
