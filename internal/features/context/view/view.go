// Package view builds the context-picker dialog (spec §4.6 Dialogs, §4.2
// SetContextRequest): a SingleSelectWidget over the kubeconfig's context
// names that, on Enter, asks the supervisor to switch the active context.
package view

import (
	"context"

	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// DialogID is the id this dialog registers under in a Window's
// DialogRegistry.
const DialogID = "context-picker"

// New builds the context-picker Dialog. Choosing an entry closes the
// dialog and switches context, carrying the previous namespace selection
// over (spec §4.2: "SetContext ... KeepNamespace carries the previous
// context's target-namespace list").
func New(sup *supervisor.Supervisor) ui.Dialog {
	names := sup.ContextNames()
	widget := ui.NewSingleSelectWidget(DialogID, names)

	widget.OnChoose = func(name string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			sup.SetContext(context.Background(), name, true)
			return ui.Nop()
		})
	}

	return ui.Dialog{ID: DialogID, Widget: widget}
}
