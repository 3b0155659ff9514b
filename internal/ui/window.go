package ui

// Accelerator is a key binding checked after the active widget declines an
// event (spec §4.6 dispatch order: "dialog, then active widget ... then
// tab-level accelerators, then window-level accelerators").
type Accelerator func(KeyEvent) EventResult

// Window composes the fixed tab set, the dialog registry, and the
// tab/window-level accelerators into the single dispatch point the event
// loop calls on every input (spec §4.6, grounded on the per-feature
// window/*.rs files' shared dispatch shape).
type Window struct {
	Tabs             []*Tab
	activeTabIndex   int
	Dialogs          *DialogRegistry
	TabAccelerators  []Accelerator
	WindowAccelerators []Accelerator
}

func NewWindow(tabs []*Tab) *Window {
	return &Window{
		Tabs:    tabs,
		Dialogs: NewDialogRegistry(),
	}
}

func (w *Window) ActiveTab() *Tab {
	if len(w.Tabs) == 0 {
		return nil
	}
	return w.Tabs[w.activeTabIndex]
}

// SelectTabByIndex implements "the active tab is selected by number key"
// (spec §4.6).
func (w *Window) SelectTabByIndex(i int) {
	if i >= 0 && i < len(w.Tabs) {
		w.activeTabIndex = i
	}
}

func (w *Window) SelectNextTab() {
	if len(w.Tabs) > 0 {
		w.activeTabIndex = (w.activeTabIndex + 1) % len(w.Tabs)
	}
}

func (w *Window) SelectPrevTab() {
	if n := len(w.Tabs); n > 0 {
		w.activeTabIndex = (w.activeTabIndex + n - 1) % n
	}
}

// OnKey implements spec §4.6's dispatch order: the open dialog first, then
// the active tab's active widget, then tab-level accelerators, then
// window-level accelerators; the first non-Ignore result wins.
func (w *Window) OnKey(ev KeyEvent) WindowAction {
	if d, ok := w.Dialogs.Active(); ok {
		if ev.Name == "Esc" {
			w.Dialogs.Close()
			return WindowAction{Kind: ActionContinue}
		}
		r := d.Widget.OnKey(ev)
		if r.Kind != ResultIgnore {
			return ResolveToWindowAction(r, w)
		}
		return WindowAction{Kind: ActionContinue}
	}

	if tab := w.ActiveTab(); tab != nil {
		if active := tab.ActiveWidget(); active != nil {
			if r := active.OnKey(ev); r.Kind != ResultIgnore {
				return ResolveToWindowAction(r, w)
			}
		}
	}

	for _, acc := range w.TabAccelerators {
		if r := acc(ev); r.Kind != ResultIgnore {
			return ResolveToWindowAction(r, w)
		}
	}

	for _, acc := range w.WindowAccelerators {
		if r := acc(ev); r.Kind != ResultIgnore {
			return ResolveToWindowAction(r, w)
		}
	}

	return WindowAction{Kind: ActionContinue}
}

// OnMouse applies the same dialog-first dispatch order to mouse events.
func (w *Window) OnMouse(ev MouseEvent) WindowAction {
	if d, ok := w.Dialogs.Active(); ok {
		return ResolveToWindowAction(d.Widget.OnMouse(ev), w)
	}

	if tab := w.ActiveTab(); tab != nil {
		return ResolveToWindowAction(tab.OnMouse(ev), w)
	}

	return WindowAction{Kind: ActionContinue}
}

func (w *Window) Render(scr Screen) {
	if tab := w.ActiveTab(); tab != nil {
		tab.Render(scr)
	}
	if d, ok := w.Dialogs.Active(); ok {
		d.Widget.Render(scr, true, false)
	}
}
