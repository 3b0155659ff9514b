package ui

// Tab groups a NestedWidgetLayout with the widgets it arranges and tracks
// which widget is active/hovered (spec §4.6 Tabs, grounded on the
// original source's ui/tab.rs Tab).
type Tab struct {
	id                  string
	title               string
	layout              *NestedWidgetLayout
	widgets             []Widget
	activatableIndices  []int
	activeIndex         int
	mouseOverIndex      *int
}

func NewTab(id, title string, widgets []Widget, layout *NestedWidgetLayout) *Tab {
	var activatable []int
	for i, w := range widgets {
		if w.CanActivate() {
			activatable = append(activatable, i)
		}
	}
	return &Tab{
		id:                 id,
		title:              title,
		layout:             layout,
		widgets:            widgets,
		activatableIndices: activatable,
	}
}

func (t *Tab) ID() string    { return t.id }
func (t *Tab) Title() string { return t.title }

func (t *Tab) UpdateChunk(chunk Rect) {
	t.layout.UpdateChunk(chunk, t.widgets)
}

func (t *Tab) ActiveWidget() Widget {
	if len(t.activatableIndices) == 0 {
		return nil
	}
	return t.widgets[t.activatableIndices[t.activeIndex]]
}

func (t *Tab) ActiveWidgetID() string {
	if w := t.ActiveWidget(); w != nil {
		return w.ID()
	}
	return ""
}

// ActivateNextWidget/ActivatePrevWidget cycle focus among activatable
// widgets (spec §4.6: "selected by number key or Tab/BackTab").
func (t *Tab) ActivateNextWidget() {
	t.ClearMouseOver()
	if n := len(t.activatableIndices); n > 0 {
		t.activeIndex = (t.activeIndex + 1) % n
	}
}

func (t *Tab) ActivatePrevWidget() {
	t.ClearMouseOver()
	if n := len(t.activatableIndices); n > 0 {
		t.activeIndex = (t.activeIndex + n - 1) % n
	}
}

func (t *Tab) ActivateWidgetByID(id string) {
	for i, idx := range t.activatableIndices {
		if t.widgets[idx].ID() == id {
			t.ClearMouseOver()
			t.activeIndex = i
			return
		}
	}
}

func (t *Tab) ClearMouseOver() { t.mouseOverIndex = nil }

func (t *Tab) FindWidget(id string) Widget {
	for _, w := range t.widgets {
		if w.ID() == id {
			return w
		}
	}
	return nil
}

// OnMouse implements spec §4.6's hit-testing dispatch: the widget under
// the cursor becomes active on left-click and is tracked as hovered on
// move; the event is then passed to the active widget.
func (t *Tab) OnMouse(ev MouseEvent) EventResult {
	activeID := t.ActiveWidgetID()

	hitIndex := -1
	for i, w := range t.widgets {
		if w.Chunk().ContainsPoint(ev.X, ev.Y) {
			hitIndex = i
			break
		}
	}
	if hitIndex < 0 {
		return Ignore()
	}

	switch ev.Kind {
	case MouseDown:
		if ev.Button == MouseButtonLeft && t.widgets[hitIndex].ID() != activeID {
			t.ActivateWidgetByID(t.widgets[hitIndex].ID())
		}
	case MouseMoved:
		idx := hitIndex
		t.mouseOverIndex = &idx
	}

	if active := t.ActiveWidget(); active != nil {
		return active.OnMouse(ev)
	}
	return Ignore()
}

func (t *Tab) Render(scr Screen) {
	for i, w := range t.widgets {
		isActive := len(t.activatableIndices) > 0 && t.widgets[t.activatableIndices[t.activeIndex]].ID() == w.ID()
		isMouseOver := t.mouseOverIndex != nil && *t.mouseOverIndex == i
		w.Render(scr, isActive, isMouseOver)
	}
}
