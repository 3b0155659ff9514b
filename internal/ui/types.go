// Package ui implements the widget capability set, event dispatch, and
// layout tree from spec §4.6, keeping actual glyph painting behind the
// Screen boundary (spec §1's explicit "byte-level rendering of styled
// glyphs" exclusion). Grounded on the original source's ui/event.rs
// (EventResult/Callback), ui/tab.rs (Tab, NestedWidgetLayout), and
// window/*.rs (per-feature Window composition).
package ui

import "github.com/kubetui/kubetui/internal/bus"

// Rect is a terminal cell rectangle; the unit NestedWidgetLayout splits
// and every widget receives via UpdateChunk.
type Rect struct {
	X, Y, Width, Height int
}

// ContainsPoint reports whether (x,y) falls inside r, used by mouse-event
// hit testing (spec §4.6 Tab.on_mouse_event).
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// KeyEvent/MouseEvent/FocusGained/FocusLost are the Input payloads carried
// by bus.Message's KindUserInput (spec §4.1).
type KeyEvent struct {
	Rune rune
	Name string // non-rune keys: "Enter", "Esc", "Tab", "BackTab", "Up", "Down", etc.
	Ctrl bool
}

type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
)

type MouseEventKind int

const (
	MouseDown MouseEventKind = iota
	MouseUp
	MouseMoved
	MouseScrollUp
	MouseScrollDown
)

type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Kind   MouseEventKind
}

// EventResultKind is the sum-type tag for EventResult (spec §4.6:
// "EventResult ∈ {Nop, Ignore, Callback(fn), WindowAction(...)}"). Go has
// no native sum type, so EventResult is a tag plus the field that tag
// selects, the same shape bus.Message uses for its own Kind/payload pair.
type EventResultKind int

const (
	ResultNop EventResultKind = iota
	ResultIgnore
	ResultCallback
	ResultWindowAction
)

// EventResult is returned by every OnKey/OnMouse call.
type EventResult struct {
	Kind     EventResultKind
	Callback func(*Window) EventResult
	Action   WindowAction
}

func Nop() EventResult    { return EventResult{Kind: ResultNop} }
func Ignore() EventResult { return EventResult{Kind: ResultIgnore} }

func CallbackResult(fn func(*Window) EventResult) EventResult {
	return EventResult{Kind: ResultCallback, Callback: fn}
}

func WindowActionResult(a WindowAction) EventResult {
	return EventResult{Kind: ResultWindowAction, Action: a}
}

// exec runs a Callback result once, per spec §4.6's "Callback is
// re-evaluated until a non-callback result is produced."
func (r EventResult) exec(w *Window) EventResult {
	if r.Kind == ResultCallback && r.Callback != nil {
		return r.Callback(w)
	}
	return Ignore()
}

// ResolveToWindowAction repeatedly executes Callback results until a
// WindowAction (or a terminal Nop/Ignore) is produced, mirroring the
// original's exec_to_window_event.
func ResolveToWindowAction(r EventResult, w *Window) WindowAction {
	for {
		switch r.Kind {
		case ResultNop, ResultIgnore:
			return WindowAction{Kind: ActionContinue}
		case ResultWindowAction:
			return r.Action
		case ResultCallback:
			r = r.exec(w)
		default:
			return WindowAction{Kind: ActionContinue}
		}
	}
}

// WindowActionKind is WindowAction's sum-type tag (spec §4.6:
// "WindowAction(Continue|CloseWindow|UpdateContents(Message))").
type WindowActionKind int

const (
	ActionContinue WindowActionKind = iota
	ActionCloseWindow
	ActionUpdateContents
)

// WindowAction carries a bus.Message when its Kind is ActionUpdateContents
// (the message that should be applied to widget state).
type WindowAction struct {
	Kind     WindowActionKind
	Contents bus.Message
}

// Frame is the stateless per-frame render payload a widget hands to
// Screen: title text (" + id " for the active widget, " id " otherwise; no
// bold/gray styling is applied, and a hovered title reads the same as an
// inactive one), the body rows, and an optional cursor position. Screen paints it literally; no widget touches terminal bytes
// directly.
type Frame struct {
	Rect      Rect
	Title     string
	Active    bool
	MouseOver bool
	Lines     []string
	Cursor    *Cursor
}

type Cursor struct {
	X, Y int
}

// Screen is the external rendering collaborator (spec §1: "the byte-level
// rendering of styled glyphs" is out of scope for this module). A Screen
// implementation owns cursor positioning, double-width glyph handling, and
// SGR-to-terminal byte emission; widgets only ever produce Frame values.
type Screen interface {
	Size() (width, height int)
	Draw(f Frame)
}

// Widget is the capability set every UI element exposes (spec §4.6).
type Widget interface {
	Chunk() Rect
	UpdateChunk(Rect)
	OnKey(KeyEvent) EventResult
	OnMouse(MouseEvent) EventResult
	Render(scr Screen, isActive, isMouseOver bool)
	ID() string
	CanActivate() bool
}
