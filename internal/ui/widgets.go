// Concrete Widget implementations backing the Table/Text/InputForm/
// SingleSelect/MultipleSelect/CheckList variants spec §4.6 names.
// Grounded on the original source's ui/widget/table, ui/widget/text, and
// ui/widget/multiple_select modules, flattened from their cursor/filter/
// scroll submodules into one field set per widget since this module's
// Screen boundary (not these widgets) owns the actual paint.
package ui

import (
	"strings"

	"github.com/kubetui/kubetui/internal/kubetable"
)

// TableWidget renders a kubetable.Table with a cursor row and fires
// OnSelect when the cursor moves to a new row (spec §4.6 "Table.on_select
// fires when the cursor row changes").
type TableWidget struct {
	id       string
	chunk    Rect
	table    kubetable.Table
	cursor   int
	OnSelect func(kubetable.Row) EventResult
}

func NewTableWidget(id string) *TableWidget { return &TableWidget{id: id} }

func (t *TableWidget) SetTable(tbl kubetable.Table) {
	t.table = tbl
	if t.cursor >= len(tbl.Rows) {
		t.cursor = max(0, len(tbl.Rows)-1)
	}
}

func (t *TableWidget) ID() string         { return t.id }
func (t *TableWidget) CanActivate() bool  { return true }
func (t *TableWidget) Chunk() Rect        { return t.chunk }
func (t *TableWidget) UpdateChunk(r Rect) { t.chunk = r }

func (t *TableWidget) OnKey(ev KeyEvent) EventResult {
	switch ev.Name {
	case "Down":
		return t.moveCursor(1)
	case "Up":
		return t.moveCursor(-1)
	}
	return Ignore()
}

func (t *TableWidget) moveCursor(delta int) EventResult {
	if len(t.table.Rows) == 0 {
		return Ignore()
	}
	next := t.cursor + delta
	if next < 0 || next >= len(t.table.Rows) {
		return Ignore()
	}
	t.cursor = next
	if t.OnSelect == nil {
		return Nop()
	}
	row := t.table.Rows[t.cursor]
	return CallbackResult(func(*Window) EventResult { return t.OnSelect(row) })
}

func (t *TableWidget) OnMouse(ev MouseEvent) EventResult { return Ignore() }

func (t *TableWidget) Render(scr Screen, isActive, isMouseOver bool) {
	lines := make([]string, 0, len(t.table.Rows)+1)
	lines = append(lines, strings.Join(t.table.Header, "\t"))
	for i, row := range t.table.Rows {
		prefix := "  "
		if i == t.cursor {
			prefix = "> "
		}
		lines = append(lines, prefix+strings.Join(row.Cells, "\t"))
	}
	scr.Draw(Frame{Rect: t.chunk, Title: title(t.id, isActive, isMouseOver), Active: isActive, MouseOver: isMouseOver, Lines: lines})
}

// TextWidget scrolls a static list of lines (spec §4.6 Text), backing the
// YAML tab and log view.
type TextWidget struct {
	id     string
	chunk  Rect
	lines  []string
	scroll int
}

func NewTextWidget(id string) *TextWidget { return &TextWidget{id: id} }

func (t *TextWidget) SetLines(lines []string) { t.lines = lines }

func (t *TextWidget) ID() string         { return t.id }
func (t *TextWidget) CanActivate() bool  { return true }
func (t *TextWidget) Chunk() Rect        { return t.chunk }
func (t *TextWidget) UpdateChunk(r Rect) { t.chunk = r }

func (t *TextWidget) OnKey(ev KeyEvent) EventResult {
	switch ev.Name {
	case "Down":
		return t.scrollBy(1)
	case "Up":
		return t.scrollBy(-1)
	case "PageDown":
		return t.scrollBy(t.chunk.Height)
	case "PageUp":
		return t.scrollBy(-t.chunk.Height)
	}
	return Ignore()
}

func (t *TextWidget) scrollBy(delta int) EventResult {
	next := t.scroll + delta
	if next < 0 {
		next = 0
	}
	maxScroll := len(t.lines) - 1
	if maxScroll < 0 {
		maxScroll = 0
	}
	if next > maxScroll {
		next = maxScroll
	}
	if next == t.scroll {
		return Ignore()
	}
	t.scroll = next
	return Nop()
}

func (t *TextWidget) OnMouse(ev MouseEvent) EventResult { return Ignore() }

func (t *TextWidget) Render(scr Screen, isActive, isMouseOver bool) {
	end := t.scroll + t.chunk.Height
	if end > len(t.lines) || t.chunk.Height == 0 {
		end = len(t.lines)
	}
	start := t.scroll
	if start > end {
		start = end
	}
	scr.Draw(Frame{Rect: t.chunk, Title: title(t.id, isActive, isMouseOver), Active: isActive, MouseOver: isMouseOver, Lines: t.lines[start:end]})
}

// InputFormWidget is a single-line text entry (spec §4.6 InputForm),
// backing the YAML name-filter dialogs and log-query input.
type InputFormWidget struct {
	id       string
	chunk    Rect
	value    []rune
	OnSubmit func(string) EventResult
}

func NewInputFormWidget(id string) *InputFormWidget { return &InputFormWidget{id: id} }

func (f *InputFormWidget) Value() string { return string(f.value) }

// SetValue replaces the current input, used by pickers that pre-fill a
// form field with a chosen value.
func (f *InputFormWidget) SetValue(v string) { f.value = []rune(v) }

func (f *InputFormWidget) ID() string         { return f.id }
func (f *InputFormWidget) CanActivate() bool  { return true }
func (f *InputFormWidget) Chunk() Rect        { return f.chunk }
func (f *InputFormWidget) UpdateChunk(r Rect) { f.chunk = r }

func (f *InputFormWidget) OnKey(ev KeyEvent) EventResult {
	switch {
	case ev.Name == "Enter":
		if f.OnSubmit == nil {
			return Nop()
		}
		value := f.Value()
		return CallbackResult(func(*Window) EventResult { return f.OnSubmit(value) })
	case ev.Name == "Backspace":
		if len(f.value) == 0 {
			return Ignore()
		}
		f.value = f.value[:len(f.value)-1]
		return Nop()
	case ev.Rune != 0:
		f.value = append(f.value, ev.Rune)
		return Nop()
	}
	return Ignore()
}

func (f *InputFormWidget) OnMouse(ev MouseEvent) EventResult { return Ignore() }

func (f *InputFormWidget) Render(scr Screen, isActive, isMouseOver bool) {
	scr.Draw(Frame{
		Rect: f.chunk, Title: title(f.id, isActive, isMouseOver), Active: isActive, MouseOver: isMouseOver,
		Lines:  []string{f.Value()},
		Cursor: &Cursor{X: f.chunk.X + len(f.value), Y: f.chunk.Y},
	})
}

// SingleSelectWidget is a cursor-navigable list committing one choice on
// Enter (spec §4.6 SingleSelect), backing the context and namespace
// pickers.
type SingleSelectWidget struct {
	id       string
	chunk    Rect
	items    []string
	cursor   int
	OnChoose func(string) EventResult
}

func NewSingleSelectWidget(id string, items []string) *SingleSelectWidget {
	return &SingleSelectWidget{id: id, items: items}
}

// SetItems replaces the choice list, used by pickers whose candidates are
// discovered after construction (e.g. the YAML kind picker, populated once
// ApiPoller reports the cluster's resource kinds).
func (s *SingleSelectWidget) SetItems(items []string) {
	s.items = items
	if s.cursor >= len(items) {
		s.cursor = max(0, len(items)-1)
	}
}

func (s *SingleSelectWidget) ID() string         { return s.id }
func (s *SingleSelectWidget) CanActivate() bool  { return true }
func (s *SingleSelectWidget) Chunk() Rect        { return s.chunk }
func (s *SingleSelectWidget) UpdateChunk(r Rect) { s.chunk = r }

func (s *SingleSelectWidget) OnKey(ev KeyEvent) EventResult {
	switch ev.Name {
	case "Down":
		if s.cursor < len(s.items)-1 {
			s.cursor++
			return Nop()
		}
	case "Up":
		if s.cursor > 0 {
			s.cursor--
			return Nop()
		}
	case "Enter":
		if s.OnChoose == nil || len(s.items) == 0 {
			return Nop()
		}
		choice := s.items[s.cursor]
		return CallbackResult(func(*Window) EventResult { return s.OnChoose(choice) })
	}
	return Ignore()
}

func (s *SingleSelectWidget) OnMouse(ev MouseEvent) EventResult { return Ignore() }

func (s *SingleSelectWidget) Render(scr Screen, isActive, isMouseOver bool) {
	lines := make([]string, len(s.items))
	for i, item := range s.items {
		prefix := "  "
		if i == s.cursor {
			prefix = "> "
		}
		lines[i] = prefix + item
	}
	scr.Draw(Frame{Rect: s.chunk, Title: title(s.id, isActive, isMouseOver), Active: isActive, MouseOver: isMouseOver, Lines: lines})
}

// MultipleSelectWidget toggles membership of a set with Space and commits
// with Enter (spec §4.6 MultipleSelect), backing the multi-namespace
// picker.
type MultipleSelectWidget struct {
	id       string
	chunk    Rect
	items    []string
	selected map[int]bool
	cursor   int
	OnConfirm func([]string) EventResult
}

func NewMultipleSelectWidget(id string, items []string) *MultipleSelectWidget {
	return &MultipleSelectWidget{id: id, items: items, selected: map[int]bool{}}
}

func (m *MultipleSelectWidget) ID() string         { return m.id }
func (m *MultipleSelectWidget) CanActivate() bool  { return true }
func (m *MultipleSelectWidget) Chunk() Rect        { return m.chunk }
func (m *MultipleSelectWidget) UpdateChunk(r Rect) { m.chunk = r }

func (m *MultipleSelectWidget) OnKey(ev KeyEvent) EventResult {
	switch {
	case ev.Name == "Down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			return Nop()
		}
	case ev.Name == "Up":
		if m.cursor > 0 {
			m.cursor--
			return Nop()
		}
	case ev.Name == "Space" || ev.Rune == ' ':
		m.selected[m.cursor] = !m.selected[m.cursor]
		return Nop()
	case ev.Name == "Enter":
		if m.OnConfirm == nil {
			return Nop()
		}
		chosen := m.chosen()
		return CallbackResult(func(*Window) EventResult { return m.OnConfirm(chosen) })
	}
	return Ignore()
}

func (m *MultipleSelectWidget) chosen() []string {
	var out []string
	for i, item := range m.items {
		if m.selected[i] {
			out = append(out, item)
		}
	}
	return out
}

func (m *MultipleSelectWidget) OnMouse(ev MouseEvent) EventResult { return Ignore() }

func (m *MultipleSelectWidget) Render(scr Screen, isActive, isMouseOver bool) {
	lines := make([]string, len(m.items))
	for i, item := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		box := "[ ]"
		if m.selected[i] {
			box = "[x]"
		}
		lines[i] = cursor + " " + box + " " + item
	}
	scr.Draw(Frame{Rect: m.chunk, Title: title(m.id, isActive, isMouseOver), Active: isActive, MouseOver: isMouseOver, Lines: lines})
}

// CheckListWidget is MultipleSelectWidget's shape reused for the
// API-resources and pod-columns checklists (spec §4.6 CheckList): the
// distinction from MultipleSelect is presentational only, so it embeds
// the same selection logic rather than duplicating it.
type CheckListWidget struct {
	*MultipleSelectWidget
}

func NewCheckListWidget(id string, items []string) *CheckListWidget {
	return &CheckListWidget{MultipleSelectWidget: NewMultipleSelectWidget(id, items)}
}

func title(id string, isActive, isMouseOver bool) string {
	switch {
	case isActive:
		return " + " + id + " "
	case isMouseOver:
		return " " + id + " "
	default:
		return " " + id + " "
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
