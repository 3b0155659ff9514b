package ui

import (
	"testing"

	"github.com/kubetui/kubetui/internal/kubetable"
)

func TestTableWidgetMoveCursorFiresOnSelect(t *testing.T) {
	tbl, err := kubetable.New([]string{"NAME"}, []kubetable.Row{
		{Cells: []string{"a"}, Name: "a"},
		{Cells: []string{"b"}, Name: "b"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tw := NewTableWidget("pods")
	tw.SetTable(tbl)

	var selected string
	tw.OnSelect = func(row kubetable.Row) EventResult {
		selected = row.Name
		return Nop()
	}

	r := tw.OnKey(KeyEvent{Name: "Down"})
	if r.Kind != ResultCallback {
		t.Fatalf("expected callback result, got %v", r.Kind)
	}
	r.exec(nil)
	if selected != "b" {
		t.Fatalf("expected row b selected, got %q", selected)
	}
}

func TestTableWidgetMoveCursorAtBoundaryIgnores(t *testing.T) {
	tbl, _ := kubetable.New([]string{"NAME"}, []kubetable.Row{{Cells: []string{"a"}, Name: "a"}})
	tw := NewTableWidget("pods")
	tw.SetTable(tbl)

	if r := tw.OnKey(KeyEvent{Name: "Down"}); r.Kind != ResultIgnore {
		t.Fatalf("expected ignore at last row, got %v", r.Kind)
	}
	if r := tw.OnKey(KeyEvent{Name: "Up"}); r.Kind != ResultIgnore {
		t.Fatalf("expected ignore at first row, got %v", r.Kind)
	}
}

func TestTextWidgetScrollClampsToBounds(t *testing.T) {
	tw := NewTextWidget("yaml")
	tw.UpdateChunk(Rect{Width: 10, Height: 2})
	tw.SetLines([]string{"a", "b", "c"})

	if r := tw.OnKey(KeyEvent{Name: "Up"}); r.Kind != ResultIgnore {
		t.Fatalf("expected ignore scrolling up from 0, got %v", r.Kind)
	}
	if r := tw.OnKey(KeyEvent{Name: "Down"}); r.Kind != ResultNop {
		t.Fatalf("expected nop scrolling down, got %v", r.Kind)
	}
	if tw.scroll != 1 {
		t.Fatalf("expected scroll 1, got %d", tw.scroll)
	}
}

func TestInputFormWidgetAppendAndBackspace(t *testing.T) {
	f := NewInputFormWidget("query")
	f.OnKey(KeyEvent{Rune: 'h'})
	f.OnKey(KeyEvent{Rune: 'i'})
	if f.Value() != "hi" {
		t.Fatalf("expected hi, got %q", f.Value())
	}
	f.OnKey(KeyEvent{Name: "Backspace"})
	if f.Value() != "h" {
		t.Fatalf("expected h after backspace, got %q", f.Value())
	}
}

func TestInputFormWidgetSubmitCarriesValue(t *testing.T) {
	f := NewInputFormWidget("query")
	f.OnKey(KeyEvent{Rune: 'x'})

	var submitted string
	f.OnSubmit = func(v string) EventResult {
		submitted = v
		return Nop()
	}
	r := f.OnKey(KeyEvent{Name: "Enter"})
	r.exec(nil)
	if submitted != "x" {
		t.Fatalf("expected x, got %q", submitted)
	}
}

func TestMultipleSelectWidgetTogglesAndConfirms(t *testing.T) {
	m := NewMultipleSelectWidget("ns", []string{"default", "kube-system"})
	m.OnKey(KeyEvent{Name: "Space"})
	m.OnKey(KeyEvent{Name: "Down"})
	m.OnKey(KeyEvent{Name: "Space"})

	var confirmed []string
	m.OnConfirm = func(items []string) EventResult {
		confirmed = items
		return Nop()
	}
	r := m.OnKey(KeyEvent{Name: "Enter"})
	r.exec(nil)
	if len(confirmed) != 2 {
		t.Fatalf("expected both items selected, got %v", confirmed)
	}
}

func TestCheckListWidgetReusesMultipleSelectBehavior(t *testing.T) {
	c := NewCheckListWidget("resources", []string{"pods", "services"})
	c.OnKey(KeyEvent{Name: "Space"})

	var confirmed []string
	c.OnConfirm = func(items []string) EventResult {
		confirmed = items
		return Nop()
	}
	r := c.OnKey(KeyEvent{Name: "Enter"})
	r.exec(nil)
	if len(confirmed) != 1 || confirmed[0] != "pods" {
		t.Fatalf("expected [pods], got %v", confirmed)
	}
}
