package config

import "testing"

func TestParsePodColumnsEmptyInput(t *testing.T) {
	if _, err := ParsePodColumns(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParsePodColumnsFullExpandsAll(t *testing.T) {
	got, err := ParsePodColumns("full")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(allPodColumns) {
		t.Fatalf("expected %d columns, got %d", len(allPodColumns), len(got))
	}
}

func TestParsePodColumnsCommaSeparated(t *testing.T) {
	got, err := ParsePodColumns("name, ready, status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PodColumn{ColumnName, ColumnReady, ColumnStatus}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParsePodColumnsTrimsWhitespace(t *testing.T) {
	got, err := ParsePodColumns("  name ,  ready , status ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 columns, got %v", got)
	}
}

func TestParsePodColumnsSeparatorVariants(t *testing.T) {
	got, err := ParsePodColumns("name, nominated_node, readiness-gates")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PodColumn{ColumnName, ColumnNominatedNode, ColumnReadinessGates}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParsePodColumnsInvalidName(t *testing.T) {
	_, err := ParsePodColumns("name, invalid_column")
	if err == nil {
		t.Fatal("expected error for invalid column name")
	}
}

func TestParsePodColumnsNameAlwaysPresent(t *testing.T) {
	got, err := ParsePodColumns("ready, status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != ColumnName {
		t.Fatalf("expected Name to be forced first, got %v", got)
	}
}

func TestParsePodColumnsFullWithOthersErrors(t *testing.T) {
	_, err := ParsePodColumns("full, ready")
	if err == nil {
		t.Fatal("expected error combining full with other columns")
	}
}

func TestParsePodColumnsNeverDuplicates(t *testing.T) {
	got, err := ParsePodColumns("name, name, ready")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[PodColumn]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate column %v in %v", c, got)
		}
		seen[c] = true
	}
}
