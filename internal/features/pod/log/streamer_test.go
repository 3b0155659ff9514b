package log

import (
	"testing"
	"time"
)

func TestSplitTimestampValid(t *testing.T) {
	ts, body, ok := splitTimestamp("2024-01-02T15:04:05.999999999Z hello world")
	if !ok {
		t.Fatal("expected timestamp to parse")
	}
	if body != "hello world" {
		t.Fatalf("got body %q", body)
	}
	if ts.Year() != 2024 {
		t.Fatalf("got %v", ts)
	}
}

func TestSplitTimestampMissing(t *testing.T) {
	_, body, ok := splitTimestamp("no timestamp here")
	if ok {
		t.Fatal("expected no timestamp to parse")
	}
	if body != "no timestamp here" {
		t.Fatalf("got body %q", body)
	}
}

func TestSinceSecondsZeroValue(t *testing.T) {
	if got := sinceSeconds(time.Time{}); got != nil {
		t.Fatalf("expected nil for zero time, got %v", *got)
	}
}

func TestSinceSecondsPositiveWindow(t *testing.T) {
	last := time.Now().Add(-10 * time.Second)
	got := sinceSeconds(last)
	if got == nil || *got <= 0 {
		t.Fatalf("expected positive window, got %v", got)
	}
}

func TestSinceSecondsFutureClampsToNil(t *testing.T) {
	last := time.Now().Add(10 * time.Second)
	if got := sinceSeconds(last); got != nil {
		t.Fatalf("expected nil for future timestamp, got %v", *got)
	}
}
