package kube

import (
	"strings"
	"testing"
)

func TestRenderMessageSingleLine(t *testing.T) {
	if got := renderMessage("hello"); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderMessageMultiLineContinuationsPrefixed(t *testing.T) {
	got := renderMessage("first\nsecond\nthird")
	if !strings.Contains(got, "first") {
		t.Fatalf("expected first line preserved, got %q", got)
	}
	if !strings.Contains(got, "> second") || !strings.Contains(got, "> third") {
		t.Fatalf("expected continuation lines prefixed with '> ', got %q", got)
	}
}
