package cliargs

import "testing"

func TestParseDefaults(t *testing.T) {
	a, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.SplitDirection != SplitVertical {
		t.Fatalf("expected default split direction v, got %v", a.SplitDirection)
	}
	if a.AllNamespaces {
		t.Fatal("expected AllNamespaces false by default")
	}
}

func TestParseNamespacesRepeatedAndCommaDelimited(t *testing.T) {
	a, err := Parse([]string{"-n", "kube-system", "-n", "default,monitoring"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"kube-system", "default", "monitoring"}
	if len(a.Namespaces) != len(want) {
		t.Fatalf("got %v, want %v", a.Namespaces, want)
	}
	for i := range want {
		if a.Namespaces[i] != want[i] {
			t.Fatalf("got %v, want %v", a.Namespaces, want)
		}
	}
}

func TestParseAllNamespacesBare(t *testing.T) {
	a, err := Parse([]string{"-A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.AllNamespaces {
		t.Fatal("expected AllNamespaces true")
	}
}

func TestParseAllNamespacesExplicitFalse(t *testing.T) {
	a, err := Parse([]string{"-A=false"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AllNamespaces {
		t.Fatal("expected AllNamespaces false")
	}
}

func TestParseNamespacesConflictsWithAllNamespaces(t *testing.T) {
	_, err := Parse([]string{"-A", "-n", "default"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestParseInvalidSplitDirection(t *testing.T) {
	_, err := Parse([]string{"-s", "diagonal"})
	if err == nil {
		t.Fatal("expected error for invalid split direction")
	}
}

func TestParseContextAndKubeconfig(t *testing.T) {
	a, err := Parse([]string{"-c", "prod", "-C", "/tmp/kubeconfig"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Context != "prod" || a.Kubeconfig != "/tmp/kubeconfig" {
		t.Fatalf("got %+v", a)
	}
}

func TestParseCompletionSubcommand(t *testing.T) {
	a, err := Parse([]string{"completion", "bash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Subcommand != "completion" || len(a.CompletionArgs) != 1 || a.CompletionArgs[0] != "bash" {
		t.Fatalf("got %+v", a)
	}
}

func TestParseDunderCompleteSubcommand(t *testing.T) {
	a, err := Parse([]string{"__complete", "--context"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Subcommand != "__complete" {
		t.Fatalf("got %+v", a)
	}
}

func TestRunCompletionUnsupportedShell(t *testing.T) {
	if err := RunCompletion("fish", new(discard)); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}

type discard struct{}

func (d *discard) Write(p []byte) (int, error) { return len(p), nil }
