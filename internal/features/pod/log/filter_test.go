package log

import (
	"testing"

	"github.com/kubetui/kubetui/internal/kubeerrors"
)

func TestParseFilterBareRegex(t *testing.T) {
	f, err := ParseFilter("^foo$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PodRegex == nil || f.PodRegex.String() != "^foo$" {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFilterPodPrefix(t *testing.T) {
	f, err := ParseFilter("pod:^foo$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PodRegex == nil || f.PodRegex.String() != "^foo$" {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFilterLabelSelector(t *testing.T) {
	f, err := ParseFilter("label:app=web")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.LabelSelector == nil || f.LabelSelector.Raw != "app=web" {
		t.Fatalf("got %+v", f)
	}
	if got := f.String(); got == "" {
		t.Fatalf("expected non-empty string repr, got %q", got)
	}
}

func TestParseFilterResourceName(t *testing.T) {
	f, err := ParseFilter("deployment/foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.LabelSelector == nil || f.LabelSelector.FromResource == nil {
		t.Fatalf("got %+v", f)
	}
	if f.LabelSelector.FromResource.Kind != ResourceDeployment || f.LabelSelector.FromResource.Name != "foo" {
		t.Fatalf("got %+v", f.LabelSelector.FromResource)
	}
}

func TestParseFilterPodResourceBecomesRegex(t *testing.T) {
	f, err := ParseFilter("pod/foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PodRegex == nil || !f.PodRegex.MatchString("foo") {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFilterResourceAndLabelSelectorConflict(t *testing.T) {
	_, err := ParseFilter("deployment/foo label:app=bar")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var syntaxErr *kubeerrors.SyntaxError
	if !asSyntaxError(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %T: %v", err, err)
	}
}

func asSyntaxError(err error, target **kubeerrors.SyntaxError) bool {
	se, ok := err.(*kubeerrors.SyntaxError)
	if ok {
		*target = se
	}
	return ok
}

func TestParseFilterInvalidRegex(t *testing.T) {
	_, err := ParseFilter("pod:(unterminated")
	if err == nil {
		t.Fatal("expected regex error")
	}
}

func TestParseFilterFieldSelector(t *testing.T) {
	f, err := ParseFilter("field:status.phase=Running")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.FieldSelector != "status.phase=Running" {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFilterContainerAndLogAttributes(t *testing.T) {
	f, err := ParseFilter("container:nginx log:error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ContainerRegex == nil || !f.ContainerRegex.MatchString("nginx") {
		t.Fatalf("got %+v", f)
	}
	if f.LogRegex == nil || !f.LogRegex.MatchString("error") {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFilterNegation(t *testing.T) {
	f, err := ParseFilter("!container:sidecar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.ContainerNegate {
		t.Fatal("expected negation to be recorded")
	}
}

func TestParseFilterEmptyQueryProducesEmptyFilter(t *testing.T) {
	f, err := ParseFilter("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PodRegex != nil || f.LabelSelector != nil || f.FieldSelector != "" {
		t.Fatalf("expected empty filter, got %+v", f)
	}
}
