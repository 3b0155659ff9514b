package kube

import (
	"strings"
	"testing"

	"github.com/kubetui/kubetui/internal/kubestate"
)

func TestStripManagedFieldsRemovesOnlyManagedFields(t *testing.T) {
	in := []byte(`{"metadata":{"name":"foo","managedFields":[{"manager":"kubectl"}]},"spec":{"replicas":1}}`)

	out, err := StripManagedFields(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "managedFields") {
		t.Fatalf("expected managedFields stripped, got %s", out)
	}
	if !strings.Contains(string(out), `"name":"foo"`) {
		t.Fatalf("expected other metadata preserved, got %s", out)
	}
}

func TestStripManagedFieldsToleratesMissingMetadata(t *testing.T) {
	in := []byte(`{"spec":{"replicas":1}}`)

	if _, err := StripManagedFields(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestToYamlLinesRoundTrips(t *testing.T) {
	in := []byte(`{"metadata":{"name":"foo"},"spec":{"replicas":3}}`)

	lines, err := ToYamlLines(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "name: foo") {
		t.Fatalf("expected yaml fields, got %q", joined)
	}
}

func TestFindAPIResourceMatchesKindOrPluralName(t *testing.T) {
	st := kubestate.New("test", nil, "")
	st.SetApiResources([]kubestate.ApiResource{
		{Group: "apps", Version: "v1", Name: "deployments", Kind: "Deployment", Namespaced: true},
	})

	if _, ok := findAPIResource(st, "Deployment"); !ok {
		t.Fatal("expected match on Kind")
	}
	if _, ok := findAPIResource(st, "deployments"); !ok {
		t.Fatal("expected match on plural Name")
	}
	if _, ok := findAPIResource(st, "nope"); ok {
		t.Fatal("expected no match")
	}
}
