package kubestate

import "testing"

func TestNewDefaultsToDefaultNamespace(t *testing.T) {
	s := New("ctx", nil, "")
	ns := s.Namespaces()
	if len(ns) != 1 || ns[0] != "default" {
		t.Fatalf("expected [default], got %v", ns)
	}
}

func TestSetNamespacesIsolatesCaller(t *testing.T) {
	s := New("ctx", nil, "ns1")
	input := []string{"a", "b"}
	s.SetNamespaces(input)
	input[0] = "mutated"

	got := s.Namespaces()
	if got[0] != "a" {
		t.Fatalf("SetNamespaces should copy input, got %v", got)
	}

	got[1] = "mutated-out"
	got2 := s.Namespaces()
	if got2[1] != "b" {
		t.Fatalf("Namespaces() should return a copy, got %v", got2)
	}
}

func TestApiResourceGroupVersionURL(t *testing.T) {
	core := ApiResource{Version: "v1", Name: "pods"}
	if got := core.GroupVersionURL(); got != "/api/v1" {
		t.Fatalf("expected /api/v1, got %s", got)
	}

	gw := ApiResource{Group: "gateway.networking.k8s.io", Version: "v1", Name: "gateways"}
	if got := gw.GroupVersionURL(); got != "/apis/gateway.networking.k8s.io/v1" {
		t.Fatalf("expected /apis/gateway.networking.k8s.io/v1, got %s", got)
	}
}

func TestApiResourceDedupeIgnoresKindAndNamespaced(t *testing.T) {
	s := New("ctx", nil, "")
	a := ApiResource{Group: "apps", Version: "v1", Name: "deployments", Kind: "Deployment", Namespaced: true}
	b := ApiResource{Group: "apps", Version: "v1", Name: "deployments", Kind: "StaleKind", Namespaced: false}

	s.SetApiResources([]ApiResource{a, b})

	got := s.ApiResources()
	if len(got) != 1 {
		t.Fatalf("expected (group,version,name) dedupe to collapse to one entry, got %v", got)
	}
	if got[0].Kind != "StaleKind" {
		t.Fatalf("expected the later write to win, got %+v", got[0])
	}
}

func TestStorePutGet(t *testing.T) {
	store := NewStore()
	st := New("ctx-a", nil, "")
	store.Put("ctx-a", st)

	got, ok := store.Get("ctx-a")
	if !ok || got != st {
		t.Fatal("expected stored state to be retrievable")
	}

	if _, ok := store.Get("missing"); ok {
		t.Fatal("expected missing context to be absent")
	}
}
