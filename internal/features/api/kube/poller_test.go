package kube

import "testing"

func TestSplitGroupVersionCore(t *testing.T) {
	group, version := splitGroupVersion("v1")
	if group != "" || version != "v1" {
		t.Fatalf("got group=%q version=%q", group, version)
	}
}

func TestSplitGroupVersionNamed(t *testing.T) {
	group, version := splitGroupVersion("apps/v1")
	if group != "apps" || version != "v1" {
		t.Fatalf("got group=%q version=%q", group, version)
	}
}

func TestContainsSlash(t *testing.T) {
	if !containsSlash("pods/log") {
		t.Fatal("expected true")
	}
	if containsSlash("pods") {
		t.Fatal("expected false")
	}
}
