// Package kubestate holds the per-context snapshot (KubeState) and the
// ApiResource value type, per spec §3.
package kubestate

import (
	"fmt"
	"sync"

	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// State is the per-context snapshot spec §3 calls KubeState:
// {client, targetNamespaces, targetApiResources}. The active State is
// swapped atomically on context change (§4.2 SetContext); namespaces and
// resources mutate in place behind their own locks so pollers reading them
// mid-tick never race with a writer (§5's shared_target_namespaces /
// shared_api_resources RWMutex design note).
type State struct {
	ContextName string
	Clientset   *kubernetes.Clientset

	// RTClient is the controller-runtime client used for Gateway-API CRDs,
	// which have no typed clientset method (spec §9). Nil when the context's
	// REST config could not be built into a scheme-aware client; callers
	// must treat a nil RTClient as "Gateway/HTTPRoute unavailable".
	RTClient client.Client

	nsMu       sync.RWMutex
	namespaces []string

	resMu     sync.RWMutex
	resources map[apiResourceKey]ApiResource
}

// New creates a State for one context, defaulting to ["default"] when the
// kubeconfig context carries no namespace (spec §8 boundary behaviour).
func New(contextName string, clientset *kubernetes.Clientset, defaultNamespace string) *State {
	ns := defaultNamespace
	if ns == "" {
		ns = "default"
	}
	return &State{
		ContextName: contextName,
		Clientset:   clientset,
		namespaces:  []string{ns},
		resources:   map[apiResourceKey]ApiResource{},
	}
}

// WithRTClient attaches the controller-runtime client built for this
// context; Supervisor.Run calls this right after New for every context it
// builds.
func (s *State) WithRTClient(c client.Client) *State {
	s.RTClient = c
	return s
}

// Namespaces returns a snapshot copy of the target namespaces. Safe to call
// concurrently with SetNamespaces.
func (s *State) Namespaces() []string {
	s.nsMu.RLock()
	defer s.nsMu.RUnlock()
	out := make([]string, len(s.namespaces))
	copy(out, s.namespaces)
	return out
}

// SetNamespaces atomically replaces the target namespace list. Pollers
// observe the change on their next tick; no restart is required
// (spec §4.2 SetNamespaces).
func (s *State) SetNamespaces(ns []string) {
	cp := make([]string, len(ns))
	copy(cp, ns)
	s.nsMu.Lock()
	defer s.nsMu.Unlock()
	s.namespaces = cp
}

// ApiResources returns a snapshot copy of the discovered resource set.
func (s *State) ApiResources() []ApiResource {
	s.resMu.RLock()
	defer s.resMu.RUnlock()
	out := make([]ApiResource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r)
	}
	return out
}

// SetApiResources replaces the discovered resource set (written only by
// ApiPoller, per spec §5), deduplicating by (group,version,name).
func (s *State) SetApiResources(resources []ApiResource) {
	next := make(map[apiResourceKey]ApiResource, len(resources))
	for _, r := range resources {
		next[r.key()] = r
	}
	s.resMu.Lock()
	defer s.resMu.Unlock()
	s.resources = next
}

// ApiResource is the closed value type from spec §3: equality/hash by
// (group, version, name).
type ApiResource struct {
	Group      string
	Version    string
	Name       string // plural
	Kind       string
	Namespaced bool
}

// GroupVersionURL returns the discovery-root URL prefix every list/fetch
// call against this resource must start with (spec §8 invariant).
func (r ApiResource) GroupVersionURL() string {
	if r.Group == "" {
		return fmt.Sprintf("/api/%s", r.Version)
	}
	return fmt.Sprintf("/apis/%s/%s", r.Group, r.Version)
}

// apiResourceKey is the (group, version, name) triple spec §3 mandates as
// ApiResource's equality/hash basis; Kind and Namespaced are descriptive
// fields that ride along but are not part of identity.
type apiResourceKey struct {
	group, version, name string
}

func (r ApiResource) key() apiResourceKey {
	return apiResourceKey{group: r.Group, version: r.Version, name: r.Name}
}

// Store maps context name -> State, created once at startup for every
// context found in kubeconfig (spec §3 lifecycle).
type Store struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewStore() *Store {
	return &Store{states: map[string]*State{}}
}

func (s *Store) Put(name string, state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[name] = state
}

func (s *Store) Get(name string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[name]
	return st, ok
}

func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.states))
	for name := range s.states {
		out = append(out, name)
	}
	return out
}
