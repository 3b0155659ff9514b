// Package supervisor implements KubeSupervisor (spec §4.2): the single task
// reading Bus.Outbound, owning the active context/namespaces and the set of
// spawned poller/streamer tasks, restarting them on context or namespace
// change. Grounded on the teacher's operator/utils/base_listener.go:Run
// goroutine-lifecycle shape (per-goroutine panic recover flipping a shared
// cancel, sync.WaitGroup join, mutex-guarded live handle) generalized from
// "three fixed goroutines per stream" to "a named, variable set of
// long-lived pollers/streamers per context".
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayv1beta1 "sigs.k8s.io/gateway-api/apis/v1beta1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubeconfig"
	"github.com/kubetui/kubetui/internal/kubeerrors"
	"github.com/kubetui/kubetui/internal/kubestate"
)

// rtScheme is the scheme the per-context controller-runtime client is built
// against: core Kubernetes types plus both Gateway-API GroupVersions
// NetworkPoller and the network DescriptionStreamer read (spec §9 "thin
// per-version adapter" over Gateway/HTTPRoute — both v1 and v1beta1 must be
// served, the version carried in the request payload rather than inferred).
var rtScheme = func() *runtime.Scheme {
	s := runtime.NewScheme()
	_ = gatewayv1.AddToScheme(s)
	_ = gatewayv1beta1.AddToScheme(s)
	return s
}()

// buildRTClient constructs the controller-runtime client for one context's
// REST config; a nil return (on error) degrades Gateway/HTTPRoute support
// for that context rather than failing startup, since every other poller
// works off the plain typed clientset.
func buildRTClient(restConfig *rest.Config) client.Client {
	if restConfig == nil {
		return nil
	}
	c, err := client.New(restConfig, client.Options{Scheme: rtScheme})
	if err != nil {
		return nil
	}
	return c
}

// State is the supervisor's own lifecycle state machine (spec §4.2).
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateShuttingDown
	StateTerminated
)

// Poller is a long-lived cooperative task spawned per active context. Start
// must return once ctx is done; panics are recovered by the supervisor and
// turned into a cancellation, per spec §5's "task panics ... force graceful
// exit" and spec §7's "Panic in any worker ... caught by a per-worker panic
// hook".
type Poller struct {
	Name  string
	Start func(ctx context.Context, st *kubestate.State, b *bus.Bus)
}

// handle tracks one running goroutine so the supervisor can abort it and
// wait for it to exit (mirrors BaseListener's cancel+WaitGroup pairing).
type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *handle) stop() {
	h.cancel()
	<-h.done
}

// Supervisor is KubeSupervisor.
type Supervisor struct {
	bus     *bus.Bus
	loader  *kubeconfig.Loader
	store   *kubestate.Store
	factory []Poller

	mu            sync.Mutex
	state         State
	activeName    string
	active        *kubestate.State
	pollerHandles map[string]*handle
	logHandle     *handle
	yamlHandle    *handle
	networkHandle *handle

	logStarter         LogStarter
	yamlStarter        YamlStarter
	networkDescStarter NetworkDescriptionStarter

	initialContext       string
	initialNamespaces    []string
	initialAllNamespaces bool
	seeded               bool

	terminated atomic.Bool
	wg         sync.WaitGroup
}

// New constructs a Supervisor. factories is the closed set of pollers spun
// up on every context activation (PodPoller/EventPoller/ConfigPoller/
// NetworkPoller/ApiPoller per spec §4.2); log/yaml/network description
// streamers are started on demand via LogRequest/YamlRequest/NetworkRequest.
func New(b *bus.Bus, loader *kubeconfig.Loader, factories []Poller) *Supervisor {
	return &Supervisor{
		bus:           b,
		loader:        loader,
		store:         kubestate.NewStore(),
		factory:       factories,
		pollerHandles: map[string]*handle{},
	}
}

// IsTerminated reports the shared atomic flag pollers must check at every
// suspension point (spec §5 Cancellation).
func (s *Supervisor) IsTerminated() bool { return s.terminated.Load() }

// SetInitialContext overrides the context Run activates on entry, for the
// CLI's -c/--context flag (spec §6); an empty name leaves the kubeconfig's
// own current-context in effect.
func (s *Supervisor) SetInitialContext(name string) { s.initialContext = name }

// SetInitialNamespaces overrides the first context activation's target
// namespaces, for the CLI's -n/--namespaces and -A/--all-namespaces flags
// (spec §6). allNamespaces takes precedence and is resolved by listing the
// cluster's namespaces once that first context activates; neither option
// affects later, interactive context switches.
func (s *Supervisor) SetInitialNamespaces(namespaces []string, allNamespaces bool) {
	s.initialNamespaces = namespaces
	s.initialAllNamespaces = allNamespaces
}

// ContextNames lists the kubeconfig's context names, for the context picker
// dialog (spec §4.6 Dialogs).
func (s *Supervisor) ContextNames() []string { return s.loader.Names() }

// ActiveContextName returns the name of the context currently serving
// pollers, for pre-selecting the context/namespace pickers.
func (s *Supervisor) ActiveContextName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeName
}

// ActiveNamespaces returns the active context's current target namespaces,
// for pre-selecting the namespace picker.
func (s *Supervisor) ActiveNamespaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active.Namespaces()
}

// ListNamespaces fetches every namespace in the active context's cluster,
// for populating the namespace picker dialog's choice list (spec §4.6).
func (s *Supervisor) ListNamespaces(ctx context.Context) ([]string, error) {
	st := s.activeState()
	if st == nil {
		return nil, nil
	}
	list, err := st.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	names := make([]string, len(list.Items))
	for i, ns := range list.Items {
		names[i] = ns.Name
	}
	return names, nil
}

// Run is the supervisor's main loop: reads Bus.Outbound until ctx is
// cancelled, dispatching each request to the matching handler. It activates
// the kubeconfig's current-context on entry.
func (s *Supervisor) Run(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateActive
	s.mu.Unlock()

	for _, name := range s.loader.Names() {
		kctx, err := s.loader.Build(name)
		if err != nil {
			continue
		}
		st := kubestate.New(name, kctx.Clientset, kctx.DefaultNamespace).WithRTClient(buildRTClient(kctx.RESTConfig))
		s.store.Put(name, st)
	}

	name := s.loader.CurrentContext()
	if s.initialContext != "" {
		name = s.initialContext
	}
	if err := s.SetContext(ctx, name, false); err != nil {
		return err
	}

	out := s.bus.OutboundReceiver()
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case msg, ok := <-out:
			if !ok {
				s.shutdown()
				return nil
			}
			s.dispatch(ctx, msg)
		}
	}
}

func (s *Supervisor) dispatch(ctx context.Context, msg bus.Message) {
	if msg.Kind != bus.KindKube {
		return
	}
	switch req := msg.Kube.(type) {
	case SetContextRequest:
		if err := s.SetContext(ctx, req.Name, req.KeepNamespace); err != nil {
			s.emitErr(ctx, bus.ErrConfiguration, err)
		}
	case SetNamespacesRequest:
		s.SetNamespaces(req.Namespaces)
	case LogRequest:
		s.StartLog(ctx, req)
	case YamlRequest:
		s.StartYaml(ctx, req)
	case NetworkDescriptionRequest:
		s.StartNetworkDescription(ctx, req)
	case ApiRequest:
		if req.Set {
			if st := s.activeState(); st != nil {
				st.SetApiResources(req.Resources)
			}
		}
	}
}

func (s *Supervisor) emitErr(ctx context.Context, kind bus.ErrorKind, err error) {
	_ = bus.SendInbound(ctx, s.bus, bus.Error(kind, err.Error()))
}

// SetContext aborts every running child task, swaps in the named context's
// KubeState, optionally carries over the previous namespace list, and
// respawns the fixed poller set (spec §4.2 SetContext). Clearing widgets is
// the UI's responsibility on observing the resulting SetContextResponse.
func (s *Supervisor) SetContext(ctx context.Context, name string, keepNamespace bool) error {
	next, ok := s.store.Get(name)
	if !ok {
		return kubeerrors.NewConfigError(kubeerrors.ExitUnknownContext, "unknown context %q", name)
	}

	s.mu.Lock()
	prev := s.active
	s.mu.Unlock()

	s.stopAllPollers()
	s.stopLog()
	s.stopYaml()
	s.stopNetworkDescription()

	if keepNamespace && prev != nil {
		next.SetNamespaces(prev.Namespaces())
	}

	s.mu.Lock()
	s.activeName = name
	s.active = next
	firstActivation := !s.seeded
	s.seeded = true
	s.mu.Unlock()

	if firstActivation {
		s.seedInitialNamespaces(ctx, next)
	}

	s.spawnPollers(ctx, next)

	_ = bus.SendInbound(ctx, s.bus, bus.Kube(SetContextResponse{Name: name}))
	return nil
}

// SetNamespaces atomically replaces the active context's target namespaces;
// pollers pick up the change on their next tick, no restart needed
// (spec §4.2 SetNamespaces).
func (s *Supervisor) SetNamespaces(ns []string) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != nil {
		active.SetNamespaces(ns)
	}
}

// seedInitialNamespaces applies the CLI's -n/--namespaces or -A/
// --all-namespaces startup override to the first activated context's
// KubeState; kubestate.State has no "all namespaces" sentinel, so -A is
// resolved to a concrete list by listing the cluster once, here.
func (s *Supervisor) seedInitialNamespaces(ctx context.Context, st *kubestate.State) {
	switch {
	case s.initialAllNamespaces:
		list, err := st.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			s.emitErr(ctx, bus.ErrConfiguration, fmt.Errorf("listing namespaces for --all-namespaces: %w", err))
			return
		}
		names := make([]string, len(list.Items))
		for i, ns := range list.Items {
			names[i] = ns.Name
		}
		st.SetNamespaces(names)
	case len(s.initialNamespaces) > 0:
		st.SetNamespaces(s.initialNamespaces)
	}
}

func (s *Supervisor) spawnPollers(ctx context.Context, st *kubestate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.factory {
		pctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		h := &handle{cancel: cancel, done: done}
		s.pollerHandles[p.Name] = h
		s.wg.Add(1)
		go s.runGuarded(pctx, done, fmt.Sprintf("poller:%s", p.Name), func() {
			p.Start(pctx, st, s.bus)
		})
	}
}

func (s *Supervisor) stopAllPollers() {
	s.mu.Lock()
	handles := s.pollerHandles
	s.pollerHandles = map[string]*handle{}
	s.mu.Unlock()
	for _, h := range handles {
		h.stop()
	}
}

// runGuarded wraps a task body with the panic recover pattern from
// BaseListener.Run: a panic in the task flips the shared is_terminated flag
// and reports an ErrPanic error on the inbound bus, never crashing the
// process.
func (s *Supervisor) runGuarded(ctx context.Context, done chan struct{}, label string, body func()) {
	defer s.wg.Done()
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.terminated.Store(true)
			_ = bus.SendInbound(context.Background(), s.bus, bus.Error(bus.ErrPanic, fmt.Sprintf("panic in %s: %v", label, r)))
		}
	}()
	body()
}

func (s *Supervisor) shutdown() {
	s.mu.Lock()
	s.state = StateShuttingDown
	s.mu.Unlock()

	s.terminated.Store(true)
	s.stopAllPollers()
	s.stopLog()
	s.stopYaml()
	s.stopNetworkDescription()
	s.wg.Wait()

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()
}
