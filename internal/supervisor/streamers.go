package supervisor

import (
	"context"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
)

// LogStarter, YamlStarter and NetworkDescriptionStarter are injected by
// cmd/kubetui so internal/supervisor never imports the feature packages
// that implement them (keeps the dependency arrow pollers/streamers ->
// supervisor -> bus/kubestate one-directional, matching spec §2's
// "Dependency order (leaves first): Bus, then Pollers, then KubeSupervisor").
type LogStarter func(ctx context.Context, st *kubestate.State, b *bus.Bus, req LogRequest)
type YamlStarter func(ctx context.Context, st *kubestate.State, b *bus.Bus, req YamlRequest)
type NetworkDescriptionStarter func(ctx context.Context, st *kubestate.State, b *bus.Bus, req NetworkDescriptionRequest)

// SetLogStarter registers the LogStreamer entry point (spec §4.4).
func (s *Supervisor) SetLogStarter(fn LogStarter) { s.logStarter = fn }

// SetYamlStarter registers the YamlStreamer entry point (spec §4.5).
func (s *Supervisor) SetYamlStarter(fn YamlStarter) { s.yamlStarter = fn }

// SetNetworkDescriptionStarter registers the DescriptionStreamer entry
// point for network resources (spec §4.5).
func (s *Supervisor) SetNetworkDescriptionStarter(fn NetworkDescriptionStarter) {
	s.networkDescStarter = fn
}

// StartLog aborts any live LogStreamer and spawns a new one for req
// (spec §4.2 LogRequest: "abort any live LogStreamer; spawn a new one").
func (s *Supervisor) StartLog(ctx context.Context, req LogRequest) {
	s.stopLog()
	if s.logStarter == nil {
		return
	}
	st := s.activeState()
	if st == nil {
		return
	}
	lctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.logHandle = &handle{cancel: cancel, done: done}
	s.mu.Unlock()
	s.wg.Add(1)
	go s.runGuarded(lctx, done, "log-streamer", func() {
		s.logStarter(lctx, st, s.bus, req)
	})
}

// StartYaml aborts any live description streamer and spawns a new one that
// refetches req every 3s (spec §4.2 YamlRequest, §4.5).
func (s *Supervisor) StartYaml(ctx context.Context, req YamlRequest) {
	s.stopYaml()
	if s.yamlStarter == nil {
		return
	}
	st := s.activeState()
	if st == nil {
		return
	}
	yctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.yamlHandle = &handle{cancel: cancel, done: done}
	s.mu.Unlock()
	s.wg.Add(1)
	go s.runGuarded(yctx, done, "yaml-streamer", func() {
		s.yamlStarter(yctx, st, s.bus, req)
	})
}

// StartNetworkDescription aborts any live network description streamer and
// spawns a new one (spec §4.2 NetworkRequest, §4.5).
func (s *Supervisor) StartNetworkDescription(ctx context.Context, req NetworkDescriptionRequest) {
	s.stopNetworkDescription()
	if s.networkDescStarter == nil {
		return
	}
	st := s.activeState()
	if st == nil {
		return
	}
	nctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.networkHandle = &handle{cancel: cancel, done: done}
	s.mu.Unlock()
	s.wg.Add(1)
	go s.runGuarded(nctx, done, "network-description-streamer", func() {
		s.networkDescStarter(nctx, st, s.bus, req)
	})
}

func (s *Supervisor) activeState() *kubestate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Supervisor) stopLog() {
	s.mu.Lock()
	h := s.logHandle
	s.logHandle = nil
	s.mu.Unlock()
	if h != nil {
		h.stop()
	}
}

func (s *Supervisor) stopYaml() {
	s.mu.Lock()
	h := s.yamlHandle
	s.yamlHandle = nil
	s.mu.Unlock()
	if h != nil {
		h.stop()
	}
}

func (s *Supervisor) stopNetworkDescription() {
	s.mu.Lock()
	h := s.networkHandle
	s.networkHandle = nil
	s.mu.Unlock()
	if h != nil {
		h.stop()
	}
}
