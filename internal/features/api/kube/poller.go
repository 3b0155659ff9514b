// Package kube implements ApiPoller (spec §4.3): a 30s-cadence discovery
// task that walks /api, /apis, and every discovered group-version to build
// the cluster's ApiResource set, caching the result so unchanged discovery
// responses don't repeatedly reallocate the set the UI holds.
package kube

import (
	"context"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
)

// PollInterval is the discovery cadence spec §5 mandates ("API discovery 30s").
const PollInterval = 30 * time.Second

// cacheSize bounds the per-group-version discovery-document cache; cluster
// discovery documents rarely exceed a few hundred group-versions.
const cacheSize = 256

// Response is the ApiResponse message carried over the bus, sent only when
// the discovered set changes (spec §4.3: "ships it to the UI on change").
type Response struct {
	Resources []kubestate.ApiResource
	Err       error
}

// Start runs ApiPoller until ctx is cancelled.
func Start(ctx context.Context, st *kubestate.State, b *bus.Bus) {
	cache, _ := lru.New[string, []kubestate.ApiResource](cacheSize)

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	var last []kubestate.ApiResource
	sent := false
	poll := func() {
		resources, err := discover(ctx, st, cache)
		if err != nil {
			_ = bus.SendInbound(ctx, b, bus.Kube(Response{Err: err}))
			sent = false
			return
		}
		st.SetApiResources(resources)
		if sent && slices.Equal(last, resources) {
			return
		}
		last, sent = resources, true
		_ = bus.SendInbound(ctx, b, bus.Kube(Response{Resources: resources}))
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

func discover(ctx context.Context, st *kubestate.State, cache *lru.Cache[string, []kubestate.ApiResource]) ([]kubestate.ApiResource, error) {
	disco := st.Clientset.Discovery()

	_, apiResourceLists, err := disco.ServerGroupsAndResources()
	if err != nil && len(apiResourceLists) == 0 {
		return nil, err
	}

	var out []kubestate.ApiResource
	for _, list := range apiResourceLists {
		if cached, ok := cache.Get(list.GroupVersion); ok {
			out = append(out, cached...)
			continue
		}
		group, version := splitGroupVersion(list.GroupVersion)
		var resources []kubestate.ApiResource
		for _, r := range list.APIResources {
			if containsSlash(r.Name) {
				continue // skip subresources (e.g. pods/log)
			}
			resources = append(resources, kubestate.ApiResource{
				Group:      group,
				Version:    version,
				Name:       r.Name,
				Kind:       r.Kind,
				Namespaced: r.Namespaced,
			})
		}
		cache.Add(list.GroupVersion, resources)
		out = append(out, resources...)
	}
	return out, nil
}

func splitGroupVersion(gv string) (group, version string) {
	for i := len(gv) - 1; i >= 0; i-- {
		if gv[i] == '/' {
			return gv[:i], gv[i+1:]
		}
	}
	return "", gv
}

func containsSlash(s string) bool {
	for _, c := range s {
		if c == '/' {
			return true
		}
	}
	return false
}
