// Package kube implements NetworkPoller (spec §4.3): lists six resource
// kinds in parallel (Ingress, Service, Pod, NetworkPolicy, Gateway,
// HTTPRoute) and merges them into one table. Gateway/HTTPRoute use a
// controller-runtime client since they are CRDs with no typed clientset
// method (spec §9 "Gateway-API versioning ... thin per-version adapter").
package kube

import (
	"context"
	"fmt"
	"sync"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/kubetable"
)

// PollInterval matches the other list pollers (spec §5).
const PollInterval = time.Second

var header = []string{"KIND", "NAME", "AGE"}

// Response is the NetworkResponse message carried over the bus.
type Response struct {
	Table kubetable.Table
	Err   error
}

// Start runs NetworkPoller until ctx is cancelled. Gateway/HTTPRoute rows
// use st.RTClient, the shared controller-runtime client built for this
// context (nil if the context's REST config could not be adapted, in which
// case those two kinds are silently omitted from the table).
func Start(ctx context.Context, st *kubestate.State, b *bus.Bus) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			table, err := fetch(ctx, st)
			_ = bus.SendInbound(ctx, b, bus.Kube(Response{Table: table, Err: err}))
		}
	}
}

func fetch(ctx context.Context, st *kubestate.State) (kubetable.Table, error) {
	rtClient := st.RTClient
	namespaces := st.Namespaces()
	multi := len(namespaces) > 1

	var mu sync.Mutex
	var rows []kubetable.Row
	var wg sync.WaitGroup
	var errs []error
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	add := func(kind, name, namespace string, created metav1.Time) {
		mu.Lock()
		rows = append(rows, kubetable.Row{
			Cells:     []string{kind, name, age(created.Time)},
			Namespace: namespace,
			Name:      name,
			Metadata:  map[string]string{"kind": kind},
		})
		mu.Unlock()
	}

	for _, ns := range namespaces {
		ns := ns

		wg.Add(5)
		go func() {
			defer wg.Done()
			l, err := st.Clientset.NetworkingV1().Ingresses(ns).List(ctx, metav1.ListOptions{})
			if err != nil {
				record(fmt.Errorf("listing ingresses in %s: %w", ns, err))
				return
			}
			for _, o := range l.Items {
				add("Ingress", o.Name, ns, o.CreationTimestamp)
			}
		}()
		go func() {
			defer wg.Done()
			l, err := st.Clientset.CoreV1().Services(ns).List(ctx, metav1.ListOptions{})
			if err != nil {
				record(fmt.Errorf("listing services in %s: %w", ns, err))
				return
			}
			for _, o := range l.Items {
				add("Service", o.Name, ns, o.CreationTimestamp)
			}
		}()
		go func() {
			defer wg.Done()
			l, err := st.Clientset.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{})
			if err != nil {
				record(fmt.Errorf("listing pods in %s: %w", ns, err))
				return
			}
			for _, o := range l.Items {
				add("Pod", o.Name, ns, o.CreationTimestamp)
			}
		}()
		go func() {
			defer wg.Done()
			l, err := st.Clientset.NetworkingV1().NetworkPolicies(ns).List(ctx, metav1.ListOptions{})
			if err != nil {
				record(fmt.Errorf("listing network policies in %s: %w", ns, err))
				return
			}
			for _, o := range l.Items {
				add("NetworkPolicy", o.Name, ns, o.CreationTimestamp)
			}
		}()
		go func() {
			defer wg.Done()
			if rtClient == nil {
				return
			}
			var gws gatewayv1.GatewayList
			if err := rtClient.List(ctx, &gws, client.InNamespace(ns)); err != nil {
				record(fmt.Errorf("listing gateways in %s: %w", ns, err))
				return
			}
			for _, o := range gws.Items {
				add("Gateway", o.Name, ns, o.CreationTimestamp)
			}
			var routes gatewayv1.HTTPRouteList
			if err := rtClient.List(ctx, &routes, client.InNamespace(ns)); err != nil {
				record(fmt.Errorf("listing httproutes in %s: %w", ns, err))
				return
			}
			for _, o := range routes.Items {
				add("HTTPRoute", o.Name, ns, o.CreationTimestamp)
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		return kubetable.Table{}, errs[0]
	}

	h := header
	if multi {
		h, rows = kubetable.WithNamespaceColumn(h, rows)
	}
	return kubetable.New(h, rows)
}

func age(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return time.Since(t).Round(time.Second).String()
}
