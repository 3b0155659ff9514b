// Package kube implements ConfigPoller (spec §4.3): fetches ConfigMaps and
// Secrets per namespace in parallel and merges them into one table, plus
// RawConfigMap/RawSecret, single-object fetches.
package kube

import (
	"context"
	"fmt"
	"sync"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/kubetable"
)

// PollInterval matches the other list pollers (spec §5).
const PollInterval = time.Second

var header = []string{"KIND", "NAME", "DATA", "AGE"}

// Response is the ConfigResponse message carried over the bus.
type Response struct {
	Table kubetable.Table
	Err   error
}

// Start runs ConfigPoller until ctx is cancelled.
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
	namespaces := st.Namespaces()
	multi := len(namespaces) > 1

	var mu sync.Mutex
	var rows []kubetable.Row
	var firstErr error

	var wg sync.WaitGroup
	for _, ns := range namespaces {
		ns := ns
		wg.Add(2)
		go func() {
			defer wg.Done()
			cms, err := st.Clientset.CoreV1().ConfigMaps(ns).List(ctx, metav1.ListOptions{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("listing configmaps in %s: %w", ns, err)
				}
				return
			}
			for _, cm := range cms.Items {
				rows = append(rows, kubetable.Row{
					Cells:     []string{"ConfigMap", cm.Name, fmt.Sprintf("%d", len(cm.Data)), age(cm.CreationTimestamp.Time)},
					Namespace: ns,
					Name:      cm.Name,
					Metadata:  map[string]string{"kind": "ConfigMap"},
				})
			}
		}()
		go func() {
			defer wg.Done()
			secrets, err := st.Clientset.CoreV1().Secrets(ns).List(ctx, metav1.ListOptions{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("listing secrets in %s: %w", ns, err)
				}
				return
			}
			for _, sec := range secrets.Items {
				rows = append(rows, kubetable.Row{
					Cells:     []string{"Secret", sec.Name, fmt.Sprintf("%d", len(sec.Data)), age(sec.CreationTimestamp.Time)},
					Namespace: ns,
					Name:      sec.Name,
					Metadata:  map[string]string{"kind": "Secret"},
				})
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return kubetable.Table{}, firstErr
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

// RawConfigMap fetches the decoded body of a single ConfigMap.
func RawConfigMap(ctx context.Context, st *kubestate.State, ns, name string) (map[string]string, error) {
	cm, err := st.Clientset.CoreV1().ConfigMaps(ns).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return cm.Data, nil
}

// RawSecret fetches the decoded body of a single Secret.
func RawSecret(ctx context.Context, st *kubestate.State, ns, name string) (map[string][]byte, error) {
	sec, err := st.Clientset.CoreV1().Secrets(ns).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}
