// Package kube implements PodPoller (spec §4.3): a 1s-cadence task that
// lists pods in every target namespace via the Kubernetes Table API and
// merges them into one kubetable.Table, color-annotating the Status column.
// Grounded on the teacher's informer-based resource watching
// (operator/resource_listener.go) generalized from watch-and-cache to
// poll-and-merge, since this spec's pollers re-fetch on a fixed cadence
// rather than maintaining a long-lived watch.
package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/kubetui/kubetui/internal/ansi"
	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/kubetable"
)

// PollInterval is the list-poller cadence spec §5 mandates ("list pollers 1s").
const PollInterval = time.Second

// tableAcceptHeader requests the Kubernetes meta.k8s.io Table representation
// (spec §6): named columns + rows instead of raw objects.
const tableAcceptHeader = "application/json;as=Table;v=v1;g=meta.k8s.io,application/json;as=Table;v=v1beta1;g=meta.k8s.io,application/json"

// Response is the PodResponse message carried over the bus.
type Response struct {
	Table kubetable.Table
	Err   error
}

// partialTableRow mirrors the subset of the meta.k8s.io Table wire format
// PodPoller needs: cells plus the object's identifying metadata.
type partialTableRow struct {
	Cells  []any `json:"cells"`
	Object struct {
		Metadata struct {
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
		} `json:"metadata"`
	} `json:"object"`
}

type partialTable struct {
	ColumnDefinitions []struct {
		Name string `json:"name"`
	} `json:"columnDefinitions"`
	Rows []partialTableRow `json:"rows"`
}

// Start runs PodPoller until ctx is cancelled (spec §4.3 poller loop).
func Start(ctx context.Context, st *kubestate.State, b *bus.Bus) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			table, err := fetch(ctx, st)
			resp := Response{Table: table, Err: err}
			_ = bus.SendInbound(ctx, b, bus.Kube(resp))
		}
	}
}

func fetch(ctx context.Context, st *kubestate.State) (kubetable.Table, error) {
	namespaces := st.Namespaces()
	multi := len(namespaces) > 1

	var rows []kubetable.Row
	var header []string
	var statusIdx = -1

	for _, ns := range namespaces {
		raw, err := fetchNamespaceTable(ctx, st.Clientset, ns)
		if err != nil {
			return kubetable.Table{}, fmt.Errorf("listing pods in %s: %w", ns, err)
		}
		if header == nil {
			header = columnHeader(raw)
			statusIdx = indexOfFold(header, "STATUS")
		}
		for _, r := range raw.Rows {
			rows = append(rows, toRow(ns, r, statusIdx))
		}
	}

	if header == nil {
		header = []string{"NAME", "READY", "STATUS", "AGE"}
	}

	if multi {
		header, rows = kubetable.WithNamespaceColumn(header, rows)
	}

	return kubetable.New(header, rows)
}

func fetchNamespaceTable(ctx context.Context, clientset *kubernetes.Clientset, ns string) (*partialTable, error) {
	raw, err := clientset.CoreV1().RESTClient().
		Get().
		Namespace(ns).
		Resource("pods").
		VersionedParams(&metav1.ListOptions{}, metav1.ParameterCodec).
		SetHeader("Accept", tableAcceptHeader).
		DoRaw(ctx)
	if err != nil {
		return nil, err
	}
	var result partialTable
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding pod table: %w", err)
	}
	return &result, nil
}

func columnHeader(t *partialTable) []string {
	out := make([]string, len(t.ColumnDefinitions))
	for i, c := range t.ColumnDefinitions {
		out[i] = strings.ToUpper(c.Name)
	}
	return out
}

func indexOfFold(header []string, want string) int {
	for i, h := range header {
		if strings.EqualFold(h, want) {
			return i
		}
	}
	return -1
}

func toRow(ns string, r partialTableRow, statusIdx int) kubetable.Row {
	cells := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = fmt.Sprintf("%v", c)
	}
	if statusIdx >= 0 && statusIdx < len(cells) {
		cells[statusIdx] = colorStatus(cells[statusIdx])
	}
	return kubetable.Row{
		Cells:     cells,
		Namespace: ns,
		Name:      r.Object.Metadata.Name,
		Metadata:  map[string]string{"kind": "Pod"},
	}
}

// colorStatus matches the original source's substring rules (pod.rs), not
// exact status equality: "CrashLoopBackOff", "ImagePullBackOff",
// "CreateContainerError" etc. all contain one of the red markers without
// equaling any single status string.
func colorStatus(status string) string {
	switch {
	case status == "Completed" || strings.Contains(status, "Evicted"):
		return ansi.Gray(status)
	case strings.Contains(status, "BackOff") || strings.Contains(status, "Err") || strings.Contains(status, "Unknown"):
		return ansi.Red(status)
	default:
		return status
	}
}
