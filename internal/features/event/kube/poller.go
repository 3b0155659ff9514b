// Package kube implements EventPoller (spec §4.3): lists events per target
// namespace, merges and sorts by Last-Seen ascending, and renders
// multi-line messages with a dimmed "> " continuation prefix.
package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubetui/kubetui/internal/ansi"
	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/kubetable"
)

// PollInterval matches PodPoller's 1s list cadence (spec §5).
const PollInterval = time.Second

var header = []string{"LAST SEEN", "OBJECT", "REASON", "MESSAGE"}

// Response is the EventResponse message carried over the bus.
type Response struct {
	Table kubetable.Table
	Err   error
}

// Start runs EventPoller until ctx is cancelled.
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

	type entry struct {
		lastSeen time.Time
		row      kubetable.Row
	}
	var entries []entry

	for _, ns := range namespaces {
		list, err := st.Clientset.CoreV1().Events(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return kubetable.Table{}, fmt.Errorf("listing events in %s: %w", ns, err)
		}
		for _, ev := range list.Items {
			lastSeen := ev.LastTimestamp.Time
			message := renderMessage(ev.Message)
			entries = append(entries, entry{
				lastSeen: lastSeen,
				row: kubetable.Row{
					Cells:     []string{lastSeen.Format(time.RFC3339), ev.InvolvedObject.Kind + "/" + ev.InvolvedObject.Name, ev.Reason, message},
					Namespace: ns,
					Name:      ev.Name,
					Metadata:  map[string]string{"kind": "Event"},
				},
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].lastSeen.Before(entries[j].lastSeen) })

	rows := make([]kubetable.Row, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}

	h := header
	if multi {
		h, rows = kubetable.WithNamespaceColumn(h, rows)
	}
	return kubetable.New(h, rows)
}

// renderMessage splits a multi-line event message into the primary line
// plus dimmed "> "-prefixed continuation lines (spec §4.3).
func renderMessage(msg string) string {
	lines := strings.Split(msg, "\n")
	if len(lines) == 1 {
		return lines[0]
	}
	out := make([]string, len(lines))
	out[0] = lines[0]
	for i, l := range lines[1:] {
		out[i+1] = ansi.Gray("> " + l)
	}
	return strings.Join(out, "\n")
}
