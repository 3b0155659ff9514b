// LogStreamer: pod discovery and per-container fan-in streaming with
// timestamp-based resume (spec §4.4). Grounded on log_stream.rs's
// ContainerLogStreamer.fetch/run (5s reconnect interval, sinceSeconds
// resume) generalized from "one streamer, caller already knows the pod"
// to "discover the pod set from a Filter, then fan out one streamer per
// (pod,container)".
package log

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/supervisor"
)

// ReconnectInterval is the per-container reconnect-on-error backoff
// (spec §4.4: "On error: log, wait 5s, reopen").
const ReconnectInterval = 5 * time.Second

// Config bundles a parsed Filter with the prefix style the UI selected.
type Config struct {
	Filter     Filter
	PrefixType PrefixType
}

// Start implements supervisor.LogStarter: discovers the pod set named by
// req, then fans out one streaming task per container into a shared
// Buffer drained every 500ms (spec §4.4).
func Start(ctx context.Context, st *kubestate.State, b *bus.Bus, req supervisor.LogRequest) {
	cfg, ok := req.Filter.(Config)
	if !ok {
		return
	}

	buf := NewBuffer()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		RunDrain(ctx, buf, b)
	}()

	pods, err := discoverPods(ctx, st, cfg.Filter)
	if err != nil {
		_ = bus.SendInbound(ctx, b, bus.Error(bus.ErrTransient, err.Error()))
		wg.Wait()
		return
	}

	var containerWG sync.WaitGroup
	for _, pod := range pods {
		for _, container := range containerNames(pod) {
			if cfg.Filter.ContainerRegex != nil {
				matched := cfg.Filter.ContainerRegex.MatchString(container)
				if matched == cfg.Filter.ContainerNegate {
					continue
				}
			}
			containerWG.Add(1)
			go func(ns, podName, containerName string) {
				defer containerWG.Done()
				streamContainer(ctx, st, buf, cfg, ns, podName, containerName)
			}(pod.Namespace, pod.Name, container)
		}
	}
	containerWG.Wait()
	wg.Wait()
}

func containerNames(pod corev1.Pod) []string {
	names := make([]string, 0, len(pod.Spec.Containers))
	for _, c := range pod.Spec.Containers {
		names = append(names, c.Name)
	}
	return names
}

// discoverPods implements spec §4.4's four discovery strategies.
func discoverPods(ctx context.Context, st *kubestate.State, f Filter) ([]corev1.Pod, error) {
	namespaces := st.Namespaces()
	var out []corev1.Pod

	for _, ns := range namespaces {
		opts := metav1.ListOptions{}
		if f.FieldSelector != "" {
			opts.FieldSelector = f.FieldSelector
		}

		switch {
		case f.LabelSelector != nil && f.LabelSelector.FromResource != nil:
			selector, err := resolveResourceSelector(ctx, st, ns, *f.LabelSelector.FromResource)
			if err != nil {
				return nil, err
			}
			opts.LabelSelector = selector

		case f.LabelSelector != nil:
			opts.LabelSelector = f.LabelSelector.Raw
		}

		list, err := st.Clientset.CoreV1().Pods(ns).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pods in %s: %w", ns, err)
		}

		for _, pod := range list.Items {
			if f.PodRegex != nil {
				matched := f.PodRegex.MatchString(pod.Name)
				if matched == f.PodNegate {
					continue
				}
			}
			out = append(out, pod)
		}
	}
	return out, nil
}

// resolveResourceSelector fetches the named parent resource and derives a
// label selector from its pod template/selector labels
// (spec §4.4: "fetch the parent resource, read its pod template labels").
func resolveResourceSelector(ctx context.Context, st *kubestate.State, ns string, r RetrievableResource) (string, error) {
	apps := st.Clientset.AppsV1()
	switch r.Kind {
	case ResourceDeployment:
		d, err := apps.Deployments(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(d.Spec.Template.Labels).String(), nil
	case ResourceStatefulSet:
		s, err := apps.StatefulSets(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(s.Spec.Template.Labels).String(), nil
	case ResourceDaemonSet:
		d, err := apps.DaemonSets(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(d.Spec.Template.Labels).String(), nil
	case ResourceReplicaSet:
		rs, err := apps.ReplicaSets(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(rs.Spec.Template.Labels).String(), nil
	case ResourceJob:
		j, err := st.Clientset.BatchV1().Jobs(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(j.Spec.Template.Labels).String(), nil
	case ResourceService:
		s, err := st.Clientset.CoreV1().Services(ns).Get(ctx, r.Name, metav1.GetOptions{})
		if err != nil {
			return "", err
		}
		return labels.Set(s.Spec.Selector).String(), nil
	default:
		return "", fmt.Errorf("unsupported resource kind %q for label derivation", r.Kind)
	}
}

var logLineTimestamp = regexp.MustCompile(`^(\S+) (.*)$`)

// streamContainer implements ContainerLogStreamer's fetch/run loop: open a
// follow=true&timestamps=true stream, parse "<timestamp> <body>" lines,
// append prefixed bodies to buf, and reconnect with sinceSeconds resume on
// error (spec §4.4).
func streamContainer(ctx context.Context, st *kubestate.State, buf *Buffer, cfg Config, ns, pod, container string) {
	prefix := Prefix(cfg.PrefixType, ns, pod, container)
	buf.Push(StartedLine(prefix))
	defer buf.Push(FinishedLine(prefix))

	var lastTimestamp time.Time

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		opts := &corev1.PodLogOptions{
			Follow:     true,
			Timestamps: true,
			Container:  container,
		}
		if since := sinceSeconds(lastTimestamp); since != nil {
			opts.SinceSeconds = since
		}

		req := st.Clientset.CoreV1().Pods(ns).GetLogs(pod, opts)
		stream, err := req.Stream(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			waitOrDone(ctx, ReconnectInterval)
			continue
		}

		lastTimestamp = readLines(stream, buf, prefix, cfg, lastTimestamp)
		stream.Close()

		if ctx.Err() != nil {
			return
		}
		waitOrDone(ctx, ReconnectInterval)
	}
}

func readLines(stream io.Reader, buf *Buffer, prefix string, cfg Config, lastTimestamp time.Time) time.Time {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		ts, body, ok := splitTimestamp(line)
		if ok {
			lastTimestamp = ts
		} else {
			body = line
		}

		if cfg.Filter.LogRegex != nil {
			matched := cfg.Filter.LogRegex.MatchString(body)
			if matched == cfg.Filter.LogNegate {
				continue
			}
		}

		buf.Push(prefix + body)
	}
	return lastTimestamp
}

func splitTimestamp(line string) (time.Time, string, bool) {
	m := logLineTimestamp.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, line, false
	}
	ts, err := time.Parse(time.RFC3339Nano, m[1])
	if err != nil {
		return time.Time{}, line, false
	}
	return ts, m[2], true
}

// sinceSeconds implements the original's since_seconds: only resume from a
// positive window, else the server default (full history) applies
// (spec §4.4: "clamped to > 0 so no content is lost and none is duplicated
// beyond a one-second boundary").
func sinceSeconds(last time.Time) *int64 {
	if last.IsZero() {
		return nil
	}
	delta := int64(time.Since(last).Seconds())
	if delta <= 0 {
		return nil
	}
	return &delta
}

func waitOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
