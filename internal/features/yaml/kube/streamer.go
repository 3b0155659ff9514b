// Package kube implements YamlStreamer (spec §4.5): refetch one object
// every 3s, strip metadata.managedFields, re-serialise to YAML lines.
// Grounded on the original source's event/kubernetes/yaml.rs
// (fetch_resource_yaml: raw GET, serde_json -> serde_yaml round trip).
package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/supervisor"
)

// RefetchInterval is spec §5's "YAML/description 3 s" cadence.
const RefetchInterval = 3 * time.Second

// Start implements supervisor.YamlStarter: refetches req's object every
// RefetchInterval and emits a Response until ctx is cancelled.
func Start(ctx context.Context, st *kubestate.State, b *bus.Bus, req supervisor.YamlRequest) {
	emit := func() {
		lines, err := fetch(ctx, st, req.Kind, req.Namespace, req.Name)
		_ = bus.SendInbound(ctx, b, bus.Kube(Response{Lines: lines, Err: err}))
	}

	emit()

	ticker := time.NewTicker(RefetchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		}
	}
}

// Response is the YamlResponse message carried over the bus.
type Response struct {
	Lines []string
	Err   error
}

// fetch resolves kind against the discovered API resource set, issues the
// raw GET, strips managedFields, and re-serialises to YAML lines
// (spec §4.5).
func fetch(ctx context.Context, st *kubestate.State, kind, namespace, name string) ([]string, error) {
	res, ok := findAPIResource(st, kind)
	if !ok {
		return nil, fmt.Errorf("%s not found in discovered API resources", kind)
	}

	path := res.GroupVersionURL() + "/" + res.Name
	if res.Namespaced {
		path = res.GroupVersionURL() + "/namespaces/" + namespace + "/" + res.Name
	}
	path += "/" + name

	raw, err := st.Clientset.CoreV1().RESTClient().Get().AbsPath(path).DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", kind, name, err)
	}

	return ToYamlLines(raw)
}

// ToYamlLines strips metadata.managedFields from a JSON object body and
// re-serialises it to YAML, split into lines (spec §4.5, §8 invariant:
// "re-serialising yields text that deserialises back into an equal object
// (ignoring managedFields)").
func ToYamlLines(jsonBody []byte) ([]string, error) {
	stripped, err := StripManagedFields(jsonBody)
	if err != nil {
		return nil, err
	}

	yamlBytes, err := yaml.JSONToYAML(stripped)
	if err != nil {
		return nil, fmt.Errorf("converting to yaml: %w", err)
	}

	return strings.Split(strings.TrimRight(string(yamlBytes), "\n"), "\n"), nil
}

// StripManagedFields deletes metadata.managedFields from a JSON object
// body, tolerating bodies that carry no metadata at all.
func StripManagedFields(jsonBody []byte) ([]byte, error) {
	var obj map[string]any
	if err := json.Unmarshal(jsonBody, &obj); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}

	if metadata, ok := obj["metadata"].(map[string]any); ok {
		delete(metadata, "managedFields")
	}

	return json.Marshal(obj)
}

func findAPIResource(st *kubestate.State, kind string) (kubestate.ApiResource, bool) {
	for _, r := range st.ApiResources() {
		if strings.EqualFold(r.Kind, kind) || strings.EqualFold(r.Name, kind) {
			return r, true
		}
	}
	return kubestate.ApiResource{}, false
}
