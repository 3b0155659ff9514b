// DescriptionStreamer (spec §4.5): refetches one Gateway or HTTPRoute every
// 3s and additionally discovers its related resources. Other network kinds
// (Ingress, Service, Pod, NetworkPolicy) are not described: every fetch for
// them returns an "unsupported network description kind" error.
// Grounded on the original source's event/kubernetes/network/description.rs
// (per-kind fetch + 1s interval, generalised here to the shared 3s
// YAML/description cadence) and description/gateway/v1/description.rs's
// wrapper-struct shape for the primary object.
package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/kubetui/kubetui/internal/bus"
	yamlkube "github.com/kubetui/kubetui/internal/features/yaml/kube"
	"github.com/kubetui/kubetui/internal/kubestate"
	"github.com/kubetui/kubetui/internal/supervisor"
)

// gatewayGroup is the Gateway-API group both supported versions live under.
const gatewayGroup = "gateway.networking.k8s.io"

// defaultGatewayVersion is used when a NetworkDescriptionRequest leaves
// Version unset, keeping existing callers (pre-dating the v1beta1 add)
// working unchanged.
const defaultGatewayVersion = "v1"

// DescriptionRefetchInterval matches YamlStreamer's cadence (spec §5).
const DescriptionRefetchInterval = 3 * time.Second

// DescriptionResponse is the NetworkDescriptionResponse message carried
// over the bus.
type DescriptionResponse struct {
	Lines []string
	Err   error
}

// StartDescription implements supervisor.NetworkDescriptionStarter. Gateway
// and HTTPRoute kinds read st.RTClient, the controller-runtime client built
// for this context.
func StartDescription(ctx context.Context, st *kubestate.State, b *bus.Bus, req supervisor.NetworkDescriptionRequest) {
	emit := func() {
		lines, err := fetchDescription(ctx, st, req)
		_ = bus.SendInbound(ctx, b, bus.Kube(DescriptionResponse{Lines: lines, Err: err}))
	}

	emit()

	ticker := time.NewTicker(DescriptionRefetchInterval)
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

func fetchDescription(ctx context.Context, st *kubestate.State, req supervisor.NetworkDescriptionRequest) ([]string, error) {
	rtClient := st.RTClient
	if rtClient == nil {
		return nil, fmt.Errorf("no controller-runtime client available for context %s", st.ContextName)
	}

	version := req.Version
	if version == "" {
		version = defaultGatewayVersion
	}

	var primary any
	var related relatedResources
	var err error

	switch strings.ToLower(req.Kind) {
	case "gateway":
		var gw gatewayv1.Gateway
		key := client.ObjectKey{Namespace: req.Namespace, Name: req.Name}
		if err = fetchVersioned(ctx, rtClient, version, "Gateway", key, &gw); err != nil {
			return nil, fmt.Errorf("fetching gateway %s/%s (%s): %w", req.Namespace, req.Name, version, err)
		}
		primary = gw
		related, err = relatedResourcesForGateway(ctx, st, gw)
	case "httproute":
		var hr gatewayv1.HTTPRoute
		key := client.ObjectKey{Namespace: req.Namespace, Name: req.Name}
		if err = fetchVersioned(ctx, rtClient, version, "HTTPRoute", key, &hr); err != nil {
			return nil, fmt.Errorf("fetching httproute %s/%s (%s): %w", req.Namespace, req.Name, version, err)
		}
		primary = hr
		related, err = relatedResourcesForHTTPRoute(ctx, st, hr)
	default:
		return nil, fmt.Errorf("unsupported network description kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}

	return renderDescription(primary, related)
}

// fetchVersioned fetches kind at the given Gateway-API GroupVersion through
// an explicit-GVK unstructured Get, then decodes the result into out. Using
// Unstructured here (rather than a typed gatewayv1/gatewayv1beta1 struct) is
// what lets the apiVersion on the wire be the one req actually named instead
// of whichever version the typed Go type happens to be registered under —
// v1beta1's Gateway/HTTPRoute Go types are themselves aliases of the v1
// ones, so a typed Get can't distinguish the two (spec §9 "the version is
// carried in the request payload, not inferred").
func fetchVersioned(ctx context.Context, rtClient client.Client, version, kind string, key client.ObjectKey, out any) error {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(schema.GroupVersionKind{Group: gatewayGroup, Version: version, Kind: kind})
	if err := rtClient.Get(ctx, key, u); err != nil {
		return err
	}
	return runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, out)
}

// relatedPod is one Pod discovered via a downstream Service's selector,
// kept paired with the Service it was reached through (spec §8 scenario 4:
// the pods: entries carry a service: association, not a flat resource list).
type relatedPod struct {
	Name    string
	Service string
}

// relatedResources groups discovered related objects by kind rather than as
// a flat list, so renderDescription can emit the structured
// gateways:/httpRoutes:/services:/pods: shape spec §8 scenario 4 describes.
type relatedResources struct {
	Gateways   []string
	HTTPRoutes []string
	Services   []string
	Pods       []relatedPod
}

func (r relatedResources) empty() bool {
	return len(r.Gateways) == 0 && len(r.HTTPRoutes) == 0 && len(r.Services) == 0 && len(r.Pods) == 0
}

// renderDescription marshals the primary object to JSON, reuses
// YamlStreamer's managedFields-stripping YAML conversion, then appends a
// blank line and a relatedResources: block (spec §4.5: "Emit the primary
// YAML followed by a blank line and a relatedResources: block").
func renderDescription(primary any, related relatedResources) ([]string, error) {
	jsonBody, err := jsonMarshalObject(primary)
	if err != nil {
		return nil, fmt.Errorf("encoding description: %w", err)
	}

	lines, err := yamlkube.ToYamlLines(jsonBody)
	if err != nil {
		return nil, err
	}

	if related.empty() {
		return lines, nil
	}

	out := append(lines, "", "relatedResources:")
	if len(related.Gateways) > 0 {
		out = append(out, "  gateways:")
		for _, g := range related.Gateways {
			out = append(out, "    - "+g)
		}
	}
	if len(related.HTTPRoutes) > 0 {
		out = append(out, "  httpRoutes:")
		for _, r := range related.HTTPRoutes {
			out = append(out, "    - "+r)
		}
	}
	if len(related.Services) > 0 {
		out = append(out, "  services:")
		for _, s := range related.Services {
			out = append(out, "    - "+s)
		}
	}
	if len(related.Pods) > 0 {
		out = append(out, "  pods:")
		for _, p := range related.Pods {
			out = append(out, "    - name: "+p.Name, "      service: "+p.Service)
		}
	}
	return out, nil
}

// relatedResourcesForHTTPRoute discovers parent Gateways (spec.parentRefs),
// downstream Services (each rule's backendRefs whose kind is Service), and
// Pods selected by each Service's selector (spec §4.5).
func relatedResourcesForHTTPRoute(ctx context.Context, st *kubestate.State, hr gatewayv1.HTTPRoute) (relatedResources, error) {
	var out relatedResources

	for _, ref := range hr.Spec.ParentRefs {
		if ref.Kind != nil && *ref.Kind != "Gateway" {
			continue
		}
		ns := hr.Namespace
		if ref.Namespace != nil {
			ns = string(*ref.Namespace)
		}
		out.Gateways = append(out.Gateways, fmt.Sprintf("%s/%s", ns, ref.Name))
	}

	serviceNames := backendServiceNames(hr.Namespace, hr.Spec.Rules)
	out.Services, out.Pods = servicesAndPods(ctx, st, serviceNames)
	return out, nil
}

// relatedResourcesForGateway discovers HTTPRoutes that reference it
// (honouring allowedRoutes.namespaces.from), downstream Services, and Pods
// (spec §4.5).
func relatedResourcesForGateway(ctx context.Context, st *kubestate.State, gw gatewayv1.Gateway) (relatedResources, error) {
	var routes gatewayv1.HTTPRouteList
	if err := st.RTClient.List(ctx, &routes); err != nil {
		return relatedResources{}, fmt.Errorf("listing httproutes: %w", err)
	}

	var out relatedResources
	serviceNames := map[string]string{}

	for _, hr := range routes.Items {
		if !httpRouteReferencesGateway(ctx, st, hr, gw) {
			continue
		}
		out.HTTPRoutes = append(out.HTTPRoutes, fmt.Sprintf("%s/%s", hr.Namespace, hr.Name))
		for k, ns := range backendServiceNames(hr.Namespace, hr.Spec.Rules) {
			serviceNames[k] = ns
		}
	}

	out.Services, out.Pods = servicesAndPods(ctx, st, serviceNames)
	return out, nil
}

// backendServiceNames collects the Service-kind backendRefs of rules,
// keyed "namespace/name" -> namespace, defaulting a ref's namespace to
// defaultNS when unset.
func backendServiceNames(defaultNS string, rules []gatewayv1.HTTPRouteRule) map[string]string {
	out := map[string]string{}
	for _, rule := range rules {
		for _, backend := range rule.BackendRefs {
			if backend.Kind != nil && *backend.Kind != "Service" {
				continue
			}
			ns := defaultNS
			if backend.Namespace != nil {
				ns = string(*backend.Namespace)
			}
			out[ns+"/"+string(backend.Name)] = ns
		}
	}
	return out
}

// servicesAndPods fetches each named Service and the Pods its selector
// matches, returning the Service list and each Pod paired with the Service
// that selected it.
func servicesAndPods(ctx context.Context, st *kubestate.State, serviceNames map[string]string) ([]string, []relatedPod) {
	var services []string
	var pods []relatedPod

	for key, ns := range serviceNames {
		name := strings.TrimPrefix(key, ns+"/")
		serviceRef := fmt.Sprintf("%s/%s", ns, name)
		services = append(services, serviceRef)

		svc, err := st.Clientset.CoreV1().Services(ns).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			continue
		}
		names, err := podsSelectedBy(ctx, st, ns, svc.Spec.Selector)
		if err != nil {
			continue
		}
		for _, n := range names {
			pods = append(pods, relatedPod{Name: n, Service: serviceRef})
		}
	}

	return services, pods
}

// httpRouteReferencesGateway checks an HTTPRoute's parentRefs against gw,
// then whether gw's matching listener's allowedRoutes.namespaces.from
// permits the route's namespace (spec §4.5: "honouring
// allowedRoutes.namespaces.from ∈ {All, Same, Selector}").
func httpRouteReferencesGateway(ctx context.Context, st *kubestate.State, hr gatewayv1.HTTPRoute, gw gatewayv1.Gateway) bool {
	for _, ref := range hr.Spec.ParentRefs {
		if ref.Kind != nil && *ref.Kind != "Gateway" {
			continue
		}
		ns := hr.Namespace
		if ref.Namespace != nil {
			ns = string(*ref.Namespace)
		}
		if ns != gw.Namespace || string(ref.Name) != gw.Name {
			continue
		}
		return gatewayAllowsNamespace(ctx, st, gw, hr.Namespace)
	}
	return false
}

// gatewayAllowsNamespace honours allowedRoutes.namespaces.from ∈
// {All, Same, Selector} (spec §4.5). A listener carrying no AllowedRoutes
// defaults to Same, per the Gateway API spec.
func gatewayAllowsNamespace(ctx context.Context, st *kubestate.State, gw gatewayv1.Gateway, routeNamespace string) bool {
	for _, listener := range gw.Spec.Listeners {
		from := gatewayv1.NamespacesFromSame
		var selector *metav1.LabelSelector
		if listener.AllowedRoutes != nil && listener.AllowedRoutes.Namespaces != nil {
			if listener.AllowedRoutes.Namespaces.From != nil {
				from = *listener.AllowedRoutes.Namespaces.From
			}
			selector = listener.AllowedRoutes.Namespaces.Selector
		}

		switch from {
		case gatewayv1.NamespacesFromAll:
			return true
		case gatewayv1.NamespacesFromSame:
			if routeNamespace == gw.Namespace {
				return true
			}
		case gatewayv1.NamespacesFromSelector:
			if selector == nil {
				continue
			}
			if namespaceMatchesSelector(ctx, st, routeNamespace, selector) {
				return true
			}
		}
	}
	return false
}

func namespaceMatchesSelector(ctx context.Context, st *kubestate.State, namespace string, selector *metav1.LabelSelector) bool {
	sel, err := metav1.LabelSelectorAsSelector(selector)
	if err != nil {
		return false
	}
	ns, err := st.Clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err != nil {
		return false
	}
	return sel.Matches(labels.Set(ns.Labels))
}

func podsSelectedBy(ctx context.Context, st *kubestate.State, ns string, selector map[string]string) ([]string, error) {
	if len(selector) == 0 {
		return nil, nil
	}
	set := labels.Set(selector)
	pods, err := st.Clientset.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{LabelSelector: set.AsSelector().String()})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(pods.Items))
	for _, p := range pods.Items {
		out = append(out, fmt.Sprintf("Pod/%s/%s", ns, p.Name))
	}
	return out, nil
}

func jsonMarshalObject(obj any) ([]byte, error) {
	switch v := obj.(type) {
	case gatewayv1.Gateway:
		return json.Marshal(v)
	case gatewayv1.HTTPRoute:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported description object type %T", obj)
	}
}
