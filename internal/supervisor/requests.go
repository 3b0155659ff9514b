package supervisor

import "github.com/kubetui/kubetui/internal/kubestate"

// SetContextRequest asks the supervisor to switch the active context
// (spec §4.2 SetContext). KeepNamespace carries the previous context's
// target-namespace list over to the new one.
type SetContextRequest struct {
	Name          string
	KeepNamespace bool
}

// SetContextResponse confirms a context switch completed; the UI clears
// every widget on receipt (spec §4.2: "Clears every widget via the
// response channel").
type SetContextResponse struct {
	Name string
}

// SetNamespacesRequest asks the supervisor to update the active context's
// target namespaces (spec §4.2 SetNamespaces).
type SetNamespacesRequest struct {
	Namespaces []string
}

// LogRequest carries a parsed log query to the supervisor (spec §4.2
// LogRequest). Filter is `any` here to avoid an import cycle with the log
// feature package; the concrete type is internal/features/pod/log.Filter.
type LogRequest struct {
	Filter any
}

// YamlRequest asks for a periodically-refetched YAML description of one
// object (spec §4.2 YamlRequest).
type YamlRequest struct {
	Kind      string
	Name      string
	Namespace string
}

// NetworkDescriptionRequest asks for a periodically-refetched description of
// a Gateway or HTTPRoute, including its related resources (spec §4.2
// NetworkRequest, §4.5); the description streamer answers every other kind
// with an "unsupported network description kind" error. Version is the
// Gateway-API GroupVersion to fetch against ("v1" or "v1beta1"); it is
// carried explicitly in the request rather than inferred from discovery
// (spec §9), defaulting to "v1" when unset.
type NetworkDescriptionRequest struct {
	Kind      string
	Name      string
	Namespace string
	Version   string
}

// ApiRequest with Set true replaces the target API-resource set used by the
// API tab (spec §4.2 ApiRequest); the supervisor ignores a request with Set
// false.
type ApiRequest struct {
	Set       bool
	Resources []kubestate.ApiResource
}
