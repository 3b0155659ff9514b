// Package log implements the log pipeline (spec §4.4): the query-language
// parser, the stable per-pod/container color palette, LogBuffer, and
// LogStreamer. Grounded on the original source's event/kubernetes/log
// module (filter.rs for the query grammar, log_stream.rs for the
// per-container fetch/reconnect loop and prefix/color derivation).
package log

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/kubetui/kubetui/internal/kubeerrors"
)

// ResourceKind is the closed set of workload kinds the `<resource>/<name>`
// query form and label-selector-by-resource support (spec §6).
type ResourceKind string

const (
	ResourcePod         ResourceKind = "pod"
	ResourceDaemonSet   ResourceKind = "daemonset"
	ResourceDeployment  ResourceKind = "deployment"
	ResourceJob         ResourceKind = "job"
	ResourceReplicaSet  ResourceKind = "replicaset"
	ResourceService     ResourceKind = "service"
	ResourceStatefulSet ResourceKind = "statefulset"
)

var resourceAliases = map[string]ResourceKind{
	"pod": ResourcePod, "pods": ResourcePod, "po": ResourcePod, "p": ResourcePod,
	"daemonset": ResourceDaemonSet, "daemonsets": ResourceDaemonSet, "ds": ResourceDaemonSet,
	"deployment": ResourceDeployment, "deployments": ResourceDeployment, "deploy": ResourceDeployment, "de": ResourceDeployment,
	"job": ResourceJob, "jobs": ResourceJob, "j": ResourceJob,
	"replicaset": ResourceReplicaSet, "replicasets": ResourceReplicaSet, "rs": ResourceReplicaSet,
	"service": ResourceService, "services": ResourceService, "svc": ResourceService,
	"statefulset": ResourceStatefulSet, "statefulsets": ResourceStatefulSet, "sts": ResourceStatefulSet,
}

// RetrievableResource identifies a workload whose pod template/selector
// labels are derived into a label selector (spec §3 RetrievableResource).
type RetrievableResource struct {
	Kind ResourceKind
	Name string
}

func (r RetrievableResource) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.Name)
}

// LabelSelector is either a raw selector string or one derived from a
// RetrievableResource's template labels (spec §3 LogConfig/LogFilter).
type LabelSelector struct {
	FromResource *RetrievableResource
	Raw          string
}

func (l LabelSelector) String() string {
	if l.FromResource != nil {
		return "label_selector_from=" + l.FromResource.String()
	}
	return "label_selector=" + l.Raw
}

// Filter is the parsed query (spec §3 LogConfig/LogFilter, §6 query
// language). ContainerRegex/LogRegex extend the original source's Filter
// (which only carried pod_filter/label_selector/field_selector) to cover
// the container:/log: query attributes spec §6 also lists.
type Filter struct {
	PodRegex        *regexp.Regexp
	PodNegate       bool
	ContainerRegex  *regexp.Regexp
	ContainerNegate bool
	LogRegex        *regexp.Regexp
	LogNegate       bool
	LabelSelector   *LabelSelector
	FieldSelector   string
}

func (f Filter) String() string {
	var parts []string
	if f.PodRegex != nil {
		parts = append(parts, fmt.Sprintf("pod_filter=%s", f.PodRegex.String()))
	}
	if f.LabelSelector != nil {
		parts = append(parts, f.LabelSelector.String())
	}
	if f.FieldSelector != "" {
		parts = append(parts, fmt.Sprintf("field_selector=%s", f.FieldSelector))
	}
	return strings.Join(parts, " ")
}

// ParseFilter implements spec §6's log query language. It is total: every
// input either yields a Filter or a kubeerrors.SyntaxError/RegexError,
// never a panic (spec §8 invariant).
func ParseFilter(query string) (Filter, error) {
	tokens, err := shlex.Split(query)
	if err != nil {
		return Filter{}, &kubeerrors.SyntaxError{Msg: fmt.Sprintf("could not tokenize query: %v", err)}
	}

	var f Filter
	var hasLabelSelector, hasRetrieveLabels bool

	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		negate := strings.HasPrefix(tok, "!")
		body := strings.TrimPrefix(tok, "!")

		switch {
		case hasPrefixAny(body, "pod:", "pods:", "po:", "p:"):
			re, err := compile(valueAfterColon(body))
			if err != nil {
				return Filter{}, err
			}
			f.PodRegex, f.PodNegate = re, negate

		case hasPrefixAny(body, "container:", "co:", "c:"):
			re, err := compile(valueAfterColon(body))
			if err != nil {
				return Filter{}, err
			}
			f.ContainerRegex, f.ContainerNegate = re, negate

		case hasPrefixAny(body, "log:", "lo:", "l:"):
			re, err := compile(valueAfterColon(body))
			if err != nil {
				return Filter{}, err
			}
			f.LogRegex, f.LogNegate = re, negate

		case strings.HasPrefix(body, "label:"):
			f.LabelSelector = &LabelSelector{Raw: valueAfterColon(body)}
			hasLabelSelector = true

		case strings.HasPrefix(body, "field:"):
			f.FieldSelector = valueAfterColon(body)

		case strings.Contains(body, "/"):
			resource, err := parseResourceName(body)
			if err != nil {
				return Filter{}, err
			}
			if resource.Kind == ResourcePod {
				re, err := compile("^" + regexp.QuoteMeta(resource.Name) + "$")
				if err != nil {
					return Filter{}, err
				}
				f.PodRegex = re
			} else {
				f.LabelSelector = &LabelSelector{FromResource: &resource}
				hasRetrieveLabels = true
			}

		default:
			re, err := compile(body)
			if err != nil {
				return Filter{}, err
			}
			f.PodRegex = re
		}
	}

	if hasLabelSelector && hasRetrieveLabels {
		return Filter{}, &kubeerrors.SyntaxError{
			Msg: "Label selectors and resource/name queries cannot be used together. Please choose one filtering option.",
		}
	}

	return f, nil
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func valueAfterColon(s string) string {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

func parseResourceName(s string) (RetrievableResource, error) {
	idx := strings.IndexByte(s, '/')
	kindStr, name := s[:idx], s[idx+1:]
	kind, ok := resourceAliases[strings.ToLower(kindStr)]
	if !ok || name == "" {
		return RetrievableResource{}, &kubeerrors.SyntaxError{Msg: fmt.Sprintf("unrecognized resource query %q", s)}
	}
	return RetrievableResource{Kind: kind, Name: name}, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &kubeerrors.RegexError{Pattern: pattern, Cause: err}
	}
	return re, nil
}
