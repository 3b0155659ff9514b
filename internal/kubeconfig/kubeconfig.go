// Package kubeconfig loads kubeconfig files and builds one *rest.Config /
// *kubernetes.Clientset per context, per spec §6 ("kubeconfig ... Used to
// construct one HTTP client per context") and §9 ("Build one per context at
// startup; share by reference").
package kubeconfig

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"

	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/conduitio/bwlimit"

	"github.com/kubetui/kubetui/internal/kubeerrors"
)

// podPollerReadLimit caps the read and write bandwidth of every REST call a context's
// clientset makes. It exists for PodPoller's wide `-A` multi-namespace Table
// list: nothing else in this module issues requests large enough to matter,
// but the cap is cheapest to apply once here, at the one place a context's
// *rest.Config becomes an http.RoundTripper, mirroring the teacher's rsync
// bandwidth cap applied to this module's HTTP transport instead.
const podPollerReadLimit bwlimit.Limit = 8 * 1024 * 1024

// rateLimitedTransport wraps rt's dial with a read/write bandwidth cap, for use as
// a client-go WrapTransport hook.
func rateLimitedTransport(rt http.RoundTripper) http.RoundTripper {
	base, ok := rt.(*http.Transport)
	if !ok {
		return rt
	}
	clone := base.Clone()
	dialer := bwlimit.NewDialer(&net.Dialer{})
	clone.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr, podPollerReadLimit, podPollerReadLimit)
	}
	return clone
}

// Context describes one named context discovered in the kubeconfig file,
// together with the client built for it.
type Context struct {
	Name             string
	Cluster          string
	DefaultNamespace string
	Clientset        *kubernetes.Clientset
	RESTConfig       *rest.Config
	RESTHost         string
}

// Loader holds the parsed kubeconfig; Build materialises a *Context (and
// its Clientset) for any named context it contains.
type Loader struct {
	api     *clientcmdapi.Config
	current string
}

// Path resolves the kubeconfig location per spec §6: --kubeconfig flag,
// then KUBECONFIG, then the default recommended home file.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return clientcmd.RecommendedHomeFile
	}
	return filepath.Join(home, ".kube", "config")
}

// Load parses the kubeconfig at path. A corrupt kubeconfig is a fatal,
// startup-time ConfigError (spec §4.2: "the supervisor ... panics on
// corrupt kubeconfig" — modelled here as a returned fatal error, since a Go
// error return is the idiomatic analogue of an unrecoverable startup
// condition, with cmd/kubetui calling os.Exit on it).
func Load(path string) (*Loader, error) {
	raw, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return nil, kubeerrors.NewConfigError(kubeerrors.ExitBadKubeconfig, "failed to load kubeconfig %s: %v", path, err)
	}
	if len(raw.Contexts) == 0 {
		return nil, kubeerrors.NewConfigError(kubeerrors.ExitNoContexts, "kubeconfig %s defines no contexts", path)
	}
	return &Loader{api: raw, current: raw.CurrentContext}, nil
}

// Names returns every context name found in the kubeconfig, in the order
// KubeStore should create KubeState entries (spec §3: "created on startup
// for every context found in kubeconfig").
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.api.Contexts))
	for name := range l.api.Contexts {
		names = append(names, name)
	}
	return names
}

// CurrentContext returns the kubeconfig's current-context, or "" if unset.
func (l *Loader) CurrentContext() string { return l.current }

// Build constructs a Context (and its Clientset) for the named context.
func (l *Loader) Build(name string) (*Context, error) {
	ctx, ok := l.api.Contexts[name]
	if !ok {
		return nil, kubeerrors.NewConfigError(kubeerrors.ExitUnknownContext, "unknown context %q", name)
	}

	clientConfig := clientcmd.NewNonInteractiveClientConfig(
		*l.api, name, &clientcmd.ConfigOverrides{}, nil,
	)
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, kubeerrors.NewConfigError(kubeerrors.ExitBadKubeconfig, "building REST config for context %s: %v", name, err)
	}
	restConfig.WrapTransport = rateLimitedTransport

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, kubeerrors.NewConfigError(kubeerrors.ExitBadKubeconfig, "building clientset for context %s: %v", name, err)
	}

	ns := ctx.Namespace
	if ns == "" {
		ns = "default"
	}

	return &Context{
		Name:             name,
		Cluster:          ctx.Cluster,
		DefaultNamespace: ns,
		Clientset:        clientset,
		RESTConfig:       restConfig,
		RESTHost:         restConfig.Host,
	}, nil
}
