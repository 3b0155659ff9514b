package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/kubeconfig"
	"github.com/kubetui/kubetui/internal/kubestate"
)

const testKubeconfig = `
apiVersion: v1
kind: Config
current-context: test
clusters:
- name: test-cluster
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test-cluster
    namespace: test-ns
users: []
`

func newTestLoader(t *testing.T) *kubeconfig.Loader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(testKubeconfig), 0o600))
	loader, err := kubeconfig.Load(path)
	require.NoError(t, err)
	return loader
}

func TestSupervisorSetContextSpawnsPollersAndNotifiesUI(t *testing.T) {
	b := bus.New()
	loader := newTestLoader(t)

	var started, stopped int32
	poller := Poller{
		Name: "pod",
		Start: func(ctx context.Context, st *kubestate.State, b *bus.Bus) {
			atomic.AddInt32(&started, 1)
			<-ctx.Done()
			atomic.AddInt32(&stopped, 1)
		},
	}

	sup := New(b, loader, []Poller{poller})

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- sup.Run(ctx) }()

	select {
	case msg := <-b.InboundReceiver():
		resp, ok := msg.Kube.(SetContextResponse)
		assert.True(t, ok)
		assert.Equal(t, "test", resp.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SetContextResponse")
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&started) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not shut down in time")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&stopped))
}

func TestSupervisorSetNamespacesUpdatesActiveState(t *testing.T) {
	b := bus.New()
	loader := newTestLoader(t)
	sup := New(b, loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	<-b.InboundReceiver()

	sup.SetNamespaces([]string{"a", "b"})
	assert.Eventually(t, func() bool {
		st := sup.activeState()
		if st == nil {
			return false
		}
		ns := st.Namespaces()
		return len(ns) == 2 && ns[0] == "a" && ns[1] == "b"
	}, time.Second, 10*time.Millisecond)
}

func TestSupervisorUnknownContextEmitsError(t *testing.T) {
	b := bus.New()
	loader := newTestLoader(t)
	sup := New(b, loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	<-b.InboundReceiver() // initial SetContextResponse

	err := sup.SetContext(ctx, "does-not-exist", false)
	assert.Error(t, err)

	sup.dispatch(ctx, bus.Kube(SetContextRequest{Name: "does-not-exist"}))
	msg := <-b.InboundReceiver()
	assert.Equal(t, bus.KindError, msg.Kind)
	require.NotNil(t, msg.Err)
	assert.Equal(t, bus.ErrConfiguration, msg.Err.Kind)
}
