package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInboundBlocksWhenFull(t *testing.T) {
	b := &Bus{inbound: make(chan Message, 1)}
	require.NoError(t, SendInbound(context.Background(), b, Tick()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := SendInbound(ctx, b, Tick())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendOutboundDeliversAfterDrain(t *testing.T) {
	b := &Bus{outbound: make(chan Message, 1)}
	require.NoError(t, SendOutbound(context.Background(), b, Kube("first")))

	done := make(chan error, 1)
	go func() {
		done <- SendOutbound(context.Background(), b, Kube("second"))
	}()

	select {
	case <-done:
		t.Fatal("send should have blocked until the buffer drained")
	case <-time.After(10 * time.Millisecond):
	}

	msg := <-b.outbound
	assert.Equal(t, "first", msg.Kube)

	require.NoError(t, <-done)
	msg = <-b.outbound
	assert.Equal(t, "second", msg.Kube)
}

func TestMessageConstructors(t *testing.T) {
	errMsg := Error(ErrParse, "bad filter")
	assert.Equal(t, KindError, errMsg.Kind)
	assert.Equal(t, ErrParse, errMsg.Err.Kind)

	tickMsg := Tick()
	assert.Equal(t, KindTick, tickMsg.Kind)

	kubeMsg := Kube(42)
	assert.Equal(t, KindKube, kubeMsg.Kind)
	assert.Equal(t, 42, kubeMsg.Kube)
}

func TestNewBusCapacities(t *testing.T) {
	b := New()
	assert.Equal(t, InboundCapacity, cap(b.inbound))
	assert.Equal(t, OutboundCapacity, cap(b.outbound))
}
