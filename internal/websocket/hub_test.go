package websocket

import (
	"sync"
	"testing"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeer struct {
	id   string
	open bool
	full bool

	mu       sync.Mutex
	received [][]byte
	kinds    []int
}

func (p *fakePeer) ID() string   { return p.id }
func (p *fakePeer) IsOpen() bool { return p.open }

func (p *fakePeer) Send(kind int, payload []byte) bool {
	if !p.open || p.full {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, payload)
	p.kinds = append(p.kinds, kind)
	return true
}

func newTestHub() *Hub {
	return NewHub(nil, metrics.New(), logger.NewNopLogger())
}

func TestBroadcastPrunesClosedPeers(t *testing.T) {
	hub := newTestHub()
	alive := &fakePeer{id: "alive", open: true}
	dead := &fakePeer{id: "dead", open: true}
	other := &fakePeer{id: "controller", open: true}

	hub.Register(alive, RoleViewer)
	hub.Register(dead, RoleViewer)
	hub.Register(other, RoleController)
	require.Equal(t, 2, hub.Count(RoleViewer))

	dead.open = false
	sent := hub.Broadcast(RoleViewer, BinaryMessage, []byte("frame"))

	assert.Equal(t, 1, sent)
	assert.Len(t, alive.received, 1)
	assert.Empty(t, dead.received)
	assert.Empty(t, other.received, "viewer broadcast must not reach controllers")
	assert.Equal(t, 1, hub.Count(RoleViewer))
	assert.Equal(t, 1, hub.Count(RoleController))
	assert.Equal(t, 1.0, testutil.ToFloat64(hub.metrics.PeersPruned.WithLabelValues("viewer")))
}

func TestClosedPeerLingersUntilNextBroadcast(t *testing.T) {
	hub := newTestHub()
	p := &fakePeer{id: "p", open: true}
	hub.Register(p, RoleController)

	p.open = false
	assert.Equal(t, 1, hub.Count(RoleController))

	hub.Broadcast(RoleController, TextMessage, []byte("lights_on"))
	assert.Equal(t, 0, hub.Count(RoleController))
}

func TestRegisterTwiceIsNoop(t *testing.T) {
	hub := newTestHub()
	p := &fakePeer{id: "p", open: true}

	hub.Register(p, RoleViewer)
	hub.Register(p, RoleViewer)

	assert.Equal(t, 1, hub.Count(RoleViewer))
	hub.Broadcast(RoleViewer, BinaryMessage, []byte("x"))
	assert.Len(t, p.received, 1)
}

func TestBroadcastDoesNotBlockOnFullPeer(t *testing.T) {
	hub := newTestHub()
	slow := &fakePeer{id: "slow", open: true, full: true}
	fast := &fakePeer{id: "fast", open: true}
	hub.Register(slow, RoleViewer)
	hub.Register(fast, RoleViewer)

	sent := hub.Broadcast(RoleViewer, BinaryMessage, []byte("frame"))

	assert.Equal(t, 1, sent)
	assert.Len(t, fast.received, 1)
	// Full is not closed: the slow peer stays tracked.
	assert.Equal(t, 2, hub.Count(RoleViewer))
	assert.Equal(t, 1.0, testutil.ToFloat64(hub.metrics.MessagesDropped.WithLabelValues("viewer")))
}

func TestPublishFrameStoresLatestAndFansOut(t *testing.T) {
	hub := newTestHub()
	assert.Nil(t, hub.LatestFrame())

	viewer := &fakePeer{id: "v", open: true}
	hub.Register(viewer, RoleViewer)

	hub.PublishFrame([]byte("one"))
	hub.PublishFrame([]byte("two"))

	assert.Equal(t, []byte("two"), hub.LatestFrame())
	require.Len(t, viewer.received, 2)
	assert.Equal(t, BinaryMessage, viewer.kinds[0])
}

func TestSendDirect(t *testing.T) {
	hub := newTestHub()
	p := &fakePeer{id: "p", open: true}

	assert.True(t, hub.Send(p, TextMessage, []byte(`{"code":"abc"}`)))
	p.open = false
	assert.False(t, hub.Send(p, TextMessage, []byte("late")))
	assert.Len(t, p.received, 1)
}

func TestHandleRelaySkipsOwnMessages(t *testing.T) {
	hub := newTestHub()
	p := &fakePeer{id: "c", open: true}
	hub.Register(p, RoleController)

	own := []byte(`{"origin":"` + hub.instanceID + `","kind":1,"payload":"bGlnaHRzX29u"}`)
	hub.handleRelay(own)
	assert.Empty(t, p.received)

	foreign := []byte(`{"origin":"other","kind":1,"payload":"bGlnaHRzX29u"}`)
	hub.handleRelay(foreign)
	require.Len(t, p.received, 1)
	assert.Equal(t, []byte("lights_on"), p.received[0])

	hub.handleRelay([]byte("not json"))
	assert.Len(t, p.received, 1)
}

func TestConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Register(&fakePeer{id: "p", open: true}, RoleViewer)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(RoleViewer, BinaryMessage, []byte("f"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, hub.Count(RoleViewer))
}
