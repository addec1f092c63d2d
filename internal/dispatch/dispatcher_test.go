package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/websocket"
	"home-gateway-be/pkg/events"
	"home-gateway-be/pkg/intent"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	role    websocket.Role
	kind    int
	payload string
}

type fakeHub struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeHub) Broadcast(role websocket.Role, kind int, payload []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{role: role, kind: kind, payload: string(payload)})
	return 2
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, e events.Event) error {
	f.published = append(f.published, e)
	return f.err
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		in   intent.Intent
		want Command
		ok   bool
	}{
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityOn}, LightsOn, true},
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityOff}, LightsOff, true},
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityAuto}, LightsAuto, true},
		{intent.Intent{Kind: intent.KindBarrier, Intensity: intent.IntensityOn}, BarrierOn, true},
		{intent.Intent{Kind: intent.KindBarrier, Intensity: intent.IntensityOff}, BarrierOff, true},
		{intent.Intent{Kind: intent.KindBarrier, Intensity: intent.IntensityAuto}, BarrierAuto, true},
		{intent.Intent{Kind: intent.KindBlinds, Intensity: intent.IntensityOn}, BlindsOn, true},
		{intent.Intent{Kind: intent.KindBlinds, Intensity: intent.IntensityOff}, BlindsOff, true},
		{intent.Intent{Kind: intent.KindBlinds, Intensity: intent.IntensityAuto}, BlindsAuto, true},
		{intent.Intent{Kind: intent.KindBedtimeStory}, LightsOff, true},
		{intent.Intent{Kind: intent.KindWelcome}, "", false},
		{intent.NoMatch(), "", false},
	}

	for _, tt := range tests {
		got, ok := CommandFor(tt.in)
		assert.Equal(t, tt.ok, ok, "%+v", tt.in)
		assert.Equal(t, tt.want, got, "%+v", tt.in)
	}
}

func TestDispatchBroadcastsToControllers(t *testing.T) {
	hub := &fakeHub{}
	pub := &fakePublisher{}
	m := metrics.New()
	d := NewDispatcher(hub, pub, m, logger.NewNopLogger())

	cmd, ok := d.Dispatch(context.Background(), intent.Intent{Kind: intent.KindBlinds, Intensity: intent.IntensityOn})

	require.True(t, ok)
	assert.Equal(t, BlindsOn, cmd)
	require.Len(t, hub.sent, 1)
	assert.Equal(t, sentMessage{role: websocket.RoleController, kind: websocket.TextMessage, payload: "blinds_on"}, hub.sent[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsDispatched.WithLabelValues("blinds_on")))

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeCommandDispatched, pub.published[0].EventType())
	assert.Equal(t, "blinds_on", pub.published[0].Payload()["command"])
}

func TestDispatchIgnoresNonCommandIntents(t *testing.T) {
	hub := &fakeHub{}
	d := NewDispatcher(hub, nil, metrics.New(), logger.NewNopLogger())

	_, ok := d.Dispatch(context.Background(), intent.Intent{Kind: intent.KindTemperature})

	assert.False(t, ok)
	assert.Empty(t, hub.sent)
}

func TestSendValidatesToken(t *testing.T) {
	hub := &fakeHub{}
	d := NewDispatcher(hub, nil, metrics.New(), logger.NewNopLogger())

	require.NoError(t, d.Send(context.Background(), "barrier_auto", "nats"))
	assert.ErrorIs(t, d.Send(context.Background(), "self_destruct", "nats"), ErrUnknownCommand)

	require.Len(t, hub.sent, 1)
	assert.Equal(t, "barrier_auto", hub.sent[0].payload)
}

func TestEmitSurvivesPublisherFailure(t *testing.T) {
	hub := &fakeHub{}
	pub := &fakePublisher{err: errors.New("bus down")}
	d := NewDispatcher(hub, pub, metrics.New(), logger.NewNopLogger())

	sent := d.Emit(context.Background(), LightsOn, "pairing")

	assert.Equal(t, 2, sent)
	assert.Len(t, hub.sent, 1)
}
