package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	received []events.Event
	err      error
}

func (r *recordingSink) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, e)
	return r.err
}

func (r *recordingSink) snapshot() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.received...)
}

func TestEventRelayForwardsPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sink := &recordingSink{err: errors.New("first delivery fails")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := NewEventRelayService(pubSub, EventsTopic, sink, logger.NewNopLogger())
	require.NoError(t, relay.Consume(ctx))

	publisher := NewPublisherService(pubSub, EventsTopic)
	require.NoError(t, publisher.Publish(ctx, events.New(events.TypeCommandDispatched, map[string]interface{}{"command": "lights_on"})))
	require.NoError(t, publisher.Publish(ctx, events.New(events.TypePairingCompleted, map[string]interface{}{"peer_id": "p1"})))

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	var types []string
	for _, e := range sink.snapshot() {
		types = append(types, e.EventType())
		if e.EventType() == events.TypeCommandDispatched {
			assert.Equal(t, "lights_on", e.Payload()["command"])
		}
	}
	assert.ElementsMatch(t, []string{events.TypeCommandDispatched, events.TypePairingCompleted}, types)
}

type recordingSender struct {
	tokens []string
	err    error
}

func (r *recordingSender) Send(_ context.Context, token, source string) error {
	r.tokens = append(r.tokens, source+":"+token)
	return r.err
}

func TestCommandIngressAcksEverything(t *testing.T) {
	sender := &recordingSender{}
	svc := NewCommandIngressService(nil, sender, logger.NewNopLogger())

	err := svc.handleEvent(context.Background(), events.New(events.TypeCommandRequested, map[string]interface{}{"command": "blinds_auto"}))
	require.NoError(t, err)

	sender.err = errors.New("unknown command")
	err = svc.handleEvent(context.Background(), events.New(events.TypeCommandRequested, map[string]interface{}{"command": 42}))
	require.NoError(t, err, "bad tokens are not redelivered")

	assert.Equal(t, []string{"nats:blinds_auto", "nats:"}, sender.tokens)
}
