package service

import (
	"context"
	"encoding/json"

	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IEventRelayService forwards in-process gateway events to the external bus.
type IEventRelayService interface {
	Consume(ctx context.Context) error
}

type eventRelayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sink      events.Publisher
	logger    logger.ILogger
}

// NewEventRelayService relays to sink; with a nil sink events are only logged.
func NewEventRelayService(pubSub *gochannel.GoChannel, topicName string, sink events.Publisher, log logger.ILogger) IEventRelayService {
	return &eventRelayService{
		pubSub:    pubSub,
		topicName: topicName,
		sink:      sink,
		logger:    log,
	}
}

func (rs *eventRelayService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: events are advisory and a Nack would spin on
// an unreachable broker.
func (rs *eventRelayService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		rs.logger.Warn("EventRelay", "Dropping unparsable event", map[string]interface{}{"error": err.Error()})
		return
	}

	rs.logger.Debug("EventRelay", "Gateway event", map[string]interface{}{"type": evt.Type, "data": evt.Data})

	if rs.sink == nil {
		return
	}
	if err := rs.sink.Publish(ctx, evt); err != nil {
		rs.logger.Warn("EventRelay", "Failed to relay event", map[string]interface{}{"type": evt.Type, "error": err.Error()})
	}
}
