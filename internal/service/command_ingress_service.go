package service

import (
	"context"

	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/events"
	pktNats "home-gateway-be/pkg/nats"
)

const commandIngressDurable = "gateway-command-ingress"

// CommandSender accepts raw command tokens.
type CommandSender interface {
	Send(ctx context.Context, token, source string) error
}

// CommandIngressService lets other systems drive the devices by publishing
// {"command": "<token>"} to events.COMMAND_REQUESTED.
type CommandIngressService struct {
	subscriber *pktNats.Subscriber
	commands   CommandSender
	logger     logger.ILogger
}

func NewCommandIngressService(sub *pktNats.Subscriber, commands CommandSender, log logger.ILogger) *CommandIngressService {
	return &CommandIngressService{
		subscriber: sub,
		commands:   commands,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *CommandIngressService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+events.TypeCommandRequested, commandIngressDurable, s.handleEvent)
}

// handleEvent never asks for redelivery: a bad token stays bad.
func (s *CommandIngressService) handleEvent(ctx context.Context, event events.Event) error {
	token, _ := event.Payload()["command"].(string)

	if err := s.commands.Send(ctx, token, "nats"); err != nil {
		s.logger.Warn("CommandIngress", "Rejected command", map[string]interface{}{"command": token, "error": err.Error()})
	}
	return nil
}
