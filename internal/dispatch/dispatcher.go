package dispatch

import (
	"context"
	"errors"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/websocket"
	"home-gateway-be/pkg/events"
	"home-gateway-be/pkg/intent"
)

// Command is a token understood by the device controllers.
type Command string

const (
	LightsOn    Command = "lights_on"
	LightsOff   Command = "lights_off"
	LightsAuto  Command = "lights_auto"
	BarrierOn   Command = "barrier_on"
	BarrierOff  Command = "barrier_off"
	BarrierAuto Command = "barrier_auto"
	BlindsOn    Command = "blinds_on"
	BlindsOff   Command = "blinds_off"
	BlindsAuto  Command = "blinds_auto"
)

var ErrUnknownCommand = errors.New("unknown command")

var known = map[Command]struct{}{
	LightsOn: {}, LightsOff: {}, LightsAuto: {},
	BarrierOn: {}, BarrierOff: {}, BarrierAuto: {},
	BlindsOn: {}, BlindsOff: {}, BlindsAuto: {},
}

func (c Command) Valid() bool {
	_, ok := known[c]
	return ok
}

// Broadcaster fans a message out to every peer of a role.
type Broadcaster interface {
	Broadcast(role websocket.Role, kind int, payload []byte) int
}

// Dispatcher sends commands to all controller sockets. Delivery is one-way:
// no acknowledgement, no retry.
type Dispatcher struct {
	hub       Broadcaster
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    logger.ILogger
}

// NewDispatcher builds a dispatcher. publisher may be nil.
func NewDispatcher(hub Broadcaster, publisher events.Publisher, m *metrics.Metrics, log logger.ILogger) *Dispatcher {
	return &Dispatcher{
		hub:       hub,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// CommandFor maps an intent to its device command, if it has one.
// An unset intensity on a switch counts as off.
func CommandFor(in intent.Intent) (Command, bool) {
	switch in.Kind {
	case intent.KindLights:
		return pick(in.Intensity, LightsOn, LightsOff, LightsAuto), true
	case intent.KindBarrier:
		return pick(in.Intensity, BarrierOn, BarrierOff, BarrierAuto), true
	case intent.KindBlinds:
		return pick(in.Intensity, BlindsOn, BlindsOff, BlindsAuto), true
	case intent.KindBedtimeStory:
		return LightsOff, true
	}
	return "", false
}

func pick(i intent.Intensity, on, off, auto Command) Command {
	switch i {
	case intent.IntensityOn:
		return on
	case intent.IntensityAuto:
		return auto
	default:
		return off
	}
}

// Dispatch sends the intent's command, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, in intent.Intent) (Command, bool) {
	cmd, ok := CommandFor(in)
	if !ok {
		return "", false
	}
	d.Emit(ctx, cmd, "assistant")
	return cmd, true
}

// Send validates a raw token against the fixed command set before emitting it.
func (d *Dispatcher) Send(ctx context.Context, token, source string) error {
	cmd := Command(token)
	if !cmd.Valid() {
		return ErrUnknownCommand
	}
	d.Emit(ctx, cmd, source)
	return nil
}

// Emit broadcasts cmd to controllers and returns how many accepted it.
func (d *Dispatcher) Emit(ctx context.Context, cmd Command, source string) int {
	sent := d.hub.Broadcast(websocket.RoleController, websocket.TextMessage, []byte(cmd))

	d.metrics.CommandsDispatched.WithLabelValues(string(cmd)).Inc()
	d.logger.Info("Dispatcher", "Command dispatched", map[string]interface{}{
		"command":     cmd,
		"source":      source,
		"controllers": sent,
	})

	if d.publisher != nil {
		evt := events.New(events.TypeCommandDispatched, map[string]interface{}{
			"command":     string(cmd),
			"source":      source,
			"controllers": sent,
		})
		// auxiliary, a bus failure never blocks the command
		if err := d.publisher.Publish(ctx, evt); err != nil {
			d.logger.Warn("Dispatcher", "Failed to publish event", map[string]interface{}{"event": evt.Type, "error": err.Error()})
		}
	}

	return sent
}
