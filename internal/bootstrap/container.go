package bootstrap

import (
	"context"

	"home-gateway-be/internal/config"
	"home-gateway-be/internal/controller"
	"home-gateway-be/internal/dispatch"
	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pairing"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/qr"
	"home-gateway-be/internal/service"
	"home-gateway-be/internal/telemetry"
	"home-gateway-be/internal/websocket"
	"home-gateway-be/pkg/events"
	"home-gateway-be/pkg/intent"
	"home-gateway-be/pkg/llm/factory"
	pktNats "home-gateway-be/pkg/nats"
	"home-gateway-be/pkg/response"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger  logger.ILogger
	Metrics *metrics.Metrics

	// Controllers
	AssistantController controller.IAssistantController

	// WebSockets
	WebSocketHub     *websocket.Hub
	WebSocketHandler *websocket.Handler

	// Background Services (started by Start)
	Scanner               *pairing.Scanner
	EventRelayService     service.IEventRelayService
	CommandIngressService *service.CommandIngressService

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	m := metrics.New()

	c := &Container{Logger: sysLogger, Metrics: m}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })
	eventPublisher := service.NewPublisherService(pubSub, service.EventsTopic)

	// 3. Infrastructure (optional: the gateway runs standalone without them)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var natsSink events.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			natsSink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 4. Oracle clients
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.RequestTimeout)
	if err != nil {
		return nil, err
	}
	visionProvider, err := factory.NewVisionProvider(cfg.Ai.LLMProvider, cfg.Ai.VisionModel, cfg.Ai.VisionBaseURL, cfg.Ai.RequestTimeout)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "Using LLM Provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
		"vision":   cfg.Ai.VisionModel,
	})

	// 5. Gateway core
	hub := websocket.NewHub(rdb, m, wsLogger)
	dispatcher := dispatch.NewDispatcher(hub, eventPublisher, m, sysLogger)
	registry := pairing.NewRegistry(hub, dispatcher, eventPublisher, cfg.Gateway.SharedKey, m, sysLogger)
	scanner := pairing.NewScanner(registry, qr.Decode, sysLogger)

	sensors := telemetry.NewSensorState()
	decoder := telemetry.NewDecoder(sensors, hub, scanner, telemetry.Calibration{
		Scale:  cfg.Telemetry.TemperatureScale,
		Offset: cfg.Telemetry.TemperatureOffset,
	}, m, wsLogger)

	// 6. Services
	assistantService := service.NewAssistantService(
		intent.NewClassifier(llmProvider, m, sysLogger),
		response.NewSynthesizer(llmProvider, m, sysLogger),
		visionProvider,
		dispatcher,
		hub,
		sensors,
		m,
		sysLogger,
	)

	c.WebSocketHub = hub
	c.WebSocketHandler = websocket.NewHandler(hub, decoder, registry, cfg.Gateway.SharedKey, cfg.Gateway.PeerSendBuffer, wsLogger)
	c.AssistantController = controller.NewAssistantController(assistantService, hub, registry, cfg.Gateway.SharedKey)
	c.Scanner = scanner
	c.EventRelayService = service.NewEventRelayService(pubSub, service.EventsTopic, natsSink, sysLogger)
	if natsSub != nil {
		c.CommandIngressService = service.NewCommandIngressService(natsSub, dispatcher, sysLogger)
	}

	return c, nil
}

// Start launches the background workers; they stop when ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)
	go c.Scanner.Run(ctx)

	if err := c.EventRelayService.Consume(ctx); err != nil {
		c.Logger.Error("Bootstrap", "Event relay failed to start", map[string]interface{}{"error": err.Error()})
	}

	if c.CommandIngressService != nil {
		if err := c.CommandIngressService.Start(ctx); err != nil {
			c.Logger.Error("Bootstrap", "Command ingress failed to start", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
