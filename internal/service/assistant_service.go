package service

import (
	"context"
	"encoding/base64"
	"strings"

	"home-gateway-be/internal/dispatch"
	"home-gateway-be/internal/dto"
	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/telemetry"
	"home-gateway-be/pkg/intent"
	"home-gateway-be/pkg/llm"
	"home-gateway-be/pkg/response"
)

const (
	visionPrompt = "Give a short description of the image's contents (minimum of 80 words). Only describe/mention what you're very sure about."
	visionSystem = "You are a smart house assistant using a security camera. You must fulfill the user's requests."
)

type IntentClassifier interface {
	Classify(ctx context.Context, prompt string) intent.Intent
}

type ResponseSynthesizer interface {
	Synthesize(ctx context.Context, prompt, contextText string, in intent.Intent) response.FinalResponse
}

type CommandDispatcher interface {
	Dispatch(ctx context.Context, in intent.Intent) (dispatch.Command, bool)
}

type FrameSource interface {
	LatestFrame() []byte
}

type SensorReader interface {
	Snapshot() telemetry.Readings
}

type IAssistantService interface {
	Ask(ctx context.Context, prompt string) (*dto.AssistantResponse, error)
}

type assistantService struct {
	classifier  IntentClassifier
	synthesizer ResponseSynthesizer
	vision      llm.VisionProvider
	dispatcher  CommandDispatcher
	frames      FrameSource
	sensors     SensorReader
	metrics     *metrics.Metrics
	logger      logger.ILogger
}

func NewAssistantService(
	classifier IntentClassifier,
	synthesizer ResponseSynthesizer,
	vision llm.VisionProvider,
	dispatcher CommandDispatcher,
	frames FrameSource,
	sensors SensorReader,
	m *metrics.Metrics,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		classifier:  classifier,
		synthesizer: synthesizer,
		vision:      vision,
		dispatcher:  dispatcher,
		frames:      frames,
		sensors:     sensors,
		metrics:     m,
		logger:      log,
	}
}

// Ask runs classify, then either describes the latest camera frame or
// builds a context, dispatches the device command and synthesizes a reply.
// Oracle failures degrade the answer; the only error is a cancelled request.
func (s *assistantService) Ask(ctx context.Context, prompt string) (*dto.AssistantResponse, error) {
	// the frame the user is asking about is the one on screen now
	frame := s.frames.LatestFrame()

	in := s.classifier.Classify(ctx, prompt)

	if in.Kind == intent.KindDescribePhoto && frame != nil {
		if res, ok := s.describe(ctx, in, frame); ok {
			return res, nil
		}
	}

	contextText := response.BuildContext(in, s.sensors.Snapshot())
	s.dispatcher.Dispatch(ctx, in)

	final := s.synthesizer.Synthesize(ctx, prompt, contextText, in)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("AssistantService", "Prompt answered", map[string]interface{}{"intent": in.Kind})
	return &dto.AssistantResponse{Response: final.Text, Intent: in}, nil
}

func (s *assistantService) describe(ctx context.Context, in intent.Intent, frame []byte) (*dto.AssistantResponse, bool) {
	if s.vision == nil {
		return nil, false
	}

	text, err := s.vision.Describe(ctx, visionPrompt, [][]byte{frame}, llm.WithSystem(visionSystem), llm.WithMaxTokens(-1))
	if err != nil || strings.TrimSpace(text) == "" {
		s.metrics.OracleFailures.WithLabelValues("vision").Inc()
		details := map[string]interface{}{}
		if err != nil {
			details["error"] = err.Error()
		}
		s.logger.Warn("AssistantService", "Photo description failed, answering without it", details)
		return nil, false
	}

	return &dto.AssistantResponse{
		Response: strings.TrimSpace(text),
		Intent:   in,
		Image:    base64.StdEncoding.EncodeToString(frame),
	}, true
}
