package response

import (
	"context"
	"errors"
	"fmt"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/intent"
	"home-gateway-be/pkg/llm"
	"home-gateway-be/pkg/llm/structured"

	"github.com/go-playground/validator/v10"
)

// FallbackText is returned when the model output cannot be used at all.
const FallbackText = "I didn't understand."

const responseSchema = `type Response = {
  // You must formulate a response by taking in account the given context and user prompt
  text: string;
};`

// FinalResponse is the sentence shown to the user.
type FinalResponse struct {
	Text string `json:"text"`
}

// Synthesizer is the second pipeline stage.
type Synthesizer struct {
	translator *structured.Translator[FinalResponse]
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewSynthesizer(provider llm.LLMProvider, m *metrics.Metrics, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		translator: structured.NewTranslator[FinalResponse](provider, validator.New(), "Response", responseSchema),
		metrics:    m,
		logger:     log,
	}
}

// Synthesize combines prompt and context into the final reply. The prompt is
// left out for no-match so the model only apologizes. It never fails; the
// worst case is FallbackText.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt, contextText string, in intent.Intent) FinalResponse {
	if in.Kind == intent.KindNoMatch {
		prompt = ""
	}

	request := fmt.Sprintf(`
You are a home assistant. You must help the user by fulfilling their requests.
The user might ask you questions about the house.

User prompt: %s;

Context: %s;
`, prompt, contextText)

	res, err := s.translator.Translate(ctx, request,
		llm.Message{Role: llm.RoleAssistant, Content: "You must combine the given context and the user intent and generate a response."},
		llm.Message{Role: llm.RoleUser, Content: "Respond only in valid JSON."},
	)
	if err != nil {
		s.metrics.OracleFailures.WithLabelValues("synthesize").Inc()
		s.logger.Warn("Synthesizer", "Response translation failed", map[string]interface{}{"error": err.Error()})
		return s.Recover(err)
	}

	return res
}

// Recover handles the one truncation the model is known for: output cut off
// before the closing quote or brace. Anything else yields FallbackText.
func (s *Synthesizer) Recover(err error) FinalResponse {
	var terr *structured.Error
	if !errors.As(err, &terr) || terr.Kind != structured.KindNotJSON {
		return FinalResponse{Text: FallbackText}
	}

	if repaired, ok := structured.RepairObject(terr.Raw); ok {
		if res, err := s.translator.Decode(repaired); err == nil {
			s.metrics.ResponseRepairs.WithLabelValues("success").Inc()
			s.logger.Info("Synthesizer", "Repaired truncated response", nil)
			return res
		}
	}

	s.metrics.ResponseRepairs.WithLabelValues("failed").Inc()
	return FinalResponse{Text: FallbackText}
}
