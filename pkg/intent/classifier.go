package intent

import (
	"context"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/llm"
	"home-gateway-be/pkg/llm/structured"
)

const jsonOnlyInstruction = "Respond only in valid JSON."

// Classifier is the first pipeline stage: free text in, Intent out.
type Classifier struct {
	translator *structured.Translator[Intent]
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewClassifier(provider llm.LLMProvider, m *metrics.Metrics, log logger.ILogger) *Classifier {
	return &Classifier{
		translator: structured.NewTranslator[Intent](provider, NewValidator(), TypeName, Schema, llm.WithTemperature(0)),
		metrics:    m,
		logger:     log,
	}
}

// Classify makes one translation attempt. Any failure, including a dead
// oracle, yields NoMatch; it never returns an error.
func (c *Classifier) Classify(ctx context.Context, prompt string) Intent {
	in, err := c.translator.Translate(ctx, prompt, llm.Message{Role: llm.RoleUser, Content: jsonOnlyInstruction})
	if err != nil {
		c.metrics.OracleFailures.WithLabelValues("classify").Inc()
		c.logger.Warn("Classifier", "Classification failed, falling back to no-match", map[string]interface{}{
			"error": err.Error(),
		})
		return NoMatch()
	}

	in = in.Normalize()
	c.logger.Debug("Classifier", "Prompt classified", map[string]interface{}{"intent": in.Kind})
	return in
}
