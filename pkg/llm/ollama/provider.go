package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"home-gateway-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements both oracle contracts
var (
	_ llm.LLMProvider    = &OllamaProvider{}
	_ llm.VisionProvider = &OllamaProvider{}
)

// NewOllamaProvider builds a client that makes exactly one attempt per call.
func NewOllamaProvider(baseURL, modelName string, timeout time.Duration) *OllamaProvider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Images  [][]byte       `json:"images,omitempty"` // encoding/json emits base64
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(opts...)

	ollamaMessages := make([]ollamaMessage, 0, len(history)+1)
	if options.System != "" {
		ollamaMessages = append(ollamaMessages, ollamaMessage{Role: llm.RoleSystem, Content: options.System})
	}
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		ollamaMessages = append(ollamaMessages, ollamaMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	reqPayload := ollamaChatRequest{
		Model:    o.model(options),
		Messages: ollamaMessages,
		Stream:   false,
		Options:  toOllamaOptions(options),
	}

	var ollamaResp ollamaChatResponse
	if err := o.post(ctx, "/api/chat", reqPayload, &ollamaResp); err != nil {
		return "", err
	}

	return ollamaResp.Message.Content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (o *OllamaProvider) Describe(ctx context.Context, prompt string, images [][]byte, opts ...llm.Option) (string, error) {
	options := llm.Apply(opts...)

	reqPayload := ollamaGenerateRequest{
		Model:   o.model(options),
		Prompt:  prompt,
		System:  options.System,
		Images:  images,
		Stream:  false,
		Options: toOllamaOptions(options),
	}

	var ollamaResp ollamaGenerateResponse
	if err := o.post(ctx, "/api/generate", reqPayload, &ollamaResp); err != nil {
		return "", err
	}

	return ollamaResp.Response, nil
}

func (o *OllamaProvider) model(options *llm.Options) string {
	if options.Model != "" {
		return options.Model
	}
	return o.ModelName
}

func toOllamaOptions(options *llm.Options) *ollamaOptions {
	if options.Temperature == nil && options.MaxTokens == 0 {
		return nil
	}
	return &ollamaOptions{
		Temperature: options.Temperature,
		NumPredict:  options.MaxTokens,
	}
}

func (o *OllamaProvider) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+path, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
