// Package structured asks a language model for JSON matching a schema and
// reports non-conforming output as a tagged error instead of a value.
package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"home-gateway-be/pkg/llm"

	"github.com/go-playground/validator/v10"
)

type ErrorKind string

const (
	// KindOracle: the model could not be reached or returned an error.
	KindOracle ErrorKind = "oracle"
	// KindNotJSON: the reply holds no {...} object at all.
	KindNotJSON ErrorKind = "not_json"
	// KindMalformed: an object was found but does not parse.
	KindMalformed ErrorKind = "malformed"
	// KindInvalid: the object parsed but breaks the schema.
	KindInvalid ErrorKind = "invalid"
)

// Error is the failure half of a translation. Raw holds the model output.
type Error struct {
	Kind ErrorKind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotJSON:
		return "Response is not JSON: " + e.Raw
	case KindMalformed:
		return fmt.Sprintf("Response is malformed JSON: %v", e.Err)
	case KindInvalid:
		return fmt.Sprintf("Response does not match schema: %v", e.Err)
	default:
		return fmt.Sprintf("oracle call failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Translator turns a request into a T with a single model call. There is no retry.
type Translator[T any] struct {
	provider llm.LLMProvider
	validate *validator.Validate
	typeName string
	schema   string
	options  []llm.Option
}

func NewTranslator[T any](provider llm.LLMProvider, validate *validator.Validate, typeName, schema string, options ...llm.Option) *Translator[T] {
	return &Translator[T]{
		provider: provider,
		validate: validate,
		typeName: typeName,
		schema:   schema,
		options:  options,
	}
}

// Translate sends request plus any trailing instructions and decodes the reply.
// Errors are always *Error.
func (t *Translator[T]) Translate(ctx context.Context, request string, instructions ...llm.Message) (T, error) {
	var zero T

	history := make([]llm.Message, 0, len(instructions)+1)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: t.buildPrompt(request)})
	history = append(history, instructions...)

	raw, err := t.provider.Chat(ctx, history, t.options...)
	if err != nil {
		return zero, &Error{Kind: KindOracle, Err: err}
	}

	return t.Decode(raw)
}

// Decode extracts the object between the first '{' and the last '}' of raw,
// unmarshals it and validates it.
func (t *Translator[T]) Decode(raw string) (T, error) {
	var value T

	jsonText, ok := extractJSON(raw)
	if !ok {
		return value, &Error{Kind: KindNotJSON, Raw: raw}
	}

	if err := json.Unmarshal([]byte(jsonText), &value); err != nil {
		return value, &Error{Kind: KindMalformed, Raw: raw, Err: err}
	}

	if t.validate != nil {
		if err := t.validate.Struct(value); err != nil {
			return value, &Error{Kind: KindInvalid, Raw: raw, Err: err}
		}
	}

	return value, nil
}

func (t *Translator[T]) buildPrompt(request string) string {
	var sb strings.Builder

	sb.WriteString("You are a service that translates user requests into JSON objects of type \"")
	sb.WriteString(t.typeName)
	sb.WriteString("\" according to the following definitions:\n```\n")
	sb.WriteString(t.schema)
	sb.WriteString("\n```\n")
	sb.WriteString("The following is a user request:\n\"\"\"\n")
	sb.WriteString(request)
	sb.WriteString("\n\"\"\"\n")
	sb.WriteString("The following is the user request translated into a JSON object with 2 spaces of indentation and no properties with the value undefined:\n")

	return sb.String()
}

func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
