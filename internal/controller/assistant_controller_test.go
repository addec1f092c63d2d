package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"home-gateway-be/internal/dto"
	"home-gateway-be/internal/pkg/serverutils"
	"home-gateway-be/internal/websocket"
	"home-gateway-be/pkg/intent"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	prompts []string
	err     error
}

func (f *fakeAssistant) Ask(_ context.Context, prompt string) (*dto.AssistantResponse, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AssistantResponse{
		Response: "The lights are on.",
		Intent:   intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityOn},
	}, nil
}

type fakeGateway struct{}

func (fakeGateway) Count(role websocket.Role) int {
	if role == websocket.RoleViewer {
		return 3
	}
	return 1
}

func (fakeGateway) LatestFrame() []byte { return []byte("jpeg") }

type fakePairing struct{}

func (fakePairing) Pending() int { return 2 }

func newTestApp(svc *fakeAssistant) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewAssistantController(svc, fakeGateway{}, fakePairing{}, "RANDOM_STUFF").RegisterRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, body, contentType string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestAskAnyContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "text/plain;charset=UTF-8", ""} {
		svc := &fakeAssistant{}
		status, body := post(t, newTestApp(svc), `{"prompt":"turn on the lights","key":"RANDOM_STUFF"}`, ct)

		assert.Equal(t, fiber.StatusOK, status, ct)
		assert.JSONEq(t, `{"response":"The lights are on.","intent":{"intent":"lights","intensity":"on"}}`, body)
		assert.Equal(t, []string{"turn on the lights"}, svc.prompts)
	}
}

func TestAskRejectsBadKey(t *testing.T) {
	svc := &fakeAssistant{}
	status, _ := post(t, newTestApp(svc), `{"prompt":"open the barrier","key":"guess"}`, "application/json")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Empty(t, svc.prompts, "the pipeline never runs")
}

func TestAskMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "prompt=hello"},
		{"missing key", `{"prompt":"hello"}`},
		{"missing prompt", `{"key":"RANDOM_STUFF"}`},
		{"wrong types", `{"prompt":1,"key":"RANDOM_STUFF"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAssistant{}
			status, _ := post(t, newTestApp(svc), tt.body, "application/json")

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Empty(t, svc.prompts)
		})
	}
}

func TestAskCancelled(t *testing.T) {
	status, _ := post(t, newTestApp(&fakeAssistant{err: context.Canceled}), `{"prompt":"hi","key":"RANDOM_STUFF"}`, "")

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestHealth(t *testing.T) {
	resp, err := newTestApp(&fakeAssistant{}).Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body serverutils.BaseResponse[dto.HealthResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Viewers: 3, Controllers: 1, PendingPairings: 2, HasFrame: true}, body.Data)
}
