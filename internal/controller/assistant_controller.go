package controller

import (
	"encoding/json"

	"home-gateway-be/internal/dto"
	"home-gateway-be/internal/pkg/serverutils"
	"home-gateway-be/internal/service"
	"home-gateway-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
)

// GatewayStatus is what the health endpoint reports on.
type GatewayStatus interface {
	Count(role websocket.Role) int
	LatestFrame() []byte
}

type PairingStatus interface {
	Pending() int
}

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type assistantController struct {
	service   service.IAssistantService
	gateway   GatewayStatus
	pairing   PairingStatus
	sharedKey string
}

func NewAssistantController(svc service.IAssistantService, gateway GatewayStatus, pairing PairingStatus, sharedKey string) IAssistantController {
	return &assistantController{
		service:   svc,
		gateway:   gateway,
		pairing:   pairing,
		sharedKey: sharedKey,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/", c.Ask)
	r.Get("/healthz", c.Health)
}

// Ask answers a natural-language prompt. The body is JSON whatever the
// Content-Type says; the web client posts it as text/plain.
func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if !serverutils.KeyMatches(req.Key, c.sharedKey) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid key"))
	}

	res, err := c.service.Ask(ctx.UserContext(), req.Prompt)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	}

	return ctx.JSON(res)
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Gateway is up", dto.HealthResponse{
		Status:          "ok",
		Viewers:         c.gateway.Count(websocket.RoleViewer),
		Controllers:     c.gateway.Count(websocket.RoleController),
		PendingPairings: c.pairing.Pending(),
		HasFrame:        c.gateway.LatestFrame() != nil,
	}))
}
