package controller

import (
	"context"
	"strings"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Responder is satisfied by *assistant.Assistant.
type Responder interface {
	Respond(ctx context.Context, sessionID, message string) assistant.Reply
}

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type chatController struct {
	assistant Responder
}

func NewChatController(a Responder) IChatController {
	return &chatController{assistant: a}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask-all-u-bot", c.Ask)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply := c.assistant.Respond(ctx.UserContext(), sessionID, req.Message)
	if reply.RateLimited {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.ChatResponse{
			Reply:    reply.Text,
			WaitTime: reply.WaitTime,
		})
	}
	return ctx.JSON(dto.ChatResponse{
		Reply:     reply.Text,
		Source:    reply.Source,
		SessionId: sessionID,
	})
}
