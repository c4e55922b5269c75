package controller

import (
	"errors"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/mailer"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/pkg/sanitize"

	"github.com/gofiber/fiber/v2"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
}

type contactController struct {
	mailer mailer.IEmailService
}

func NewContactController(m mailer.IEmailService) IContactController {
	return &contactController{mailer: m}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	r.Post("/contact", c.Send)
}

func (c *contactController) Send(ctx *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.mailer.SendContact(mailer.ContactMessage{
		Name:    sanitize.Text(req.Name),
		Email:   req.Email,
		Subject: sanitize.Text(req.Subject),
		Message: sanitize.Text(req.Message),
	})
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Contact form is temporarily unavailable")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Failed to send message")
	}
	return ctx.JSON(dto.ContactResponse{Ok: true})
}
