package controller

import (
	"errors"
	"mime/multipart"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type projectController struct {
	service service.IProjectService
}

func NewProjectController(s service.IProjectService) IProjectController {
	return &projectController{service: s}
}

func (c *projectController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/projects")
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
	h.Post("/", admin, c.Create)
	h.Put("/:id", admin, c.Update)
	h.Delete("/:id", admin, c.Delete)
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *projectController) Get(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var image *multipart.FileHeader
	if file, err := ctx.FormFile("image"); err == nil {
		image = file
	}

	res, err := c.service.Create(ctx.UserContext(), &req, image)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *projectController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
