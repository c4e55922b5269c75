package controller

import (
	"context"
	"errors"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/blogger"

	"github.com/gofiber/fiber/v2"
)

// BlogGenerator is satisfied by *blogger.Service.
type BlogGenerator interface {
	GenerateNow(ctx context.Context, topic string) (*entity.BlogArtifact, error)
	RunCleanup(ctx context.Context) ([]string, error)
}

type IBlogController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	Cleanup(ctx *fiber.Ctx) error
}

type blogController struct {
	blogs     contract.BlogRepository
	generator BlogGenerator
}

func NewBlogController(blogs contract.BlogRepository, generator BlogGenerator) IBlogController {
	return &blogController{blogs: blogs, generator: generator}
}

func (c *blogController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	r.Get("/blogs", c.List)
	r.Get("/blogs/:id", c.Get)
	r.Post("/generate-blog", admin, c.Generate)
	r.Delete("/admin/blogs/cleanup", admin, c.Cleanup)
}

// List never fails the page; a broken directory reads as no blogs.
func (c *blogController) List(ctx *fiber.Ctx) error {
	blogs, err := c.blogs.FindAll(ctx.UserContext())
	if err != nil {
		return ctx.JSON([]*entity.BlogArtifact{})
	}
	return ctx.JSON(blogs)
}

func (c *blogController) Get(ctx *fiber.Ctx) error {
	blog, err := c.blogs.FindByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	if blog == nil {
		return fiber.NewError(fiber.StatusNotFound, "Blog not found")
	}
	return ctx.JSON(blog)
}

func (c *blogController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateBlogRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	blog, err := c.generator.GenerateNow(ctx.UserContext(), req.Topic)
	if err != nil {
		if errors.Is(err, blogger.ErrCriticRejected) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if errors.Is(err, blogger.ErrNoWriterOutput) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(blog)
}

func (c *blogController) Cleanup(ctx *fiber.Ctx) error {
	deleted, err := c.generator.RunCleanup(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cleanup finished", dto.CleanupResponse{Deleted: deleted}))
}
