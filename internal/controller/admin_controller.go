package controller

import (
	"errors"
	"strconv"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/scheduler"
	"portfolio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SchedulerStatus is satisfied by *scheduler.Scheduler.
type SchedulerStatus interface {
	Status() []scheduler.JobStatus
}

type IAdminController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Login(ctx *fiber.Ctx) error
	TriggerSync(ctx *fiber.Ctx) error
	GetScheduler(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IOwnerService
	scheduler SchedulerStatus
	logs      logger.LogReader
}

// NewAdminController accepts a nil scheduler when scheduling is disabled and a
// nil log reader when logs are not persisted.
func NewAdminController(s service.IOwnerService, sched SchedulerStatus, logs logger.LogReader) IAdminController {
	return &adminController{service: s, scheduler: sched, logs: logs}
}

func (c *adminController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/admin")
	h.Post("/login", c.Login)
	h.Post("/sync/:target", admin, c.TriggerSync)
	h.Get("/scheduler", admin, c.GetScheduler)
	h.Get("/logs", admin, c.GetLogs)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), req.Password)
	switch {
	case errors.Is(err, service.ErrAdminNotConfigured):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	case err != nil:
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid credentials"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *adminController) TriggerSync(ctx *fiber.Ctx) error {
	res, err := c.service.TriggerSync(ctx.UserContext(), ctx.Params("target"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownSyncTarget) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Sync queued", res))
}

func (c *adminController) GetScheduler(ctx *fiber.Ctx) error {
	if c.scheduler == nil {
		return ctx.JSON(serverutils.SuccessResponse("Scheduler disabled", []scheduler.JobStatus{}))
	}
	return ctx.JSON(serverutils.SuccessResponse("Scheduler status", c.scheduler.Status()))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	level := ctx.Query("level", "")
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	if c.logs == nil {
		return ctx.JSON(serverutils.SuccessResponse("System logs", []logger.LogEntry{}))
	}
	logs, err := c.logs.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}
