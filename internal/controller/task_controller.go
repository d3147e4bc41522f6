package controller

import (
	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/pkg/serverutils"
	"voice-todoist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
	Parse(ctx *fiber.Ctx) error
	ValidateDate(ctx *fiber.Ctx) error
	ConversationHistory(ctx *fiber.Ctx) error
	ExportHistory(ctx *fiber.Ctx) error
}

type taskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) ITaskController {
	return &taskController{
		taskService: taskService,
	}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/task/v1")
	h.Post("/export", c.Export)
	h.Post("/parse", c.Parse)
	h.Post("/validate-date", c.ValidateDate)
	h.Get("/history", c.ConversationHistory)
	h.Get("/exports", c.ExportHistory)
}

func (c *taskController) Export(ctx *fiber.Ctx) error {
	var req dto.ExportTasksRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.Export(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export tasks", res))
}

func (c *taskController) Parse(ctx *fiber.Ctx) error {
	var req dto.ParseInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.Parse(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success parse input", res))
}

func (c *taskController) ValidateDate(ctx *fiber.Ctx) error {
	var req dto.ValidateDateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.ValidateDate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success validate date", res))
}

func (c *taskController) ConversationHistory(ctx *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := ctx.QueryParser(&q); err != nil {
		return err
	}

	res, err := c.taskService.ConversationHistory(ctx.Context(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation history", res))
}

func (c *taskController) ExportHistory(ctx *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := ctx.QueryParser(&q); err != nil {
		return err
	}

	res, err := c.taskService.ExportHistory(ctx.Context(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get export history", res))
}
