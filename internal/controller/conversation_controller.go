package controller

import (
	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/pkg/serverutils"
	"voice-todoist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Continue(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Active(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Post("/start", c.Start)
	h.Get("/active", c.Active)
	h.Post("/:id/continue", c.Continue)
	h.Get("/:id/status", c.Status)
	h.Post("/:id/cancel", c.Cancel)
}

func (c *conversationController) Start(ctx *fiber.Ctx) error {
	var req dto.StartConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *conversationController) Continue(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var req dto.ContinueConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Continue(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success continue conversation", res))
}

func (c *conversationController) Status(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.conversationService.Status(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation status", res))
}

func (c *conversationController) Cancel(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.conversationService.Cancel(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cancel conversation", res))
}

func (c *conversationController) Active(ctx *fiber.Ctx) error {
	res, err := c.conversationService.Active(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get active conversations", res))
}
