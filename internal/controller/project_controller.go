package controller

import (
	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/pkg/serverutils"
	"voice-todoist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Find(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService service.IProjectService
}

func NewProjectController(projectService service.IProjectService) IProjectController {
	return &projectController{
		projectService: projectService,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/project/v1")
	h.Get("", c.List)
	h.Post("/refresh", c.Refresh)
	h.Post("/find", c.Find)
	h.Post("", c.Create)
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	refresh := ctx.QueryBool("refresh", false)

	res, err := c.projectService.List(ctx.Context(), refresh)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *projectController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.projectService.List(ctx.Context(), true)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh projects", res))
}

func (c *projectController) Find(ctx *fiber.Ctx) error {
	var req dto.FindProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Find(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success match projects", res))
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create project", res))
}
