package controller

import (
	"booton-be/internal/dto"
	"booton-be/internal/pkg/serverutils"
	"booton-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProgressController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	ListForPlayer(ctx *fiber.Ctx) error
	MyProgress(ctx *fiber.Ctx) error
}

type progressController struct {
	progressService service.IProgressService
}

func NewProgressController(progressService service.IProgressService) IProgressController {
	return &progressController{
		progressService: progressService,
	}
}

func (c *progressController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/progress/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("me", c.MyProgress)
	h.Post("", c.Add)
	h.Get("player/:playerId", c.ListForPlayer)
}

func (c *progressController) Add(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AddProgressRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.progressService.AddEntry(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrNotACoach {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success add progress entry", res))
}

func (c *progressController) ListForPlayer(ctx *fiber.Ctx) error {
	playerId, err := uuid.Parse(ctx.Params("playerId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid player id")
	}

	res, err := c.progressService.ListForPlayer(ctx.Context(), playerId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list progress", res))
}

func (c *progressController) MyProgress(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.progressService.ListForPlayer(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list progress", res))
}
