package controller

import (
	"booton-be/internal/dto"
	"booton-be/internal/pkg/serverutils"
	"booton-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICoachController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpsertProfile(ctx *fiber.Ctx) error
}

type coachController struct {
	coachService service.ICoachService
}

func NewCoachController(coachService service.ICoachService) ICoachController {
	return &coachController{
		coachService: coachService,
	}
}

func (c *coachController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/coach/v1")
	h.Get("", c.List)
	h.Get(":id", c.Show)

	h.Use(serverutils.JwtMiddleware)
	h.Put("profile", c.UpsertProfile)
}

func (c *coachController) List(ctx *fiber.Ctx) error {
	city := ctx.Query("city")
	specialty := ctx.Query("specialty")

	res, err := c.coachService.ListCoaches(ctx.Context(), city, specialty)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list coaches", res))
}

func (c *coachController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coach id")
	}

	res, err := c.coachService.GetCoach(ctx.Context(), id)
	if err != nil {
		if err == service.ErrCoachNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show coach", res))
}

func (c *coachController) UpsertProfile(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpsertCoachProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.coachService.UpsertProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save coach profile", res))
}
