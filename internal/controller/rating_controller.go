package controller

import (
	"booton-be/internal/dto"
	"booton-be/internal/pkg/serverutils"
	"booton-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRatingController interface {
	RegisterRoutes(r fiber.Router)
	Rate(ctx *fiber.Ctx) error
	CoachRating(ctx *fiber.Ctx) error
	CoachRatings(ctx *fiber.Ctx) error
}

type ratingController struct {
	ratingService service.IRatingService
}

func NewRatingController(ratingService service.IRatingService) IRatingController {
	return &ratingController{
		ratingService: ratingService,
	}
}

func (c *ratingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rating/v1")
	h.Get("coach/:coachId", c.CoachRating)
	h.Get("coach/:coachId/all", c.CoachRatings)

	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Rate)
}

func (c *ratingController) Rate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RateCoachRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ratingService.RateCoach(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrCoachNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success rate coach", res))
}

func (c *ratingController) CoachRating(ctx *fiber.Ctx) error {
	coachId, err := uuid.Parse(ctx.Params("coachId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coach id")
	}

	res, err := c.ratingService.GetCoachRating(ctx.Context(), coachId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get coach rating", res))
}

func (c *ratingController) CoachRatings(ctx *fiber.Ctx) error {
	coachId, err := uuid.Parse(ctx.Params("coachId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coach id")
	}

	res, err := c.ratingService.ListCoachRatings(ctx.Context(), coachId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list coach ratings", res))
}
