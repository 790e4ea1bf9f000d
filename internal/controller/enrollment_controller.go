package controller

import (
	"booton-be/internal/dto"
	"booton-be/internal/pkg/serverutils"
	"booton-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEnrollmentController interface {
	RegisterRoutes(r fiber.Router)
	Enroll(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	HandleNotification(ctx *fiber.Ctx) error
}

type enrollmentController struct {
	enrollmentService service.IEnrollmentService
}

func NewEnrollmentController(enrollmentService service.IEnrollmentService) IEnrollmentController {
	return &enrollmentController{
		enrollmentService: enrollmentService,
	}
}

func (c *enrollmentController) RegisterRoutes(r fiber.Router) {
	// Midtrans calls this endpoint server-to-server; no JWT.
	r.Post("/payments/midtrans/notification", c.HandleNotification)

	h := r.Group("/enrollment/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Enroll)
	h.Get("", c.List)
}

func (c *enrollmentController) Enroll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.EnrollRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.enrollmentService.Enroll(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrCoachNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create enrollment", res))
}

func (c *enrollmentController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.enrollmentService.ListEnrollments(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list enrollments", res))
}

func (c *enrollmentController) HandleNotification(ctx *fiber.Ctx) error {
	var req dto.PaymentNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.enrollmentService.HandlePaymentNotification(ctx.Context(), &req); err != nil {
		if err == service.ErrInvalidSignature {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		if err == service.ErrEnrollmentNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification processed", nil))
}
