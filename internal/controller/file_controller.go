package controller

import (
	"booton-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// IFileController serves signed attachment downloads. The signed URL form
// keeps bucket contents unguessable while staying a plain GET for clients.
type IFileController interface {
	RegisterRoutes(r fiber.Router)
	ServeSigned(ctx *fiber.Ctx) error
}

type fileController struct {
	store *storage.LocalStorage
}

func NewFileController(store *storage.LocalStorage) IFileController {
	return &fileController{
		store: store,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Get("/files/signed", c.ServeSigned)
}

func (c *fileController) ServeSigned(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing token")
	}

	fullPath, err := c.store.ResolveSigned(token)
	if err != nil {
		return fiber.NewError(fiber.StatusForbidden, "invalid or expired token")
	}
	return ctx.SendFile(fullPath)
}
