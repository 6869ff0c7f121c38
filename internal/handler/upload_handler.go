package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	service service.UploadService
}

func NewUploadHandler(s service.UploadService) *UploadHandler {
	return &UploadHandler{service: s}
}

// UploadProductImage stores a product image sent as the multipart field "image"
// POST /api/v1/upload
func (h *UploadHandler) UploadProductImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return service.ErrNoFile
	}
	result, err := h.service.SaveProductImage(middleware.Identity(c), file)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Image uploaded", "data": result})
}
