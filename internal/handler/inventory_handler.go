package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
	reports service.ReportService
}

func NewInventoryHandler(s service.InventoryService, reports service.ReportService) *InventoryHandler {
	return &InventoryHandler{service: s, reports: reports}
}

// GetProducts lists the menu. ?active=true hides inactive products.
// GET /api/v1/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(middleware.Identity(c), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(middleware.Identity(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	product, err := h.service.CreateProduct(middleware.Identity(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	updated, err := h.service.UpdateProduct(middleware.Identity(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(middleware.Identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// CreateTransaction posts an order
// POST /api/v1/transactions
func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.PostOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	tx, err := h.service.PostOrder(middleware.Identity(c), &req)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// GetTransactions returns a page of transactions.
// GET /api/v1/transactions?startDate=&endDate=&page=&limit=
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	start, end, err := queryRange(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListTransactions(middleware.Identity(c), service.TransactionQuery{
		StartDate: start,
		EndDate:   end,
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GET /api/v1/transactions/:id
func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseID(c, "transaction")
	if err != nil {
		return err
	}
	tx, err := h.service.GetTransaction(middleware.Identity(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tx})
}

// GetReceipt renders the transaction as a PDF receipt
// GET /api/v1/transactions/:id/receipt
func (h *InventoryHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseID(c, "transaction")
	if err != nil {
		return err
	}
	identity := middleware.Identity(c)
	tx, err := h.service.GetTransaction(identity, id)
	if err != nil {
		return err
	}
	file, err := h.reports.Receipt(identity, tx)
	if err != nil {
		return err
	}
	return sendFile(c, file.Filename, file.ContentType, file.Data)
}

// CancelTransaction voids an order and restores its stock
// DELETE /api/v1/transactions/:id
func (h *InventoryHandler) CancelTransaction(c *fiber.Ctx) error {
	id, err := parseID(c, "transaction")
	if err != nil {
		return err
	}
	if err := h.service.CancelOrder(middleware.Identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Transaction cancelled"})
}
