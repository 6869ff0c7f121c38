package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	user, err := h.userService.CreateUser(middleware.Identity(c), &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// GetUsers returns all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserByID(middleware.Identity(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// UpdateUser handles user update, roles included
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user")
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	user, err := h.userService.UpdateUser(middleware.Identity(c), userID, &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user")
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(middleware.Identity(c), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
