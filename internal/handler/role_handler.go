package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	roleRepo repository.RoleRepository
}

func NewRoleHandler(roleRepo repository.RoleRepository) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo}
}

type roleResponse struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Permissions []policy.Operation `json:"permissions"`
}

// GetRoles returns the fixed roles with the operations each one grants
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll()
	if err != nil {
		return apperror.Internal("failed to fetch roles", err)
	}

	data := make([]roleResponse, len(roles))
	for i, r := range roles {
		data[i] = roleResponse{
			Code:        r.Code,
			Name:        r.Name,
			Description: r.Description,
			Permissions: policy.OperationsFor(r.Code),
		}
	}
	return c.JSON(fiber.Map{"data": data})
}
