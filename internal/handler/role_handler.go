package handler

import (
	"zamar-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	repo  repository.RoleRepository
	users repository.UserRepository
}

func NewRoleHandler(repo repository.RoleRepository, users repository.UserRepository) *RoleHandler {
	return &RoleHandler{repo: repo, users: users}
}

type rolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"dive,required"`
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *RoleHandler) GetAll(c *fiber.Ctx) error {
	roles, err := h.repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load roles"})
	}
	return c.JSON(fiber.Map{"data": roles})
}

func (h *RoleHandler) GetAllPermissions(c *fiber.Ctx) error {
	perms, err := h.repo.GetAllPermissions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load permissions"})
	}
	return c.JSON(fiber.Map{"data": perms})
}

func (h *RoleHandler) UpdatePermissions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req rolePermissionsRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	role, err := h.repo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
	}
	if err := h.repo.SetPermissions(role, req.Permissions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update permissions"})
	}

	role, _ = h.repo.GetByID(id)
	return c.JSON(fiber.Map{"message": "Permissions updated", "data": role})
}

// AssignUserRole promotes or demotes a user, e.g. listener to artist.
func (h *RoleHandler) AssignUserRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req assignRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	role, err := h.repo.GetByName(req.Role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown role"})
	}
	user, err := h.users.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.RoleID = role.ID
	if err := h.users.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign role"})
	}
	user.Role = *role
	return c.JSON(fiber.Map{"message": "Role assigned", "data": user})
}
