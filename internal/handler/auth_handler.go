package handler

import (
	"strings"

	"zamar-backend/internal/middleware"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth  *usecase.AuthUsecase
	users repository.UserRepository
}

func NewAuthHandler(auth *usecase.AuthUsecase, users repository.UserRepository) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type registerRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=16"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Bio       string `json:"bio" validate:"max=500"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	user, err := h.auth.Register(usecase.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return usecaseError(c, err, "Failed to register")
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"data":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if statusFor(err) == fiber.StatusForbidden {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is disabled"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong email or password"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"data":    user,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.FindByID(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(fiber.Map{"data": user})
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	user, err := h.users.FindByID(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL
	if err := h.users.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "data": user})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	if err := h.auth.ChangePassword(middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
		if statusFor(err) == fiber.StatusUnauthorized {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Old password is wrong"})
		}
		return usecaseError(c, err, "Failed to change password")
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}
