package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/billboardhub/billboard-market/internal/api/dto"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/service"
)

// AdminsHandler exposes administrator account endpoints.
type AdminsHandler struct {
	admins   *service.AdminService
	validate *validation.Validator
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(admins *service.AdminService, validate *validation.Validator) *AdminsHandler {
	return &AdminsHandler{admins: admins, validate: validate}
}

// Signup handles POST /admin/signup.
func (h *AdminsHandler) Signup(c *fiber.Ctx) error {
	var req dto.AdminSignupRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	admin, err := h.admins.Signup(c.UserContext(), service.AdminSignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Admin successfully signed up!", fiber.Map{"admin": admin})
}

// Login handles POST /admin/login.
func (h *AdminsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	admin, token, err := h.admins.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin logged in successfully", dto.AdminAuthResponse{Admin: admin, Token: token})
}

// Logout handles POST /admin/logout.
func (h *AdminsHandler) Logout(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	if err := h.admins.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin logged out", nil)
}

// LogoutAll handles POST /admin/logoutAll.
func (h *AdminsHandler) LogoutAll(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	if err := h.admins.LogoutAll(c.UserContext(), principal); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin logged out from all devices", nil)
}

// Profile handles GET /admin/profile.
func (h *AdminsHandler) Profile(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	admin, err := h.admins.Profile(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin profile", fiber.Map{"admin": admin})
}

// UpdateInfo handles PATCH /admin/updateInfo.
func (h *AdminsHandler) UpdateInfo(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.AdminUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	admin, err := h.admins.UpdateProfile(c.UserContext(), principal.ID, domain.AdminProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin info updated", fiber.Map{"admin": admin})
}

// UpdatePassword handles PATCH /admin/updatePassword. Every session ends.
func (h *AdminsHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.PasswordUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.admins.UpdatePassword(c.UserContext(), principal.ID, req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password updated. Please log in again", nil)
}

// Delete handles PATCH /admin/delete.
func (h *AdminsHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	if err := h.admins.Delete(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin deleted", nil)
}
