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

// UsersHandler exposes account endpoints for marketplace users.
type UsersHandler struct {
	users    *service.UserService
	validate *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, validate *validation.Validator) *UsersHandler {
	return &UsersHandler{users: users, validate: validate}
}

// Signup handles POST /signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.UserSignupRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.users.Signup(c.UserContext(), service.UserSignupInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNo:     req.PhoneNo,
		CompanyName: req.CompanyName,
		Position:    req.Position,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "User successfully signed up!", fiber.Map{"user": user})
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	user, token, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User logged in successfully", dto.UserAuthResponse{User: user, Token: token})
}

// Logout handles POST /logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	if err := h.users.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User logged out", nil)
}

// LogoutAll handles POST /logoutAll.
func (h *UsersHandler) LogoutAll(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	if err := h.users.LogoutAll(c.UserContext(), principal); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User logged out from all devices", nil)
}

// Profile handles GET /profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User profile", fiber.Map{"user": user})
}

// UpdateInfo handles PATCH /updateInfo.
func (h *UsersHandler) UpdateInfo(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), principal.ID, domain.UserProfileUpdate{
		FullName:    req.FullName,
		PhoneNo:     req.PhoneNo,
		CompanyName: req.CompanyName,
		Position:    req.Position,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User info updated", fiber.Map{"user": user})
}

// UpdatePassword handles PATCH /updatePassword. Every session ends.
func (h *UsersHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	var req dto.PasswordUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.users.UpdatePassword(c.UserContext(), principal.ID, req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password updated. Please log in again", nil)
}

// UploadAvatar handles PATCH /uploadAvatar with a multipart "avatar" file.
func (h *UsersHandler) UploadAvatar(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	upload, closeFile, err := formImage(c, "avatar")
	defer closeFile()
	if err != nil {
		return err
	}
	user, err := h.users.UploadAvatar(c.UserContext(), principal.ID, upload)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Avatar uploaded", fiber.Map{"user": user})
}

// Delete handles PATCH /deleteUser.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted", nil)
}
