package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountsHandler exposes the account endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Register handles POST /register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	_, pair, err := h.accounts.Register(c.UserContext(), req.Email, req.Name, req.Password, req.TC)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperrors.NewValidationError("validation failed", fiber.Map{
				"email": []string{"user with this Email already exists"},
			})
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(dto.TokenResponse{
		Token: pair,
		Msg:   "Registration Successful",
	})
}

// Login handles POST /login. Unknown email and wrong password produce the
// same response body and status.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	_, pair, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"errors": fiber.Map{
					"non_field_errors": []string{"Email or Password is not Valid"},
				},
			})
		}
		return apperrors.MapError(err)
	}

	return c.JSON(dto.TokenResponse{
		Token: pair,
		Msg:   "Login Success",
	})
}

// Profile handles GET /profile.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.accounts.Profile(c.UserContext(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(profile)
}

// ChangePassword handles POST /changepassword.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	if err := h.accounts.ChangePassword(c.UserContext(), user, req.Password); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"msg": "Password Changed Successfully"})
}

// SendResetPasswordEmail handles POST /send-reset-password-email. The
// response is identical whether or not the email is registered.
func (h *AccountsHandler) SendResetPasswordEmail(c *fiber.Ctx) error {
	var req dto.SendResetEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	if err := h.accounts.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"msg": "Password Reset link send. Please check your Email"})
}

// ResetPassword handles POST /reset-password/:uid/:token. Every failure
// mode collapses into the same generic invalid-or-expired response.
func (h *AccountsHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	err := h.accounts.ConfirmPasswordReset(c.UserContext(), c.Params("uid"), c.Params("token"), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReset) {
			return apperrors.NewInvalidOrExpired()
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"msg": "Password Reset Successfully"})
}
