package dto

import (
	"net/mail"
	"strings"

	"github.com/spec-kit/account-service/internal/auth"
)

// RegisterRequest payload for new accounts. Password2 is the confirmation
// field and TC records terms acceptance.
type RegisterRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	TC        bool   `json:"tc"`
}

// Validate returns field-scoped error messages, or nil when valid.
func (r RegisterRequest) Validate() map[string]any {
	errs := map[string]any{}
	requireEmail(errs, r.Email)
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = []string{"This field is required"}
	}
	requirePasswordPair(errs, r.Password, r.Password2)
	if !r.TC {
		errs["tc"] = []string{"You must accept the terms and conditions"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns field-scoped error messages, or nil when valid.
func (r LoginRequest) Validate() map[string]any {
	errs := map[string]any{}
	requireEmail(errs, r.Email)
	if r.Password == "" {
		errs["password"] = []string{"This field is required"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ChangePasswordRequest payload for authenticated password changes.
type ChangePasswordRequest struct {
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Validate returns field-scoped error messages, or nil when valid.
func (r ChangePasswordRequest) Validate() map[string]any {
	errs := map[string]any{}
	requirePasswordPair(errs, r.Password, r.Password2)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SendResetEmailRequest payload for requesting a reset link.
type SendResetEmailRequest struct {
	Email string `json:"email"`
}

// Validate returns field-scoped error messages, or nil when valid.
func (r SendResetEmailRequest) Validate() map[string]any {
	errs := map[string]any{}
	requireEmail(errs, r.Email)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ResetPasswordRequest payload for confirming a reset.
type ResetPasswordRequest struct {
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Validate returns field-scoped error messages, or nil when valid.
func (r ResetPasswordRequest) Validate() map[string]any {
	errs := map[string]any{}
	requirePasswordPair(errs, r.Password, r.Password2)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// TokenResponse carries the issued pair in responses.
type TokenResponse struct {
	Token auth.TokenPair `json:"token"`
	Msg   string         `json:"msg"`
}

func requireEmail(errs map[string]any, email string) {
	if strings.TrimSpace(email) == "" {
		errs["email"] = []string{"This field is required"}
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = []string{"Enter a valid email address"}
	}
}

func requirePasswordPair(errs map[string]any, password, password2 string) {
	if password == "" {
		errs["password"] = []string{"This field is required"}
	}
	if password2 == "" {
		errs["password2"] = []string{"This field is required"}
	}
	if password != "" && password2 != "" && password != password2 {
		errs["non_field_errors"] = []string{"Password and Confirm Password doesn't match"}
	}
}
