package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	valid := RegisterRequest{
		Email: "alice@example.com", Name: "Alice",
		Password: "Secret123", Password2: "Secret123", TC: true,
	}
	assert.Nil(t, valid.Validate())

	cases := map[string]struct {
		mutate func(*RegisterRequest)
		field  string
	}{
		"missing email":    {func(r *RegisterRequest) { r.Email = "" }, "email"},
		"bad email":        {func(r *RegisterRequest) { r.Email = "nope" }, "email"},
		"missing name":     {func(r *RegisterRequest) { r.Name = "  " }, "name"},
		"missing password": {func(r *RegisterRequest) { r.Password = "" }, "password"},
		"missing confirm":  {func(r *RegisterRequest) { r.Password2 = "" }, "password2"},
		"mismatch":         {func(r *RegisterRequest) { r.Password2 = "Other" }, "non_field_errors"},
		"terms declined":   {func(r *RegisterRequest) { r.TC = false }, "tc"},
	}
	for name, tc := range cases {
		req := valid
		tc.mutate(&req)
		errs := req.Validate()
		assert.Contains(t, errs, tc.field, name)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, LoginRequest{Email: "a@example.com", Password: "pw"}.Validate())
	assert.Contains(t, LoginRequest{Password: "pw"}.Validate(), "email")
	assert.Contains(t, LoginRequest{Email: "a@example.com"}.Validate(), "password")
}

func TestPasswordPairValidate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ChangePasswordRequest{Password: "pw", Password2: "pw"}.Validate())
	assert.Contains(t, ChangePasswordRequest{Password: "a", Password2: "b"}.Validate(), "non_field_errors")
	assert.Nil(t, ResetPasswordRequest{Password: "pw", Password2: "pw"}.Validate())
	assert.Contains(t, ResetPasswordRequest{Password: "pw"}.Validate(), "password2")
}

func TestSendResetEmailRequestValidate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SendResetEmailRequest{Email: "a@example.com"}.Validate())
	assert.Contains(t, SendResetEmailRequest{}.Validate(), "email")
	assert.Contains(t, SendResetEmailRequest{Email: "not an email"}.Validate(), "email")
}
