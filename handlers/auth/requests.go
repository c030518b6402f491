package auth

import (
	"strings"

	"github.com/tech-arch1tect/jwtauth/services/users"
)

type normalizer interface {
	normalize()
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *LoginRequest) normalize() {
	r.Email = users.NormalizeEmail(r.Email)
}

type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email,max=255"`
	Name                 string `json:"name" validate:"required,max=255"`
	LastName             string `json:"last_name" validate:"max=255"`
	Phone                string `json:"phone" validate:"omitempty,e164"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r *RegisterRequest) normalize() {
	r.Email = users.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.LastName = strings.TrimSpace(r.LastName)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *ForgotPasswordRequest) normalize() {
	r.Email = users.NormalizeEmail(r.Email)
}

type CanResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Code  string `json:"code" validate:"required,reset_code"`
}

func (r *CanResetPasswordRequest) normalize() {
	r.Email = users.NormalizeEmail(r.Email)
	r.Code = normalizeCode(r.Code)
}

type ResetPasswordRequest struct {
	Email                string `json:"email" validate:"required,email,max=255"`
	Code                 string `json:"code" validate:"required,reset_code"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r *ResetPasswordRequest) normalize() {
	r.Email = users.NormalizeEmail(r.Email)
	r.Code = normalizeCode(r.Code)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
