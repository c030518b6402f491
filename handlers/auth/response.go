package auth

import (
	"github.com/labstack/echo/v4"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

func success(c echo.Context, status int, message string, data any) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message, code string) error {
	return c.JSON(status, envelope{Success: false, Message: message, Code: code})
}

type userResource struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

type tokenResource struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
