package auth

import (
	"github.com/labstack/echo/v4"
	jwtmiddleware "github.com/tech-arch1tect/jwtauth/middleware/jwt"
	"github.com/tech-arch1tect/jwtauth/middleware/ratelimit"
	"github.com/tech-arch1tect/jwtauth/services/jwt"
)

// RegisterRoutes mounts the auth endpoints on g.
func RegisterRoutes(g *echo.Group, h *Handler, tokens *jwt.Service, limits *ratelimit.Limits) {
	g.POST("/login", h.Login, limits.Login())
	g.POST("/register", h.Register)
	g.POST("/refresh", h.Refresh)
	g.POST("/forgot-password", h.ForgotPassword, limits.ForgotPassword())
	g.POST("/can-reset-password", h.CanResetPassword, limits.ResetPassword())
	g.POST("/reset-password", h.ResetPassword, limits.ResetPassword())

	protected := g.Group("", jwtmiddleware.RequireJWT(tokens))
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}
