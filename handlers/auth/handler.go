package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/jwtauth/config"
	jwtmiddleware "github.com/tech-arch1tect/jwtauth/middleware/jwt"
	authsvc "github.com/tech-arch1tect/jwtauth/services/auth"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/users"
	"go.uber.org/zap"
)

const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInternal           = "INTERNAL_ERROR"

	forgotPasswordMessage = "If the email exists, the code has been sent"
)

type Handler struct {
	auth   *authsvc.Service
	cookie config.RefreshTokenConfig
	logger *logging.Service
}

func NewHandler(cfg *config.Config, auth *authsvc.Service, logger *logging.Service) *Handler {
	return &Handler{
		auth:   auth,
		cookie: cfg.RefreshToken,
		logger: logger.Named("http.auth"),
	}
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, clientInfo(c))
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return fail(c, http.StatusNotFound, "The user with email address you entered does not exist.", CodeUserNotFound)
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "Invalid credentials", CodeInvalidCredentials)
	case err != nil:
		return h.internal(c, "login failed", err)
	}

	return h.respondWithSession(c, session, "The user has been successfully logged in")
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), authsvc.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, users.ErrEmailTaken) {
		return fail(c, http.StatusConflict, "The email has already been taken.", CodeEmailTaken)
	}
	if err != nil {
		return h.internal(c, "registration failed", err)
	}

	return success(c, http.StatusCreated, "The user has been successfully registered", echo.Map{"user": newUserResource(user)})
}

func (h *Handler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.cookie.CookieName)
	if err != nil || cookie.Value == "" {
		return fail(c, http.StatusForbidden, "Token Invalid", CodeTokenInvalid)
	}

	session, err := h.auth.Refresh(c.Request().Context(), cookie.Value, clientInfo(c))
	if errors.Is(err, authsvc.ErrRefreshInvalid) {
		h.clearRefreshCookie(c)
		return fail(c, http.StatusForbidden, "Token Invalid", CodeTokenInvalid)
	}
	if err != nil {
		return h.internal(c, "token refresh failed", err)
	}

	return h.respondWithSession(c, session, "The user's token has been successfully refreshed")
}

func (h *Handler) Logout(c echo.Context) error {
	var refreshToken string
	if cookie, err := c.Cookie(h.cookie.CookieName); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.auth.Logout(c.Request().Context(), jwtmiddleware.GetClaims(c), refreshToken); err != nil {
		return h.internal(c, "logout failed", err)
	}

	h.clearRefreshCookie(c)
	return success(c, http.StatusOK, "The user has been successfully logged out", nil)
}

func (h *Handler) Me(c echo.Context) error {
	user, err := h.auth.Me(c.Request().Context(), jwtmiddleware.GetUserID(c))
	if errors.Is(err, users.ErrUserNotFound) {
		return fail(c, http.StatusNotFound, "User not found", CodeUserNotFound)
	}
	if err != nil {
		return h.internal(c, "failed to load user", err)
	}

	return success(c, http.StatusOK, "The user has been successfully shown", echo.Map{"user": newUserResource(user)})
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email, clientInfo(c)); err != nil {
		return h.resetError(c, err)
	}

	return success(c, http.StatusOK, forgotPasswordMessage, nil)
}

func (h *Handler) CanResetPassword(c echo.Context) error {
	var req CanResetPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	valid, err := h.auth.CanResetPassword(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return h.internal(c, "reset code verification failed", err)
	}
	if !valid {
		return fail(c, http.StatusBadRequest, "The password reset code has expired or is invalid", resetcode.CodeInvalid)
	}

	return success(c, http.StatusOK, "The password reset code is valid", echo.Map{"valid": true})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.Code, req.Password, clientInfo(c))
	if err != nil {
		return h.resetError(c, err)
	}

	return success(c, http.StatusOK, "Password reset was successful!", nil)
}

func (h *Handler) resetError(c echo.Context, err error) error {
	switch code := resetcode.Code(err); code {
	case resetcode.CodeRateLimited:
		return fail(c, http.StatusTooManyRequests, "Please wait before requesting another code", code)
	case resetcode.CodeExpired:
		return fail(c, http.StatusBadRequest, "The password reset code has expired", code)
	case resetcode.CodeInvalid:
		return fail(c, http.StatusBadRequest, "Invalid password reset code", code)
	case resetcode.CodeTooManyAttempts:
		return fail(c, http.StatusTooManyRequests, "Too many attempts. Please request a new code", code)
	case resetcode.CodeIdentityNotFound:
		return fail(c, http.StatusNotFound, "User with current email does not exist", code)
	default:
		return h.internal(c, "password reset failed", err)
	}
}

func (h *Handler) internal(c echo.Context, msg string, err error) error {
	h.logger.Error(msg, zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Internal server error", CodeInternal)
}

func (h *Handler) respondWithSession(c echo.Context, session *authsvc.Session, message string) error {
	h.setRefreshCookie(c, session.RefreshToken, session.RefreshExpiresAt)

	return success(c, http.StatusOK, message, echo.Map{
		"user": newUserResource(session.User),
		"token": tokenResource{
			AccessToken: session.AccessToken,
			TokenType:   "bearer",
			ExpiresIn:   session.ExpiresIn,
		},
	})
}

func (h *Handler) setRefreshCookie(c echo.Context, value string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     h.cookie.CookiePath,
		Domain:   h.cookie.CookieDomain,
		Expires:  expiresAt,
		MaxAge:   max(int(time.Until(expiresAt).Seconds()), 1),
		Secure:   h.cookie.CookieSecure,
		HttpOnly: true,
		SameSite: sameSite(h.cookie.CookieSameSite),
	})
}

func (h *Handler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     h.cookie.CookiePath,
		Domain:   h.cookie.CookieDomain,
		MaxAge:   -1,
		Secure:   h.cookie.CookieSecure,
		HttpOnly: true,
		SameSite: sameSite(h.cookie.CookieSameSite),
	})
}

func sameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func clientInfo(c echo.Context) authsvc.ClientInfo {
	return authsvc.ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

func newUserResource(u *users.User) userResource {
	return userResource{ID: u.ID, Name: u.Name, LastName: u.LastName, Email: u.Email}
}
