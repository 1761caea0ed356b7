package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth       *services.AuthService
	cookieName string
	secure     bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieName: cookieName, secure: secure}
}

// RegisterAuthRoutes registers authentication-related routes. Firebase
// login is only available when a verifier is configured.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, firebase middleware.TokenVerifier) {
	g.GET("/signup/", h.SignupForm)
	g.POST("/signup/", h.Signup)
	g.GET("/login/", h.LoginForm)
	g.POST("/login/", h.Login)
	g.GET("/logout/", h.Logout)
	if firebase != nil {
		g.POST("/firebase-login/", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(firebase))
	}
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return render(c, http.StatusOK, "signup.html", echo.Map{"Form": models.SignupRequest{}})
}

// Signup creates a local account and signs it in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.auth.Signup(c.Request().Context(), req)
	if apperrors.IsValidation(err) {
		req.Password = ""
		return render(c, http.StatusOK, "signup.html", echo.Map{"Form": req, "Errors": apperrors.FieldErrors(err)})
	}
	if err != nil {
		return err
	}
	if err := h.startSession(c, user); err != nil {
		return err
	}
	return redirect(c, "/")
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "login.html", echo.Map{
		"Form": models.LoginRequest{},
		"Next": c.QueryParam("next"),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.auth.Login(c.Request().Context(), req)
	if apperrors.IsValidation(err) || apperrors.IsUnauthorized(err) {
		data := echo.Map{"Form": models.LoginRequest{Username: req.Username}, "Next": req.Next}
		if apperrors.IsValidation(err) {
			data["Errors"] = apperrors.FieldErrors(err)
		} else {
			data["Error"] = err.Error()
		}
		return render(c, http.StatusOK, "login.html", data)
	}
	if err != nil {
		return err
	}
	if err := h.startSession(c, user); err != nil {
		return err
	}
	return redirect(c, safeNext(req.Next))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return redirect(c, "/")
}

// FirebaseLogin exchanges a verified Firebase ID token for a session.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	user, err := h.auth.FirebaseLogin(c.Request().Context(), middleware.FirebaseToken(c))
	if err != nil {
		return err
	}
	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"username": user.Username})
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	token, err := h.auth.IssueSession(user)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
