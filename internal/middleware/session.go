package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const viewerKey = "viewer"

// SessionReader resolves a session token to its user.
type SessionReader interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Session loads the viewer from the session cookie. A missing or invalid
// cookie leaves the request anonymous; an invalid one is also cleared.
func Session(sessions SessionReader, cookieName string, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := sessions.CurrentUser(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
				SetViewer(c, user)
			case apperrors.IsUnauthorized(err):
				c.SetCookie(&http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
			default:
				log.Error("failed to load session user", zap.Error(err))
			}
			return next(c)
		}
	}
}

// LoginRequired redirects anonymous requests to loginPath with the current
// path as "next".
func LoginRequired(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Viewer(c) == nil {
				target := loginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

// Viewer is the signed-in user, or nil.
func Viewer(c echo.Context) *models.User {
	user, _ := c.Get(viewerKey).(*models.User)
	return user
}

func SetViewer(c echo.Context, user *models.User) {
	c.Set(viewerKey, user)
}

// ViewerScope identifies the viewer for cache keys: the user id, or empty
// for anonymous requests.
func ViewerScope(c echo.Context) string {
	if user := Viewer(c); user != nil {
		return strconv.FormatUint(uint64(user.ID), 10)
	}
	return ""
}
