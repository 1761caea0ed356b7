package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler renders the not-found and server-error pages and logs
// server faults. Other HTTP errors are answered with their plain message.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		switch {
		case apperrors.IsNotFound(err):
			code = http.StatusNotFound
		case apperrors.IsForbidden(err):
			code = http.StatusForbidden
			message = http.StatusText(code)
		case apperrors.IsConflict(err):
			var ae *apperrors.AppError
			errors.As(err, &ae)
			code = http.StatusConflict
			message = ae.Message
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(code)
		case code == http.StatusNotFound:
			rerr = render(c, code, "404.html", nil)
		case code >= http.StatusInternalServerError:
			rerr = render(c, code, "500.html", nil)
		default:
			rerr = c.String(code, message)
		}
		if rerr != nil {
			log.Error("failed to write error response", zap.Error(rerr))
		}
	}
}
