package config

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// CSRFFormField is the form field carrying the CSRF token on unsafe requests.
const CSRFFormField = "csrf"

func SetupMiddleware(e *echo.Echo, cfg *Config, log *zap.Logger) {
	// 308 keeps the method and body of a form post; 301 would turn it into a GET.
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper:      func(c echo.Context) bool { return skipTrailingSlash(c) || !isSafeMethod(c) },
		RedirectCode: http.StatusMovedPermanently,
	}))
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper:      func(c echo.Context) bool { return skipTrailingSlash(c) || isSafeMethod(c) },
		RedirectCode: http.StatusPermanentRedirect,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        skipCSRF,
		TokenLookup:    "form:" + CSRFFormField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: http.SameSiteLaxMode,
	}))
}

func skipTrailingSlash(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/health" || strings.HasPrefix(p, "/media/")
}

func isSafeMethod(c echo.Context) bool {
	m := c.Request().Method
	return m == http.MethodGet || m == http.MethodHead
}

// Token-authenticated endpoints do not carry a form token.
func skipCSRF(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasPrefix(p, "/admin/") || p == "/auth/firebase-login/"
}
