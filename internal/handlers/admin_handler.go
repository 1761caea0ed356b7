package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/anonto42/blogfeed/backend/internal/cache"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderAdminToken carries the shared admin secret.
const HeaderAdminToken = "X-Admin-Token"

// AdminHandler exposes maintenance endpoints guarded by a static token.
type AdminHandler struct {
	pages cache.Store
	token string
	log   *zap.Logger
}

func NewAdminHandler(pages cache.Store, token string, log *zap.Logger) *AdminHandler {
	return &AdminHandler{pages: pages, token: token, log: log}
}

func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/cache/clear/", h.ClearCache)
}

// ClearCache drops every cached page.
func (h *AdminHandler) ClearCache(c echo.Context) error {
	given := c.Request().Header.Get(HeaderAdminToken)
	if h.token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.token)) != 1 {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid admin token")
	}
	if err := h.pages.Clear(c.Request().Context()); err != nil {
		return err
	}
	h.log.Info("page cache cleared", zap.String("remote_ip", c.RealIP()))
	return c.JSON(http.StatusOK, echo.Map{"status": "cleared"})
}
