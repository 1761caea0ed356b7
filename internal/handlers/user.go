package handlers

import (
	"net/http"

	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves author profile pages.
type UserHandler struct {
	feeds *services.FeedService
}

func NewUserHandler(feeds *services.FeedService) *UserHandler {
	return &UserHandler{feeds: feeds}
}

func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/:username/", h.Profile)
}

// Profile lists an author's posts and whether the viewer follows them.
func (h *UserHandler) Profile(c echo.Context) error {
	feed, err := h.feeds.Profile(c.Request().Context(), c.Param("username"), c.QueryParam("page"), middleware.Viewer(c))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "profile.html", echo.Map{"Feed": feed})
}
