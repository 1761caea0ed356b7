package handlers

import (
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, loginRequired echo.MiddlewareFunc) {
	g.GET("/:username/follow/", h.ProfileFollow, loginRequired)
	g.GET("/:username/unfollow/", h.ProfileUnfollow, loginRequired)
}

func (h *FollowHandler) ProfileFollow(c echo.Context) error {
	author, err := h.follows.Follow(c.Request().Context(), middleware.Viewer(c), c.Param("username"))
	if err != nil {
		return err
	}
	return redirect(c, "/"+author.Username+"/")
}

func (h *FollowHandler) ProfileUnfollow(c echo.Context) error {
	author, err := h.follows.Unfollow(c.Request().Context(), middleware.Viewer(c), c.Param("username"))
	if err != nil {
		return err
	}
	return redirect(c, "/"+author.Username+"/")
}
