package handlers

import (
	"net/http"

	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the global, group and following feeds.
type FeedHandler struct {
	feeds *services.FeedService
}

func NewFeedHandler(feeds *services.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// RegisterFeedRoutes registers the feed pages. indexCache wraps only the home page.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, loginRequired, indexCache echo.MiddlewareFunc) {
	g.GET("/", h.Index, indexCache)
	g.GET("/group/:slug/", h.GroupPosts)
	g.GET("/follow/", h.FollowIndex, loginRequired)
}

func (h *FeedHandler) Index(c echo.Context) error {
	feed, err := h.feeds.Index(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "index.html", echo.Map{"Feed": feed})
}

func (h *FeedHandler) GroupPosts(c echo.Context) error {
	feed, err := h.feeds.Group(c.Request().Context(), c.Param("slug"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "group.html", echo.Map{"Feed": feed})
}

func (h *FeedHandler) FollowIndex(c echo.Context) error {
	feed, err := h.feeds.Following(c.Request().Context(), middleware.Viewer(c), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "follow.html", echo.Map{"Feed": feed})
}
