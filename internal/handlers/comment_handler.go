package handlers

import (
	"net/http"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, loginRequired echo.MiddlewareFunc) {
	g.POST("/:username/:post_id/comment/", h.AddComment, loginRequired)
}

// AddComment always ends on the post page. An empty comment is dropped
// without telling the user.
func (h *CommentHandler) AddComment(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	var form models.CommentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	username := c.Param("username")
	_, err = h.comments.AddComment(c.Request().Context(), middleware.Viewer(c), username, postID, form)
	if err != nil && !apperrors.IsValidation(err) {
		return err
	}
	return redirect(c, postURL(username, postID))
}
