package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts *services.PostService
	feeds *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, feeds *services.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feeds: feeds}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, loginRequired echo.MiddlewareFunc) {
	g.GET("/new/", h.NewPost, loginRequired)
	g.POST("/new/", h.CreatePost, loginRequired)
	g.GET("/:username/:post_id/", h.GetPost)
	g.GET("/:username/:post_id/edit/", h.EditPost, loginRequired)
	g.POST("/:username/:post_id/edit/", h.UpdatePost, loginRequired)
}

// GetPost shows a single post with its comments.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	detail, err := h.feeds.PostDetail(c.Request().Context(), c.Param("username"), postID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "post.html", echo.Map{"Detail": detail})
}

func (h *PostHandler) NewPost(c echo.Context) error {
	return h.renderForm(c, "/new/", nil, models.PostForm{}, nil)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	form, image, err := bindPostForm(c)
	if err != nil {
		return err
	}
	_, err = h.posts.Create(c.Request().Context(), middleware.Viewer(c), form, image)
	if apperrors.IsValidation(err) {
		return h.renderForm(c, "/new/", nil, form, apperrors.FieldErrors(err))
	}
	if err != nil {
		return err
	}
	return redirect(c, "/")
}

// EditPost shows the edit form to the author. Anyone else is sent to the post.
func (h *PostHandler) EditPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Editable(c.Request().Context(), middleware.Viewer(c), c.Param("username"), postID)
	if apperrors.IsForbidden(err) {
		return redirect(c, postURL(post.Author.Username, post.ID))
	}
	if err != nil {
		return err
	}
	form := models.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return h.renderForm(c, c.Request().URL.Path, post, form, nil)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	form, image, err := bindPostForm(c)
	if err != nil {
		return err
	}
	username := c.Param("username")
	post, err := h.posts.Edit(c.Request().Context(), middleware.Viewer(c), username, postID, form, image)
	switch {
	case apperrors.IsForbidden(err):
		return redirect(c, postURL(username, postID))
	case apperrors.IsValidation(err):
		return h.renderForm(c, c.Request().URL.Path, post, form, apperrors.FieldErrors(err))
	case err != nil:
		return err
	}
	return redirect(c, postURL(username, post.ID))
}

func (h *PostHandler) renderForm(c echo.Context, action string, post *models.Post, form models.PostForm, errs map[string]string) error {
	groups, err := h.posts.Groups(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "post_form.html", echo.Map{
		"Action": action,
		"IsEdit": post != nil,
		"Post":   post,
		"Form":   form,
		"Groups": groups,
		"Errors": errs,
	})
}

// bindPostForm reads the form fields and the optional image upload.
func bindPostForm(c echo.Context) (models.PostForm, *multipart.FileHeader, error) {
	var form models.PostForm
	if err := c.Bind(&form); err != nil {
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	image, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return form, nil, nil
		}
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	return form, image, nil
}
