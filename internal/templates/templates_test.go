package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/pagination"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryPageParses(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "group.html", "profile.html", "follow.html", "post.html", "post_form.html",
		"login.html", "signup.html", "about_author.html", "about_tech.html", "404.html", "500.html",
	} {
		assert.Contains(t, r.pages, name)
	}
}

func TestRenderIndex(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	group := &models.Group{Title: "Cats", Slug: "cats"}
	feed := &services.FeedPage{
		Posts: []models.Post{{
			ID:      4,
			Text:    "hello <world>",
			PubDate: time.Date(2021, 4, 20, 11, 31, 0, 0, time.UTC),
			Author:  models.User{Username: "vlad"},
			Group:   group,
		}},
		Page: pagination.New(11, pagination.PerPage).Page("1"),
	}

	var buf bytes.Buffer
	err = r.Render(&buf, "index.html", echo.Map{"Feed": feed, "Viewer": (*models.User)(nil)}, nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "hello &lt;world&gt;")
	assert.Contains(t, html, `href="/vlad/4/"`)
	assert.Contains(t, html, `href="/group/cats/"`)
	assert.Contains(t, html, `href="?page=2"`)
	assert.Contains(t, html, "Log in")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope.html", nil, nil))
}
