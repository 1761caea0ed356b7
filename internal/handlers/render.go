package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// csrfContextKey is where echo's CSRF middleware leaves the token.
const csrfContextKey = "csrf"

// render executes a page template with the viewer and CSRF token added.
func render(c echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Viewer"] = middleware.Viewer(c)
	data["CSRF"], _ = c.Get(csrfContextKey).(string)
	data["Path"] = c.Request().URL.Path
	return c.Render(code, name, data)
}

// postIDParam parses :post_id. A malformed id is a missing page.
func postIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return 0, echo.ErrNotFound
	}
	return uint(id), nil
}

func postURL(username string, id uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func redirect(c echo.Context, url string) error {
	return c.Redirect(http.StatusFound, url)
}
