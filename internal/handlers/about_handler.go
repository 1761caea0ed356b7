package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func RegisterAboutRoutes(g *echo.Group) {
	g.GET("/author/", AboutAuthor)
	g.GET("/tech/", AboutTech)
}

func AboutAuthor(c echo.Context) error {
	return render(c, http.StatusOK, "about_author.html", nil)
}

func AboutTech(c echo.Context) error {
	return render(c, http.StatusOK, "about_tech.html", nil)
}
