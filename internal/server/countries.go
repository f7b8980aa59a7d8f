package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atlasiq/atlasiq/internal/countries"
)

// CountriesHandler serves the embedded catalogue.
type CountriesHandler struct {
	Countries *countries.Service
}

func (h *CountriesHandler) Register(e *echo.Echo) {
	g := e.Group("/countries")
	g.GET("", h.list)
	g.GET("/:code", h.get)
}

func (h *CountriesHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Countries.All())
}

func (h *CountriesHandler) get(c echo.Context) error {
	country, ok := h.Countries.ByCode(c.Param("code"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Country not found")
	}
	return c.JSON(http.StatusOK, country)
}
