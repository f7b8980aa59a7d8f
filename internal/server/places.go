package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/atlasiq/atlasiq/internal/places"
	"github.com/atlasiq/atlasiq/models"
)

const (
	maxNearbyRadius  = 50000
	maxNearbyResults = 20
)

// PlacesHandler exposes the places service directly, rate-limited per client.
type PlacesHandler struct {
	Places places.Searcher
}

type nearbyRequest struct {
	Query      string  `json:"query"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Radius     int     `json:"radius"`
	MaxResults int     `json:"max_results"`
}

type nearbyResponse struct {
	Places    []models.Place `json:"places"`
	Query     string         `json:"query"`
	CenterLat float64        `json:"center_lat"`
	CenterLng float64        `json:"center_lng"`
}

func (h *PlacesHandler) Register(e *echo.Echo) {
	g := e.Group("/places")
	g.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20.0 / 60.0))))
	g.POST("/nearby", h.nearby)
}

func (h *PlacesHandler) nearby(c echo.Context) error {
	var req nearbyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query cannot be empty")
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid coordinates")
	}

	radius := req.Radius
	if radius <= 0 {
		radius = 5000
	}
	if radius > maxNearbyRadius {
		radius = maxNearbyRadius
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > maxNearbyResults {
		maxResults = maxNearbyResults
	}

	found, err := h.Places.Search(c.Request().Context(), req.Query, req.Latitude, req.Longitude, radius, maxResults)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if found == nil {
		found = []models.Place{}
	}
	return c.JSON(http.StatusOK, nearbyResponse{
		Places:    found,
		Query:     req.Query,
		CenterLat: req.Latitude,
		CenterLng: req.Longitude,
	})
}
