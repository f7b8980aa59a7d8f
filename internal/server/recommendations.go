package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atlasiq/atlasiq/internal/agent/pipeline"
)

// RecommendationsHandler runs the planner/scoring/insight pipeline.
type RecommendationsHandler struct {
	Pipeline *pipeline.Pipeline
}

type recommendationsRequest struct {
	Interests string `json:"interests"`
}

func (h *RecommendationsHandler) Register(e *echo.Echo) {
	e.POST("/recommendations", h.recommend)
}

func (h *RecommendationsHandler) recommend(c echo.Context) error {
	var req recommendationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Interests) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Interests cannot be empty")
	}

	res, err := h.Pipeline.Recommend(c.Request().Context(), req.Interests)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
