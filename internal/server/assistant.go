package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atlasiq/atlasiq/internal/agent/react"
	"github.com/atlasiq/atlasiq/internal/llm"
)

// AssistantHandler runs the tool-augmented agent loop for one conversation
// turn.
type AssistantHandler struct {
	Agent *react.Agent
}

type assistantRequest struct {
	Message     string        `json:"message"`
	History     []llm.Message `json:"history"`
	CountryName string        `json:"country_name"`
	CountryCode string        `json:"country_code"`
	Lat         float64       `json:"lat"`
	Lng         float64       `json:"lng"`
}

func (h *AssistantHandler) Register(e *echo.Echo) {
	e.POST("/assistant", h.assist)
}

func (h *AssistantHandler) assist(c echo.Context) error {
	var req assistantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty")
	}

	messages := append([]llm.Message{}, req.History...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: ContextPrefix(req.CountryName, req.CountryCode) + "User says: " + req.Message,
	})

	res, err := h.Agent.Run(c.Request().Context(), react.Request{
		Messages: messages,
		Lat:      req.Lat,
		Lng:      req.Lng,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
