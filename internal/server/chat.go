package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/atlasiq/atlasiq/internal/llm"
)

const chatSystemPrompt = `You are AtlasIQ, a friendly and knowledgeable travel expert AI. You help users learn about countries and plan travel.

When answering about a specific country, include practical details like:
- Key highlights and must-visit places
- Best time to visit
- Local culture and customs
- Food recommendations
- Safety tips
- Budget expectations

Keep responses concise (3-5 sentences) unless the user asks for detail. Be enthusiastic but factual. Do not use markdown formatting.`

const resolveSystemPrompt = `You are a strict geography resolver. Given a place name (city, landmark, region, etc.), return ONLY a JSON object with these fields:
- "name": the country name this place belongs to
- "code": the ISO 3166-1 alpha-2 country code (uppercase)
- "lat": latitude of the specific place (not the country center)
- "lng": longitude of the specific place (not the country center)
- "place_name": the canonical name of the place

If the input is already a country name, return that country's info.
If the input is a landmark (e.g. "Eiffel Tower", "Machu Picchu"), return the country it's in with the landmark's coordinates.

CRITICAL: If the input is gibberish, random characters, nonsense text, misspelled beyond recognition, or NOT a real identifiable place, you MUST return {"name": null}. Do NOT guess or hallucinate a place. Only return a result when you are confident the input refers to a real, specific geographic location.

Return ONLY valid JSON, no markdown, no explanation.`

const summarySystemPrompt = `You are AtlasIQ, an AI travel assistant. The user has been exploring the world using your platform and has gathered the data below. Write a personalized 3-5 paragraph travel summary/conclusion.

Guidelines:
- Address the user by name if provided
- Highlight common themes across their explorations (e.g. food focus, adventure, culture)
- Mention their top-rated or most-explored destinations
- Give 2-3 actionable recommendations or priorities based on their interests
- End with a warm, encouraging sendoff
- Keep it concise but insightful — aim for 200-350 words
- Use markdown formatting (bold, bullet points) where helpful`

// ChatHandler serves the single-turn completion endpoints: plain chat,
// place resolution, and trip summaries.
type ChatHandler struct {
	Provider llm.Provider
	Logger   *log.Logger
}

type chatRequest struct {
	Message     string `json:"message"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
}

type resolvePlaceRequest struct {
	Place string `json:"place"`
}

type resolvePlaceResponse struct {
	Name      string  `json:"name,omitempty"`
	Code      string  `json:"code,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	PlaceName string  `json:"place_name,omitempty"`
}

type tripSummaryRequest struct {
	Countries []struct {
		Name      string `json:"name"`
		Code      string `json:"code"`
		PlaceName string `json:"place_name"`
	} `json:"countries"`
	Searches       []string `json:"searches"`
	ChatHighlights []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Country  string `json:"country"`
	} `json:"chat_highlights"`
	Places []struct {
		Name    string  `json:"name"`
		Rating  float64 `json:"rating"`
		Country string  `json:"country"`
	} `json:"places"`
	Bookmarks []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"bookmarks"`
	UserName string `json:"user_name"`
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/chat", h.chat)
	e.POST("/resolve-place", h.resolvePlace)

	summary := e.Group("/trip-summary")
	summary.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(10.0 / 60.0))))
	summary.POST("", h.tripSummary)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty")
	}

	prompt := ContextPrefix(req.CountryName, req.CountryCode) + "User says: " + req.Message
	reply, err := llm.CompletePrompt(c.Request().Context(), h.Provider, chatSystemPrompt, prompt,
		llm.Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"reply": strings.TrimSpace(reply)})
}

func (h *ChatHandler) resolvePlace(c echo.Context) error {
	var req resolvePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Place) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Place cannot be empty")
	}

	raw, err := llm.CompletePrompt(c.Request().Context(), h.Provider, resolveSystemPrompt,
		"Resolve this place: "+req.Place, llm.Options{Temperature: 0, MaxTokens: 150})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var data struct {
		Name      *string `json:"name"`
		Code      string  `json:"code"`
		Lat       float64 `json:"lat"`
		Lng       float64 `json:"lng"`
		PlaceName string  `json:"place_name"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &data); err != nil {
		h.Logger.Printf("resolve-place: unparseable response: %.200s", raw)
		return c.JSON(http.StatusOK, resolvePlaceResponse{})
	}
	if data.Name == nil || *data.Name == "" {
		return c.JSON(http.StatusOK, resolvePlaceResponse{})
	}

	placeName := data.PlaceName
	if placeName == "" {
		placeName = req.Place
	}
	return c.JSON(http.StatusOK, resolvePlaceResponse{
		Name:      *data.Name,
		Code:      data.Code,
		Lat:       data.Lat,
		Lng:       data.Lng,
		PlaceName: placeName,
	})
}

func (h *ChatHandler) tripSummary(c echo.Context) error {
	var req tripSummaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var parts []string
	if req.UserName != "" {
		parts = append(parts, "User name: "+req.UserName)
	}
	if len(req.Countries) > 0 {
		names := make([]string, 0, len(req.Countries))
		for _, cc := range req.Countries {
			n := cc.Name
			if cc.PlaceName != "" {
				n += " (" + cc.PlaceName + ")"
			}
			names = append(names, n)
		}
		parts = append(parts, "Countries explored: "+strings.Join(names, ", "))
	}
	if len(req.Searches) > 0 {
		searches := req.Searches
		if len(searches) > 20 {
			searches = searches[:20]
		}
		parts = append(parts, "Searches: "+strings.Join(searches, ", "))
	}
	if len(req.ChatHighlights) > 0 {
		highlights := req.ChatHighlights
		if len(highlights) > 15 {
			highlights = highlights[:15]
		}
		lines := make([]string, 0, len(highlights))
		for _, ch := range highlights {
			line := "Q: " + ch.Question
			if ch.Answer != "" {
				answer := ch.Answer
				if len(answer) > 200 {
					answer = answer[:200]
				}
				line += " → A: " + answer
			}
			if ch.Country != "" {
				line += " (about " + ch.Country + ")"
			}
			lines = append(lines, line)
		}
		parts = append(parts, "Chat highlights:\n"+strings.Join(lines, "\n"))
	}
	if len(req.Places) > 0 {
		visited := req.Places
		if len(visited) > 30 {
			visited = visited[:30]
		}
		entries := make([]string, 0, len(visited))
		for _, p := range visited {
			entry := fmt.Sprintf("%s (★%.1f)", p.Name, p.Rating)
			if p.Country != "" {
				entry += " in " + p.Country
			}
			entries = append(entries, entry)
		}
		parts = append(parts, "Places discovered: "+strings.Join(entries, ", "))
	}
	if len(req.Bookmarks) > 0 {
		names := make([]string, 0, len(req.Bookmarks))
		for _, b := range req.Bookmarks {
			names = append(names, b.Name)
		}
		parts = append(parts, "Bookmarked: "+strings.Join(names, ", "))
	}

	if len(parts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No trip data provided")
	}

	prompt := "Generate a trip summary based on this exploration data:\n\n" + strings.Join(parts, "\n\n")
	conclusion, err := llm.CompletePrompt(c.Request().Context(), h.Provider, summarySystemPrompt, prompt,
		llm.Options{Temperature: 0.7, MaxTokens: 800})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"conclusion": strings.TrimSpace(conclusion)})
}

// ContextPrefix builds the conventional location prefix the agent's pre-call
// heuristic knows how to read.
func ContextPrefix(countryName, countryCode string) string {
	if countryName == "" {
		return ""
	}
	if countryCode != "" {
		return fmt.Sprintf("The user is currently looking at %s (%s) on the globe. ", countryName, countryCode)
	}
	return fmt.Sprintf("The user is currently looking at %s on the globe. ", countryName)
}
