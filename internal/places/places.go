package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/atlasiq/atlasiq/config"
	"github.com/atlasiq/atlasiq/internal/cache"
	"github.com/atlasiq/atlasiq/models"
)

const defaultEndpoint = "https://places.googleapis.com/v1/places:searchText"

// fieldMask limits the Places response to the fields we normalize.
const fieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.location,places.rating,places.userRatingCount," +
	"places.priceLevel,places.currentOpeningHours," +
	"places.types,places.photos,places.googleMapsUri"

// Searcher is the collaborator contract consumed by the agent and the HTTP
// layer. An empty result set means "no results", never an error.
type Searcher interface {
	Search(ctx context.Context, query string, lat, lng float64, radius, maxResults int) ([]models.Place, error)
}

// Client searches the Google Places API (New) text-search endpoint and caches
// normalized results.
type Client struct {
	apiKey   string
	endpoint string
	cacheTTL time.Duration
	cache    cache.Cache
	http     *http.Client
	logger   *log.Logger
}

// NewClient builds a Places client. Cached entries live for cfg.CacheTTL.
func NewClient(cfg config.PlacesConfig, store cache.Cache, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[PLACES] ", log.LstdFlags)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: defaultEndpoint,
		cacheTTL: ttl,
		cache:    store,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

type searchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places []rawPlace `json:"places"`
}

type rawPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         latLng  `json:"location"`
	Rating           float64 `json:"rating"`
	UserRatingCount  int     `json:"userRatingCount"`
	PriceLevel       string  `json:"priceLevel"`
	CurrentOpening   struct {
		OpenNow *bool `json:"openNow"`
	} `json:"currentOpeningHours"`
	Types  []string `json:"types"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
	GoogleMapsURI string `json:"googleMapsUri"`
}

// Search queries Google Places. When radius is 0 or coordinates are missing
// no location bias is sent and Google infers the area from the query text.
func (c *Client) Search(ctx context.Context, query string, lat, lng float64, radius, maxResults int) ([]models.Place, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 20 {
		maxResults = 20
	}

	key := fmt.Sprintf("places:%s:%.4f,%.4f:%d:%d", query, lat, lng, radius, maxResults)
	if c.cache != nil {
		var cached []models.Place
		if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("places API key not configured")
	}

	reqBody := searchRequest{TextQuery: query, MaxResultCount: maxResults}
	if radius > 0 && (lat != 0 || lng != 0) {
		reqBody.LocationBias = &locationBias{Circle: circle{
			Center: latLng{Latitude: lat, Longitude: lng},
			Radius: float64(radius),
		}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("places API status %d: %s", resp.StatusCode, raw)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	results := make([]models.Place, 0, len(out.Places))
	for i, p := range out.Places {
		if i >= maxResults {
			break
		}
		results = append(results, c.normalize(p))
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, results, c.cacheTTL); err != nil {
			c.logger.Printf("cache set failed: %v", err)
		}
	}
	return results, nil
}

func (c *Client) normalize(p rawPlace) models.Place {
	name := p.DisplayName.Text
	if name == "" {
		name = "Unknown"
	}

	var photoURL string
	if len(p.Photos) > 0 && p.Photos[0].Name != "" {
		photoURL = fmt.Sprintf(
			"https://places.googleapis.com/v1/%s/media?maxHeightPx=400&maxWidthPx=400&key=%s",
			p.Photos[0].Name, c.apiKey,
		)
	}

	return models.Place{
		ID:          p.ID,
		Name:        name,
		Address:     p.FormattedAddress,
		Lat:         p.Location.Latitude,
		Lng:         p.Location.Longitude,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		PriceLevel:  normalizePriceLevel(p.PriceLevel),
		IsOpen:      p.CurrentOpening.OpenNow,
		Types:       simplifyTypes(p.Types),
		PhotoURL:    photoURL,
		MapsURL:     p.GoogleMapsURI,
	}
}

// normalizePriceLevel converts Google's price level enum to a 0-4 int.
func normalizePriceLevel(level string) int {
	switch level {
	case "PRICE_LEVEL_FREE":
		return 0
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	}
	return 0
}

// simplifyTypes keeps up to three human-readable type tags, dropping
// Google's generic internal ones.
func simplifyTypes(types []string) []string {
	skip := map[string]bool{
		"point_of_interest": true,
		"establishment":     true,
		"food":              true,
		"store":             true,
	}
	var readable []string
	for _, t := range types {
		if skip[t] {
			continue
		}
		readable = append(readable, titleCase(strings.ReplaceAll(t, "_", " ")))
		if len(readable) >= 3 {
			break
		}
	}
	return readable
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
