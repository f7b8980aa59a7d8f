// Package weather fetches current conditions from the Open-Meteo API, which
// is free and needs no API key.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultGeoURL      = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// wmoCodes maps WMO weather interpretation codes to human-readable text.
var wmoCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snowfall",
	73: "Moderate snowfall",
	75: "Heavy snowfall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Current is the normalized current-weather report for a resolved location.
type Current struct {
	Location         string  `json:"location"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Timezone         string  `json:"timezone"`
	TemperatureC     float64 `json:"temperature_c"`
	FeelsLikeC       float64 `json:"feels_like_c"`
	HumidityPercent  float64 `json:"humidity_percent"`
	PrecipitationMM  float64 `json:"precipitation_mm"`
	WindSpeedKmh     float64 `json:"wind_speed_kmh"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	CloudCoverPct    float64 `json:"cloud_cover_percent"`
	IsDay            bool    `json:"is_day"`
	Condition        string  `json:"condition"`
	WeatherCode      int     `json:"weather_code"`
}

// Client resolves a location name and fetches its current weather.
type Client struct {
	geoURL      string
	forecastURL string
	http        *http.Client
}

// NewClient builds a weather client with a short request timeout.
func NewClient() *Client {
	return &Client{
		geoURL:      defaultGeoURL,
		forecastURL: defaultForecastURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type geoResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       float64 `json:"wind_direction_10m"`
		CloudCover          float64 `json:"cloud_cover"`
		IsDay               int     `json:"is_day"`
	} `json:"current"`
}

// CurrentWeather geocodes the location name then fetches current conditions.
// A nil report with nil error means the location could not be resolved.
func (c *Client) CurrentWeather(ctx context.Context, location string) (*Current, error) {
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	geoParams := url.Values{}
	geoParams.Set("name", location)
	geoParams.Set("count", "1")
	geoParams.Set("language", "en")

	var geo geoResponse
	if err := c.getJSON(ctx, c.geoURL+"?"+geoParams.Encode(), &geo); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(geo.Results) == 0 {
		return nil, nil
	}
	place := geo.Results[0]

	fcParams := url.Values{}
	fcParams.Set("latitude", fmt.Sprintf("%g", place.Latitude))
	fcParams.Set("longitude", fmt.Sprintf("%g", place.Longitude))
	fcParams.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,"+
		"precipitation,weather_code,wind_speed_10m,wind_direction_10m,cloud_cover,is_day")
	fcParams.Set("timezone", "auto")

	var fc forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+fcParams.Encode(), &fc); err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", location, err)
	}

	label := place.Name
	if place.Admin1 != "" {
		label += ", " + place.Admin1
	}
	if place.Country != "" {
		label += ", " + place.Country
	}

	condition, ok := wmoCodes[fc.Current.WeatherCode]
	if !ok {
		condition = "Unknown"
	}

	return &Current{
		Location:         label,
		Lat:              place.Latitude,
		Lng:              place.Longitude,
		Timezone:         fc.Timezone,
		TemperatureC:     fc.Current.Temperature,
		FeelsLikeC:       fc.Current.ApparentTemperature,
		HumidityPercent:  fc.Current.RelativeHumidity,
		PrecipitationMM:  fc.Current.Precipitation,
		WindSpeedKmh:     fc.Current.WindSpeed,
		WindDirectionDeg: fc.Current.WindDirection,
		CloudCoverPct:    fc.Current.CloudCover,
		IsDay:            fc.Current.IsDay == 1,
		Condition:        condition,
		WeatherCode:      fc.Current.WeatherCode,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
