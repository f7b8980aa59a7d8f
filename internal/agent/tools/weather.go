package tools

import (
	"context"
	"fmt"

	"github.com/atlasiq/atlasiq/internal/weather"
)

// WeatherProvider is the narrow contract the weather tool needs.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, location string) (*weather.Current, error)
}

// GetWeather reports real-time conditions for a named location.
type GetWeather struct {
	Weather WeatherProvider
}

func (GetWeather) Name() string { return "get_weather" }

func (GetWeather) Description() string {
	return "Get current real-time weather for any city or location. Returns temperature, feels-like, " +
		"humidity, wind, cloud cover, and conditions. Use this whenever the user asks about weather, " +
		"temperature, climate right now, or 'is it raining/hot/cold in X'."
}

func (GetWeather) Parameters() []Param {
	return []Param{{"location", "(required) City or place name, e.g. 'London', 'Tokyo', 'New York', 'Dubai'"}}
}

func (t GetWeather) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	location := strParam(params, "location")
	if location == "" {
		return errorJSON("location is required"), nil
	}

	report, err := t.Weather.CurrentWeather(ctx, location)
	if err != nil {
		return "", err
	}
	if report == nil {
		return errorJSON(fmt.Sprintf("Could not find weather for '%s'. Try a more specific location name.", location)), nil
	}
	return marshal(report)
}
