package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrentWeather(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "Tokyo" {
			t.Fatalf("unexpected geocode query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"name":"Tokyo","latitude":35.68,"longitude":139.69,"country":"Japan","admin1":"Tokyo"}]}`))
	}))
	defer geo.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timezone":"Asia/Tokyo","current":{"temperature_2m":21.5,"relative_humidity_2m":60,"apparent_temperature":22.1,"precipitation":0,"weather_code":2,"wind_speed_10m":9.5,"wind_direction_10m":180,"cloud_cover":40,"is_day":1}}`))
	}))
	defer forecast.Close()

	c := NewClient()
	c.geoURL = geo.URL
	c.forecastURL = forecast.URL

	got, err := c.CurrentWeather(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if got == nil {
		t.Fatal("expected a report")
	}
	if got.Location != "Tokyo, Tokyo, Japan" {
		t.Fatalf("location: %q", got.Location)
	}
	if got.TemperatureC != 21.5 {
		t.Fatalf("temperature: %v", got.TemperatureC)
	}
	if got.Condition != "Partly cloudy" {
		t.Fatalf("condition: %q", got.Condition)
	}
	if !got.IsDay {
		t.Fatal("expected is_day true")
	}
}

func TestCurrentWeatherUnknownLocation(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer geo.Close()

	c := NewClient()
	c.geoURL = geo.URL

	got, err := c.CurrentWeather(context.Background(), "notaplace12345")
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil report for unknown location")
	}
}
