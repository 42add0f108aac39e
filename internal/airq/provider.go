package airq

import (
	"context"
	"time"

	"github.com/airwatchhq/airwatch/internal/aqi"
)

// City is a resolvable place with coordinates for upstream lookups.
type City struct {
	Name  string  `json:"name"`
	State string  `json:"state,omitempty"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Observation is a single provider's normalized air-quality result.
type Observation struct {
	AQI        int
	Pollutants aqi.Pollutants

	Temperature *float64
	Humidity    *float64
	WindSpeed   *float64

	Timestamp time.Time
	Source    string
}

// WeatherObservation is a provider's current-weather result.
type WeatherObservation struct {
	Location    string    `json:"location"`
	State       string    `json:"state,omitempty"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"` // km/h
	Visibility  float64   `json:"visibility"`
	Condition   string    `json:"condition"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
}

// Provider abstracts an upstream air-quality source (OpenWeather, WeatherAPI,
// Open-Meteo, or the deterministic mock).
type Provider interface {
	Name() string
	FetchAQI(ctx context.Context, city City) (Observation, error)
}

// WeatherProvider is implemented by providers that also serve current weather.
type WeatherProvider interface {
	Provider
	FetchWeather(ctx context.Context, city City) (WeatherObservation, error)
}
