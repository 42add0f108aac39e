package providers

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/aqi"
)

// MockProvider generates demo air-quality data when no upstream is configured
// or every upstream fails. Values are seeded by city name so repeated calls
// are deterministic, and readings are tagged source "mock" so consumers can
// recognize fallback data.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func cityBaseAQI(name string) int {
	switch name {
	case "Delhi":
		return 180
	case "Mumbai":
		return 110
	case "Bengaluru":
		return 125
	default:
		return 95
	}
}

func cityBaseTemp(name string) float64 {
	switch name {
	case "Mumbai":
		return 29
	case "Delhi":
		return 25
	case "Bengaluru":
		return 28
	default:
		return 27
	}
}

func citySeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64() & math.MaxInt64)
}

func (p *MockProvider) FetchAQI(_ context.Context, city airq.City) (airq.Observation, error) {
	r := rand.New(rand.NewSource(citySeed(city.Name)))

	index := cityBaseAQI(city.Name) + r.Intn(41) - 20
	if index < 50 {
		index = 50
	}

	temp := cityBaseTemp(city.Name) + float64(r.Intn(7)-3)
	humidity := float64(60 + r.Intn(30))
	wind := float64(8 + r.Intn(10))

	return airq.Observation{
		AQI: index,
		Pollutants: aqi.Pollutants{
			PM25: math.Round(float64(index)*0.3 + r.Float64()*10),
			PM10: math.Round(float64(index)*0.5 + r.Float64()*15),
			CO:   math.Round((float64(index)*0.01+r.Float64()*0.5)*100) / 100,
			O3:   math.Round(float64(index)*0.8 + r.Float64()*20),
			NO2:  math.Round(float64(index)*0.4 + r.Float64()*10),
			SO2:  math.Round(float64(index)*0.15 + r.Float64()*5),
		},
		Temperature: &temp,
		Humidity:    &humidity,
		WindSpeed:   &wind,
		Timestamp:   time.Now().UTC(),
		Source:      "mock",
	}, nil
}

func (p *MockProvider) FetchWeather(_ context.Context, city airq.City) (airq.WeatherObservation, error) {
	r := rand.New(rand.NewSource(citySeed(city.Name)))
	conditions := []string{"Clear", "Partly Cloudy", "Hazy", "Cloudy"}

	return airq.WeatherObservation{
		Location:    city.Name,
		State:       city.State,
		Temperature: cityBaseTemp(city.Name) + float64(r.Intn(7)-3),
		Humidity:    float64(60 + r.Intn(30)),
		WindSpeed:   float64(8 + r.Intn(10)),
		Visibility:  float64(8 + r.Intn(4)),
		Condition:   conditions[r.Intn(len(conditions))],
		Timestamp:   time.Now().UTC(),
		Source:      "mock",
	}, nil
}
