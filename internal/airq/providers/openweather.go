package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/aqi"
)

// OpenWeatherProvider serves air pollution and current weather from
// OpenWeatherMap.
type OpenWeatherProvider struct {
	name       string
	apiKey     string
	baseURL    string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
	weatherCct *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:       "openweather",
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org",
		httpCfg:    defaultHTTPConfig(client),
		circuit:    defaultBreaker("openweather-air"),
		weatherCct: defaultBreaker("openweather-weather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchAQI queries the air_pollution endpoint. OpenWeather reports the
// European 1-5 index; it is converted to a representative US-scale value so
// every consumer sees one scale.
func (p *OpenWeatherProvider) FetchAQI(ctx context.Context, city airq.City) (airq.Observation, error) {
	if p.apiKey == "" {
		return airq.Observation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", city.Lat))
		values.Set("lon", fmt.Sprintf("%f", city.Lon))
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s/data/2.5/air_pollution?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return airq.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				CO   float64 `json:"co"`
				NO2  float64 `json:"no2"`
				O3   float64 `json:"o3"`
				SO2  float64 `json:"so2"`
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
			} `json:"components"`
			Dt int64 `json:"dt"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airq.Observation{}, err
	}
	if len(payload.List) == 0 {
		return airq.Observation{}, fmt.Errorf("openweather returned no pollution data for %s", city.Name)
	}

	entry := payload.List[0]
	ts := time.Unix(entry.Dt, 0).UTC()
	if entry.Dt == 0 {
		ts = time.Now().UTC()
	}

	return airq.Observation{
		AQI: convertEuropeanAQI(entry.Main.AQI),
		Pollutants: aqi.Pollutants{
			PM25: entry.Components.PM25,
			PM10: entry.Components.PM10,
			CO:   entry.Components.CO / 1000, // µg/m³ to mg/m³
			O3:   entry.Components.O3,
			NO2:  entry.Components.NO2,
			SO2:  entry.Components.SO2,
		},
		Timestamp: ts,
		Source:    p.name,
	}, nil
}

// FetchWeather queries the current-weather endpoint with metric units.
func (p *OpenWeatherProvider) FetchWeather(ctx context.Context, city airq.City) (airq.WeatherObservation, error) {
	if p.apiKey == "" {
		return airq.WeatherObservation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", city.Lat))
		values.Set("lon", fmt.Sprintf("%f", city.Lon))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s/data/2.5/weather?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.weatherCct, buildRequest)
	if err != nil {
		return airq.WeatherObservation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Visibility float64 `json:"visibility"`
		Weather    []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Dt int64 `json:"dt"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airq.WeatherObservation{}, err
	}

	condition := "Unknown"
	if len(payload.Weather) > 0 {
		condition = payload.Weather[0].Description
	}

	visibility := 10.0
	if payload.Visibility > 0 {
		visibility = payload.Visibility / 1000 // m to km
	}

	return airq.WeatherObservation{
		Location:    city.Name,
		State:       city.State,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed * 3.6, // m/s to km/h
		Visibility:  visibility,
		Condition:   condition,
		Timestamp:   time.Unix(payload.Dt, 0).UTC(),
		Source:      p.name,
	}, nil
}

// convertEuropeanAQI maps the OpenWeather 1-5 index to a representative value
// on the US 0-500 scale, which the rest of the system speaks.
func convertEuropeanAQI(european int) int {
	switch european {
	case 1:
		return 25
	case 2:
		return 75
	case 3:
		return 125
	case 4:
		return 175
	case 5:
		return 250
	default:
		return 100
	}
}
