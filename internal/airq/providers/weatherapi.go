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

// WeatherAPIProvider serves air quality from WeatherAPI.com, which bundles
// pollutant concentrations and the US EPA index into its current-conditions
// response.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: defaultBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchAQI(ctx context.Context, city airq.City) (airq.Observation, error) {
	if p.apiKey == "" {
		return airq.Observation{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", fmt.Sprintf("%f,%f", city.Lat, city.Lon))
		values.Set("aqi", "yes")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return airq.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			LocaltimeEpoch int64 `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			Humidity   float64 `json:"humidity"`
			WindKph    float64 `json:"wind_kph"`
			AirQuality struct {
				CO       float64 `json:"co"`
				NO2      float64 `json:"no2"`
				O3       float64 `json:"o3"`
				SO2      float64 `json:"so2"`
				PM25     float64 `json:"pm2_5"`
				PM10     float64 `json:"pm10"`
				EPAIndex int     `json:"us-epa-index"`
			} `json:"air_quality"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airq.Observation{}, err
	}

	ts := time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	if payload.Location.LocaltimeEpoch == 0 {
		ts = time.Now().UTC()
	}

	temp := payload.Current.TempC
	humidity := payload.Current.Humidity
	wind := payload.Current.WindKph

	return airq.Observation{
		AQI: convertEPAIndex(payload.Current.AirQuality.EPAIndex),
		Pollutants: aqi.Pollutants{
			PM25: payload.Current.AirQuality.PM25,
			PM10: payload.Current.AirQuality.PM10,
			CO:   payload.Current.AirQuality.CO / 1000, // µg/m³ to mg/m³
			O3:   payload.Current.AirQuality.O3,
			NO2:  payload.Current.AirQuality.NO2,
			SO2:  payload.Current.AirQuality.SO2,
		},
		Temperature: &temp,
		Humidity:    &humidity,
		WindSpeed:   &wind,
		Timestamp:   ts,
		Source:      p.name,
	}, nil
}

// convertEPAIndex maps the WeatherAPI 1-6 US EPA band to a representative
// value on the 0-500 scale.
func convertEPAIndex(index int) int {
	switch index {
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
	case 6:
		return 325
	default:
		return 100
	}
}
