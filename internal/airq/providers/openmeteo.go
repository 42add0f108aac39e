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

// OpenMeteoProvider serves air quality from the Open-Meteo air-quality API.
// No API key required, which makes it the preferred keyless upstream.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
		httpCfg: defaultHTTPConfig(client),
		circuit: defaultBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchAQI(ctx context.Context, city airq.City) (airq.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", city.Lat))
		values.Set("longitude", fmt.Sprintf("%f", city.Lon))
		values.Set("current", "us_aqi,pm2_5,pm10,carbon_monoxide,ozone,nitrogen_dioxide,sulphur_dioxide")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return airq.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time            string  `json:"time"`
			USAQI           float64 `json:"us_aqi"`
			PM25            float64 `json:"pm2_5"`
			PM10            float64 `json:"pm10"`
			CarbonMonoxide  float64 `json:"carbon_monoxide"`
			Ozone           float64 `json:"ozone"`
			NitrogenDioxide float64 `json:"nitrogen_dioxide"`
			SulphurDioxide  float64 `json:"sulphur_dioxide"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airq.Observation{}, err
	}

	ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return airq.Observation{
		AQI: int(payload.Current.USAQI),
		Pollutants: aqi.Pollutants{
			PM25: payload.Current.PM25,
			PM10: payload.Current.PM10,
			CO:   payload.Current.CarbonMonoxide / 1000, // µg/m³ to mg/m³
			O3:   payload.Current.Ozone,
			NO2:  payload.Current.NitrogenDioxide,
			SO2:  payload.Current.SulphurDioxide,
		},
		Timestamp: ts,
		Source:    p.name,
	}, nil
}
