package airq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/airwatchhq/airwatch/internal/aqi"
)

// defaultReading is the fixed snapshot substituted when the store has no
// match for a location. Values mirror the demo data the dashboard ships with.
var defaultReading = AQIReading{
	AQI:        125,
	Pollutants: aqi.Pollutants{PM25: 35, PM10: 68, CO: 1.2, O3: 85, NO2: 42, SO2: 15},
	Source:     "mock",
}

const (
	defaultTemperature = 28.0
	defaultHumidity    = 65.0
	defaultWindSpeed   = 12.0
)

// Service orchestrates the store, the city registry, and the provider chain.
type Service struct {
	store           Store
	registry        *CityRegistry
	providers       []Provider
	defaultLocation string
}

// NewService creates a Service. Providers are tried in order; the chain is
// expected to end with the mock provider so fetches never hard-fail.
func NewService(store Store, registry *CityRegistry, providers []Provider, defaultLocation string) *Service {
	return &Service{
		store:           store,
		registry:        registry,
		providers:       providers,
		defaultLocation: defaultLocation,
	}
}

// DefaultLocation returns the location used when a request names none.
func (s *Service) DefaultLocation() string {
	return s.defaultLocation
}

// CurrentContext returns the AQI context for a location, substituting the
// fixed default snapshot when the store has no match. It never fails: the
// "no data" case is a defined fallback, not an error.
func (s *Service) CurrentContext(location string) AQIContext {
	if location == "" {
		location = s.defaultLocation
	}

	reading, err := s.store.LatestAQI(location)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("WARN: latest reading lookup failed for %s: %v", location, err)
		}
		reading = defaultReading
		reading.Location = location
		reading.Timestamp = time.Now().UTC()
	}

	return contextFromReading(reading)
}

func contextFromReading(r AQIReading) AQIContext {
	classification, err := aqi.Classify(r.AQI)
	if err != nil {
		// Stored readings are validated on append; an invalid index here
		// means corrupted state, so degrade to the hazardous band.
		classification, _ = aqi.Classify(500)
	}

	return AQIContext{
		CurrentAQI:     r.AQI,
		Location:       r.Location,
		Classification: classification,
		Pollutants:     r.Pollutants,
		Weather: ContextWeather{
			Temperature: valueOr(r.Temperature, defaultTemperature),
			Humidity:    valueOr(r.Humidity, defaultHumidity),
			WindSpeed:   valueOr(r.WindSpeed, defaultWindSpeed),
		},
		Timestamp: r.Timestamp,
		Source:    r.Source,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// CitySnapshot is one entry of a multi-city comparison.
type CitySnapshot struct {
	Location string `json:"location"`
	State    string `json:"state,omitempty"`
	AQI      int    `json:"aqi"`
	aqi.Pollutants

	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Compare fetches current AQI for each named city and persists every
// snapshot. Unknown cities fail the whole request with ErrUnknownCity.
func (s *Service) Compare(ctx context.Context, cities []string) ([]CitySnapshot, error) {
	snapshots := make([]CitySnapshot, 0, len(cities))

	for _, name := range cities {
		city, err := s.registry.Resolve(name)
		if err != nil {
			return nil, err
		}

		obs := s.fetchObservation(ctx, city)
		snapshot := CitySnapshot{
			Location:    city.Name,
			State:       city.State,
			AQI:         obs.AQI,
			Pollutants:  obs.Pollutants,
			Temperature: obs.Temperature,
			Humidity:    obs.Humidity,
			WindSpeed:   obs.WindSpeed,
			Timestamp:   obs.Timestamp,
			Source:      obs.Source,
		}
		snapshots = append(snapshots, snapshot)

		if _, err := s.store.AppendAQI(AQIReading{
			Location:    city.Name,
			AQI:         obs.AQI,
			Pollutants:  obs.Pollutants,
			Temperature: obs.Temperature,
			Humidity:    obs.Humidity,
			WindSpeed:   obs.WindSpeed,
			Source:      obs.Source,
		}); err != nil {
			// Persistence is a side effect of comparison; failure to store
			// one city must not fail the response.
			log.Printf("WARN: failed to store reading for %s: %v", city.Name, err)
		}
	}

	return snapshots, nil
}

// fetchObservation walks the provider chain and returns the first success.
// The mock provider terminates the chain, so a result is always produced.
func (s *Service) fetchObservation(ctx context.Context, city City) Observation {
	for _, p := range s.providers {
		obs, err := p.FetchAQI(ctx, city)
		if err != nil {
			log.Printf("WARN: provider %s failed for %s: %v", p.Name(), city.Name, err)
			continue
		}
		return obs
	}

	// Unreachable when the chain is wired with the mock provider last.
	log.Printf("WARN: no provider produced data for %s; using default snapshot", city.Name)
	fallback := defaultReading
	return Observation{
		AQI:        fallback.AQI,
		Pollutants: fallback.Pollutants,
		Timestamp:  time.Now().UTC(),
		Source:     "mock",
	}
}

// Weather returns current weather for a city from the first provider that
// serves weather.
func (s *Service) Weather(ctx context.Context, location string) (WeatherObservation, error) {
	city, err := s.registry.Resolve(location)
	if err != nil {
		return WeatherObservation{}, err
	}

	for _, p := range s.providers {
		wp, ok := p.(WeatherProvider)
		if !ok {
			continue
		}
		obs, err := wp.FetchWeather(ctx, city)
		if err != nil {
			log.Printf("WARN: weather provider %s failed for %s: %v", p.Name(), city.Name, err)
			continue
		}
		return obs, nil
	}

	return WeatherObservation{}, fmt.Errorf("no weather data available for %s", location)
}

// History returns the most recent readings for a location, newest first.
func (s *Service) History(location string, limit int) []AQIReading {
	if location == "" {
		location = s.defaultLocation
	}
	if limit <= 0 {
		limit = 24
	}
	return s.store.ListAQI(location, limit)
}

// SupportedCities returns the built-in comparison cities.
func (s *Service) SupportedCities() []City {
	return s.registry.Supported()
}

// ExportOptions selects the data included in an export.
type ExportOptions struct {
	From              time.Time
	To                time.Time
	Locations         []string
	IncludeAQI        bool
	IncludePollutants bool
	IncludeWeather    bool
	IncludeMetadata   bool
}

// ExportWeather is the optional weather section of an export record.
type ExportWeather struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
}

// ExportRecord is one row of an export, chronologically ordered.
type ExportRecord struct {
	Timestamp  time.Time       `json:"timestamp"`
	Location   string          `json:"location"`
	AQI        *int            `json:"aqi,omitempty"`
	Pollutants *aqi.Pollutants `json:"pollutants,omitempty"`
	Weather    *ExportWeather  `json:"weather,omitempty"`
	Source     string          `json:"source,omitempty"`
	ID         string          `json:"id,omitempty"`
}

// Export assembles chronological records for the requested locations and
// range. When the store has nothing in range, demo rows are generated so the
// export surface stays usable without live data.
func (s *Service) Export(opts ExportOptions) []ExportRecord {
	locations := opts.Locations
	if len(locations) == 0 {
		locations = []string{s.defaultLocation}
	}

	var records []ExportRecord
	for _, location := range locations {
		for _, r := range s.store.ListAQIByRange(location, opts.From, opts.To) {
			records = append(records, exportRecord(r, opts))
		}
	}

	if len(records) == 0 {
		records = demoExportRecords(locations[0], opts)
	}
	return records
}

func exportRecord(r AQIReading, opts ExportOptions) ExportRecord {
	rec := ExportRecord{
		Timestamp: r.Timestamp,
		Location:  r.Location,
	}
	if opts.IncludeAQI {
		index := r.AQI
		rec.AQI = &index
	}
	if opts.IncludePollutants {
		pollutants := r.Pollutants
		rec.Pollutants = &pollutants
	}
	if opts.IncludeWeather {
		rec.Weather = &ExportWeather{
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			WindSpeed:   r.WindSpeed,
		}
	}
	if opts.IncludeMetadata {
		rec.Source = r.Source
		rec.ID = r.ID
	}
	return rec
}

func demoExportRecords(location string, opts ExportOptions) []ExportRecord {
	const rows = 100
	span := opts.To.Sub(opts.From)
	r := rand.New(rand.NewSource(opts.From.UnixNano()))

	records := make([]ExportRecord, 0, rows)
	for i := 0; i < rows; i++ {
		rec := ExportRecord{
			Timestamp: opts.From.Add(time.Duration(i) * span / rows),
			Location:  location,
		}
		if opts.IncludeAQI {
			index := 80 + r.Intn(100)
			rec.AQI = &index
		}
		if opts.IncludePollutants {
			rec.Pollutants = &aqi.Pollutants{
				PM25: 25 + r.Float64()*50,
				PM10: 45 + r.Float64()*70,
				CO:   1 + r.Float64()*2,
				O3:   60 + r.Float64()*80,
				NO2:  30 + r.Float64()*40,
				SO2:  10 + r.Float64()*20,
			}
		}
		if opts.IncludeWeather {
			temp := 25 + r.Float64()*10
			humidity := float64(50 + r.Intn(40))
			wind := 5 + r.Float64()*15
			rec.Weather = &ExportWeather{Temperature: &temp, Humidity: &humidity, WindSpeed: &wind}
		}
		if opts.IncludeMetadata {
			rec.Source = "demo"
			rec.ID = fmt.Sprintf("demo-%d", i)
		}
		records = append(records, rec)
	}
	return records
}
