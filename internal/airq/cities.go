package airq

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

// supportedCities are the places the dashboard compares out of the box,
// keyed by normalized name.
var supportedCities = map[string]City{
	"bengaluru": {Name: "Bengaluru", State: "Karnataka", Lat: 12.9716, Lon: 77.5946},
	"delhi":     {Name: "Delhi", State: "Delhi", Lat: 28.6139, Lon: 77.2090},
	"mumbai":    {Name: "Mumbai", State: "Maharashtra", Lat: 19.0760, Lon: 72.8777},
	"kolkata":   {Name: "Kolkata", State: "West Bengal", Lat: 22.5726, Lon: 88.3639},
	"chennai":   {Name: "Chennai", State: "Tamil Nadu", Lat: 13.0827, Lon: 80.2707},
	"hyderabad": {Name: "Hyderabad", State: "Telangana", Lat: 17.3850, Lon: 78.4867},
	"pune":      {Name: "Pune", State: "Maharashtra", Lat: 18.5204, Lon: 73.8567},
	"ahmedabad": {Name: "Ahmedabad", State: "Gujarat", Lat: 23.0225, Lon: 72.5714},
	"jaipur":    {Name: "Jaipur", State: "Rajasthan", Lat: 26.9124, Lon: 75.7873},
	"lucknow":   {Name: "Lucknow", State: "Uttar Pradesh", Lat: 26.8467, Lon: 80.9462},
}

// CityRegistry resolves city names to coordinates. Known cities come from the
// built-in table; unknown names fall back to the Google geocoding API when a
// key is configured, and resolved results are cached for the process lifetime.
type CityRegistry struct {
	geocoderKey string

	mu     sync.Mutex
	cached map[string]City
}

// NewCityRegistry creates a registry. geocoderKey may be empty, in which case
// only the built-in cities resolve.
func NewCityRegistry(geocoderKey string) *CityRegistry {
	if geocoderKey != "" {
		geocoder.ApiKey = geocoderKey
	}
	return &CityRegistry{
		geocoderKey: geocoderKey,
		cached:      make(map[string]City),
	}
}

func normalizeCityName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// Resolve maps a city name to coordinates or returns ErrUnknownCity.
func (r *CityRegistry) Resolve(name string) (City, error) {
	key := normalizeCityName(name)
	if city, ok := supportedCities[key]; ok {
		return city, nil
	}

	r.mu.Lock()
	city, ok := r.cached[key]
	r.mu.Unlock()
	if ok {
		return city, nil
	}

	if r.geocoderKey == "" {
		return City{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
	}

	location, err := geocoder.Geocoding(geocoder.Address{City: name, Country: "India"})
	if err != nil {
		return City{}, fmt.Errorf("%w: %q: %v", ErrUnknownCity, name, err)
	}

	city = City{Name: name, Lat: location.Latitude, Lon: location.Longitude}
	r.mu.Lock()
	r.cached[key] = city
	r.mu.Unlock()
	return city, nil
}

// Supported returns the built-in city table, sorted by name.
func (r *CityRegistry) Supported() []City {
	cities := make([]City, 0, len(supportedCities))
	for _, c := range supportedCities {
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	return cities
}
