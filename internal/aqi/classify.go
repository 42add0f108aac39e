// Package aqi maps Air Quality Index values to health categories and advisories.
package aqi

import (
	"errors"
	"strings"
)

// ErrInvalidAQI is returned when a negative index is classified.
var ErrInvalidAQI = errors.New("aqi must be non-negative")

// Category is a named AQI health band.
type Category string

const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategorySensitive     Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryHazardous     Category = "Hazardous"
)

// Pollutants holds the six concentrations tracked for every reading.
// Units follow the upstream providers: µg/m³ except CO which is mg/m³.
type Pollutants struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	CO   float64 `json:"co"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
}

// Classification is the result of bucketing an AQI value.
type Classification struct {
	Category        Category `json:"category"`
	Severity        int      `json:"severity"` // 0 (Good) .. 5 (Hazardous)
	Color           string   `json:"color"`
	Recommendations []string `json:"recommendations"`
	SensitiveGroups string   `json:"sensitiveGroups"`
}

type band struct {
	upper           int // inclusive; -1 means open-ended
	category        Category
	color           string
	recommendations []string
	sensitiveGroups string
}

// Bucket upper bounds are fixed by the US EPA scale and must match exactly:
// 0-50, 51-100, 101-150, 151-200, 201-300, 301+.
var bands = []band{
	{50, CategoryGood, "green",
		[]string{"Air quality is good.", "Perfect for outdoor activities."},
		"No precautions needed for sensitive groups."},
	{100, CategoryModerate, "yellow",
		[]string{"Air quality is acceptable.", "Generally safe for most people."},
		"Unusually sensitive individuals should consider reducing prolonged exertion outdoors."},
	{150, CategorySensitive, "orange",
		[]string{"Sensitive groups should limit outdoor activities.", "Consider wearing a mask outdoors."},
		"Children, the elderly, and people with respiratory conditions should limit time outside."},
	{200, CategoryUnhealthy, "red",
		[]string{"Everyone should limit outdoor activities.", "Wear an N95 mask when going outside."},
		"Sensitive groups should avoid outdoor exertion entirely."},
	{300, CategoryVeryUnhealthy, "purple",
		[]string{"Avoid outdoor activities.", "Stay indoors with air purifiers running."},
		"Sensitive groups should remain indoors and keep activity levels low."},
	{-1, CategoryHazardous, "maroon",
		[]string{"Hazardous conditions.", "Avoid all outdoor activities."},
		"Everyone should remain indoors; sensitive groups should seek filtered air."},
}

// Classify buckets an AQI value into its category, severity tier, and
// advisory text. Negative input is rejected; values above 300 are Hazardous.
// Pure and safe for concurrent use.
func Classify(index int) (Classification, error) {
	if index < 0 {
		return Classification{}, ErrInvalidAQI
	}
	for tier, b := range bands {
		if b.upper < 0 || index <= b.upper {
			return Classification{
				Category:        b.category,
				Severity:        tier,
				Color:           b.color,
				Recommendations: b.recommendations,
				SensitiveGroups: b.sensitiveGroups,
			}, nil
		}
	}
	// Unreachable: the last band is open-ended.
	return Classification{}, ErrInvalidAQI
}

// PrimaryConcern names the pollutants currently above their nominal
// thresholds, or "No major concerns" when all are within range.
func PrimaryConcern(p Pollutants) string {
	var concerns []string
	if p.PM25 > 25 {
		concerns = append(concerns, "PM2.5")
	}
	if p.PM10 > 50 {
		concerns = append(concerns, "PM10")
	}
	if p.CO > 2 {
		concerns = append(concerns, "Carbon Monoxide")
	}
	if p.O3 > 100 {
		concerns = append(concerns, "Ozone")
	}
	if p.NO2 > 40 {
		concerns = append(concerns, "Nitrogen Dioxide")
	}
	if p.SO2 > 20 {
		concerns = append(concerns, "Sulfur Dioxide")
	}
	if len(concerns) == 0 {
		return "No major concerns"
	}
	return strings.Join(concerns, ", ")
}
