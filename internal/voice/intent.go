// Package voice classifies free-text transcripts into coarse air-quality
// intents and extracts location/timeframe entities.
package voice

import (
	"fmt"
	"strings"

	"github.com/airwatchhq/airwatch/internal/common"
)

// Intent is the coarse classification of a transcript.
type Intent string

const (
	IntentAQIStatus    Intent = "aqi_status"
	IntentAQIForecast  Intent = "aqi_forecast"
	IntentHealthAdvice Intent = "health_advice"
	IntentLocationAQI  Intent = "location_aqi"
	IntentGeneralQuery Intent = "general_query"
)

// Entities are the values extracted from a transcript.
type Entities struct {
	Location  string `json:"location,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// Result is the outcome of processing one transcript.
type Result struct {
	Intent            Intent   `json:"intent"`
	Entities          Entities `json:"entities"`
	IsAirQualityQuery bool     `json:"isAirQualityQuery"`
}

// Keyword lists are fixed and scanned in order; the first list entry found in
// the transcript wins, so extraction is deterministic for any input.
var (
	aqiKeywords      = []string{"aqi", "air quality", "pollution", "pm2.5", "pm10", "ozone", "smog"}
	locationKeywords = []string{"bengaluru", "bangalore", "whitefield", "koramangala", "electronic city"}
	timeKeywords     = []string{"today", "tomorrow", "tonight", "morning", "evening", "afternoon"}
	actionKeywords   = []string{"should i", "can i", "is it safe", "wear mask", "go outside", "exercise"}
)

// Extract case-folds the transcript and classifies it. Intent priority:
// forecast (time + air-quality keyword), then status ("what" + air-quality
// keyword), then health advice, then location, then the general fallback.
// There are no failure modes; unmatched input yields IntentGeneralQuery.
func Extract(transcript string) Result {
	lower := strings.ToLower(transcript)

	isAQI := common.HasAny(lower, aqiKeywords...)
	hasTime := common.HasAny(lower, timeKeywords...)

	intent := IntentGeneralQuery
	switch {
	case hasTime && isAQI:
		intent = IntentAQIForecast
	case strings.Contains(lower, "what") && isAQI:
		intent = IntentAQIStatus
	case common.HasAny(lower, actionKeywords...):
		intent = IntentHealthAdvice
	case common.HasAny(lower, locationKeywords...):
		intent = IntentLocationAQI
	}

	return Result{
		Intent: intent,
		Entities: Entities{
			Location:  common.FirstMatch(lower, locationKeywords),
			Timeframe: common.FirstMatch(lower, timeKeywords),
		},
		IsAirQualityQuery: isAQI,
	}
}

// Prompt renders the normalized question handed to the assistant for a
// processed transcript. The original query passes through unchanged for the
// general fallback.
func Prompt(r Result, original string) string {
	location := r.Entities.Location
	if location == "" {
		location = "Bengaluru"
	}
	timeframe := r.Entities.Timeframe
	if timeframe == "" {
		timeframe = "now"
	}

	switch r.Intent {
	case IntentAQIStatus:
		return fmt.Sprintf("What is the current air quality in %s?", location)
	case IntentAQIForecast:
		return fmt.Sprintf("What will the air quality be like %s in %s?", timeframe, location)
	case IntentHealthAdvice:
		return fmt.Sprintf("Is it safe to go outside %s given the current air quality in %s?", timeframe, location)
	case IntentLocationAQI:
		return fmt.Sprintf("How is the air quality in %s right now?", location)
	default:
		return original
	}
}
