// Package airq holds the air-quality domain model and the service that
// assembles AQI context for the API and the assistant.
package airq

import (
	"errors"
	"time"

	"github.com/airwatchhq/airwatch/internal/aqi"
	"github.com/airwatchhq/airwatch/internal/voice"
)

var (
	// ErrNotFound is returned when no reading matches a location or device key.
	ErrNotFound = errors.New("no reading for key")

	// ErrInvalidReading is returned for appends missing required fields.
	ErrInvalidReading = errors.New("invalid reading")

	// ErrUnknownCity is returned when a requested city cannot be resolved.
	ErrUnknownCity = errors.New("unknown city")
)

// AQIReading is one stored ambient air-quality record. ID and Timestamp are
// assigned by the store at insertion; records are immutable once stored.
type AQIReading struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	AQI      int    `json:"aqi"`
	aqi.Pollutants

	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// DeviceReading is one stored sensor sample from an IoT device (real or
// simulated). ID and Timestamp are assigned by the store.
type DeviceReading struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	Location string `json:"location"`

	PM25           *float64 `json:"pm25,omitempty"`
	PM10           *float64 `json:"pm10,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"`
	BatteryLevel   *float64 `json:"batteryLevel,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is one stored turn of an assistant conversation.
type ChatMessage struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	Role      string      `json:"role"` // "user" or "assistant"
	Content   string      `json:"content"`
	Context   *AQIContext `json:"context,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// VoiceCommand is one stored voice interaction with its extracted intent.
type VoiceCommand struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"sessionId"`
	Transcript string         `json:"transcript"`
	Intent     voice.Intent   `json:"intent"`
	Entities   voice.Entities `json:"entities"`
	Response   string         `json:"response,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ContextWeather is the weather slice of an AQI context.
type ContextWeather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// AQIContext is the snapshot handed to UI widgets and the assistant.
type AQIContext struct {
	CurrentAQI     int                `json:"currentAQI"`
	Location       string             `json:"location"`
	Classification aqi.Classification `json:"classification"`
	Pollutants     aqi.Pollutants     `json:"pollutants"`
	Weather        ContextWeather     `json:"weather"`
	Timestamp      time.Time          `json:"timestamp"`
	Source         string             `json:"source,omitempty"`
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy for AQI readings.
type Store interface {
	AppendAQI(r AQIReading) (AQIReading, error)
	LatestAQI(location string) (AQIReading, error)
	ListAQI(location string, limit int) []AQIReading
	ListAQIByRange(location string, from, to time.Time) []AQIReading
}
