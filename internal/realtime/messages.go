// Package realtime relays device readings to every live WebSocket subscriber
// and owns the live-connection set.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airwatchhq/airwatch/internal/airq"
)

// Wire message type tags.
const (
	TypeConnection            = "connection"
	TypeIoTReading            = "iot_reading"
	TypeIoTUpdate             = "iot_update"
	TypeSubscribe             = "subscribe"
	TypeSubscriptionConfirmed = "subscription_confirmed"
	TypeError                 = "error"
)

var (
	// ErrMalformedMessage covers unparseable payloads and missing required fields.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnknownMessageType is returned for unrecognized type tags.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Inbound is the parsed tagged union of client messages: exactly one of
// Reading (iot_reading) or Subscription (subscribe) is populated.
type Inbound struct {
	Reading      *airq.DeviceReading
	Subscription string
}

// ParseInbound decodes a client payload into the tagged union, rejecting
// unknown type tags and ingest messages without deviceId/location.
func ParseInbound(data []byte) (Inbound, error) {
	var envelope struct {
		Type           string   `json:"type"`
		DeviceID       string   `json:"deviceId"`
		Location       string   `json:"location"`
		PM25           *float64 `json:"pm25"`
		PM10           *float64 `json:"pm10"`
		Temperature    *float64 `json:"temperature"`
		Humidity       *float64 `json:"humidity"`
		BatteryLevel   *float64 `json:"batteryLevel"`
		SignalStrength *float64 `json:"signalStrength"`
		Subscription   string   `json:"subscription"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch envelope.Type {
	case TypeIoTReading:
		if envelope.DeviceID == "" || envelope.Location == "" {
			return Inbound{}, fmt.Errorf("%w: deviceId and location are required", ErrMalformedMessage)
		}
		return Inbound{Reading: &airq.DeviceReading{
			DeviceID:       envelope.DeviceID,
			Location:       envelope.Location,
			PM25:           envelope.PM25,
			PM10:           envelope.PM10,
			Temperature:    envelope.Temperature,
			Humidity:       envelope.Humidity,
			BatteryLevel:   envelope.BatteryLevel,
			SignalStrength: envelope.SignalStrength,
		}}, nil
	case TypeSubscribe:
		return Inbound{Subscription: envelope.Subscription}, nil
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, envelope.Type)
	}
}

type connectionMessage struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func newConnectionMessage() connectionMessage {
	return connectionMessage{
		Type:      TypeConnection,
		Status:    "connected",
		Timestamp: time.Now().UTC(),
		Message:   "Connected to AirWatch IoT stream",
	}
}

type updateMessage struct {
	Type      string             `json:"type"`
	DeviceID  string             `json:"deviceId"`
	Location  string             `json:"location"`
	Data      airq.DeviceReading `json:"data"`
	Timestamp time.Time          `json:"timestamp"`
}

func newUpdateMessage(r airq.DeviceReading) updateMessage {
	return updateMessage{
		Type:      TypeIoTUpdate,
		DeviceID:  r.DeviceID,
		Location:  r.Location,
		Data:      r,
		Timestamp: time.Now().UTC(),
	}
}

type confirmationMessage struct {
	Type         string    `json:"type"`
	Subscription string    `json:"subscription"`
	Timestamp    time.Time `json:"timestamp"`
}

func newConfirmationMessage(subscription string) confirmationMessage {
	return confirmationMessage{
		Type:         TypeSubscriptionConfirmed,
		Subscription: subscription,
		Timestamp:    time.Now().UTC(),
	}
}

type errorMessage struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func newErrorMessage(message string) errorMessage {
	return errorMessage{
		Type:      TypeError,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
