// Package store provides the in-process reading store. It stands in for a
// database and is replaceable behind the interfaces the callers consume.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airwatchhq/airwatch/internal/airq"
)

// MemoryStore is a concurrency-safe, append-only in-memory store for AQI
// readings, device readings, chat messages, and voice commands. Records are
// immutable once appended; ids and timestamps are assigned here, never by
// callers, so per-slice insertion order is also timestamp order.
type MemoryStore struct {
	mu sync.RWMutex

	aqiReadings    []airq.AQIReading
	deviceReadings []airq.DeviceReading
	chatMessages   []airq.ChatMessage
	voiceCommands  []airq.VoiceCommand

	// retention configuration; zero values mean unlimited, which is the
	// documented default behavior.
	maxHistory int
	maxAge     time.Duration
}

// NewMemoryStore creates a MemoryStore with optional retention limits.
// maxHistory <= 0 and maxAge <= 0 are treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// keyMatch reports whether a stored key satisfies a query key. Matching is
// case-insensitive substring containment: the query "Bengaluru" matches the
// stored "Bengaluru Central".
func keyMatch(stored, query string) bool {
	return strings.Contains(strings.ToLower(stored), strings.ToLower(query))
}

// AppendAQI assigns an id and timestamp, inserts, and returns the stored
// record. A failed append leaves prior state unchanged.
func (s *MemoryStore) AppendAQI(r airq.AQIReading) (airq.AQIReading, error) {
	if r.Location == "" {
		return airq.AQIReading{}, fmt.Errorf("%w: location is required", airq.ErrInvalidReading)
	}
	if r.AQI < 0 {
		return airq.AQIReading{}, fmt.Errorf("%w: aqi must be non-negative", airq.ErrInvalidReading)
	}

	r.ID = uuid.NewString()
	r.Timestamp = time.Now().UTC()
	if r.Source == "" {
		r.Source = "openweather"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.aqiReadings = append(s.aqiReadings, r)
	s.aqiReadings = trimAQI(s.aqiReadings, s.maxHistory, s.maxAge)
	return r, nil
}

// LatestAQI returns the most recently inserted reading whose location matches,
// or ErrNotFound. Callers substitute a default snapshot on ErrNotFound.
func (s *MemoryStore) LatestAQI(location string) (airq.AQIReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.aqiReadings) - 1; i >= 0; i-- {
		if keyMatch(s.aqiReadings[i].Location, location) {
			return s.aqiReadings[i], nil
		}
	}
	return airq.AQIReading{}, airq.ErrNotFound
}

// ListAQI returns up to limit matching readings, newest first.
func (s *MemoryStore) ListAQI(location string, limit int) []airq.AQIReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []airq.AQIReading
	for i := len(s.aqiReadings) - 1; i >= 0 && len(out) < limit; i-- {
		if keyMatch(s.aqiReadings[i].Location, location) {
			out = append(out, s.aqiReadings[i])
		}
	}
	return out
}

// ListAQIByRange returns all matching readings with from <= timestamp <= to,
// oldest first. The chronological order suits export-style consumers.
func (s *MemoryStore) ListAQIByRange(location string, from, to time.Time) []airq.AQIReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []airq.AQIReading
	for _, r := range s.aqiReadings {
		if !keyMatch(r.Location, location) {
			continue
		}
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AppendDevice assigns an id and timestamp and inserts a device reading.
func (s *MemoryStore) AppendDevice(r airq.DeviceReading) (airq.DeviceReading, error) {
	if r.DeviceID == "" {
		return airq.DeviceReading{}, fmt.Errorf("%w: deviceId is required", airq.ErrInvalidReading)
	}
	if r.Location == "" {
		return airq.DeviceReading{}, fmt.Errorf("%w: location is required", airq.ErrInvalidReading)
	}

	r.ID = uuid.NewString()
	r.Timestamp = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceReadings = append(s.deviceReadings, r)
	if s.maxHistory > 0 && len(s.deviceReadings) > s.maxHistory {
		s.deviceReadings = s.deviceReadings[len(s.deviceReadings)-s.maxHistory:]
	}
	return r, nil
}

// deviceKeyMatch matches a device reading by either its device id or its
// location, so both kinds of key query the same collection.
func deviceKeyMatch(r airq.DeviceReading, key string) bool {
	return keyMatch(r.DeviceID, key) || keyMatch(r.Location, key)
}

// LatestDevice returns the most recent reading matching a device or location key.
func (s *MemoryStore) LatestDevice(key string) (airq.DeviceReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.deviceReadings) - 1; i >= 0; i-- {
		if deviceKeyMatch(s.deviceReadings[i], key) {
			return s.deviceReadings[i], nil
		}
	}
	return airq.DeviceReading{}, airq.ErrNotFound
}

// ListDevice returns up to limit matching device readings, newest first.
func (s *MemoryStore) ListDevice(key string, limit int) []airq.DeviceReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []airq.DeviceReading
	for i := len(s.deviceReadings) - 1; i >= 0 && len(out) < limit; i-- {
		if deviceKeyMatch(s.deviceReadings[i], key) {
			out = append(out, s.deviceReadings[i])
		}
	}
	return out
}

// AppendChatMessage stores one conversation turn.
func (s *MemoryStore) AppendChatMessage(m airq.ChatMessage) (airq.ChatMessage, error) {
	if m.SessionID == "" || m.Content == "" {
		return airq.ChatMessage{}, fmt.Errorf("%w: sessionId and content are required", airq.ErrInvalidReading)
	}

	m.ID = uuid.NewString()
	m.Timestamp = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatMessages = append(s.chatMessages, m)
	return m, nil
}

// ChatHistory returns the last limit messages of a session, oldest first.
func (s *MemoryStore) ChatHistory(sessionID string, limit int) []airq.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []airq.ChatMessage
	for _, m := range s.chatMessages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// AppendVoiceCommand stores one voice interaction.
func (s *MemoryStore) AppendVoiceCommand(c airq.VoiceCommand) (airq.VoiceCommand, error) {
	if c.SessionID == "" || c.Transcript == "" {
		return airq.VoiceCommand{}, fmt.Errorf("%w: sessionId and transcript are required", airq.ErrInvalidReading)
	}

	c.ID = uuid.NewString()
	c.Timestamp = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceCommands = append(s.voiceCommands, c)
	return c, nil
}

// VoiceHistory returns up to limit voice commands for a session, newest first.
func (s *MemoryStore) VoiceHistory(sessionID string, limit int) []airq.VoiceCommand {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []airq.VoiceCommand
	for i := len(s.voiceCommands) - 1; i >= 0 && len(out) < limit; i-- {
		if s.voiceCommands[i].SessionID == sessionID {
			out = append(out, s.voiceCommands[i])
		}
	}
	return out
}

func trimAQI(readings []airq.AQIReading, maxHistory int, maxAge time.Duration) []airq.AQIReading {
	if maxHistory > 0 && len(readings) > maxHistory {
		readings = readings[len(readings)-maxHistory:]
	}
	if maxAge > 0 {
		cutoff := time.Now().UTC().Add(-maxAge)
		i := 0
		for ; i < len(readings); i++ {
			if !readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		readings = readings[i:]
	}
	return readings
}
