package store

import (
	"errors"
	"testing"
	"time"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/aqi"
)

func reading(location string, index int) airq.AQIReading {
	return airq.AQIReading{
		Location:   location,
		AQI:        index,
		Pollutants: aqi.Pollutants{PM25: 35, PM10: 68, CO: 1.2, O3: 85, NO2: 42, SO2: 15},
		Source:     "test",
	}
}

func TestAppendThenLatestRoundTrip(t *testing.T) {
	s := NewMemoryStore(0, 0)

	stored, err := s.AppendAQI(reading("Test City", 120))
	if err != nil {
		t.Fatalf("AppendAQI: %v", err)
	}
	if stored.ID == "" {
		t.Error("stored reading has no id")
	}
	if stored.Timestamp.IsZero() {
		t.Error("stored reading has no timestamp")
	}

	got, err := s.LatestAQI("Test City")
	if err != nil {
		t.Fatalf("LatestAQI: %v", err)
	}
	if got.ID != stored.ID || got.AQI != 120 || got.Pollutants != stored.Pollutants {
		t.Errorf("LatestAQI = %+v, want stored record %+v", got, stored)
	}
}

func TestLatestAQISubstringCaseInsensitive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	if _, err := s.AppendAQI(reading("Bengaluru Central", 125)); err != nil {
		t.Fatal(err)
	}

	got, err := s.LatestAQI("bengaluru")
	if err != nil {
		t.Fatalf("LatestAQI(bengaluru): %v", err)
	}
	if got.Location != "Bengaluru Central" {
		t.Errorf("Location = %q", got.Location)
	}

	if _, err := s.LatestAQI("Mumbai"); !errors.Is(err, airq.ErrNotFound) {
		t.Errorf("LatestAQI(Mumbai) error = %v, want ErrNotFound", err)
	}
}

func TestListAQIOrderingAndLimit(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := 0; i < 5; i++ {
		if _, err := s.AppendAQI(reading("Test City", 100+i)); err != nil {
			t.Fatal(err)
		}
	}

	got := s.ListAQI("Test City", 3)
	if len(got) != 3 {
		t.Fatalf("ListAQI returned %d records, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("ListAQI not newest-first at index %d", i)
		}
	}
	if got[0].AQI != 104 {
		t.Errorf("newest record AQI = %d, want 104", got[0].AQI)
	}
}

func TestListAQIByRangeChronological(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := 0; i < 4; i++ {
		if _, err := s.AppendAQI(reading("Test City", 100+i)); err != nil {
			t.Fatal(err)
		}
	}

	from := time.Now().UTC().Add(-time.Minute)
	to := time.Now().UTC().Add(time.Minute)
	got := s.ListAQIByRange("Test City", from, to)
	if len(got) != 4 {
		t.Fatalf("ListAQIByRange returned %d records, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("range results not chronological at index %d", i)
		}
	}
	for _, r := range got {
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			t.Errorf("record %s outside requested range", r.ID)
		}
	}

	empty := s.ListAQIByRange("Test City", to.Add(time.Hour), to.Add(2*time.Hour))
	if len(empty) != 0 {
		t.Errorf("out-of-range query returned %d records", len(empty))
	}
}

func TestInvalidAppendLeavesStateUnchanged(t *testing.T) {
	s := NewMemoryStore(0, 0)
	if _, err := s.AppendAQI(reading("Test City", 90)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.AppendAQI(airq.AQIReading{AQI: 50}); !errors.Is(err, airq.ErrInvalidReading) {
		t.Fatalf("append without location error = %v, want ErrInvalidReading", err)
	}

	if got := s.ListAQI("Test City", 10); len(got) != 1 {
		t.Errorf("store has %d records after failed append, want 1", len(got))
	}
}

func TestDeviceReadings(t *testing.T) {
	s := NewMemoryStore(0, 0)
	pm25 := 40.0
	stored, err := s.AppendDevice(airq.DeviceReading{
		DeviceID: "dev-1",
		Location: "Test City",
		PM25:     &pm25,
	})
	if err != nil {
		t.Fatalf("AppendDevice: %v", err)
	}
	if stored.ID == "" || stored.Timestamp.IsZero() {
		t.Error("device reading missing server-assigned fields")
	}

	got, err := s.LatestDevice("dev-1")
	if err != nil {
		t.Fatalf("LatestDevice: %v", err)
	}
	if got.PM25 == nil || *got.PM25 != 40 {
		t.Errorf("LatestDevice PM25 = %v, want 40", got.PM25)
	}

	if _, err := s.AppendDevice(airq.DeviceReading{Location: "x"}); !errors.Is(err, airq.ErrInvalidReading) {
		t.Errorf("append without deviceId error = %v, want ErrInvalidReading", err)
	}
}

func TestChatHistoryTail(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := 0; i < 4; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if _, err := s.AppendChatMessage(airq.ChatMessage{
			SessionID: "sess-1",
			Role:      role,
			Content:   "message",
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.AppendChatMessage(airq.ChatMessage{SessionID: "other", Role: "user", Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	got := s.ChatHistory("sess-1", 3)
	if len(got) != 3 {
		t.Fatalf("ChatHistory returned %d messages, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("chat history not oldest-first at index %d", i)
		}
	}
	// The tail keeps the most recent messages: user/assistant alternation
	// starting from the second message.
	if got[0].Role != "assistant" {
		t.Errorf("first of trimmed history role = %q, want assistant", got[0].Role)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := 0; i < 5; i++ {
		if _, err := s.AppendAQI(reading("Test City", 100+i)); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.ListAQI("Test City", 10); len(got) != 2 {
		t.Errorf("store kept %d records with maxHistory=2", len(got))
	}
}
