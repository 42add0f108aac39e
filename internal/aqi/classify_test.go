package aqi

import (
	"errors"
	"testing"
)

// TestClassifyBoundaries checks that every bucket edge lands on the
// documented side.
func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		index    int
		category Category
		severity int
	}{
		{0, CategoryGood, 0},
		{50, CategoryGood, 0},
		{51, CategoryModerate, 1},
		{100, CategoryModerate, 1},
		{101, CategorySensitive, 2},
		{150, CategorySensitive, 2},
		{151, CategoryUnhealthy, 3},
		{200, CategoryUnhealthy, 3},
		{201, CategoryVeryUnhealthy, 4},
		{300, CategoryVeryUnhealthy, 4},
		{301, CategoryHazardous, 5},
		{500, CategoryHazardous, 5},
		{9999, CategoryHazardous, 5},
	}

	for _, tc := range cases {
		got, err := Classify(tc.index)
		if err != nil {
			t.Fatalf("Classify(%d): unexpected error: %v", tc.index, err)
		}
		if got.Category != tc.category {
			t.Errorf("Classify(%d).Category = %q, want %q", tc.index, got.Category, tc.category)
		}
		if got.Severity != tc.severity {
			t.Errorf("Classify(%d).Severity = %d, want %d", tc.index, got.Severity, tc.severity)
		}
		if len(got.Recommendations) == 0 {
			t.Errorf("Classify(%d): empty recommendations", tc.index)
		}
		if got.SensitiveGroups == "" {
			t.Errorf("Classify(%d): empty sensitive-group guidance", tc.index)
		}
	}
}

func TestClassifyRejectsNegative(t *testing.T) {
	if _, err := Classify(-1); !errors.Is(err, ErrInvalidAQI) {
		t.Fatalf("Classify(-1) error = %v, want ErrInvalidAQI", err)
	}
}

func TestPrimaryConcern(t *testing.T) {
	clean := Pollutants{PM25: 10, PM10: 20, CO: 0.5, O3: 40, NO2: 20, SO2: 5}
	if got := PrimaryConcern(clean); got != "No major concerns" {
		t.Errorf("PrimaryConcern(clean) = %q", got)
	}

	dirty := Pollutants{PM25: 35, PM10: 68, CO: 1.2, O3: 85, NO2: 42, SO2: 15}
	want := "PM2.5, PM10, Nitrogen Dioxide"
	if got := PrimaryConcern(dirty); got != want {
		t.Errorf("PrimaryConcern(dirty) = %q, want %q", got, want)
	}
}
