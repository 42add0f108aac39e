package airq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/airq/providers"
	"github.com/airwatchhq/airwatch/internal/aqi"
	"github.com/airwatchhq/airwatch/internal/store"
)

func newService(t *testing.T) (*airq.Service, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore(0, 0)
	registry := airq.NewCityRegistry("")
	svc := airq.NewService(memStore, registry, []airq.Provider{providers.NewMockProvider()}, "Bengaluru Central")
	return svc, memStore
}

func TestCurrentContextFallsBackToDefault(t *testing.T) {
	svc, _ := newService(t)

	ctx := svc.CurrentContext("Nowhere")
	if ctx.CurrentAQI != 125 {
		t.Errorf("fallback CurrentAQI = %d, want 125", ctx.CurrentAQI)
	}
	if ctx.Location != "Nowhere" {
		t.Errorf("fallback Location = %q", ctx.Location)
	}
	if ctx.Classification.Category != aqi.CategorySensitive {
		t.Errorf("fallback Category = %q, want %q", ctx.Classification.Category, aqi.CategorySensitive)
	}
	if ctx.Source != "mock" {
		t.Errorf("fallback Source = %q, want mock", ctx.Source)
	}
	if ctx.Timestamp.IsZero() {
		t.Error("fallback context has zero timestamp")
	}
}

func TestCurrentContextUsesStoredReading(t *testing.T) {
	svc, memStore := newService(t)

	if _, err := memStore.AppendAQI(airq.AQIReading{
		Location:   "Bengaluru Central",
		AQI:        42,
		Pollutants: aqi.Pollutants{PM25: 10, PM10: 20, CO: 0.4, O3: 30, NO2: 12, SO2: 4},
		Source:     "device",
	}); err != nil {
		t.Fatal(err)
	}

	ctx := svc.CurrentContext("")
	if ctx.CurrentAQI != 42 {
		t.Errorf("CurrentAQI = %d, want 42", ctx.CurrentAQI)
	}
	if ctx.Classification.Category != aqi.CategoryGood {
		t.Errorf("Category = %q, want Good", ctx.Classification.Category)
	}
	// Missing weather fields take the documented defaults.
	if ctx.Weather.Temperature != 28 || ctx.Weather.Humidity != 65 || ctx.Weather.WindSpeed != 12 {
		t.Errorf("default weather = %+v", ctx.Weather)
	}
}

func TestComparePersistsSnapshots(t *testing.T) {
	svc, memStore := newService(t)

	snapshots, err := svc.Compare(context.Background(), []string{"Delhi", "Mumbai"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("Compare returned %d snapshots, want 2", len(snapshots))
	}
	for _, s := range snapshots {
		if s.Source != "mock" {
			t.Errorf("snapshot for %s source = %q, want mock", s.Location, s.Source)
		}
		if s.AQI <= 0 {
			t.Errorf("snapshot for %s has AQI %d", s.Location, s.AQI)
		}
	}

	if _, err := memStore.LatestAQI("Delhi"); err != nil {
		t.Errorf("Delhi snapshot not persisted: %v", err)
	}
}

func TestCompareUnknownCity(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.Compare(context.Background(), []string{"Atlantis"}); !errors.Is(err, airq.ErrUnknownCity) {
		t.Fatalf("Compare(Atlantis) error = %v, want ErrUnknownCity", err)
	}
}

func TestCityRegistryResolve(t *testing.T) {
	registry := airq.NewCityRegistry("")

	city, err := registry.Resolve("Electronic City")
	if err == nil {
		t.Fatalf("Resolve(Electronic City) = %+v, want error for unlisted city", city)
	}

	city, err = registry.Resolve("BENGALURU")
	if err != nil {
		t.Fatalf("Resolve(BENGALURU): %v", err)
	}
	if city.State != "Karnataka" {
		t.Errorf("State = %q", city.State)
	}

	if got := registry.Supported(); len(got) != 10 {
		t.Errorf("Supported returned %d cities, want 10", len(got))
	}
}
