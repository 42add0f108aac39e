package realtime

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/airwatchhq/airwatch/internal/airq"
)

// SimulatedDevice is one fixed demo sensor.
type SimulatedDevice struct {
	ID       string
	Location string
}

// DefaultDevices keep the dashboard populated without real hardware.
var DefaultDevices = []SimulatedDevice{
	{ID: "iot-bengaluru-001", Location: "Bengaluru Central"},
	{ID: "iot-bengaluru-002", Location: "Whitefield"},
	{ID: "iot-bengaluru-003", Location: "Electronic City"},
}

// Simulator periodically synthesizes readings for a fixed device set and
// feeds them through the same ingest path as externally-sourced readings.
// It is a pluggable demo source, not part of the hub's contract.
type Simulator struct {
	scheduler *gocron.Scheduler
	hub       *Hub
	devices   []SimulatedDevice
	interval  time.Duration
}

// NewSimulator creates a Simulator emitting on the given interval.
func NewSimulator(hub *Hub, devices []SimulatedDevice, interval time.Duration) *Simulator {
	return &Simulator{
		scheduler: gocron.NewScheduler(time.UTC),
		hub:       hub,
		devices:   devices,
		interval:  interval,
	}
}

// Start schedules the periodic emission and starts the scheduler.
func (s *Simulator) Start() error {
	if len(s.devices) == 0 {
		log.Println("simulator: no devices configured; nothing to schedule")
		return nil
	}

	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 30
	}

	if _, err := s.scheduler.Every(seconds).Seconds().Do(s.emit); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels future emissions.
func (s *Simulator) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Simulator) emit() {
	for _, device := range s.devices {
		reading := airq.DeviceReading{
			DeviceID:       device.ID,
			Location:       device.Location,
			PM25:           randRange(25, 75),
			PM10:           randRange(45, 115),
			Temperature:    randRange(25, 33),
			Humidity:       randRange(55, 80),
			BatteryLevel:   randRange(70, 100),
			SignalStrength: randRange(60, 100),
		}

		if err := s.hub.Ingest(reading); err != nil {
			log.Printf("WARN: simulator ingest failed for %s: %v", device.ID, err)
		}
	}
}

func randRange(low, high float64) *float64 {
	v := low + rand.Float64()*(high-low)
	return &v
}
