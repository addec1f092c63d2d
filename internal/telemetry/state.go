package telemetry

import (
	"math"
	"sync"
)

// Readings is a point-in-time copy of the sensor channels.
// NaN means the last payload for that channel could not be parsed.
type Readings struct {
	LightLevel   float64 `json:"light_level"`
	SunLevelA    float64 `json:"sun_level_a"`
	SunLevelB    float64 `json:"sun_level_b"`
	SunLevel     float64 `json:"sun_level"`
	TemperatureC float64 `json:"temperature_c"`
	BatteryLevel float64 `json:"battery_level"`
}

// SensorState is the process-wide rolling sensor state.
// It is written only by the Decoder; the assistant reads Snapshots.
type SensorState struct {
	mu sync.RWMutex
	r  Readings
}

func NewSensorState() *SensorState {
	return &SensorState{
		r: Readings{BatteryLevel: math.NaN()},
	}
}

func (s *SensorState) Snapshot() Readings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *SensorState) SetLight(v float64) {
	s.mu.Lock()
	s.r.LightLevel = v
	s.mu.Unlock()
}

// SetSunA and SetSunB recompute the average from whatever the other
// channel last held, however old it is.
func (s *SensorState) SetSunA(v float64) {
	s.mu.Lock()
	s.r.SunLevelA = v
	s.r.SunLevel = (s.r.SunLevelA + s.r.SunLevelB) / 2
	s.mu.Unlock()
}

func (s *SensorState) SetSunB(v float64) {
	s.mu.Lock()
	s.r.SunLevelB = v
	s.r.SunLevel = (s.r.SunLevelA + s.r.SunLevelB) / 2
	s.mu.Unlock()
}

func (s *SensorState) SetTemperature(c float64) {
	s.mu.Lock()
	s.r.TemperatureC = c
	s.mu.Unlock()
}

func (s *SensorState) SetBattery(v float64) {
	s.mu.Lock()
	s.r.BatteryLevel = v
	s.mu.Unlock()
}
