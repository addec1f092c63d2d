package telemetry

import (
	"math"
	"strconv"
	"strings"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
)

// Channel is the tag byte that opens every binary device frame.
type Channel byte

const (
	ChannelImage       Channel = 'i'
	ChannelLight       Channel = 'l'
	ChannelSunA        Channel = 'x'
	ChannelSunB        Channel = 'y'
	ChannelTemperature Channel = 't'
	ChannelBattery     Channel = 'b'
)

func (c Channel) String() string {
	switch c {
	case ChannelImage:
		return "image"
	case ChannelLight:
		return "light"
	case ChannelSunA:
		return "sun_a"
	case ChannelSunB:
		return "sun_b"
	case ChannelTemperature:
		return "temperature"
	case ChannelBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// FrameSink receives every camera frame (the hub stores it and fans it out to viewers).
type FrameSink interface {
	PublishFrame(frame []byte)
}

// FrameScanner gets a non-blocking look at every camera frame (QR pairing).
type FrameScanner interface {
	Offer(frame []byte)
}

// Calibration converts the raw thermistor ADC value into whole degrees Celsius.
type Calibration struct {
	Scale  float64
	Offset float64
}

// Celsius rounds half-up, so -0.5 becomes 0 and 0.5 becomes 1.
func (c Calibration) Celsius(raw float64) float64 {
	return math.Floor(raw*c.Scale + c.Offset + 0.5)
}

type Decoder struct {
	state       *SensorState
	sink        FrameSink
	scanner     FrameScanner
	calibration Calibration
	metrics     *metrics.Metrics
	logger      logger.ILogger
}

func NewDecoder(
	state *SensorState,
	sink FrameSink,
	scanner FrameScanner,
	calibration Calibration,
	m *metrics.Metrics,
	log logger.ILogger,
) *Decoder {
	return &Decoder{
		state:       state,
		sink:        sink,
		scanner:     scanner,
		calibration: calibration,
		metrics:     m,
		logger:      log,
	}
}

// Decode applies one binary frame. Unknown tags and empty frames are ignored,
// bad numeric payloads are stored as NaN. Nothing is ever sent back to the device.
func (d *Decoder) Decode(frame []byte) {
	if len(frame) == 0 {
		return
	}

	channel := Channel(frame[0])
	payload := frame[1:]
	d.metrics.TelemetryFrames.WithLabelValues(channel.String()).Inc()

	switch channel {
	case ChannelImage:
		image := make([]byte, len(payload))
		copy(image, payload)

		if d.scanner != nil {
			d.scanner.Offer(image)
		}
		d.sink.PublishFrame(image)

	case ChannelLight:
		d.state.SetLight(parseFraction(payload))

	case ChannelSunA:
		d.state.SetSunA(parseFraction(payload))

	case ChannelSunB:
		d.state.SetSunB(parseFraction(payload))

	case ChannelTemperature:
		d.state.SetTemperature(d.calibration.Celsius(parseFraction(payload)))

	case ChannelBattery:
		d.state.SetBattery(parseFraction(payload))

	default:
		d.logger.Debug("Telemetry", "Ignoring frame with unknown tag", map[string]interface{}{"tag": string(frame[:1])})
	}
}

// parseFraction reads the ASCII decimal the device sends. Surrounding
// whitespace is allowed; trailing garbage or an out-of-range number is NaN.
func parseFraction(payload []byte) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
