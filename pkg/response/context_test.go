package response

import (
	"math"
	"testing"

	"home-gateway-be/internal/telemetry"
	"home-gateway-be/pkg/intent"

	"github.com/stretchr/testify/assert"
)

func TestBuildContextValueQueries(t *testing.T) {
	r := telemetry.Readings{
		LightLevel:   0.45,
		SunLevel:     0.95,
		TemperatureC: 19,
		BatteryLevel: 0.7323,
	}
	value := &intent.ChartOrValue{Type: intent.DataValue}

	assert.Equal(t,
		"The house light level currently is 45.00% which means the room's lighting level is pleasant",
		BuildContext(intent.Intent{Kind: intent.KindHouseLightingLevel, Data: value}, r))
	assert.Equal(t,
		"Sun intensity currently is 95.00% which is very bright",
		BuildContext(intent.Intent{Kind: intent.KindSunIntensity, Data: value}, r))
	assert.Equal(t,
		"Say that temperature currently is 19 Celsius (also mention it's it's not warm nor it's cold, some people might consider this temperature perfect)",
		BuildContext(intent.Intent{Kind: intent.KindTemperature, Data: value}, r))
	assert.Equal(t,
		"The battery level currently is 73.23%",
		BuildContext(intent.Intent{Kind: intent.KindBatteryLevel, Data: value}, r))
}

func TestBuildContextUnknownReadings(t *testing.T) {
	r := telemetry.Readings{LightLevel: math.NaN(), BatteryLevel: math.NaN(), TemperatureC: math.NaN()}
	value := &intent.ChartOrValue{Type: intent.DataValue}

	assert.Contains(t, BuildContext(intent.Intent{Kind: intent.KindHouseLightingLevel, Data: value}, r), "currently is unknown")
	assert.Equal(t, "The battery level currently is unknown", BuildContext(intent.Intent{Kind: intent.KindBatteryLevel, Data: value}, r))
	assert.Contains(t, BuildContext(intent.Intent{Kind: intent.KindTemperature, Data: value}, r), "unknown Celsius")
}

func TestBuildContextCharts(t *testing.T) {
	chart := &intent.ChartOrValue{Type: intent.DataChart}

	got := BuildContext(intent.Intent{Kind: intent.KindTemperature, Data: chart}, telemetry.Readings{})

	assert.Contains(t, got, "temperature chart for the given period/date is presented right now")
}

func TestBuildContextSwitches(t *testing.T) {
	tests := []struct {
		in   intent.Intent
		want string
	}{
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityOn}, "Say that the lights have been turned on right now"},
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityOff}, "Say that the lights have been turned off right now"},
		{intent.Intent{Kind: intent.KindLights, Intensity: intent.IntensityAuto}, "Say that the lights are controlled automatically now"},
		{intent.Intent{Kind: intent.KindBarrier, Intensity: intent.IntensityOn}, "Say that the barrier has been opened right now"},
		{intent.Intent{Kind: intent.KindBlinds, Intensity: intent.IntensityOff}, "Say that the blinds have been closed right now"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildContext(tt.in, telemetry.Readings{}))
	}
}

func TestBuildContextIsTotal(t *testing.T) {
	kinds := []intent.Kind{
		intent.KindLights, intent.KindBarrier, intent.KindBlinds, intent.KindBatteryLevel,
		intent.KindSunIntensity, intent.KindHouseLightingLevel, intent.KindTemperature,
		intent.KindDescribePhoto, intent.KindStartAlarm, intent.KindBedtimeStory, intent.KindWelcome,
		intent.KindParkingLogs, intent.KindPeopleReport, intent.KindLiveFeed, intent.KindNoMatch,
	}

	for _, k := range kinds {
		assert.NotEmpty(t, BuildContext(intent.Intent{Kind: k}, telemetry.Readings{}), k)
	}
	assert.Equal(t, noMatchContext, BuildContext(intent.Intent{Kind: "something-new"}, telemetry.Readings{}))
}
