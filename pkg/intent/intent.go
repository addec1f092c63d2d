package intent

// Kind is the wire discriminator of an Intent.
type Kind string

const (
	KindLights             Kind = "lights"
	KindBarrier            Kind = "barrier"
	KindBlinds             Kind = "blinds"
	KindBatteryLevel       Kind = "battery_level"
	KindSunIntensity       Kind = "sun_intensity"
	KindHouseLightingLevel Kind = "house_lighting_level"
	KindTemperature        Kind = "temperature"
	KindDescribePhoto      Kind = "describe-photo"
	KindStartAlarm         Kind = "start-alarm"
	KindBedtimeStory       Kind = "bedtime-story"
	KindWelcome            Kind = "welcome"
	KindParkingLogs        Kind = "parking-logs"
	KindPeopleReport       Kind = "people-report"
	KindLiveFeed           Kind = "live-feed"
	KindNoMatch            Kind = "no-match"
)

type Intensity string

const (
	IntensityOn   Intensity = "on"
	IntensityOff  Intensity = "off"
	IntensityAuto Intensity = "auto"
)

type DataType string

const (
	DataValue DataType = "value"
	DataChart DataType = "chart"
)

type PeriodType string

const (
	PeriodExact    PeriodType = "exact"
	PeriodRelative PeriodType = "relative"
)

// Intent is the closed set of things a user can ask the house for.
// Intensity is set only for switch kinds, Data only for chart kinds.
type Intent struct {
	Kind      Kind          `json:"intent" validate:"required,oneof=lights barrier blinds battery_level sun_intensity house_lighting_level temperature describe-photo start-alarm bedtime-story welcome parking-logs people-report live-feed no-match"`
	Intensity Intensity     `json:"intensity,omitempty" validate:"omitempty,oneof=on off auto"`
	Data      *ChartOrValue `json:"data,omitempty"`
}

// ChartOrValue says whether the user wants the current reading or a chart.
type ChartOrValue struct {
	Type       DataType    `json:"type" validate:"required,oneof=value chart"`
	TimePeriod *TimePeriod `json:"timePeriod,omitempty"`
}

// TimePeriod is either an exact range (starting*/ending*) or a relative
// look-back (days/weeks/months/years). Every bound is optional.
type TimePeriod struct {
	Type PeriodType `json:"type" validate:"required,oneof=exact relative"`

	StartingDay   *int `json:"startingDay,omitempty" validate:"omitempty,min=1,max=31"`
	StartingMonth *int `json:"startingMonth,omitempty" validate:"omitempty,min=1,max=12"`
	StartingYear  *int `json:"startingYear,omitempty" validate:"omitempty,min=1"`
	EndingDay     *int `json:"endingDay,omitempty" validate:"omitempty,min=1,max=31"`
	EndingMonth   *int `json:"endingMonth,omitempty" validate:"omitempty,min=1,max=12"`
	EndingYear    *int `json:"endingYear,omitempty" validate:"omitempty,min=1"`

	Days   *int `json:"days,omitempty" validate:"omitempty,min=1,max=31"`
	Weeks  *int `json:"weeks,omitempty" validate:"omitempty,min=1"`
	Months *int `json:"months,omitempty" validate:"omitempty,min=1,max=12"`
	Years  *int `json:"years,omitempty" validate:"omitempty,min=1"`
}

// NoMatch is what every failed classification resolves to.
func NoMatch() Intent {
	return Intent{Kind: KindNoMatch}
}

func (k Kind) IsSwitch() bool {
	switch k {
	case KindLights, KindBarrier, KindBlinds:
		return true
	}
	return false
}

func (k Kind) HasData() bool {
	switch k {
	case KindBatteryLevel, KindSunIntensity, KindHouseLightingLevel, KindTemperature:
		return true
	}
	return false
}

// WantsValue reports whether a chart kind asks for the current reading.
func (i Intent) WantsValue() bool {
	return i.Data != nil && i.Data.Type == DataValue
}

// Normalize drops fields that do not belong to the variant, the way the
// model's extra keys are ignored rather than rejected.
func (i Intent) Normalize() Intent {
	if !i.Kind.IsSwitch() {
		i.Intensity = ""
	}
	if !i.Kind.HasData() {
		i.Data = nil
		return i
	}
	if i.Data != nil {
		data := *i.Data
		if data.Type == DataValue {
			data.TimePeriod = nil
		}
		if data.TimePeriod != nil {
			period := data.TimePeriod.normalize()
			data.TimePeriod = &period
		}
		i.Data = &data
	}
	return i
}

func (p TimePeriod) normalize() TimePeriod {
	switch p.Type {
	case PeriodExact:
		p.Days, p.Weeks, p.Months, p.Years = nil, nil, nil, nil
	case PeriodRelative:
		p.StartingDay, p.StartingMonth, p.StartingYear = nil, nil, nil
		p.EndingDay, p.EndingMonth, p.EndingYear = nil, nil, nil
	}
	return p
}
