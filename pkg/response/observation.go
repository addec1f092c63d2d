package response

import (
	"fmt"
	"math"
	"strconv"
)

const unknown = "unknown"

// FormatPercent renders a 0..1 fraction as "45.00%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatCelsius renders a whole-degree reading.
func FormatCelsius(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DescribeLight buckets an indoor light fraction.
func DescribeLight(v float64) string {
	return describeBrightness(v)
}

// DescribeSun buckets a sun intensity fraction. Same scale as DescribeLight.
func DescribeSun(v float64) string {
	return describeBrightness(v)
}

func describeBrightness(v float64) string {
	if math.IsNaN(v) {
		return unknown
	}

	percent := v * 100
	switch {
	case percent <= 15:
		return "very dark"
	case percent <= 30:
		return "dim"
	case percent <= 50:
		return "pleasant"
	case percent <= 80:
		return "bright"
	default:
		return "very bright"
	}
}

// DescribeTemperature buckets degrees Celsius.
func DescribeTemperature(c float64) string {
	switch {
	case math.IsNaN(c):
		return unknown
	case c <= 17:
		return "very cold / freezing"
	case c <= 18:
		return "cold"
	case c <= 20:
		return "it's not warm nor it's cold, some people might consider this temperature perfect"
	case c <= 22:
		return "warm"
	case c <= 25:
		return "hot"
	case c <= 27:
		return "very hot"
	default:
		return "dangerously hot"
	}
}
