package intent

import (
	"context"
	"errors"
	"testing"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/pkg/llm"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	out     string
	err     error
	calls   int
	options *llm.Options
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	s.options = llm.Apply(opts...)
	return s.out, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

func newTestClassifier(p llm.LLMProvider) (*Classifier, *metrics.Metrics) {
	m := metrics.New()
	return NewClassifier(p, m, logger.NewNopLogger()), m
}

func TestClassifyConformingOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want Intent
	}{
		{
			name: "lights on",
			out:  `{"intent": "lights", "intensity": "on"}`,
			want: Intent{Kind: KindLights, Intensity: IntensityOn},
		},
		{
			name: "blinds auto",
			out:  `{"intent": "blinds", "intensity": "auto"}`,
			want: Intent{Kind: KindBlinds, Intensity: IntensityAuto},
		},
		{
			name: "temperature value",
			out:  `{"intent": "temperature", "data": {"type": "value"}}`,
			want: Intent{Kind: KindTemperature, Data: &ChartOrValue{Type: DataValue}},
		},
		{
			name: "welcome ignores stray fields",
			out:  `{"intent": "welcome", "intensity": "on", "data": {"type": "value"}}`,
			want: Intent{Kind: KindWelcome},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{out: tt.out}
			c, _ := newTestClassifier(p)

			got := c.Classify(context.Background(), "whatever")

			assert.Equal(t, tt.want, got)
			require.NotNil(t, p.options.Temperature)
			assert.Equal(t, 0.0, *p.options.Temperature)
		})
	}
}

func TestClassifyFallsBackToNoMatch(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{"oracle down", "", errors.New("dial tcp: connection refused")},
		{"prose", "I think you want the lights on.", nil},
		{"unknown intent", `{"intent": "make-coffee"}`, nil},
		{"switch without intensity", `{"intent": "lights"}`, nil},
		{"bad intensity", `{"intent": "barrier", "intensity": "half"}`, nil},
		{"reading without data", `{"intent": "sun_intensity"}`, nil},
		{"month out of range", `{"intent": "temperature", "data": {"type": "chart", "timePeriod": {"type": "exact", "startingMonth": 13}}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{out: tt.out, err: tt.err}
			c, m := newTestClassifier(p)

			got := c.Classify(context.Background(), "turn on the lights")

			assert.Equal(t, NoMatch(), got)
			assert.Equal(t, 1, p.calls, "no retry")
			assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleFailures.WithLabelValues("classify")))
		})
	}
}

func TestNormalizeKeepsOnlyVariantFields(t *testing.T) {
	three, five := 3, 5
	in := Intent{
		Kind: KindSunIntensity,
		Data: &ChartOrValue{
			Type: DataChart,
			TimePeriod: &TimePeriod{
				Type:        PeriodRelative,
				Days:        &three,
				StartingDay: &five,
			},
		},
	}

	got := in.Normalize()

	require.NotNil(t, got.Data.TimePeriod)
	assert.Equal(t, &three, got.Data.TimePeriod.Days)
	assert.Nil(t, got.Data.TimePeriod.StartingDay)
	assert.Equal(t, &five, in.Data.TimePeriod.StartingDay, "input left untouched")

	value := Intent{Kind: KindBatteryLevel, Data: &ChartOrValue{Type: DataValue, TimePeriod: &TimePeriod{Type: PeriodExact}}}
	assert.Nil(t, value.Normalize().Data.TimePeriod)
}

func TestValidatorAcceptsChartPeriod(t *testing.T) {
	start, end := 2019, 2023
	in := Intent{
		Kind: KindHouseLightingLevel,
		Data: &ChartOrValue{
			Type:       DataChart,
			TimePeriod: &TimePeriod{Type: PeriodExact, StartingYear: &start, EndingYear: &end},
		},
	}

	assert.NoError(t, NewValidator().Struct(in))
}
