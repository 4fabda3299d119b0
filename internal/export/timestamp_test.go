package export

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00,000"},
		{name: "minutes and seconds", seconds: 65.5, want: "00:01:05,500"},
		{name: "hours", seconds: 3661.123, want: "01:01:01,123"},
		{name: "truncates milliseconds", seconds: 1.9999, want: "00:00:01,999"},
		{name: "sub-millisecond", seconds: 0.0004, want: "00:00:00,000"},
		{name: "exact hour", seconds: 7200, want: "02:00:00,000"},
		{name: "just under a minute", seconds: 59.999, want: "00:00:59,999"},
		{name: "more than 99 hours", seconds: 360000.25, want: "100:00:00,250"},
		{name: "just under one millisecond", seconds: 0.0009999, want: "00:00:00,000"},
		{name: "just under a minute boundary", seconds: 59.9999999, want: "00:00:59,999"},
		{name: "tiny fraction", seconds: 1e-7, want: "00:00:00,000"},
		{name: "very large", seconds: 1e13, want: "2777777777:46:40,000"},
		{name: "negative clamps to zero", seconds: -0.5, want: "00:00:00,000"},
		{name: "nan clamps to zero", seconds: math.NaN(), want: "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.seconds))
		})
	}
}

func TestFormatVTTTimestamp(t *testing.T) {
	for _, s := range []float64{0, 0.001, 1, 65.5, 3599.999, 3661.123, 86400.5} {
		comma := FormatTimestamp(s)
		period := FormatVTTTimestamp(s)

		assert.Equal(t, len(comma), len(period))
		assert.Equal(t, comma, strings.Replace(period, ".", ",", 1))
		assert.NotContains(t, period, ",")
	}
}

func TestFormatTimestampInfinity(t *testing.T) {
	got := FormatTimestamp(math.Inf(1))
	assert.Regexp(t, `^\d+:\d{2}:\d{2},\d{3}$`, got)
	assert.NotEqual(t, "00:00:00,000", got)
}
