package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/family-hub/internal/stats"
)

func TestParseInnings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "Whole innings only", input: "6", expected: 6.0},
		{name: "Whole with trailing zero outs", input: "6.0", expected: 6.0},
		{name: "One out recorded", input: "6.1", expected: 6.0 + 1.0/3.0},
		{name: "Two outs recorded", input: "6.2", expected: 6.0 + 2.0/3.0},
		{name: "Empty string", input: "", expected: 0},
		{name: "Whitespace only", input: "   ", expected: 0},
		{name: "Malformed input", input: "abc", expected: 0},
		{name: "Dangling dot", input: "6.", expected: 6.0},
		{name: "Zero innings one out", input: "0.1", expected: 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, stats.ParseInnings(tt.input), 1e-9)
		})
	}
}

// A starter going 6.1 and a reliever going 5.2 have combined for exactly
// twelve innings, not 11.3 as a naive decimal sum would claim.
func TestParseInnings_SumAcrossGames(t *testing.T) {
	total := stats.ParseInnings("6.1") + stats.ParseInnings("5.2")
	assert.InDelta(t, 12.0, total, 1e-9)
	assert.Equal(t, "12.0", stats.FormatInnings(total))
}

func TestFormatInnings(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "Exact whole innings", input: 7.0, expected: "7.0"},
		{name: "One third", input: 7.0 + 1.0/3.0, expected: "7.1"},
		{name: "Two thirds", input: 7.0 + 2.0/3.0, expected: "7.2"},
		{name: "Negative clamps to zero", input: -1.5, expected: "0.0"},
		{name: "Rounding near a full inning", input: 6.999999, expected: "7.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stats.FormatInnings(tt.input))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"0.0", "0.1", "0.2", "5.0", "5.1", "5.2", "210.2"} {
		assert.Equal(t, s, stats.FormatInnings(stats.ParseInnings(s)), "round trip for %s", s)
	}
}
