package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/family-hub/internal/models"
)

func TestCalendarEventOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 12, 0, 0, 0, time.UTC)
	}

	spanning := &models.CalendarEvent{StartDate: day(10), EndDate: ptrTime(day(14))}
	instant := &models.CalendarEvent{StartDate: day(12)}

	tests := []struct {
		name     string
		event    *models.CalendarEvent
		from, to time.Time
		expected bool
	}{
		{name: "Window inside the event", event: spanning, from: day(11), to: day(13), expected: true},
		{name: "Event inside the window", event: spanning, from: day(1), to: day(30), expected: true},
		{name: "Touching at the event end", event: spanning, from: day(14), to: day(20), expected: true},
		{name: "Window entirely before", event: spanning, from: day(1), to: day(9), expected: false},
		{name: "Window entirely after", event: spanning, from: day(15), to: day(20), expected: false},
		{name: "Instant event inside window", event: instant, from: day(11), to: day(13), expected: true},
		{name: "Instant event outside window", event: instant, from: day(13), to: day(20), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Overlaps(tt.from, tt.to))
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
