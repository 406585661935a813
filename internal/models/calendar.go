package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CalendarEvent represents one family calendar entry. Events may be
// linked to an MLB game so the calendar can surface game days.
type CalendarEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description,omitempty"`
	StartDate   time.Time      `gorm:"column:start_date;not null;index" json:"startDate"`
	EndDate     *time.Time     `gorm:"column:end_date;index" json:"endDate,omitempty"`
	Location    string         `json:"location,omitempty"`
	IsAllDay    bool           `gorm:"column:is_all_day;default:false" json:"isAllDay"`
	EventType   string         `gorm:"column:event_type;default:'family'" json:"eventType"`
	GamePk      *int           `gorm:"column:game_pk" json:"gamePk,omitempty"`
	TeamID      *int           `gorm:"column:team_id" json:"teamId,omitempty"`
	Attendees   pq.StringArray `gorm:"type:text[]" json:"attendees,omitempty"`
	CreatedBy   string         `gorm:"column:created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// Overlaps reports whether the event intersects the [from, to] window.
// Events without an end date are treated as instantaneous.
func (e *CalendarEvent) Overlaps(from, to time.Time) bool {
	end := e.StartDate
	if e.EndDate != nil {
		end = *e.EndDate
	}
	return !end.Before(from) && !e.StartDate.After(to)
}
