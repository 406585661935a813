package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/family-hub/internal/database"
	"github.com/stitts-dev/family-hub/internal/models"
)

// ErrEventNotFound is returned for lookups of missing calendar events.
var ErrEventNotFound = errors.New("calendar event not found")

// CalendarService persists family calendar events.
type CalendarService struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewCalendarService creates a new calendar service instance
func NewCalendarService(db *database.DB, logger *logrus.Logger) *CalendarService {
	return &CalendarService{
		db:     db,
		logger: logger,
	}
}

// CreateEventInput carries the writable fields of a calendar event.
type CreateEventInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
	Location    string     `json:"location"`
	IsAllDay    bool       `json:"isAllDay"`
	GamePk      *int       `json:"gamePk"`
	TeamID      *int       `json:"teamId"`
	Attendees   []string   `json:"attendees"`
}

// UpdateEventInput carries a partial update; nil fields are untouched.
type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Location    *string    `json:"location"`
	IsAllDay    *bool      `json:"isAllDay"`
	Attendees   []string   `json:"attendees"`
}

// CreateEvent stores a new event created by the given user.
func (s *CalendarService) CreateEvent(ctx context.Context, input CreateEventInput, createdBy string) (*models.CalendarEvent, error) {
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("event end date precedes start date")
	}

	event := models.CalendarEvent{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		IsAllDay:    input.IsAllDay,
		EventType:   "family",
		GamePk:      input.GamePk,
		TeamID:      input.TeamID,
		Attendees:   input.Attendees,
		CreatedBy:   createdBy,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		s.logger.WithError(err).Error("Error creating calendar event")
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"title":    event.Title,
	}).Info("Created calendar event")
	return &event, nil
}

// GetEvent fetches one event by id.
func (s *CalendarService) GetEvent(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error querying event: %w", err)
	}
	return &event, nil
}

// ListEvents returns events overlapping the [from, to] window, ordered
// by start date. An event overlaps when it ends on or after the window
// start and starts on or before the window end.
func (s *CalendarService) ListEvents(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("COALESCE(end_date, start_date) >= ? AND start_date <= ?", from, to).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		s.logger.WithError(err).Error("Error listing calendar events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies a partial update to an existing event.
func (s *CalendarService) UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.CalendarEvent, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.IsAllDay != nil {
		event.IsAllDay = *input.IsAllDay
	}
	if input.Attendees != nil {
		event.Attendees = input.Attendees
	}
	if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		return nil, fmt.Errorf("event end date precedes start date")
	}

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		s.logger.WithError(err).WithField("event_id", id).Error("Error updating calendar event")
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event by id.
func (s *CalendarService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.CalendarEvent{}, "id = ?", id)
	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("event_id", id).Error("Error deleting calendar event")
		return fmt.Errorf("error deleting event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
