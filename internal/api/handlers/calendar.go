package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/services"
	"github.com/stitts-dev/family-hub/internal/utils"
)

// CalendarHandler serves the family calendar endpoints.
type CalendarHandler struct {
	calendar *services.CalendarService
	logger   *logrus.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(calendar *services.CalendarService, logger *logrus.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendar: calendar,
		logger:   logger,
	}
}

// ListEvents returns events overlapping the requested window. Without
// from/to parameters the window defaults to the current month.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendBadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendBadRequest(c, "Invalid 'to' timestamp, expected RFC3339")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		utils.SendBadRequest(c, "'to' precedes 'from'")
		return
	}

	events, err := h.calendar.ListEvents(c.Request.Context(), from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list calendar events")
		utils.SendInternalError(c, "Failed to list events")
		return
	}
	utils.SendSuccess(c, events)
}

// GetEvent returns one event by id.
func (h *CalendarHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid event id")
		return
	}

	event, err := h.calendar.GetEvent(c.Request.Context(), id)
	if errors.Is(err, services.ErrEventNotFound) {
		utils.SendNotFound(c, "Event not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("Failed to fetch calendar event")
		utils.SendInternalError(c, "Failed to fetch event")
		return
	}
	utils.SendSuccess(c, event)
}

// CreateEvent stores a new event. Requires allow-listed write access.
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var input services.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendBadRequest(c, "Invalid event payload: "+err.Error())
		return
	}

	createdBy := c.GetString("user_email")
	event, err := h.calendar.CreateEvent(c.Request.Context(), input, createdBy)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create calendar event")
		utils.SendInternalError(c, "Failed to create event")
		return
	}
	utils.SendCreated(c, event)
}

// UpdateEvent applies a partial update to an event.
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid event id")
		return
	}

	var input services.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendBadRequest(c, "Invalid event payload: "+err.Error())
		return
	}

	event, err := h.calendar.UpdateEvent(c.Request.Context(), id, input)
	if errors.Is(err, services.ErrEventNotFound) {
		utils.SendNotFound(c, "Event not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("Failed to update calendar event")
		utils.SendInternalError(c, "Failed to update event")
		return
	}
	utils.SendSuccess(c, event)
}

// DeleteEvent removes an event.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid event id")
		return
	}

	err = h.calendar.DeleteEvent(c.Request.Context(), id)
	if errors.Is(err, services.ErrEventNotFound) {
		utils.SendNotFound(c, "Event not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("event_id", id).Error("Failed to delete calendar event")
		utils.SendInternalError(c, "Failed to delete event")
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": id})
}
