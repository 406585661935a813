package providers

import "github.com/stitts-dev/family-hub/internal/models"

// Envelope shapes for the MLB Stats API. Only the fields the service
// reads are declared; everything else in the payloads is ignored.

type teamsResponse struct {
	Teams []models.Team `json:"teams"`
}

type rosterResponse struct {
	Roster []models.RosterEntry `json:"roster"`
}

type scheduleDate struct {
	Date  string        `json:"date"`
	Games []models.Game `json:"games"`
}

type scheduleResponse struct {
	Dates []scheduleDate `json:"dates"`
}

type personStats struct {
	ID              int                 `json:"id"`
	FullName        string              `json:"fullName"`
	CurrentTeam     *models.Person      `json:"currentTeam,omitempty"`
	PrimaryPosition *models.Position    `json:"primaryPosition,omitempty"`
	BatSide         *models.Handedness  `json:"batSide,omitempty"`
	PitchHand       *models.Handedness  `json:"pitchHand,omitempty"`
	Stats           []models.StatGroup  `json:"stats"`
}

type peopleResponse struct {
	People []personStats `json:"people"`
}
