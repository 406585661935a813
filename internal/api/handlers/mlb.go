package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/providers"
	"github.com/stitts-dev/family-hub/internal/services"
	"github.com/stitts-dev/family-hub/internal/utils"
)

// League ids for the American and National leagues; the dashboard only
// surfaces MLB proper, not minor league affiliates.
const (
	leagueIDAmerican = 103
	leagueIDNational = 104
)

// MLBHandler serves the stats dashboard endpoints.
type MLBHandler struct {
	provider   *providers.StatsAPIClient
	aggregator *services.TeamAggregator
	logger     *logrus.Logger
}

// NewMLBHandler creates a new MLB handler.
func NewMLBHandler(provider *providers.StatsAPIClient, aggregator *services.TeamAggregator, logger *logrus.Logger) *MLBHandler {
	return &MLBHandler{
		provider:   provider,
		aggregator: aggregator,
		logger:     logger,
	}
}

// ListTeams returns all MLB teams, filtered to the two major leagues
// unless ?all=true.
func (h *MLBHandler) ListTeams(c *gin.Context) {
	teams, err := h.provider.ListTeams(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch teams")
		utils.SendInternalError(c, "Failed to fetch teams")
		return
	}

	if c.Query("all") != "true" {
		filtered := make([]models.Team, 0, len(teams))
		for _, team := range teams {
			if team.League != nil && (team.League.ID == leagueIDAmerican || team.League.ID == leagueIDNational) {
				filtered = append(filtered, team)
			}
		}
		teams = filtered
	}

	utils.SendSuccess(c, teams)
}

// SelectTeam switches the aggregate to a new team and returns the
// resulting snapshot. Partial sub-fetch failures still produce a
// snapshot; only a fatal load failure surfaces in its error field.
func (h *MLBHandler) SelectTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid team id")
		return
	}

	snapshot := h.aggregator.SelectTeam(c.Request.Context(), teamID)
	utils.SendSuccess(c, snapshot)
}

// GetSnapshot returns the current aggregate state.
func (h *MLBHandler) GetSnapshot(c *gin.Context) {
	utils.SendSuccess(c, h.aggregator.Snapshot())
}

// SelectPlayer fetches and enriches one player's detail into the
// aggregate. Overlapping requests are dropped with a 409.
func (h *MLBHandler) SelectPlayer(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("playerId"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid player id")
		return
	}
	season := c.Query("season")

	err = h.aggregator.SelectPlayer(c.Request.Context(), playerID, season)
	switch {
	case errors.Is(err, services.ErrPlayerFetchInFlight):
		utils.SendConflict(c, "A player fetch is already in flight")
		return
	case errors.Is(err, providers.ErrPlayerNotFound):
		utils.SendNotFound(c, "Player not found")
		return
	case err != nil:
		h.logger.WithError(err).WithField("player_id", playerID).Error("Failed to fetch player")
		utils.SendInternalError(c, "Failed to fetch player details")
		return
	}

	utils.SendSuccess(c, h.aggregator.Snapshot())
}

// ClearPlayer drops the selected player from the aggregate.
func (h *MLBHandler) ClearPlayer(c *gin.Context) {
	h.aggregator.ClearPlayer()
	utils.SendSuccess(c, h.aggregator.Snapshot())
}

// GetLastFiveGames returns a player's rolling totals over the team's
// five most recently completed games.
func (h *MLBHandler) GetLastFiveGames(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid team id")
		return
	}
	playerID, err := strconv.Atoi(c.Param("playerId"))
	if err != nil {
		utils.SendBadRequest(c, "Invalid player id")
		return
	}

	totals, err := h.provider.GetLastFiveGamesStats(c.Request.Context(), teamID, playerID)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"team_id":   teamID,
			"player_id": playerID,
		}).Error("Failed to fetch last five games stats")
		utils.SendInternalError(c, "Failed to fetch last five games stats")
		return
	}

	utils.SendSuccess(c, totals)
}
