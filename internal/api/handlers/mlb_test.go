package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/family-hub/internal/api/handlers"
	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/providers"
	"github.com/stitts-dev/family-hub/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// statsFixture stands in for the remote stats API.
func statsFixture(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
}

func newRouter(t *testing.T, payloads map[string]string) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := statsFixture(t, payloads)
	provider := providers.NewStatsAPIClient(server.URL, "2025-03-28", testLogger())
	aggregator := services.NewTeamAggregator(provider, testLogger())
	handler := handlers.NewMLBHandler(provider, aggregator, testLogger())

	router := gin.New()
	router.GET("/api/v1/mlb/teams", handler.ListTeams)
	router.POST("/api/v1/mlb/teams/:teamId/select", handler.SelectTeam)
	router.GET("/api/v1/mlb/snapshot", handler.GetSnapshot)
	router.POST("/api/v1/mlb/players/:playerId/select", handler.SelectPlayer)
	router.DELETE("/api/v1/mlb/players/selected", handler.ClearPlayer)
	router.GET("/api/v1/mlb/teams/:teamId/players/:playerId/last-five", handler.GetLastFiveGames)

	return router, server.Close
}

func perform(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

const teamsPayload = `{"teams":[
	{"id":121,"name":"New York Mets","league":{"id":104,"name":"National League"}},
	{"id":147,"name":"New York Yankees","league":{"id":103,"name":"American League"}},
	{"id":552,"name":"Syracuse Mets","league":{"id":117,"name":"International League"}}]}`

func TestListTeams_FiltersToMajorLeagues(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{"/teams": teamsPayload})
	defer cleanup()

	w := perform(router, http.MethodGet, "/api/v1/mlb/teams")
	require.Equal(t, http.StatusOK, w.Code)

	var teams []models.Team
	decodeData(t, w, &teams)
	require.Len(t, teams, 2)
	assert.Equal(t, "New York Mets", teams[0].Name)
	assert.Equal(t, "New York Yankees", teams[1].Name)
}

func TestListTeams_AllIncludesAffiliates(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{"/teams": teamsPayload})
	defer cleanup()

	w := perform(router, http.MethodGet, "/api/v1/mlb/teams?all=true")
	require.Equal(t, http.StatusOK, w.Code)

	var teams []models.Team
	decodeData(t, w, &teams)
	assert.Len(t, teams, 3)
}

func TestListTeams_UpstreamFailure(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{})
	defer cleanup()

	w := perform(router, http.MethodGet, "/api/v1/mlb/teams")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSelectTeam_ReturnsSnapshot(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{
		"/teams/121": `{"teams":[{"id":121,"name":"New York Mets","venue":{"id":3289}}]}`,
		"/teams/121/roster": `{"roster":[
			{"person":{"id":660271,"fullName":"Test Batter"},"position":{"code":"9","abbreviation":"RF"}}]}`,
		"/schedule": `{"dates":[]}`,
	})
	defer cleanup()

	w := perform(router, http.MethodPost, "/api/v1/mlb/teams/121/select")
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.AggregateState
	decodeData(t, w, &snapshot)
	assert.Equal(t, 121, snapshot.TeamID)
	assert.False(t, snapshot.Loading)
	assert.Len(t, snapshot.Roster, 1)
	assert.Nil(t, snapshot.TodaysGame)
}

func TestSelectTeam_InvalidID(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{})
	defer cleanup()

	w := perform(router, http.MethodPost, "/api/v1/mlb/teams/mets/select")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectPlayer_NotFound(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{
		"/people/999": `{"people":[]}`,
	})
	defer cleanup()

	w := perform(router, http.MethodPost, "/api/v1/mlb/players/999/select")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectPlayer_ReturnsEnrichedSnapshot(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{
		"/people/660271": `{"people":[{"id":660271,"fullName":"Test Batter",
			"primaryPosition":{"code":"9","abbreviation":"RF"},
			"stats":[{"type":{"displayName":"career"},"group":{"displayName":"hitting"},
				"splits":[{"stat":{"avg":".288","homeRuns":212}}]}]}]}`,
	})
	defer cleanup()

	w := perform(router, http.MethodPost, "/api/v1/mlb/players/660271/select")
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.AggregateState
	decodeData(t, w, &snapshot)
	require.NotNil(t, snapshot.PlayerInfo)
	assert.Equal(t, "Test Batter", snapshot.PlayerInfo.FullName)
	require.NotNil(t, snapshot.PlayerInfo.ProcessedStats)
	assert.Equal(t, ".288", snapshot.PlayerInfo.ProcessedStats.CareerAVG)
}

func TestClearPlayer(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{
		"/people/660271": `{"people":[{"id":660271,"fullName":"Test Batter","stats":[]}]}`,
	})
	defer cleanup()

	require.Equal(t, http.StatusOK, perform(router, http.MethodPost, "/api/v1/mlb/players/660271/select").Code)

	w := perform(router, http.MethodDelete, "/api/v1/mlb/players/selected")
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.AggregateState
	decodeData(t, w, &snapshot)
	assert.Nil(t, snapshot.PlayerInfo)
}

func TestGetLastFiveGames(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{
		"/schedule": `{"dates":[{"date":"2025-06-14","games":[
			{"gamePk":745310,"status":{"abstractGameState":"Final"},
			"teams":{"home":{"team":{"id":121}},"away":{"team":{"id":146}}}}]}]}`,
		"/game/745310/boxscore": `{"teams":{
			"home":{"team":{"id":121},"players":{"ID660271":{"person":{"id":660271},
				"stats":{"batting":{"atBats":4,"hits":2,"homeRuns":1,"rbi":3}}}}},
			"away":{"team":{"id":146},"players":{}}}}`,
	})
	defer cleanup()

	w := perform(router, http.MethodGet, "/api/v1/mlb/teams/121/players/660271/last-five")
	require.Equal(t, http.StatusOK, w.Code)

	var totals models.LastFiveGamesStats
	decodeData(t, w, &totals)
	assert.Equal(t, 1, totals.GamesCounted)
	assert.Equal(t, 4, totals.BattingTotals.AtBats)
	assert.Equal(t, 2, totals.BattingTotals.Hits)
}

func TestGetLastFiveGames_InvalidIDs(t *testing.T) {
	router, cleanup := newRouter(t, map[string]string{})
	defer cleanup()

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/api/v1/mlb/teams/mets/players/660271/last-five").Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/api/v1/mlb/teams/121/players/batter/last-five").Code)
}
