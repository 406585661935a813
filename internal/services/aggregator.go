package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/stats"
)

// ErrPlayerFetchInFlight is returned when a player selection arrives
// while another player fetch is outstanding. Overlapping requests are
// dropped, not queued.
var ErrPlayerFetchInFlight = errors.New("player fetch already in flight")

// Gateway is the sports data dependency of the aggregator.
type Gateway interface {
	GetTeamDetails(ctx context.Context, teamID int) (*models.Team, error)
	GetRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error)
	GetSchedule(ctx context.Context, teamID int) (*models.Game, error)
	GetLastCompletedGame(ctx context.Context, teamID int) (*models.Game, error)
	GetBoxScore(ctx context.Context, gamePk int) (*models.BoxScore, error)
	GetPlayerDetail(ctx context.Context, playerID int) (*models.PlayerDetail, error)
}

// AggregateState is the single state bag owned by the aggregator.
// Snapshots handed to readers are shallow copies; treat nested data as
// read-only.
type AggregateState struct {
	TeamID           int                   `json:"teamId"`
	Generation       uint64                `json:"generation"`
	Roster           []models.RosterEntry  `json:"data"`
	PlayerInfo       *models.PlayerDetail  `json:"playerInfo,omitempty"`
	TeamRecord       *models.TeamRecord    `json:"teamRecord,omitempty"`
	TodaysGame       *models.Game          `json:"todaysGame,omitempty"`
	LastGame         *models.Game          `json:"lastGame,omitempty"`
	BoxScore         *models.BoxScore      `json:"boxScore,omitempty"`
	HomeTeam         bool                  `json:"homeTeam"`
	HomeVenueID      int                   `json:"homeVenueId,omitempty"`
	Loading          bool                  `json:"loading"`
	Error            string                `json:"error,omitempty"`
	IsFetchingPlayer bool                  `json:"isFetchingPlayer"`
}

// initialData is the patch applied when the initial fetch wave settles.
type initialData struct {
	roster      []models.RosterEntry
	todaysGame  *models.Game
	lastGame    *models.Game
	boxScore    *models.BoxScore
	homeVenueID int
	homeTeam    bool
	teamRecord  *models.TeamRecord
}

type actionType int

const (
	actionReset actionType = iota
	actionSetInitialData
	actionSetPlayerData
	actionSetError
	actionSetFetchingPlayer
	actionClearPlayer
)

type action struct {
	typ     actionType
	teamID  int
	initial initialData
	player  *models.PlayerDetail
	errMsg  string
}

// reduce is the pure state transition function: (state, action) -> state.
func reduce(state AggregateState, a action) AggregateState {
	switch a.typ {
	case actionReset:
		// Team change discards everything, including box-score-derived
		// data that is only valid for the previous selection.
		return AggregateState{
			TeamID:     a.teamID,
			Generation: state.Generation,
			Loading:    true,
		}
	case actionSetInitialData:
		state.Roster = a.initial.roster
		state.TodaysGame = a.initial.todaysGame
		state.LastGame = a.initial.lastGame
		state.BoxScore = a.initial.boxScore
		state.HomeVenueID = a.initial.homeVenueID
		state.HomeTeam = a.initial.homeTeam
		state.TeamRecord = a.initial.teamRecord
		state.Loading = false
		return state
	case actionSetPlayerData:
		state.PlayerInfo = a.player
		state.IsFetchingPlayer = false
		return state
	case actionSetError:
		state.Error = a.errMsg
		state.Loading = false
		state.IsFetchingPlayer = false
		return state
	case actionSetFetchingPlayer:
		state.IsFetchingPlayer = true
		return state
	case actionClearPlayer:
		state.PlayerInfo = nil
		return state
	default:
		return state
	}
}

// TeamAggregator owns the aggregate state for the currently selected
// team and drives the multi-call fetch sequence against the gateway.
// Every fetch wave is stamped with a monotonic generation; completions
// carrying a stale generation are discarded on arrival, so a slow
// response for a superseded selection can never corrupt current state.
type TeamAggregator struct {
	gateway Gateway
	logger  *logrus.Logger
	now     func() time.Time

	mu          sync.Mutex
	state       AggregateState
	subscribers []chan AggregateState
}

// NewTeamAggregator creates an aggregator in the idle state.
func NewTeamAggregator(gateway Gateway, logger *logrus.Logger) *TeamAggregator {
	return &TeamAggregator{
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot returns a copy of the current aggregate state.
func (t *TeamAggregator) Snapshot() AggregateState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe returns a channel receiving a snapshot after every state
// change. Slow subscribers miss intermediate snapshots rather than
// blocking the aggregator.
func (t *TeamAggregator) Subscribe() <-chan AggregateState {
	ch := make(chan AggregateState, 8)
	t.mu.Lock()
	t.subscribers = append(t.subscribers, ch)
	t.mu.Unlock()
	return ch
}

// dispatch applies an action if the generation it was issued under is
// still current, then notifies subscribers.
func (t *TeamAggregator) dispatch(generation uint64, a action) bool {
	t.mu.Lock()
	if t.state.Generation != generation {
		t.mu.Unlock()
		t.logger.WithFields(logrus.Fields{
			"component":  "aggregator",
			"stale":      generation,
			"generation": t.state.Generation,
		}).Debug("Discarding stale fetch result")
		return false
	}
	t.state = reduce(t.state, a)
	snapshot := t.state
	subscribers := t.subscribers
	t.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
	return true
}

// SelectTeam discards all state for the previous selection and runs the
// full fetch sequence for the new team: team details first (fatal on
// failure), then roster, next game and last completed game concurrently
// with an all-settled join, then the dependent box score fetch once the
// scheduled game is known.
func (t *TeamAggregator) SelectTeam(ctx context.Context, teamID int) AggregateState {
	t.mu.Lock()
	t.state.Generation++
	generation := t.state.Generation
	t.state = reduce(t.state, action{typ: actionReset, teamID: teamID})
	snapshot := t.state
	subscribers := t.subscribers
	t.mu.Unlock()
	for _, ch := range subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}

	t.loadTeam(ctx, teamID, generation)
	return t.Snapshot()
}

func (t *TeamAggregator) loadTeam(ctx context.Context, teamID int, generation uint64) {
	log := t.logger.WithFields(logrus.Fields{
		"component":  "aggregator",
		"team_id":    teamID,
		"generation": generation,
	})

	team, err := t.gateway.GetTeamDetails(ctx, teamID)
	if err != nil {
		log.WithError(err).Error("Team details fetch failed")
		t.dispatch(generation, action{typ: actionSetError, errMsg: err.Error()})
		return
	}
	homeVenueID := 0
	if team.Venue != nil {
		homeVenueID = team.Venue.ID
	}

	// All-settled join: the three fetches run concurrently and a
	// failure in one leaves its field at the zero value without
	// aborting the others.
	var (
		wg       sync.WaitGroup
		roster   []models.RosterEntry
		game     *models.Game
		lastGame *models.Game
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		r, err := t.gateway.GetRoster(ctx, teamID)
		if err != nil {
			log.WithError(err).Warn("Roster fetch failed, continuing without roster")
			return
		}
		roster = r
	}()
	go func() {
		defer wg.Done()
		g, err := t.gateway.GetSchedule(ctx, teamID)
		if err != nil {
			log.WithError(err).Warn("Schedule fetch failed, continuing without today's game")
			return
		}
		game = g
	}()
	go func() {
		defer wg.Done()
		g, err := t.gateway.GetLastCompletedGame(ctx, teamID)
		if err != nil {
			log.WithError(err).Warn("Last game fetch failed, continuing without last game")
			return
		}
		lastGame = g
	}()
	wg.Wait()

	payload := initialData{
		roster:      roster,
		todaysGame:  game,
		lastGame:    lastGame,
		homeVenueID: homeVenueID,
	}

	if game != nil {
		// The box score fetch is strictly ordered after the schedule
		// fetch; it is part of the non-isolated tail of the sequence.
		box, err := t.gateway.GetBoxScore(ctx, game.GamePk)
		if err != nil {
			log.WithError(err).Error("Box score fetch failed")
			t.dispatch(generation, action{typ: actionSetError, errMsg: err.Error()})
			return
		}
		payload.boxScore = box
		payload.homeTeam = homeVenueID != 0 && game.Venue != nil && game.Venue.ID == homeVenueID

		side := game.Teams.Away
		if payload.homeTeam {
			side = game.Teams.Home
		}
		if side.LeagueRecord != nil {
			payload.teamRecord = side.LeagueRecord
		}
	}

	if t.dispatch(generation, action{typ: actionSetInitialData, initial: payload}) {
		log.WithFields(logrus.Fields{
			"roster_size":   len(roster),
			"has_next_game": game != nil,
			"has_last_game": lastGame != nil,
		}).Info("Team aggregate loaded")
	}
}

// SelectPlayer fetches and enriches one player's detail. At most one
// player fetch runs at a time; a request arriving while one is
// outstanding returns ErrPlayerFetchInFlight and changes nothing.
// season selects the stat split year, empty meaning most recent.
func (t *TeamAggregator) SelectPlayer(ctx context.Context, playerID int, season string) error {
	t.mu.Lock()
	if t.state.IsFetchingPlayer {
		t.mu.Unlock()
		t.logger.WithFields(logrus.Fields{
			"component": "aggregator",
			"player_id": playerID,
		}).Debug("Dropping overlapping player fetch")
		return ErrPlayerFetchInFlight
	}
	generation := t.state.Generation
	boxScore := t.state.BoxScore
	todaysGame := t.state.TodaysGame
	t.state = reduce(t.state, action{typ: actionSetFetchingPlayer})
	snapshot := t.state
	subscribers := t.subscribers
	t.mu.Unlock()
	for _, ch := range subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}

	player, err := t.gateway.GetPlayerDetail(ctx, playerID)
	if err != nil {
		// Surfaces in the shared error field; team-level data stays.
		t.dispatch(generation, action{typ: actionSetError, errMsg: err.Error()})
		return err
	}

	if season != "" {
		stats.DerivePlayer(player, season)
	}

	// Cross-reference the cached box score instead of refetching the
	// player's current-game lines.
	if boxScore != nil {
		if entry, ok := boxScore.Player(playerID); ok {
			gameLines := entry.Stats
			seasonLines := entry.SeasonStats
			player.BoxScoreStats = &gameLines
			player.BoxScoreSeasonStats = &seasonLines
		}
		player.BoxScoreSeasonYear = strconv.Itoa(t.now().Year())
		if todaysGame != nil && todaysGame.Season != "" {
			player.BoxScoreSeasonYear = todaysGame.Season
		}
	}

	if !t.dispatch(generation, action{typ: actionSetPlayerData, player: player}) {
		return nil
	}
	return nil
}

// ClearPlayer drops the selected player without touching any other
// field.
func (t *TeamAggregator) ClearPlayer() {
	t.mu.Lock()
	generation := t.state.Generation
	t.mu.Unlock()
	t.dispatch(generation, action{typ: actionClearPlayer})
}
