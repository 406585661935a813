package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/stats"
)

const (
	// sportIDMLB is the fixed sport id the stats API uses for MLB.
	sportIDMLB = 1

	// lastFiveGameWindow caps the rolling per-game aggregation.
	lastFiveGameWindow = 5

	playerHydration = "stats(group=[hitting,pitching],type=[career,yearByYear],sitCodes=[h,p])"
)

// Not-found conditions are distinct from transport failure: the remote
// answered, the entity just does not exist.
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")
)

// GatewayError is a non-success HTTP response from the stats API.
type GatewayError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("stats api %s returned %s", e.Endpoint, e.Status)
}

// CacheProvider is the subset of the cache service the client needs.
type CacheProvider interface {
	GetSimple(key string, dest interface{}) error
	SetSimple(key string, value interface{}, expiration time.Duration) error
}

// Breaker wraps remote calls with circuit breaker protection.
type Breaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

// Cache TTLs per data class. Schedules are never cached; game state
// changes too often for a stale next-game read to be acceptable.
const (
	teamsCacheTTL    = 24 * time.Hour
	teamCacheTTL     = 12 * time.Hour
	rosterCacheTTL   = 6 * time.Hour
	boxScoreCacheTTL = 5 * time.Minute
)

// StatsAPIClient implements MLB data fetching from the stats API. Calls
// are independent and idempotent; no state is kept between them beyond
// the read-through cache.
type StatsAPIClient struct {
	httpClient  *http.Client
	cache       CacheProvider
	breaker     Breaker
	logger      *logrus.Logger
	baseURL     string
	seasonStart string
	now         func() time.Time
}

// Option customizes a StatsAPIClient.
type Option func(*StatsAPIClient)

// WithCache attaches a read-through cache.
func WithCache(cache CacheProvider) Option {
	return func(c *StatsAPIClient) { c.cache = cache }
}

// WithBreaker attaches circuit breaker protection for remote calls.
func WithBreaker(b Breaker) Option {
	return func(c *StatsAPIClient) { c.breaker = b }
}

// WithHTTPClient overrides the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *StatsAPIClient) { c.httpClient = hc }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *StatsAPIClient) { c.now = now }
}

// NewStatsAPIClient creates a new MLB stats API client.
func NewStatsAPIClient(baseURL, seasonStart string, logger *logrus.Logger, opts ...Option) *StatsAPIClient {
	c := &StatsAPIClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		seasonStart: seasonStart,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET against the stats API and decodes the JSON body
// into dest, routed through the circuit breaker when one is configured.
func (c *StatsAPIClient) get(ctx context.Context, endpoint string, query url.Values, dest interface{}) error {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	fetch := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("stats api request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read stats api response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &GatewayError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Endpoint:   endpoint,
				Body:       string(body),
			}
		}
		return body, nil
	}

	var result interface{}
	var err error
	if c.breaker != nil {
		result, err = c.breaker.Execute("statsapi", fetch)
	} else {
		result, err = fetch()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(result.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode stats api response from %s: %w", endpoint, err)
	}
	return nil
}

// cachedGet serves from cache when possible, fetching and caching on a
// miss. Cache failures degrade to a plain fetch.
func (c *StatsAPIClient) cachedGet(ctx context.Context, cacheKey string, ttl time.Duration, endpoint string, query url.Values, dest interface{}) error {
	if c.cache != nil {
		if err := c.cache.GetSimple(cacheKey, dest); err == nil {
			c.logger.WithFields(logrus.Fields{
				"source": "cache",
				"key":    cacheKey,
			}).Debug("Returning cached stats api payload")
			return nil
		}
	}

	if err := c.get(ctx, endpoint, query, dest); err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.SetSimple(cacheKey, dest, ttl); err != nil {
			c.logger.WithError(err).WithField("key", cacheKey).Warn("Failed to cache stats api payload")
		}
	}
	return nil
}

// ListTeams fetches all MLB teams. League filtering is the caller's
// concern.
func (c *StatsAPIClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	query := url.Values{"sportId": {strconv.Itoa(sportIDMLB)}}

	var resp teamsResponse
	if err := c.cachedGet(ctx, "statsapi:teams", teamsCacheTTL, "/teams", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	return resp.Teams, nil
}

// GetTeamDetails fetches single-team metadata including the home venue.
func (c *StatsAPIClient) GetTeamDetails(ctx context.Context, teamID int) (*models.Team, error) {
	cacheKey := fmt.Sprintf("statsapi:team:%d", teamID)

	var resp teamsResponse
	if err := c.cachedGet(ctx, cacheKey, teamCacheTTL, fmt.Sprintf("/teams/%d", teamID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch team details: %w", err)
	}
	if len(resp.Teams) == 0 {
		return nil, ErrTeamNotFound
	}
	team := resp.Teams[0]
	return &team, nil
}

// GetRoster fetches the current roster in source order.
func (c *StatsAPIClient) GetRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error) {
	cacheKey := fmt.Sprintf("statsapi:roster:%d", teamID)

	var resp rosterResponse
	if err := c.cachedGet(ctx, cacheKey, rosterCacheTTL, fmt.Sprintf("/teams/%d/roster", teamID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	return resp.Roster, nil
}

// GetSchedule returns the team's next or current scheduled game, or nil
// when the immediate window holds none.
func (c *StatsAPIClient) GetSchedule(ctx context.Context, teamID int) (*models.Game, error) {
	query := url.Values{
		"sportId": {strconv.Itoa(sportIDMLB)},
		"teamId":  {strconv.Itoa(teamID)},
	}

	var resp scheduleResponse
	if err := c.get(ctx, "/schedule", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if len(resp.Dates) == 0 || len(resp.Dates[0].Games) == 0 {
		return nil, nil
	}
	game := resp.Dates[0].Games[0]
	return &game, nil
}

// scheduleWindow fetches the season-start-to-today schedule used by the
// backward scans.
func (c *StatsAPIClient) scheduleWindow(ctx context.Context, teamID int) ([]scheduleDate, error) {
	query := url.Values{
		"sportId":   {strconv.Itoa(sportIDMLB)},
		"teamId":    {strconv.Itoa(teamID)},
		"startDate": {c.seasonStart},
		"endDate":   {c.now().Format("2006-01-02")},
	}

	var resp scheduleResponse
	if err := c.get(ctx, "/schedule", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule window: %w", err)
	}
	return resp.Dates, nil
}

// finalsForDate returns a date's completed games, most recent first.
// Doubleheaders are ordered by game number descending so the later game
// of the day is always "the" last game.
func finalsForDate(date scheduleDate) []models.Game {
	var finals []models.Game
	for _, game := range date.Games {
		if game.IsFinal() {
			finals = append(finals, game)
		}
	}
	for i := 1; i < len(finals); i++ {
		for j := i; j > 0 && laterGame(finals[j], finals[j-1]); j-- {
			finals[j], finals[j-1] = finals[j-1], finals[j]
		}
	}
	return finals
}

func laterGame(a, b models.Game) bool {
	if a.GameNumber != b.GameNumber {
		return a.GameNumber > b.GameNumber
	}
	return a.GamePk > b.GamePk
}

// GetLastCompletedGame scans the season window backward and returns the
// most recent game with a terminal status, or nil when the team has no
// completed game in the window.
func (c *StatsAPIClient) GetLastCompletedGame(ctx context.Context, teamID int) (*models.Game, error) {
	dates, err := c.scheduleWindow(ctx, teamID)
	if err != nil {
		return nil, err
	}

	for i := len(dates) - 1; i >= 0; i-- {
		if finals := finalsForDate(dates[i]); len(finals) > 0 {
			game := finals[0]
			return &game, nil
		}
	}
	return nil, nil
}

// GetBoxScore fetches the per-player statistical snapshot for one game.
func (c *StatsAPIClient) GetBoxScore(ctx context.Context, gamePk int) (*models.BoxScore, error) {
	cacheKey := fmt.Sprintf("statsapi:boxscore:%d", gamePk)

	var box models.BoxScore
	if err := c.cachedGet(ctx, cacheKey, boxScoreCacheTTL, fmt.Sprintf("/game/%d/boxscore", gamePk), nil, &box); err != nil {
		return nil, fmt.Errorf("failed to fetch box score: %w", err)
	}
	return &box, nil
}

// GetPlayerDetail fetches a person with career and year-by-year splits
// hydrated for both stat groups, then computes the processed views.
// Returns ErrPlayerNotFound when the remote reports no matching person.
func (c *StatsAPIClient) GetPlayerDetail(ctx context.Context, playerID int) (*models.PlayerDetail, error) {
	query := url.Values{"hydrate": {playerHydration}}

	var resp peopleResponse
	if err := c.get(ctx, fmt.Sprintf("/people/%d", playerID), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch player details: %w", err)
	}
	if len(resp.People) == 0 {
		return nil, ErrPlayerNotFound
	}

	person := resp.People[0]
	detail := &models.PlayerDetail{
		ID:              person.ID,
		FullName:        person.FullName,
		CurrentTeam:     person.CurrentTeam,
		PrimaryPosition: person.PrimaryPosition,
		Stats:           person.Stats,
	}
	if person.BatSide != nil {
		detail.BatSide = person.BatSide.Description
	}
	if person.PitchHand != nil {
		detail.PitchHand = person.PitchHand.Description
	}

	stats.DerivePlayer(detail, "")
	return detail, nil
}

// GetLastFiveGamesStats scans backward over completed games, pulling
// each game's box score and summing the player's per-game lines into
// rolling totals. At most five games contribute; a team with no
// completed games yields zero totals, not an error.
func (c *StatsAPIClient) GetLastFiveGamesStats(ctx context.Context, teamID, playerID int) (*models.LastFiveGamesStats, error) {
	dates, err := c.scheduleWindow(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var games []models.Game
	for i := len(dates) - 1; i >= 0 && len(games) < lastFiveGameWindow; i-- {
		for _, game := range finalsForDate(dates[i]) {
			games = append(games, game)
			if len(games) == lastFiveGameWindow {
				break
			}
		}
	}

	totals := &models.LastFiveGamesStats{}
	for i, game := range games {
		box, err := c.GetBoxScore(ctx, game.GamePk)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch box score for game %d: %w", game.GamePk, err)
		}
		totals.GamesCounted++

		entry, ok := box.Player(playerID)
		if !ok {
			continue
		}
		if batting := entry.Stats.Batting; batting != nil {
			totals.BattingTotals.AtBats += batting.AtBats
			totals.BattingTotals.Hits += batting.Hits
			totals.BattingTotals.HomeRuns += batting.HomeRuns
			totals.BattingTotals.RBI += batting.RBI
			if i == 0 {
				// games[0] is the most recently completed game.
				totals.LastGame.AtBats = batting.AtBats
				totals.LastGame.Hits = batting.Hits
				totals.LastGame.HomeRuns = batting.HomeRuns
				totals.LastGame.RBI = batting.RBI
			}
		}
		if pitching := entry.Stats.Pitching; pitching != nil {
			totals.PitchingTotals.InningsPitched += stats.ParseInnings(pitching.InningsPitched)
			totals.PitchingTotals.StrikeOuts += pitching.StrikeOuts
			totals.PitchingTotals.Hits += pitching.Hits
			totals.PitchingTotals.EarnedRuns += pitching.EarnedRuns
		}
	}

	return totals, nil
}
