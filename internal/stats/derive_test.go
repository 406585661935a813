package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/stats"
)

func batterDetail() *models.PlayerDetail {
	return &models.PlayerDetail{
		ID:              660271,
		FullName:        "Test Batter",
		PrimaryPosition: &models.Position{Code: "9", Abbreviation: "RF"},
		BatSide:         "L",
		Stats: []models.StatGroup{
			{
				Type:  models.StatTypeRef{DisplayName: stats.StatTypeCareer},
				Group: models.StatGroupRef{DisplayName: stats.GroupHitting},
				Splits: []models.StatSplit{
					{Stat: models.SplitStat{Avg: ".288", HomeRuns: 212, RBI: 610, Hits: 980, GamesPlayed: 870, Runs: 540, StolenBases: 101, Ops: ".920"}},
				},
			},
			{
				Type:  models.StatTypeRef{DisplayName: stats.StatTypeYearByYear},
				Group: models.StatGroupRef{DisplayName: stats.GroupHitting},
				Splits: []models.StatSplit{
					{Season: "2023", Stat: models.SplitStat{Avg: ".270", HomeRuns: 30}},
					{Season: "2024", Stat: models.SplitStat{Avg: ".295", HomeRuns: 41}},
					{Season: "2025", Stat: models.SplitStat{Avg: ".301", HomeRuns: 28}},
				},
			},
		},
	}
}

func pitcherDetail() *models.PlayerDetail {
	return &models.PlayerDetail{
		ID:              543037,
		FullName:        "Test Pitcher",
		PrimaryPosition: &models.Position{Code: models.PositionCodePitcher, Abbreviation: "P"},
		Stats: []models.StatGroup{
			{
				Type:  models.StatTypeRef{DisplayName: stats.StatTypeCareer},
				Group: models.StatGroupRef{DisplayName: stats.GroupPitching},
				Splits: []models.StatSplit{
					{Stat: models.SplitStat{ERA: "3.15", Wins: 88, StrikeOuts: 1450, GamesPlayed: 240, Saves: 2, InningsPitched: "1440.1"}},
				},
			},
			{
				Type:  models.StatTypeRef{DisplayName: stats.StatTypeYearByYear},
				Group: models.StatGroupRef{DisplayName: stats.GroupPitching},
				Splits: []models.StatSplit{
					{Season: "2024", Stat: models.SplitStat{ERA: "2.95", Wins: 14}},
					{Season: "2025", Stat: models.SplitStat{ERA: "3.40", Wins: 9}},
				},
			},
		},
	}
}

func TestDerivePlayer_Batter(t *testing.T) {
	p := batterDetail()
	stats.DerivePlayer(p, "")

	assert.False(t, p.IsPitcher)
	assert.False(t, p.IsTwoWayPlayer)

	require.NotNil(t, p.ProcessedStats)
	assert.Equal(t, ".288", p.ProcessedStats.CareerAVG)
	assert.Equal(t, 212, p.ProcessedStats.CareerHR)
	assert.Equal(t, 610, p.ProcessedStats.CareerRBI)
	assert.Equal(t, ".920", p.ProcessedStats.CareerOPS)

	// Empty season selects the most recent split.
	require.NotNil(t, p.SeasonStats)
	assert.Equal(t, "2025", p.SeasonYear)
	assert.Equal(t, ".301", p.SeasonStats.Avg)
}

func TestDerivePlayer_BatterSpecificSeason(t *testing.T) {
	p := batterDetail()
	stats.DerivePlayer(p, "2024")

	require.NotNil(t, p.SeasonStats)
	assert.Equal(t, "2024", p.SeasonYear)
	assert.Equal(t, 41, p.SeasonStats.HomeRuns)
}

func TestDerivePlayer_Pitcher(t *testing.T) {
	p := pitcherDetail()
	stats.DerivePlayer(p, "")

	assert.True(t, p.IsPitcher)
	assert.False(t, p.IsTwoWayPlayer, "pitcher without a bat side is not two-way")

	require.NotNil(t, p.ProcessedStats)
	assert.Equal(t, "3.15", p.ProcessedStats.CareerERA)
	assert.Equal(t, 88, p.ProcessedStats.CareerWins)
	assert.Equal(t, 1450, p.ProcessedStats.CareerStrikeouts)
	assert.Empty(t, p.ProcessedStats.CareerAVG, "pitcher summary carries no batting line")

	require.NotNil(t, p.SeasonStats)
	assert.Equal(t, "2025", p.SeasonYear)
	assert.Equal(t, "3.40", p.SeasonStats.ERA)
}

func TestDerivePlayer_TwoWay(t *testing.T) {
	p := pitcherDetail()
	p.BatSide = "L"
	p.Stats = append(p.Stats, models.StatGroup{
		Type:  models.StatTypeRef{DisplayName: stats.StatTypeCareer},
		Group: models.StatGroupRef{DisplayName: stats.GroupHitting},
		Splits: []models.StatSplit{
			{Stat: models.SplitStat{Avg: ".274", HomeRuns: 225, RBI: 570}},
		},
	})

	stats.DerivePlayer(p, "")

	assert.True(t, p.IsPitcher)
	assert.True(t, p.IsTwoWayPlayer)

	require.NotNil(t, p.ProcessedStats)
	// Pitching is the primary summary; the batting overlay rides along.
	assert.Equal(t, "3.15", p.ProcessedStats.CareerERA)
	assert.Equal(t, ".274", p.ProcessedStats.CareerAVG)
	assert.Equal(t, 225, p.ProcessedStats.CareerHR)
	assert.Equal(t, 570, p.ProcessedStats.CareerRBI)
}

func TestDerivePlayer_NoStats(t *testing.T) {
	p := &models.PlayerDetail{ID: 1, FullName: "Prospect"}
	stats.DerivePlayer(p, "2025")

	require.NotNil(t, p.ProcessedStats, "summary is always populated, even when empty")
	assert.Nil(t, p.SeasonStats)
	assert.Empty(t, p.SeasonYear)
}

func TestDerivePlayer_SeasonNotPresent(t *testing.T) {
	p := batterDetail()
	stats.DerivePlayer(p, "1999")

	assert.Nil(t, p.SeasonStats)
	assert.Empty(t, p.SeasonYear)
}

func TestDerivePlayer_Nil(t *testing.T) {
	assert.NotPanics(t, func() { stats.DerivePlayer(nil, "2025") })
}

func TestSeasonStatsForYear(t *testing.T) {
	p := batterDetail()

	split := stats.SeasonStatsForYear(p, "2023")
	require.NotNil(t, split)
	assert.Equal(t, ".270", split.Avg)

	assert.Nil(t, stats.SeasonStatsForYear(p, "1999"))
	assert.Nil(t, stats.SeasonStatsForYear(nil, "2023"))
}

func TestFindGroup(t *testing.T) {
	p := batterDetail()

	assert.NotNil(t, stats.FindGroup(p.Stats, stats.StatTypeCareer, stats.GroupHitting))
	assert.Nil(t, stats.FindGroup(p.Stats, stats.StatTypeCareer, stats.GroupPitching))
	assert.Nil(t, stats.FindGroup(nil, stats.StatTypeCareer, stats.GroupHitting))
}
