package stats

import (
	"github.com/stitts-dev/family-hub/internal/models"
)

const (
	StatTypeCareer     = "career"
	StatTypeYearByYear = "yearByYear"
	GroupHitting       = "hitting"
	GroupPitching      = "pitching"
)

// FindGroup returns the stat group matching a (type, group) pair, or
// nil when the hydrated collection does not carry it.
func FindGroup(groups []models.StatGroup, typeName, groupName string) *models.StatGroup {
	for i := range groups {
		if groups[i].Type.DisplayName == typeName && groups[i].Group.DisplayName == groupName {
			return &groups[i]
		}
	}
	return nil
}

// SeasonSplit picks the split for the target season out of a yearByYear
// group. An empty season selects the most recent split present. Returns
// nil when no split matches.
func SeasonSplit(group *models.StatGroup, season string) *models.StatSplit {
	if group == nil || len(group.Splits) == 0 {
		return nil
	}
	if season == "" {
		// Splits arrive in chronological order; the last one is the
		// most recent season.
		return &group.Splits[len(group.Splits)-1]
	}
	for i := range group.Splits {
		if group.Splits[i].Season == season {
			return &group.Splits[i]
		}
	}
	return nil
}

// DerivePlayer computes the processed views on a freshly fetched player
// record: position classification, career summary, and the requested
// season's stat split. The raw Stats collection is left untouched.
func DerivePlayer(p *models.PlayerDetail, targetSeason string) {
	if p == nil {
		return
	}

	p.IsPitcher = p.PrimaryPosition != nil && p.PrimaryPosition.Code == models.PositionCodePitcher
	// Two-way players pitch primarily but also carry a bat side.
	p.IsTwoWayPlayer = p.IsPitcher && p.BatSide != ""

	primaryGroup := GroupHitting
	if p.IsPitcher {
		primaryGroup = GroupPitching
	}

	summary := &models.CareerSummary{}
	if career := FindGroup(p.Stats, StatTypeCareer, primaryGroup); career != nil && len(career.Splits) > 0 {
		stat := career.Splits[0].Stat
		if p.IsPitcher {
			summary.CareerERA = stat.ERA
			summary.CareerWins = stat.Wins
			summary.CareerStrikeouts = stat.StrikeOuts
			summary.CareerGames = stat.GamesPlayed
			summary.CareerSaves = stat.Saves
			summary.CareerInningsPitched = stat.InningsPitched
		} else {
			summary.CareerAVG = stat.Avg
			summary.CareerHR = stat.HomeRuns
			summary.CareerRBI = stat.RBI
			summary.CareerHits = stat.Hits
			summary.CareerGames = stat.GamesPlayed
			summary.CareerRuns = stat.Runs
			summary.CareerSB = stat.StolenBases
			summary.CareerOPS = stat.Ops
		}
	}
	if p.IsTwoWayPlayer {
		if careerBat := FindGroup(p.Stats, StatTypeCareer, GroupHitting); careerBat != nil && len(careerBat.Splits) > 0 {
			stat := careerBat.Splits[0].Stat
			summary.CareerAVG = stat.Avg
			summary.CareerHR = stat.HomeRuns
			summary.CareerRBI = stat.RBI
		}
	}
	p.ProcessedStats = summary

	if yearly := FindGroup(p.Stats, StatTypeYearByYear, primaryGroup); yearly != nil {
		if split := SeasonSplit(yearly, targetSeason); split != nil {
			stat := split.Stat
			p.SeasonStats = &stat
			p.SeasonYear = split.Season
		}
	}
}

// SeasonStatsForYear extracts one season's split for a player, pitcher
// and position player groups disambiguated by primary position code.
func SeasonStatsForYear(p *models.PlayerDetail, season string) *models.SplitStat {
	if p == nil {
		return nil
	}
	group := GroupHitting
	if p.PrimaryPosition != nil && p.PrimaryPosition.Code == models.PositionCodePitcher {
		group = GroupPitching
	}
	yearly := FindGroup(p.Stats, StatTypeYearByYear, group)
	split := SeasonSplit(yearly, season)
	if split == nil {
		return nil
	}
	stat := split.Stat
	return &stat
}
