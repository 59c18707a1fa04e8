// Package fixture models match records and the sample validation applied
// before any statistics are computed from them.
package fixture

import (
	"strings"
	"time"

	"github.com/betfaro/betstats/internal/domain/team"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
	StatusSuspended = "SUSPENDED"
	StatusUnknown   = "UNKNOWN"
)

// Fixture represents one scheduled or completed match.
type Fixture struct {
	ID         int64
	KickoffAt  time.Time
	Status     string
	HomeTeam   team.Team
	AwayTeam   team.Team
	HomeGoals  *int
	AwayGoals  *int
	LeagueID   int64
	LeagueName string
	LeagueType string
}

// NormalizeStatus maps provider short codes onto the internal status set.
func NormalizeStatus(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "NS", "TBD", StatusScheduled:
		return StatusScheduled
	case "FT", "AET", "PEN", StatusFinished:
		return StatusFinished
	case "PST", StatusPostponed:
		return StatusPostponed
	case "CANC", StatusCancelled:
		return StatusCancelled
	case "SUSP", StatusSuspended:
		return StatusSuspended
	default:
		return StatusUnknown
	}
}

// Scored reports whether both goal counts are present. Absent fields stay
// nil and never default to zero.
func (f Fixture) Scored() bool {
	return f.HomeGoals != nil && f.AwayGoals != nil
}

// Final reports whether the match finished. Only scored and final fixtures
// may enter statistics.
func (f Fixture) Final() bool {
	return NormalizeStatus(f.Status) == StatusFinished
}

func (f Fixture) Upcoming() bool {
	return NormalizeStatus(f.Status) == StatusScheduled
}

// Involves reports whether the given team plays in this fixture.
func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeam.ID == teamID || f.AwayTeam.ID == teamID
}

// GoalsFor returns goals scored and conceded from the perspective of the
// given team id. The second return is false when the fixture is unscored or
// the team is not playing in it.
func (f Fixture) GoalsFor(teamID int64) (scored, conceded int, ok bool) {
	if !f.Scored() || !f.Involves(teamID) {
		return 0, 0, false
	}
	if f.HomeTeam.ID == teamID {
		return *f.HomeGoals, *f.AwayGoals, true
	}
	return *f.AwayGoals, *f.HomeGoals, true
}

// Opponent returns the other side of the fixture from the given team id.
func (f Fixture) Opponent(teamID int64) (team.Team, bool) {
	switch teamID {
	case f.HomeTeam.ID:
		return f.AwayTeam, true
	case f.AwayTeam.ID:
		return f.HomeTeam, true
	default:
		return team.Team{}, false
	}
}
