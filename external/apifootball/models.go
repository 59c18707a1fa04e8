package apifootball

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/betfaro/betstats/internal/domain/fixture"
	"github.com/betfaro/betstats/internal/domain/team"
)

// envelope is the provider's uniform response wrapper. The errors field is
// an empty array on success and an object of messages on failure.
type envelope struct {
	Get      string          `json:"get"`
	Results  int             `json:"results"`
	Errors   json.RawMessage `json:"errors"`
	Response json.RawMessage `json:"response"`
}

func (e envelope) errorMessages() []string {
	if len(e.Errors) == 0 {
		return nil
	}

	var asMap map[string]string
	if err := sonic.Unmarshal(e.Errors, &asMap); err == nil && len(asMap) > 0 {
		out := make([]string, 0, len(asMap))
		for key, msg := range asMap {
			out = append(out, fmt.Sprintf("%s: %s", key, msg))
		}
		return out
	}

	var asList []string
	if err := sonic.Unmarshal(e.Errors, &asList); err == nil {
		return asList
	}

	return nil
}

type teamItem struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

func mapTeams(items []teamItem) []team.Team {
	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, team.Team{
			ID:   item.Team.ID,
			Name: strings.TrimSpace(item.Team.Name),
		})
	}
	return out
}

func mapFixtures(items []fixtureItem) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, fixture.Fixture{
			ID:         item.Fixture.ID,
			KickoffAt:  parseKickoff(item.Fixture.Date),
			Status:     fixture.NormalizeStatus(item.Fixture.Status.Short),
			HomeTeam:   team.Team{ID: item.Teams.Home.ID, Name: strings.TrimSpace(item.Teams.Home.Name)},
			AwayTeam:   team.Team{ID: item.Teams.Away.ID, Name: strings.TrimSpace(item.Teams.Away.Name)},
			HomeGoals:  item.Goals.Home,
			AwayGoals:  item.Goals.Away,
			LeagueID:   item.League.ID,
			LeagueName: strings.TrimSpace(item.League.Name),
			LeagueType: strings.TrimSpace(item.League.Type),
		})
	}
	return out
}

func parseKickoff(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02T15:04:05-07:00", value); err == nil {
		return ts
	}
	return time.Time{}
}
