package provider

import (
	"fmt"
	"time"

	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/Rasak123/betting-predictor/pkg/predictor"
)

// mapTeamStatistics converts a /teams/statistics body into the engine's
// snapshot. A malformed form string is a structural defect in the provider
// payload, so it propagates as an error rather than being silently dropped.
func mapTeamStatistics(body *teamStatisticsBody) (*predictor.TeamStats, error) {
	form, err := predictor.ParseForm(body.Form)
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", body.Team.ID, err)
	}

	return &predictor.TeamStats{
		TeamID:        body.Team.ID,
		TeamName:      body.Team.Name,
		MatchesPlayed: body.Fixtures.Played.Total,
		Wins:          body.Fixtures.Wins.Total,
		Draws:         body.Fixtures.Draws.Total,
		Losses:        body.Fixtures.Loses.Total,
		GoalsScored:   body.Goals.For.Total.Total,
		GoalsConceded: body.Goals.Against.Total.Total,
		CleanSheets:   body.CleanSheet.Total,
		FailedToScore: body.FailedToScore.Total,
		Form:          form,
	}, nil
}

// mapMeetings converts head-to-head fixture bodies into engine meetings.
// Null scores are preserved as absent so the aggregator can exclude them.
func mapMeetings(bodies []fixtureBody) []predictor.Meeting {
	meetings := make([]predictor.Meeting, 0, len(bodies))
	for _, body := range bodies {
		meetings = append(meetings, predictor.Meeting{
			Date:      parseFixtureDate(body.Fixture.Date),
			HomeID:    body.Teams.Home.ID,
			AwayID:    body.Teams.Away.ID,
			HomeGoals: body.Goals.Home,
			AwayGoals: body.Goals.Away,
		})
	}
	return meetings
}

// mapFixtures converts a fixtures listing into engine fixtures, skipping
// entries without both participants resolved.
func mapFixtures(bodies []fixtureBody) []predictor.Fixture {
	fixtures := make([]predictor.Fixture, 0, len(bodies))
	for _, body := range bodies {
		if body.Teams.Home.ID == 0 || body.Teams.Away.ID == 0 {
			logger.Warn("Skipping fixture with unresolved teams", body.Fixture.ID)
			continue
		}
		fixtures = append(fixtures, predictor.Fixture{
			ID:       body.Fixture.ID,
			HomeID:   body.Teams.Home.ID,
			AwayID:   body.Teams.Away.ID,
			HomeTeam: body.Teams.Home.Name,
			AwayTeam: body.Teams.Away.Name,
			LeagueID: body.League.ID,
			Season:   body.League.Season,
			League:   body.League.Name,
			Country:  body.League.Country,
			Kickoff:  parseFixtureDate(body.Fixture.Date),
		})
	}
	return fixtures
}

// parseFixtureDate tolerates the provider's timestamp variants. A zero time
// is acceptable downstream; recency weighting treats undated meetings as
// oldest.
func parseFixtureDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
