package predictor

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Structural input errors. Insufficient but valid data (a team with zero
// matches played, a missing head-to-head record) is never an error; it is
// reflected in the confidence output instead.
var (
	// ErrInvalidStats marks team statistics that are structurally broken,
	// such as negative counters, rather than merely sparse.
	ErrInvalidStats = errors.New("invalid team statistics")

	// ErrInvalidForm marks a form sequence containing anything other than
	// win, draw or loss entries.
	ErrInvalidForm = errors.New("invalid form sequence")
)

// Result is a single entry in a team's recent-form sequence.
type Result rune

const (
	Win  Result = 'W'
	Draw Result = 'D'
	Loss Result = 'L'
)

// FormSequence is a team's recent results ordered oldest first, so the last
// entry is always the most recent match. Historical variants of this model
// disagreed on ordering; the typed sequence fixes one convention for good.
type FormSequence []Result

// ParseForm converts a provider form string such as "WWDLW" into a typed
// sequence. The input is assumed oldest first, matching the API convention.
func ParseForm(s string) (FormSequence, error) {
	form := make(FormSequence, 0, len(s))
	for _, r := range s {
		switch Result(r) {
		case Win, Draw, Loss:
			form = append(form, Result(r))
		default:
			return nil, fmt.Errorf("%w: unexpected result %q in %q", ErrInvalidForm, r, s)
		}
	}
	return form, nil
}

// String renders the sequence back into provider notation.
func (f FormSequence) String() string {
	out := make([]rune, len(f))
	for i, r := range f {
		out[i] = rune(r)
	}
	return string(out)
}

// Last returns the most recent n results, or the whole sequence when it is
// shorter than n. Ordering is preserved.
func (f FormSequence) Last(n int) FormSequence {
	if len(f) <= n {
		return f
	}
	return f[len(f)-n:]
}

// TeamStats holds one team's season counters as supplied by the data
// provider. The engine treats it as read-only.
type TeamStats struct {
	TeamID   int    `json:"teamId"`
	TeamName string `json:"teamName"`

	MatchesPlayed int `json:"matchesPlayed"`
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`

	GoalsScored   int `json:"goalsScored"`
	GoalsConceded int `json:"goalsConceded"`
	CleanSheets   int `json:"cleanSheets"`
	FailedToScore int `json:"failedToScore"`

	Form FormSequence `json:"form"`
}

// Validate fails on structurally invalid input: negative counters or form
// entries outside the W/D/L alphabet. Zero matches played is a normal
// low-evidence state and passes.
func (ts *TeamStats) Validate() error {
	if ts == nil {
		return fmt.Errorf("%w: nil stats", ErrInvalidStats)
	}
	counters := []struct {
		name  string
		value int
	}{
		{"matchesPlayed", ts.MatchesPlayed},
		{"wins", ts.Wins},
		{"draws", ts.Draws},
		{"losses", ts.Losses},
		{"goalsScored", ts.GoalsScored},
		{"goalsConceded", ts.GoalsConceded},
		{"cleanSheets", ts.CleanSheets},
		{"failedToScore", ts.FailedToScore},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%w: negative %s (%d) for team %d", ErrInvalidStats, c.name, c.value, ts.TeamID)
		}
	}
	for _, r := range ts.Form {
		switch r {
		case Win, Draw, Loss:
		default:
			return fmt.Errorf("%w: unexpected result %q for team %d", ErrInvalidForm, rune(r), ts.TeamID)
		}
	}
	return nil
}

// AvgGoalsScored returns goals scored per match, 0 when no matches played.
func (ts *TeamStats) AvgGoalsScored() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return float64(ts.GoalsScored) / float64(ts.MatchesPlayed)
}

// AvgGoalsConceded returns goals conceded per match, 0 when no matches played.
func (ts *TeamStats) AvgGoalsConceded() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return float64(ts.GoalsConceded) / float64(ts.MatchesPlayed)
}

// CleanSheetRate returns the fraction of matches finished without conceding.
func (ts *TeamStats) CleanSheetRate() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return float64(ts.CleanSheets) / float64(ts.MatchesPlayed)
}

// FailedToScoreRate returns the fraction of matches finished without scoring.
func (ts *TeamStats) FailedToScoreRate() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return float64(ts.FailedToScore) / float64(ts.MatchesPlayed)
}

// Meeting is a single historical fixture between two sides. Goals are
// pointers because the provider reports abandoned or unresolved fixtures
// with null scores.
type Meeting struct {
	Date      time.Time `json:"date"`
	HomeID    int       `json:"homeId"`
	AwayID    int       `json:"awayId"`
	HomeGoals *int      `json:"homeGoals"`
	AwayGoals *int      `json:"awayGoals"`
}

// HasScore reports whether the meeting finished with a resolvable score.
func (m Meeting) HasScore() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// HeadToHeadRecord condenses the historical meetings between two teams.
// Wins and draws are counted from team A's perspective regardless of which
// side was at home historically, and only meetings with resolvable scores
// contribute to TotalMatches and the aggregates.
type HeadToHeadRecord struct {
	TeamAID int `json:"teamAId"`
	TeamBID int `json:"teamBId"`

	// Meetings are ordered most recent first and capped.
	Meetings []Meeting `json:"meetings"`

	TotalMatches int `json:"totalMatches"`
	TeamAWins    int `json:"teamAWins"`
	TeamBWins    int `json:"teamBWins"`
	Draws        int `json:"draws"`

	// AvgGoals is total goals per resolvable meeting, both sides combined.
	AvgGoals float64 `json:"avgGoals"`
}

// ExpectedGoals is the model's mean goal estimate for each side, used as the
// rate parameters of two independent Poisson distributions.
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Fixture identifies the upcoming match a prediction refers to.
type Fixture struct {
	ID       int       `json:"id"`
	HomeID   int       `json:"homeId"`
	AwayID   int       `json:"awayId"`
	HomeTeam string    `json:"homeTeam"`
	AwayTeam string    `json:"awayTeam"`
	LeagueID int       `json:"leagueId"`
	Season   int       `json:"season"`
	League   string    `json:"league"`
	Country  string    `json:"country"`
	Kickoff  time.Time `json:"kickoff"`
}

// Outcome is a three-way match result label.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// OverUnder is the sub-prediction for a single goal-line threshold.
type OverUnder struct {
	Threshold     float64 `json:"threshold"`
	Over          bool    `json:"over"`
	Probability   float64 `json:"probability"`   // P(total goals > threshold), 0..1
	ExpectedGoals float64 `json:"expectedGoals"` // combined expected-goal total
	Confidence    float64 `json:"confidence"`    // heuristic, 0..1
}

// BothTeamsToScore is the sub-prediction for the BTTS market.
type BothTeamsToScore struct {
	Yes         bool    `json:"yes"`
	Probability float64 `json:"probability"` // 0..1
	Confidence  string  `json:"confidence"`  // "High", "Medium" or "Low"
}

// FirstHalf is the coarse three-way estimate for the opening 45 minutes.
// It is derived from scaled goal rates and is documented as lower fidelity
// than the full-match model.
type FirstHalf struct {
	Outcome Outcome `json:"outcome"`
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

// Prediction is the complete output for one fixture. It is constructed once
// per call and never mutated afterwards.
type Prediction struct {
	Fixture Fixture `json:"fixture"`

	Expected ExpectedGoals `json:"expected"`

	// Full-match probabilities, summing to 1 within tolerance.
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`

	// Most likely exact score.
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`

	// Confidence is a heuristic data-adequacy signal in [0,1], not a
	// statistically rigorous uncertainty bound.
	Confidence float64 `json:"confidence"`

	// OverUnder maps the threshold display string ("2.5") to its sub-result.
	OverUnder map[string]OverUnder `json:"overUnder"`

	BTTS      BothTeamsToScore `json:"btts"`
	FirstHalf FirstHalf        `json:"firstHalf"`
}

// Outcome returns the label of the most probable full-match result.
func (p *Prediction) Outcome() Outcome {
	if p.HomeWin >= p.Draw && p.HomeWin >= p.AwayWin {
		return OutcomeHome
	}
	if p.AwayWin >= p.Draw {
		return OutcomeAway
	}
	return OutcomeDraw
}

// clamp bounds v to [lo, hi] and maps NaN to lo. Every multiplier chain in
// the model runs through it before a rate leaves a component.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
