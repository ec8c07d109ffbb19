package predictor

import (
	"fmt"
	"strconv"

	"github.com/Rasak123/betting-predictor/internal/logger"
)

// Predictor estimates probabilistic outcomes for scheduled matches from
// historical team counters and head-to-head records. It holds no state
// between calls beyond its immutable configuration: every prediction is a
// pure function of the inputs passed for that call, so predictions for
// different matches can safely run in parallel.
type Predictor struct {
	cfg Config
}

// NewPredictor validates the configuration and returns a ready predictor.
func NewPredictor(cfg Config) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("predictor config: %w", err)
	}
	return &Predictor{cfg: cfg}, nil
}

// Config returns a copy of the predictor's configuration.
func (p *Predictor) Config() Config {
	return p.cfg
}

// Predict produces the complete prediction record for one fixture. meetings
// may be nil or empty when the sides have no recorded history. It fails only
// on structurally invalid input; snapshots with little or no evidence
// degrade to documented defaults and surface through the confidence scalar
// instead.
func (p *Predictor) Predict(fixture Fixture, home, away *TeamStats, meetings []Meeting) (*Prediction, error) {
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	if err := away.Validate(); err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}

	var h2h *HeadToHeadRecord
	if len(meetings) > 0 {
		h2h = p.AggregateHeadToHead(home.TeamID, away.TeamID, meetings)
	}

	expected := p.CalculateExpectedGoals(home, away, h2h)
	dist := p.CalculateScoreDistribution(expected)

	logger.Debug("Predicted rates for", fixture.HomeTeam, "vs", fixture.AwayTeam, expected.Home, expected.Away)

	overUnder := make(map[string]OverUnder, len(p.cfg.Thresholds))
	for _, threshold := range p.cfg.Thresholds {
		overUnder[thresholdKey(threshold)] = p.PredictOverUnder(expected, home, away, threshold)
	}

	return &Prediction{
		Fixture:    fixture,
		Expected:   expected,
		HomeWin:    dist.HomeWin,
		Draw:       dist.Draw,
		AwayWin:    dist.AwayWin,
		HomeScore:  dist.HomeScore,
		AwayScore:  dist.AwayScore,
		Confidence: p.Confidence(home, away, h2h),
		OverUnder:  overUnder,
		BTTS:       p.PredictBTTS(expected),
		FirstHalf:  p.PredictFirstHalf(expected),
	}, nil
}

// thresholdKey renders a goal line the way bet slips do: "2.5", "3.5".
func thresholdKey(threshold float64) string {
	return strconv.FormatFloat(threshold, 'f', -1, 64)
}
