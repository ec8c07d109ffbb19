package predictor

import "fmt"

// Config contains every tunable parameter that influences prediction outcomes.
// It centralizes all magic numbers and constants for easy per-league or
// per-season adjustment, and is passed into NewPredictor by value so two
// predictors with different configurations never share state.
type Config struct {
	// === LEAGUE AVERAGES ===
	// Goals scored and conceded per game by the average side at each venue.
	// Defaults are typical of the top European leagues.
	LeagueAvgHomeGoals    float64 // Average goals scored by home teams (default: 1.5)
	LeagueAvgAwayGoals    float64 // Average goals scored by away teams (default: 1.2)
	LeagueAvgHomeConceded float64 // Average goals conceded by home teams (default: 1.2)
	LeagueAvgAwayConceded float64 // Average goals conceded by away teams (default: 1.5)

	// MinLeagueAverage floors the strength denominators so a degenerate
	// league average can never explode an attack/defense ratio (default: 0.5)
	MinLeagueAverage float64

	// === HOME ADVANTAGE ===
	HomeAdvantage  float64 // Multiplier applied to the home expected-goal rate (default: 1.2)
	AwayAdjustment float64 // Multiplier applied to the away expected-goal rate (default: 0.85)

	// === FORM CALCULATION ===
	FormDecay     float64 // Exponential decay constant per step back in time (default: 0.2)
	FormWindow    int     // Number of recent results the form factor considers (default: 5)
	MinFormSample int     // Minimum results before the form multiplier is applied at all (default: 5)

	// Contribution of each result type to the form factor
	FormWinValue  float64 // (default: 1.2)
	FormDrawValue float64 // (default: 1.0)
	FormLossValue float64 // (default: 0.8)

	// DefaultConsistency is returned for form sequences shorter than three
	// entries, where a transition count is meaningless (default: 0.7)
	DefaultConsistency float64

	// === HEAD-TO-HEAD ===
	H2HMaxMeetings int     // Cap on meetings retained per record (default: 20)
	H2HWindow      int     // Recent meetings blended into the goal model (default: 5)
	H2HDecay       float64 // Exponential decay constant per meeting back in time (default: 0.3)
	H2HMaxWeight   float64 // Cap on head-to-head blend weight (default: 0.4)
	H2HWeightStep  float64 // Blend weight gained per resolvable meeting (default: 0.1)

	// === DEFENSIVE AND SCORING DAMPERS ===
	CleanSheetThreshold float64 // Clean-sheet rate above which the opponent is damped (default: 0.4)
	CleanSheetDamper    float64 // Multiplier applied to the opponent's rate (default: 0.9)
	ScoringFloor        float64 // Lower bound of the failed-to-score multiplier (default: 0.8)

	// === SCORE DISTRIBUTION ===
	ScoreGridMax   int     // Maximum goals per side when locating the most likely score (default: 5)
	OutcomeGridMax int     // Maximum goals per side for outcome and market probability mass (default: 10)
	MaxExpectedGoals float64 // Cap on either expected-goal rate (default: 10.0)

	// === MARKETS ===
	Thresholds     []float64 // Over/under goal lines evaluated per match (default: 1.5, 2.5, 3.5, 4.5)
	BTTSFloor      float64   // Lower clamp on a side's probability of scoring (default: 0.1)
	BTTSCeiling    float64   // Upper clamp on a side's probability of scoring (default: 0.9)
	FirstHalfScale float64   // Fraction of full-match goals expected in the first half (default: 0.45)

	// === CONFIDENCE WEIGHTS ===
	// Must sum to 1.0
	SampleWeight      float64 // Weight of the matches-played adequacy factor (default: 0.4)
	H2HWeight         float64 // Weight of the head-to-head adequacy factor (default: 0.3)
	ConsistencyWeight float64 // Weight of the average form consistency factor (default: 0.3)
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		LeagueAvgHomeGoals:    1.5,
		LeagueAvgAwayGoals:    1.2,
		LeagueAvgHomeConceded: 1.2,
		LeagueAvgAwayConceded: 1.5,
		MinLeagueAverage:      0.5,

		HomeAdvantage:  1.2,
		AwayAdjustment: 0.85,

		FormDecay:     0.2,
		FormWindow:    5,
		MinFormSample: 5,
		FormWinValue:  1.2,
		FormDrawValue: 1.0,
		FormLossValue: 0.8,

		DefaultConsistency: 0.7,

		H2HMaxMeetings: 20,
		H2HWindow:      5,
		H2HDecay:       0.3,
		H2HMaxWeight:   0.4,
		H2HWeightStep:  0.1,

		CleanSheetThreshold: 0.4,
		CleanSheetDamper:    0.9,
		ScoringFloor:        0.8,

		ScoreGridMax:     5,
		OutcomeGridMax:   10,
		MaxExpectedGoals: 10.0,

		Thresholds:     []float64{1.5, 2.5, 3.5, 4.5},
		BTTSFloor:      0.1,
		BTTSCeiling:    0.9,
		FirstHalfScale: 0.45,

		SampleWeight:      0.4,
		H2HWeight:         0.3,
		ConsistencyWeight: 0.3,
	}
}

// Validate ensures all configuration values are within reasonable ranges
func (c Config) Validate() error {
	if c.LeagueAvgHomeGoals <= 0 || c.LeagueAvgAwayGoals <= 0 ||
		c.LeagueAvgHomeConceded <= 0 || c.LeagueAvgAwayConceded <= 0 {
		return fmt.Errorf("league averages must be positive")
	}

	if c.MinLeagueAverage <= 0 {
		return fmt.Errorf("MinLeagueAverage must be positive, got: %f", c.MinLeagueAverage)
	}

	if c.HomeAdvantage <= 1.0 {
		return fmt.Errorf("HomeAdvantage must exceed 1.0, got: %f", c.HomeAdvantage)
	}

	if c.AwayAdjustment <= 0 || c.AwayAdjustment >= 1.0 {
		return fmt.Errorf("AwayAdjustment must be between 0.0 and 1.0, got: %f", c.AwayAdjustment)
	}

	if c.FormDecay <= 0 {
		return fmt.Errorf("FormDecay must be positive, got: %f", c.FormDecay)
	}

	if c.FormWindow < 1 || c.H2HWindow < 1 {
		return fmt.Errorf("form and head-to-head windows must be at least 1")
	}

	if c.ScoreGridMax < 3 || c.OutcomeGridMax < 3 {
		return fmt.Errorf("score grids should be at least 3 to capture realistic scores")
	}

	if c.H2HMaxWeight < 0 || c.H2HMaxWeight > 1 {
		return fmt.Errorf("H2HMaxWeight must be between 0.0 and 1.0, got: %f", c.H2HMaxWeight)
	}

	if c.ScoringFloor <= 0 || c.ScoringFloor > 1 {
		return fmt.Errorf("ScoringFloor must be between 0.0 and 1.0, got: %f", c.ScoringFloor)
	}

	if len(c.Thresholds) == 0 {
		return fmt.Errorf("at least one over/under threshold is required")
	}

	weightSum := c.SampleWeight + c.H2HWeight + c.ConsistencyWeight
	if weightSum < 0.999 || weightSum > 1.001 {
		return fmt.Errorf("confidence weights must sum to 1.0, got: %f", weightSum)
	}

	return nil
}
