package predictor

// CalculateExpectedGoals turns the two teams' season counters, their recent
// form and the optional head-to-head record into a pair of expected-goal
// rates. The pipeline follows the classic Poisson goal model:
//
//  1. attack strength = team's scoring rate relative to the league average
//     for its venue; defense weakness = opponent's concession rate likewise.
//  2. base rate = attack strength x opponent defense weakness x league
//     average for the venue.
//  3. home advantage multipliers.
//  4. recent-form multiplier, applied only when enough results exist.
//  5. head-to-head blend, weighted by how often the sides have actually met.
//  6. defensive and scoring-consistency dampers.
//
// Both outputs are clamped non-negative and finite regardless of input.
func (p *Predictor) CalculateExpectedGoals(home, away *TeamStats, h2h *HeadToHeadRecord) ExpectedGoals {
	cfg := p.cfg

	// Strength denominators are floored so a degenerate league average can
	// never explode a ratio.
	homeAttack := home.AvgGoalsScored() / max64(cfg.MinLeagueAverage, cfg.LeagueAvgHomeGoals)
	awayDefense := away.AvgGoalsConceded() / max64(cfg.MinLeagueAverage, cfg.LeagueAvgAwayConceded)
	awayAttack := away.AvgGoalsScored() / max64(cfg.MinLeagueAverage, cfg.LeagueAvgAwayGoals)
	homeDefense := home.AvgGoalsConceded() / max64(cfg.MinLeagueAverage, cfg.LeagueAvgHomeConceded)

	homeRate := homeAttack * awayDefense * cfg.LeagueAvgHomeGoals
	awayRate := awayAttack * homeDefense * cfg.LeagueAvgAwayGoals

	// Home sides score roughly a fifth more than neutral expectation.
	homeRate *= cfg.HomeAdvantage
	awayRate *= cfg.AwayAdjustment

	// Form multipliers need a minimum sample; with fewer results the noise
	// outweighs the signal and we keep the base rate untouched.
	if len(home.Form) >= cfg.MinFormSample {
		homeRate *= p.FormFactor(home.Form)
	}
	if len(away.Form) >= cfg.MinFormSample {
		awayRate *= p.FormFactor(away.Form)
	}

	// Blend in decayed head-to-head goal rates. The weight grows with the
	// number of resolvable meetings and saturates at H2HMaxWeight, so even
	// frequent opponents never drown out current-season evidence.
	if h2h != nil && h2h.TotalMatches > 0 {
		if h2hHome, h2hAway, ok := p.recencyWeightedRates(h2h, home.TeamID); ok {
			n := h2h.TotalMatches
			if n > 4 {
				n = 4
			}
			w := cfg.H2HWeightStep * float64(n)
			if w > cfg.H2HMaxWeight {
				w = cfg.H2HMaxWeight
			}
			homeRate = homeRate*(1-w) + h2hHome*w
			awayRate = awayRate*(1-w) + h2hAway*w
		}
	}

	// A side that keeps clean sheets in close to half its matches suppresses
	// the opponent's rate.
	if home.CleanSheetRate() > cfg.CleanSheetThreshold {
		awayRate *= cfg.CleanSheetDamper
	}
	if away.CleanSheetRate() > cfg.CleanSheetThreshold {
		homeRate *= cfg.CleanSheetDamper
	}

	// A side that regularly fails to score has its own rate damped, floored
	// so the multiplier can never zero the estimate.
	homeRate *= max64(cfg.ScoringFloor, 1.0-home.FailedToScoreRate())
	awayRate *= max64(cfg.ScoringFloor, 1.0-away.FailedToScoreRate())

	return ExpectedGoals{
		Home: clamp(homeRate, 0, cfg.MaxExpectedGoals),
		Away: clamp(awayRate, 0, cfg.MaxExpectedGoals),
	}
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
