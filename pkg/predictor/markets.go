package predictor

// PredictOverUnder estimates whether the match clears a goal-line threshold.
// The probability is the joint Poisson mass of every score pair whose total
// exceeds the threshold, nudged by the sides' scoring and defensive
// patterns: two shot-shy teams pull the line down, two reliable scorers push
// it up, and two solid defenses pull it down again. The attached confidence
// is a heuristic of sample size plus how decisive the probability is.
func (p *Predictor) PredictOverUnder(eg ExpectedGoals, home, away *TeamStats, threshold float64) OverUnder {
	probability := p.overThresholdMass(eg, threshold)

	homeScoring := 1.0 - home.FailedToScoreRate()
	awayScoring := 1.0 - away.FailedToScoreRate()

	if homeScoring < 0.5 && awayScoring < 0.5 {
		probability -= 0.1
	} else if homeScoring > 0.8 && awayScoring > 0.8 {
		probability += 0.1
	}

	if home.CleanSheetRate() > p.cfg.CleanSheetThreshold && away.CleanSheetRate() > p.cfg.CleanSheetThreshold {
		probability -= 0.1
	}

	probability = clamp(probability, 0, 1)

	confidence := 0.7
	if home.MatchesPlayed >= 10 && away.MatchesPlayed >= 10 {
		confidence += 0.2
	} else if home.MatchesPlayed >= 5 && away.MatchesPlayed >= 5 {
		confidence += 0.1
	}
	margin := probability - 0.5
	if margin < 0 {
		margin = -margin
	}
	confidence += min64(0.2, margin*0.4)

	return OverUnder{
		Threshold:     threshold,
		Over:          probability > 0.5,
		Probability:   probability,
		ExpectedGoals: eg.Home + eg.Away,
		Confidence:    clamp(confidence, 0, 1),
	}
}

// PredictBTTS estimates whether both sides score at least once. Each side's
// scoring probability is 1 - Poisson(0; rate), clamped away from the
// extremes because a single season of counters never justifies certainty,
// and the two are combined as an independence-approximation product.
func (p *Predictor) PredictBTTS(eg ExpectedGoals) BothTeamsToScore {
	homeScores := clamp(1.0-PoissonPMF(0, eg.Home), p.cfg.BTTSFloor, p.cfg.BTTSCeiling)
	awayScores := clamp(1.0-PoissonPMF(0, eg.Away), p.cfg.BTTSFloor, p.cfg.BTTSCeiling)

	probability := clamp(homeScores*awayScores, 0, 1)

	margin := probability - 0.5
	if margin < 0 {
		margin = -margin
	}
	confidence := "Low"
	if margin > 0.2 {
		confidence = "High"
	} else if margin > 0.1 {
		confidence = "Medium"
	}

	return BothTeamsToScore{
		Yes:         probability > 0.5,
		Probability: probability,
		Confidence:  confidence,
	}
}

// PredictFirstHalf produces a coarse three-way estimate for the opening 45
// minutes by scaling the full-match rates by FirstHalfScale and rerunning
// the score distribution on them. Lower rates naturally shift mass towards
// the draw, matching the observation that first halves are drawn far more
// often than full matches. This is deliberately lower fidelity than the
// full-match model; first-half scoring is not a clean fraction of the whole.
func (p *Predictor) PredictFirstHalf(eg ExpectedGoals) FirstHalf {
	scaled := ExpectedGoals{
		Home: eg.Home * p.cfg.FirstHalfScale,
		Away: eg.Away * p.cfg.FirstHalfScale,
	}

	dist := p.CalculateScoreDistribution(scaled)

	fh := FirstHalf{
		HomeWin: dist.HomeWin,
		Draw:    dist.Draw,
		AwayWin: dist.AwayWin,
	}
	switch {
	case fh.HomeWin >= fh.Draw && fh.HomeWin >= fh.AwayWin:
		fh.Outcome = OutcomeHome
	case fh.AwayWin >= fh.Draw:
		fh.Outcome = OutcomeAway
	default:
		fh.Outcome = OutcomeDraw
	}
	return fh
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
