package predictor

// Confidence blends three data-adequacy signals into one scalar in [0,1]:
// how many matches both teams have behind them this season, how many times
// they have actually met, and how settled both sides' recent form is. The
// weights are fixed and sum to 1. A thin-evidence prediction is still a
// valid prediction; this scalar is how the caller tells the difference.
func (p *Predictor) Confidence(home, away *TeamStats, h2h *HeadToHeadRecord) float64 {
	sample := sampleAdequacy(home.MatchesPlayed, away.MatchesPlayed)

	h2hAdequacy := 0.6
	if h2h != nil {
		switch {
		case h2h.TotalMatches >= 5:
			h2hAdequacy = 1.0
		case h2h.TotalMatches >= 3:
			h2hAdequacy = 0.85
		case h2h.TotalMatches >= 1:
			h2hAdequacy = 0.7
		}
	}

	consistency := (p.FormConsistency(home.Form) + p.FormConsistency(away.Form)) / 2.0

	blended := p.cfg.SampleWeight*sample +
		p.cfg.H2HWeight*h2hAdequacy +
		p.cfg.ConsistencyWeight*consistency

	return clamp(blended, 0, 1)
}

// sampleAdequacy saturates at 1.0 once both sides have a solid half season
// behind them. Both teams must clear each tier; the weaker sample governs.
func sampleAdequacy(homeMatches, awayMatches int) float64 {
	n := homeMatches
	if awayMatches < n {
		n = awayMatches
	}
	switch {
	case n >= 15:
		return 1.0
	case n >= 10:
		return 0.9
	case n >= 5:
		return 0.7
	default:
		return 0.5
	}
}
