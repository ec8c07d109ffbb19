package predictor

import "math"

// FormFactor condenses a team's recent results into a bounded multiplier
// around 1.0. Results are weighted by exp(-FormDecay*i) walking backwards
// from the most recent match, so a win last week moves the estimate far more
// than a win two months ago. Wins push the factor above 1.0, losses below,
// draws are neutral. An empty sequence returns exactly 1.0 so a missing form
// string never zeroes an expected-goal rate.
func (p *Predictor) FormFactor(form FormSequence) float64 {
	if len(form) == 0 {
		return 1.0
	}

	recent := form.Last(p.cfg.FormWindow)

	var value, totalWeight float64
	// Walk newest to oldest; i is the distance back in time.
	for i := 0; i < len(recent); i++ {
		result := recent[len(recent)-1-i]
		weight := math.Exp(-p.cfg.FormDecay * float64(i))
		totalWeight += weight

		switch result {
		case Win:
			value += p.cfg.FormWinValue * weight
		case Draw:
			value += p.cfg.FormDrawValue * weight
		case Loss:
			value += p.cfg.FormLossValue * weight
		}
	}

	if totalWeight <= 0 {
		return 1.0
	}
	return value / totalWeight
}

// FormConsistency measures how settled a team's form has been, as a scalar
// in [0.5, 1.0]. A side that alternates wins and losses is harder to predict
// than one on a long unbroken run, so more transitions between result types
// means lower consistency. Sequences shorter than three entries return
// DefaultConsistency because a transition count over one or two results says
// nothing.
func (p *Predictor) FormConsistency(form FormSequence) float64 {
	if len(form) < 3 {
		return p.cfg.DefaultConsistency
	}

	transitions := 0
	for i := 1; i < len(form); i++ {
		if form[i] != form[i-1] {
			transitions++
		}
	}

	consistency := 1.0 - (float64(transitions)/float64(len(form)-1))*0.5
	return clamp(consistency, 0.5, 1.0)
}
