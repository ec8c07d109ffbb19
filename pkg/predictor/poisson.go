package predictor

import "math"

// PoissonPMF returns the probability of observing exactly k events at rate
// mu. Computed in the log domain so large k can never overflow a raw
// factorial; math.Lgamma(k+1) stands in for log(k!). A zero rate yields the
// degenerate distribution with all mass at k=0, which is exactly what the
// model needs for a side with no scoring evidence at all.
func PoissonPMF(k int, mu float64) float64 {
	if k < 0 {
		return 0
	}
	if mu <= 0 || math.IsNaN(mu) {
		if k == 0 {
			return 1
		}
		return 0
	}

	logFact, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(mu) - mu - logFact)
}

// ScoreDistribution is the condensed output of the joint score grid.
type ScoreDistribution struct {
	// HomeWin, Draw and AwayWin are normalized to sum to 1 after grid
	// truncation.
	HomeWin float64
	Draw    float64
	AwayWin float64

	// The maximum-probability exact score on the grid.
	HomeScore int
	AwayScore int
}

// CalculateScoreDistribution evaluates the joint probability of every (h, a)
// score pair on a bounded grid as the product of two independent Poisson
// masses, tracking the most likely exact score and accumulating mass into
// the three outcome buckets.
//
// The most likely score is searched over the smaller ScoreGridMax grid
// (realistic scorelines), while outcome mass accumulates over the wider
// OutcomeGridMax grid so less probability is lost to truncation before
// normalization.
func (p *Predictor) CalculateScoreDistribution(eg ExpectedGoals) ScoreDistribution {
	var dist ScoreDistribution

	// Precompute marginals once for the wide grid.
	grid := p.cfg.OutcomeGridMax
	homeMass := make([]float64, grid+1)
	awayMass := make([]float64, grid+1)
	for k := 0; k <= grid; k++ {
		homeMass[k] = PoissonPMF(k, eg.Home)
		awayMass[k] = PoissonPMF(k, eg.Away)
	}

	maxProb := -1.0
	for h := 0; h <= grid; h++ {
		for a := 0; a <= grid; a++ {
			joint := homeMass[h] * awayMass[a]

			switch {
			case h > a:
				dist.HomeWin += joint
			case h == a:
				dist.Draw += joint
			default:
				dist.AwayWin += joint
			}

			if h <= p.cfg.ScoreGridMax && a <= p.cfg.ScoreGridMax && joint > maxProb {
				maxProb = joint
				dist.HomeScore = h
				dist.AwayScore = a
			}
		}
	}

	// Renormalize the truncated triple to sum to exactly 1.
	total := dist.HomeWin + dist.Draw + dist.AwayWin
	if total > 0 {
		dist.HomeWin /= total
		dist.Draw /= total
		dist.AwayWin /= total
	} else {
		// Degenerate rates put all mass at 0-0.
		dist.Draw = 1
	}

	return dist
}

// overThresholdMass sums joint probability over all score pairs whose goal
// total exceeds the threshold, on the wide grid.
func (p *Predictor) overThresholdMass(eg ExpectedGoals, threshold float64) float64 {
	grid := p.cfg.OutcomeGridMax
	var over float64
	for h := 0; h <= grid; h++ {
		ph := PoissonPMF(h, eg.Home)
		for a := 0; a <= grid; a++ {
			if float64(h+a) > threshold {
				over += ph * PoissonPMF(a, eg.Away)
			}
		}
	}
	return clamp(over, 0, 1)
}
