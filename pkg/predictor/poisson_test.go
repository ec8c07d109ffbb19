package predictor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonPMFZeroRate(t *testing.T) {
	assert.Equal(t, 1.0, PoissonPMF(0, 0), "zero rate should put all mass at k=0")
	assert.Equal(t, 0.0, PoissonPMF(1, 0))
	assert.Equal(t, 0.0, PoissonPMF(5, 0))
}

func TestPoissonPMFNegativeCount(t *testing.T) {
	assert.Equal(t, 0.0, PoissonPMF(-1, 1.5))
}

func TestPoissonPMFKnownValues(t *testing.T) {
	// p(0; 1) = e^-1
	assert.InDelta(t, math.Exp(-1), PoissonPMF(0, 1.0), 1e-12)
	// p(2; 2) = e^-2 * 4 / 2
	assert.InDelta(t, math.Exp(-2)*2, PoissonPMF(2, 2.0), 1e-12)
}

func TestPoissonPMFLargeCountDoesNotOverflow(t *testing.T) {
	// A raw-factorial implementation dies long before k=150. The log-domain
	// form must return a tiny but finite value.
	p := PoissonPMF(150, 2.5)
	require.False(t, math.IsNaN(p))
	require.False(t, math.IsInf(p, 0))
	assert.GreaterOrEqual(t, p, 0.0)
	assert.Less(t, p, 1e-100)
}

func TestPoissonPMFGridSumApproachesOne(t *testing.T) {
	mu := 2.5
	prev := 0.0
	for _, grid := range []int{5, 10, 20, 40} {
		sum := 0.0
		for k := 0; k <= grid; k++ {
			sum += PoissonPMF(k, mu)
		}
		assert.LessOrEqual(t, sum, 1.0+1e-12, "finite grid mass must never exceed 1")
		assert.GreaterOrEqual(t, sum, prev, "mass must grow with the grid")
		prev = sum
	}
	assert.InDelta(t, 1.0, prev, 1e-9, "a wide grid should capture almost all mass")
}

func TestScoreDistributionSumsToOne(t *testing.T) {
	p := newTestPredictor(t)

	for _, eg := range []ExpectedGoals{
		{Home: 1.5, Away: 1.2},
		{Home: 0.3, Away: 2.8},
		{Home: 4.0, Away: 4.0},
		{Home: 0, Away: 0},
	} {
		dist := p.CalculateScoreDistribution(eg)
		total := dist.HomeWin + dist.Draw + dist.AwayWin
		assert.InDelta(t, 1.0, total, 1e-6, "outcome triple must sum to 1 for %+v", eg)
	}
}

func TestScoreDistributionSymmetry(t *testing.T) {
	p := newTestPredictor(t)

	dist := p.CalculateScoreDistribution(ExpectedGoals{Home: 1.4, Away: 1.4})
	assert.InDelta(t, dist.HomeWin, dist.AwayWin, 1e-9, "equal rates must give equal win probabilities")
	assert.Equal(t, dist.HomeScore, dist.AwayScore)
}

func TestScoreDistributionFavorsStrongerSide(t *testing.T) {
	p := newTestPredictor(t)

	dist := p.CalculateScoreDistribution(ExpectedGoals{Home: 2.4, Away: 0.7})
	assert.Greater(t, dist.HomeWin, dist.AwayWin)
	assert.Greater(t, dist.HomeWin, dist.Draw)
	assert.Greater(t, dist.HomeScore, dist.AwayScore)
}

func TestScoreDistributionDegenerateRates(t *testing.T) {
	p := newTestPredictor(t)

	dist := p.CalculateScoreDistribution(ExpectedGoals{Home: 0, Away: 0})
	assert.Equal(t, 0, dist.HomeScore)
	assert.Equal(t, 0, dist.AwayScore)
	assert.InDelta(t, 1.0, dist.Draw, 1e-9, "zero rates can only end 0-0")
}

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	p, err := NewPredictor(DefaultConfig())
	require.NoError(t, err)
	return p
}
