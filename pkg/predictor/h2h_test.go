package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func meeting(daysAgo, homeID, awayID int, homeGoals, awayGoals *int) Meeting {
	return Meeting{
		Date:      time.Now().AddDate(0, 0, -daysAgo),
		HomeID:    homeID,
		AwayID:    awayID,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
}

func TestAggregateHeadToHeadPerspective(t *testing.T) {
	p := newTestPredictor(t)

	// Team 1 won at home 3-1, then won away 0-2. Both are team-1 wins no
	// matter which side hosted.
	meetings := []Meeting{
		meeting(30, 1, 2, intPtr(3), intPtr(1)),
		meeting(10, 2, 1, intPtr(0), intPtr(2)),
	}

	record := p.AggregateHeadToHead(1, 2, meetings)
	require.NotNil(t, record)

	assert.Equal(t, 2, record.TotalMatches)
	assert.Equal(t, 2, record.TeamAWins)
	assert.Equal(t, 0, record.TeamBWins)
	assert.Equal(t, 0, record.Draws)
	assert.InDelta(t, 3.0, record.AvgGoals, 1e-9)
}

func TestAggregateHeadToHeadExcludesUnresolvedScores(t *testing.T) {
	p := newTestPredictor(t)

	meetings := []Meeting{
		meeting(40, 1, 2, intPtr(1), intPtr(1)),
		meeting(20, 2, 1, nil, nil), // abandoned
		meeting(5, 1, 2, intPtr(2), intPtr(0)),
	}

	record := p.AggregateHeadToHead(1, 2, meetings)

	assert.Equal(t, 2, record.TotalMatches, "null-score meetings carry no evidence")
	assert.Equal(t, 1, record.TeamAWins)
	assert.Equal(t, 1, record.Draws)
	assert.Len(t, record.Meetings, 3, "unresolved meetings stay listed for reference")
}

func TestAggregateHeadToHeadSortsAndCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.H2HMaxMeetings = 3
	p, err := NewPredictor(cfg)
	require.NoError(t, err)

	// Supplied oldest first; the aggregate must reorder and keep the newest 3.
	meetings := []Meeting{
		meeting(100, 1, 2, intPtr(5), intPtr(0)),
		meeting(70, 1, 2, intPtr(0), intPtr(1)),
		meeting(40, 2, 1, intPtr(1), intPtr(1)),
		meeting(10, 1, 2, intPtr(2), intPtr(1)),
	}

	record := p.AggregateHeadToHead(1, 2, meetings)

	require.Len(t, record.Meetings, 3)
	assert.True(t, record.Meetings[0].Date.After(record.Meetings[1].Date))
	assert.True(t, record.Meetings[1].Date.After(record.Meetings[2].Date))
	assert.Equal(t, 3, record.TotalMatches, "the 5-0 fell outside the cap")
	assert.Equal(t, 1, record.TeamAWins)
	assert.Equal(t, 1, record.TeamBWins)
	assert.Equal(t, 1, record.Draws)
}

func TestAggregateHeadToHeadEmpty(t *testing.T) {
	p := newTestPredictor(t)

	record := p.AggregateHeadToHead(1, 2, nil)
	require.NotNil(t, record)
	assert.Equal(t, 0, record.TotalMatches)
	assert.Equal(t, 0.0, record.AvgGoals)
}

func TestRecencyWeightedRates(t *testing.T) {
	p := newTestPredictor(t)

	// Team 1 scored 3 then 0; team 2 scored 0 then 2. With decay the recent
	// 0-2 pulls team 1's rate well below the arithmetic mean of 1.5.
	meetings := []Meeting{
		meeting(60, 1, 2, intPtr(3), intPtr(0)),
		meeting(10, 2, 1, intPtr(2), intPtr(0)),
	}
	record := p.AggregateHeadToHead(1, 2, meetings)

	own, other, ok := p.recencyWeightedRates(record, 1)
	require.True(t, ok)
	assert.Less(t, own, 1.5, "recent blank must drag the rate below the mean")
	assert.Greater(t, other, 1.0, "recent concession must lift the opponent rate")
	assert.Greater(t, own, 0.0)
}

func TestRecencyWeightedRatesNoResolvableMeetings(t *testing.T) {
	p := newTestPredictor(t)

	record := p.AggregateHeadToHead(1, 2, []Meeting{
		meeting(10, 1, 2, nil, nil),
	})

	_, _, ok := p.recencyWeightedRates(record, 1)
	assert.False(t, ok)
}
