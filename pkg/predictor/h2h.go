package predictor

import (
	"math"
	"sort"
)

// AggregateHeadToHead condenses past meetings between two teams into a
// HeadToHeadRecord. Every meeting is normalized to the teamA/teamB
// perspective before counting, regardless of which side was at home
// historically. Meetings without a resolvable score are kept in the meeting
// list for reference but excluded from TotalMatches and every aggregate;
// historical variants of this logic disagreed on that point and counting
// unresolved fixtures inflated the evidence weight.
func (p *Predictor) AggregateHeadToHead(teamAID, teamBID int, meetings []Meeting) *HeadToHeadRecord {
	record := &HeadToHeadRecord{
		TeamAID: teamAID,
		TeamBID: teamBID,
	}

	// Most recent first, then cap. The provider usually sends them sorted
	// but that is not guaranteed.
	sorted := make([]Meeting, len(meetings))
	copy(sorted, meetings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > p.cfg.H2HMaxMeetings {
		sorted = sorted[:p.cfg.H2HMaxMeetings]
	}
	record.Meetings = sorted

	totalGoals := 0
	for _, m := range sorted {
		if !m.HasScore() {
			continue
		}

		goalsA, goalsB := goalsFor(m, teamAID)
		totalGoals += goalsA + goalsB
		record.TotalMatches++

		switch {
		case goalsA > goalsB:
			record.TeamAWins++
		case goalsA < goalsB:
			record.TeamBWins++
		default:
			record.Draws++
		}
	}

	if record.TotalMatches > 0 {
		record.AvgGoals = float64(totalGoals) / float64(record.TotalMatches)
	}

	return record
}

// goalsFor reorients a meeting's score so the first value belongs to the
// given team. Must only be called on meetings with a resolvable score.
func goalsFor(m Meeting, teamID int) (own, other int) {
	if m.HomeID == teamID {
		return *m.HomeGoals, *m.AwayGoals
	}
	return *m.AwayGoals, *m.HomeGoals
}

// recencyWeightedRates computes exponentially decayed per-match goal rates
// for the given team and its opponent over the most recent H2HWindow
// resolvable meetings. The most recent meeting carries weight 1.0 and each
// step back is damped by exp(-H2HDecay), so old meetings barely influence
// the estimate. ok is false when no resolvable meeting exists.
func (p *Predictor) recencyWeightedRates(record *HeadToHeadRecord, teamID int) (own, other float64, ok bool) {
	var ownGoals, otherGoals, totalWeight float64
	counted := 0

	for _, m := range record.Meetings {
		if counted >= p.cfg.H2HWindow {
			break
		}
		if !m.HasScore() {
			continue
		}

		weight := math.Exp(-p.cfg.H2HDecay * float64(counted))
		g, o := goalsFor(m, teamID)
		ownGoals += float64(g) * weight
		otherGoals += float64(o) * weight
		totalWeight += weight
		counted++
	}

	if totalWeight <= 0 {
		return 0, 0, false
	}
	return ownGoals / totalWeight, otherGoals / totalWeight, true
}
