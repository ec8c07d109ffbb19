package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Document is the stable serialized form of a Prediction and the sole
// contract with downstream presentation layers: chat formatting, CLI
// printing and persistence all consume this shape and nothing else.
// Probabilities and confidences are carried on a 0-100 scale rounded to one
// decimal place, which is the documented display precision.
type Document struct {
	Match struct {
		ID       int    `json:"id"`
		HomeTeam string `json:"home_team"`
		AwayTeam string `json:"away_team"`
		Date     string `json:"date,omitempty"`
		League   string `json:"league,omitempty"`
		Country  string `json:"country,omitempty"`
	} `json:"match"`

	Prediction string `json:"prediction"`

	Probabilities struct {
		Home float64 `json:"home"`
		Draw float64 `json:"draw"`
		Away float64 `json:"away"`
	} `json:"probabilities"`

	Score struct {
		Home    int    `json:"home"`
		Away    int    `json:"away"`
		Display string `json:"display"`
	} `json:"score"`

	Confidence float64 `json:"confidence"`

	OverUnder map[string]OverUnderDoc `json:"over_under"`
	BTTS      BTTSDoc                 `json:"btts"`
	FirstHalf FirstHalfDoc            `json:"first_half"`
}

// OverUnderDoc is the display form of one goal-line sub-result.
type OverUnderDoc struct {
	Threshold     float64 `json:"threshold"`
	Prediction    bool    `json:"prediction"` // true = over
	Probability   float64 `json:"probability"`
	ExpectedGoals float64 `json:"expected_goals"`
	Confidence    float64 `json:"confidence"`
}

// BTTSDoc is the display form of the both-teams-to-score sub-result.
type BTTSDoc struct {
	Prediction  bool    `json:"prediction"` // true = both score
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
}

// FirstHalfDoc is the display form of the first-half sub-result.
type FirstHalfDoc struct {
	Prediction    string `json:"prediction"`
	Probabilities struct {
		Home float64 `json:"home"`
		Draw float64 `json:"draw"`
		Away float64 `json:"away"`
	} `json:"probabilities"`
}

// Document converts the prediction into its stable serialized form.
func (p *Prediction) Document() *Document {
	doc := &Document{}

	doc.Match.ID = p.Fixture.ID
	doc.Match.HomeTeam = p.Fixture.HomeTeam
	doc.Match.AwayTeam = p.Fixture.AwayTeam
	if !p.Fixture.Kickoff.IsZero() {
		doc.Match.Date = p.Fixture.Kickoff.Format(time.RFC3339)
	}
	doc.Match.League = p.Fixture.League
	doc.Match.Country = p.Fixture.Country

	doc.Prediction = string(p.Outcome())
	doc.Probabilities.Home = toPercent(p.HomeWin)
	doc.Probabilities.Draw = toPercent(p.Draw)
	doc.Probabilities.Away = toPercent(p.AwayWin)

	doc.Score.Home = p.HomeScore
	doc.Score.Away = p.AwayScore
	doc.Score.Display = fmt.Sprintf("%d-%d", p.HomeScore, p.AwayScore)

	doc.Confidence = toPercent(p.Confidence)

	doc.OverUnder = make(map[string]OverUnderDoc, len(p.OverUnder))
	for key, ou := range p.OverUnder {
		doc.OverUnder[key] = OverUnderDoc{
			Threshold:     ou.Threshold,
			Prediction:    ou.Over,
			Probability:   toPercent(ou.Probability),
			ExpectedGoals: round2(ou.ExpectedGoals),
			Confidence:    toPercent(ou.Confidence),
		}
	}

	doc.BTTS = BTTSDoc{
		Prediction:  p.BTTS.Yes,
		Probability: toPercent(p.BTTS.Probability),
		Confidence:  p.BTTS.Confidence,
	}

	doc.FirstHalf.Prediction = string(p.FirstHalf.Outcome)
	doc.FirstHalf.Probabilities.Home = toPercent(p.FirstHalf.HomeWin)
	doc.FirstHalf.Probabilities.Draw = toPercent(p.FirstHalf.Draw)
	doc.FirstHalf.Probabilities.Away = toPercent(p.FirstHalf.AwayWin)

	return doc
}

// MarshalJSON-friendly helpers live on Document itself.

// Encode serializes the document to JSON.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDocument parses a previously serialized document.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode prediction document: %w", err)
	}
	return &doc, nil
}

// toPercent converts a unit-interval probability to the 0-100 display scale
// at one decimal place.
func toPercent(v float64) float64 {
	return math.Round(v*1000) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
