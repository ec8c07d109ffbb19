package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rasak123/betting-predictor/pkg/predictor"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDocument(fixtureID int, home, away, date string) *predictor.Document {
	doc := &predictor.Document{}
	doc.Match.ID = fixtureID
	doc.Match.HomeTeam = home
	doc.Match.AwayTeam = away
	doc.Match.Date = date
	doc.Match.League = "Premier League"
	doc.Prediction = "home"
	doc.Probabilities.Home = 55.5
	doc.Probabilities.Draw = 25.0
	doc.Probabilities.Away = 19.5
	doc.Score.Home = 2
	doc.Score.Away = 0
	doc.Score.Display = "2-0"
	doc.Confidence = 79.0
	return doc
}

func TestSaveAndGetPrediction(t *testing.T) {
	s := openTestStore(t)

	doc := testDocument(1001, "Arsenal", "Norwich", "2025-09-13T15:00:00Z")
	require.NoError(t, s.SavePrediction(doc))

	loaded, err := s.GetPrediction(1001)
	require.NoError(t, err)

	assert.Equal(t, doc.Match.HomeTeam, loaded.Match.HomeTeam)
	assert.Equal(t, doc.Prediction, loaded.Prediction)
	assert.Equal(t, doc.Probabilities.Home, loaded.Probabilities.Home)
	assert.Equal(t, doc.Score.Display, loaded.Score.Display)
	assert.Equal(t, doc.Confidence, loaded.Confidence)
}

func TestGetPredictionMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPrediction(9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSavePredictionUpserts(t *testing.T) {
	s := openTestStore(t)

	first := testDocument(1001, "Arsenal", "Norwich", "2025-09-13T15:00:00Z")
	require.NoError(t, s.SavePrediction(first))

	// Re-running a prediction replaces the stored row instead of duplicating.
	second := testDocument(1001, "Arsenal", "Norwich", "2025-09-13T15:00:00Z")
	second.Prediction = "draw"
	require.NoError(t, s.SavePrediction(second))

	loaded, err := s.GetPrediction(1001)
	require.NoError(t, err)
	assert.Equal(t, "draw", loaded.Prediction)

	docs, err := s.ListPredictions()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestListPredictionsOrderedByKickoff(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SavePrediction(testDocument(3, "c", "d", "2025-09-15T15:00:00Z")))
	require.NoError(t, s.SavePrediction(testDocument(1, "a", "b", "2025-09-13T15:00:00Z")))
	require.NoError(t, s.SavePrediction(testDocument(2, "e", "f", "2025-09-14T15:00:00Z")))

	docs, err := s.ListPredictions()
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, 1, docs[0].Match.ID)
	assert.Equal(t, 2, docs[1].Match.ID)
	assert.Equal(t, 3, docs[2].Match.ID)
}

func TestListPredictionsEmpty(t *testing.T) {
	s := openTestStore(t)

	docs, err := s.ListPredictions()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestColumnsOfRejectsUntaggedTypes(t *testing.T) {
	type bare struct{ Name string }
	_, err := columnsOf(&bare{})
	require.Error(t, err)

	_, err = columnsOf("not a struct")
	require.Error(t, err)
}
