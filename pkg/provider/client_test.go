package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a client to an httptest server and disables real
// sleeping so retry paths run instantly.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClientWithKey("test-key")
	client.SetBaseURL(server.URL)
	client.sleep = func(time.Duration) {}
	return client, server
}

const teamStatisticsJSON = `{
	"errors": [],
	"results": 1,
	"response": {
		"team": {"id": 42, "name": "Arsenal"},
		"fixtures": {
			"played": {"home": 10, "away": 10, "total": 20},
			"wins":   {"home": 8,  "away": 5,  "total": 13},
			"draws":  {"home": 1,  "away": 3,  "total": 4},
			"loses":  {"home": 1,  "away": 2,  "total": 3}
		},
		"goals": {
			"for":     {"total": {"home": 25, "away": 15, "total": 40}},
			"against": {"total": {"home": 8,  "away": 12, "total": 20}}
		},
		"clean_sheet":     {"home": 6, "away": 3, "total": 9},
		"failed_to_score": {"home": 1, "away": 2, "total": 3},
		"form": "WWDLW"
	}
}`

func TestTeamStatistics(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-rapidapi-key")
		w.Write([]byte(teamStatisticsJSON))
	}))

	stats, err := client.TeamStatistics(context.Background(), 42, 39, 2025)
	require.NoError(t, err)

	assert.Equal(t, "/teams/statistics", gotPath)
	assert.Equal(t, "test-key", gotKey)

	assert.Equal(t, 42, stats.TeamID)
	assert.Equal(t, "Arsenal", stats.TeamName)
	assert.Equal(t, 20, stats.MatchesPlayed)
	assert.Equal(t, 40, stats.GoalsScored)
	assert.Equal(t, 20, stats.GoalsConceded)
	assert.Equal(t, 9, stats.CleanSheets)
	assert.Equal(t, 3, stats.FailedToScore)
	assert.Equal(t, "WWDLW", stats.Form.String())
}

func TestTeamStatisticsRejectsBadForm(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [], "results": 1, "response": {"team": {"id": 7}, "form": "WWXL"}}`))
	}))

	_, err := client.TeamStatistics(context.Background(), 7, 39, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "form")
}

func TestHeadToHeadPreservesNullScores(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42-55", r.URL.Query().Get("h2h"))
		w.Write([]byte(`{
			"errors": [],
			"results": 2,
			"response": [
				{
					"fixture": {"id": 1, "date": "2025-03-01T15:00:00+00:00"},
					"teams": {"home": {"id": 42}, "away": {"id": 55}},
					"goals": {"home": 2, "away": 1}
				},
				{
					"fixture": {"id": 2, "date": "2025-05-10T15:00:00+00:00"},
					"teams": {"home": {"id": 55}, "away": {"id": 42}},
					"goals": {"home": null, "away": null}
				}
			]
		}`))
	}))

	meetings, err := client.HeadToHead(context.Background(), 42, 55, 10)
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	assert.True(t, meetings[0].HasScore())
	assert.Equal(t, 2, *meetings[0].HomeGoals)
	assert.False(t, meetings[1].HasScore(), "null scores must survive the mapping as nil")
}

func TestFixturesSkipsUnresolvedTeams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"errors": [],
			"results": 2,
			"response": [
				{
					"fixture": {"id": 10, "date": "2025-09-13T15:00:00+00:00"},
					"league": {"id": 39, "name": "Premier League", "country": "England", "season": 2025},
					"teams": {"home": {"id": 42, "name": "Arsenal"}, "away": {"id": 55, "name": "Norwich"}},
					"goals": {"home": null, "away": null}
				},
				{
					"fixture": {"id": 11, "date": "2025-09-14T15:00:00+00:00"},
					"league": {"id": 39, "season": 2025},
					"teams": {"home": {"id": 0}, "away": {"id": 60, "name": "Leeds"}},
					"goals": {"home": null, "away": null}
				}
			]
		}`))
	}))

	fixtures, err := client.Fixtures(context.Background(), 39, 2025, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, fixtures, 1, "the fixture with an unresolved side is dropped")

	f := fixtures[0]
	assert.Equal(t, 10, f.ID)
	assert.Equal(t, 39, f.LeagueID)
	assert.Equal(t, 2025, f.Season)
	assert.Equal(t, "Arsenal", f.HomeTeam)
	assert.Equal(t, 2025, f.Kickoff.Year())
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"errors": [], "results": 0, "response": []}`))
	}))

	err := client.VerifyConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.VerifyConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetFailsFastOnForbidden(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	err := client.VerifyConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Equal(t, int32(1), calls.Load(), "auth failures must not be retried")
}

func TestGetHonoursRateLimit(t *testing.T) {
	var calls atomic.Int32
	var slept []time.Duration
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"errors": [], "results": 0, "response": []}`))
	}))
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	err := client.VerifyConnection(context.Background())
	require.NoError(t, err)
	require.Len(t, slept, 1)
	assert.Equal(t, 7*time.Second, slept[0])
}

func TestGetSurfacesAPIErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": {"token": "Error/Missing application key"}, "response": []}`))
	}))

	err := client.VerifyConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application key")
}

func TestGetCachesResponses(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(teamStatisticsJSON))
	}))

	_, err := client.TeamStatistics(context.Background(), 42, 39, 2025)
	require.NoError(t, err)
	_, err = client.TeamStatistics(context.Background(), 42, 39, 2025)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "the second identical request must come from cache")

	// A different query misses the cache.
	_, err = client.TeamStatistics(context.Background(), 42, 39, 2024)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetRespectsContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.VerifyConnection(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientReadsEnvironment(t *testing.T) {
	t.Setenv("FOOTBALL_API_KEY", "")
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := NewClient()
	assert.ErrorIs(t, err, ErrNoAPIKey)

	t.Setenv("RAPIDAPI_KEY", "from-env")
	client, err := NewClient()
	require.NoError(t, err)
	assert.Equal(t, "from-env", client.apiKey)
}

func TestRawErrorsEncodings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty array", `[]`, 0},
		{"empty object", `{}`, 0},
		{"null", `null`, 0},
		{"object of messages", `{"token": "bad key", "plan": "upgrade"}`, 2},
		{"array of messages", `["something broke"]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs rawErrors
			require.NoError(t, errs.UnmarshalJSON([]byte(tt.input)))
			assert.Len(t, errs, tt.want)
		})
	}
}
