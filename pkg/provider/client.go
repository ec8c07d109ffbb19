package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/Rasak123/betting-predictor/pkg/predictor"
	"github.com/Rasak123/betting-predictor/pkg/transport"
)

const defaultBaseURL = "https://v3.football.api-sports.io"

// ErrNoAPIKey is returned by NewClient when no credential can be found.
var ErrNoAPIKey = errors.New("no API key found, set FOOTBALL_API_KEY")

// Client talks to the football data API. It owns the retry, backoff and
// rate-limit policy for that network call and a small TTL response cache;
// the prediction engine never sees any of this.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

type cacheEntry struct {
	data    []byte
	fetched time.Time
}

// NewClient reads the API key from the environment, trying the historical
// variable names in order.
func NewClient() (*Client, error) {
	for _, name := range []string{"FOOTBALL_API_KEY", "RAPIDAPI_KEY", "API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return NewClientWithKey(key), nil
		}
	}
	return nil, ErrNoAPIKey
}

// NewClientWithKey builds a client with an explicit credential.
func NewClientWithKey(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxRetries: 3,
		cacheTTL:   15 * time.Minute,
		cache:      make(map[string]cacheEntry),
		sleep:      time.Sleep,
	}
}

// SetBaseURL overrides the API host, used by tests against httptest servers.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

// VerifyConnection checks the credential and subscription by hitting the
// lightweight timezone endpoint.
func (c *Client) VerifyConnection(ctx context.Context) error {
	var out struct {
		envelope
	}
	if err := c.get(ctx, "timezone", nil, &out); err != nil {
		return fmt.Errorf("verify connection: %w", err)
	}
	logger.Info("API connection verified")
	return nil
}

// TeamStatistics fetches one team's season counters for a league.
func (c *Client) TeamStatistics(ctx context.Context, teamID, leagueID, season int) (*predictor.TeamStats, error) {
	params := url.Values{}
	params.Set("team", strconv.Itoa(teamID))
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))

	var out teamStatisticsResponse
	if err := c.get(ctx, "teams/statistics", params, &out); err != nil {
		return nil, fmt.Errorf("team statistics for team %d: %w", teamID, err)
	}
	return mapTeamStatistics(&out.Response)
}

// HeadToHead fetches up to last meetings between two teams, any venue, any
// competition.
func (c *Client) HeadToHead(ctx context.Context, teamAID, teamBID, last int) ([]predictor.Meeting, error) {
	params := url.Values{}
	params.Set("h2h", fmt.Sprintf("%d-%d", teamAID, teamBID))
	params.Set("last", strconv.Itoa(last))

	var out fixturesResponse
	if err := c.get(ctx, "fixtures/headtohead", params, &out); err != nil {
		return nil, fmt.Errorf("head to head %d-%d: %w", teamAID, teamBID, err)
	}
	return mapMeetings(out.Response), nil
}

// Fixtures fetches a league's fixtures inside a date window.
func (c *Client) Fixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]predictor.Fixture, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	if !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.Format("2006-01-02"))
	}

	var out fixturesResponse
	if err := c.get(ctx, "fixtures", params, &out); err != nil {
		return nil, fmt.Errorf("fixtures for league %d: %w", leagueID, err)
	}
	return mapFixtures(out.Response), nil
}

// get performs a cached GET with retries. Transient failures back off
// exponentially; a 429 honours the Retry-After header the provider sends.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	if data, ok := c.cached(requestURL); ok {
		return decode(data, out)
	}

	headers := map[string]string{
		"x-rapidapi-host": "v3.football.api-sports.io",
		"x-rapidapi-key":  c.apiKey,
		"Accept":          "application/json",
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, resp, err := transport.Get(ctx, requestURL, headers)
		if err != nil {
			lastErr = err
			logger.Warn("Provider request failed, retrying", endpoint, err)
			c.sleep(backoff(attempt))
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			if err := decode(data, out); err != nil {
				return err
			}
			c.store(requestURL, data)
			return nil
		case http.StatusTooManyRequests:
			wait := retryAfter(resp, 60*time.Second)
			logger.Warn("Rate limit hit, waiting", endpoint, wait.String())
			c.sleep(wait)
			lastErr = fmt.Errorf("rate limited")
		case http.StatusForbidden:
			// Retrying an auth failure only burns quota.
			return fmt.Errorf("access denied: check API key and subscription")
		default:
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			c.sleep(backoff(attempt))
		}
	}

	return fmt.Errorf("request to %s failed after %d attempts: %w", endpoint, c.maxRetries, lastErr)
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Since(entry.fetched) > c.cacheTTL {
		return nil, false
	}
	return entry.data, true
}

func (c *Client) store(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{data: data, fetched: time.Now()}
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

// decode unmarshals a response body and surfaces any API-level errors the
// provider reports inside a 200 response.
func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid API response: %w", err)
	}

	if carrier, ok := out.(interface{ apiErrors() rawErrors }); ok {
		if errs := carrier.apiErrors(); len(errs) > 0 {
			return fmt.Errorf("API returned errors: %s", strings.Join(errs, "; "))
		}
	}
	return nil
}

func (e envelope) apiErrors() rawErrors {
	return e.Errors
}

// rawErrors tolerates the provider's two error encodings: an empty array on
// success and a map of message strings on failure.
type rawErrors []string

func (e *rawErrors) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("[]")) ||
		bytes.Equal(trimmed, []byte("{}")) {
		*e = nil
		return nil
	}

	if trimmed[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		for key, msg := range m {
			*e = append(*e, key+": "+msg)
		}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return err
	}
	*e = arr
	return nil
}
