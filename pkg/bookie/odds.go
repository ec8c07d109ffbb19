package bookie

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/Rasak123/betting-predictor/pkg/transport"
)

// MatchOdds holds one bookmaker's decimal 1X2 prices for a match.
type MatchOdds struct {
	HomeTeam string  `json:"homeTeam"`
	AwayTeam string  `json:"awayTeam"`
	Home     float64 `json:"home"`
	Draw     float64 `json:"draw"`
	Away     float64 `json:"away"`
}

// ImpliedProbabilities converts decimal prices to a probability triple with
// the bookmaker's overround stripped out, so the triple sums to 1 and is
// directly comparable with the model's output.
func (o MatchOdds) ImpliedProbabilities() (home, draw, away float64) {
	if o.Home <= 1 || o.Draw <= 1 || o.Away <= 1 {
		return 0, 0, 0
	}
	home = 1.0 / o.Home
	draw = 1.0 / o.Draw
	away = 1.0 / o.Away

	overround := home + draw + away
	return home / overround, draw / overround, away / overround
}

// Scraper pulls 1X2 odds tables off a bookmaker comparison page. It is a
// best-effort collaborator for showing model-versus-market edge; the
// prediction engine never depends on it.
type Scraper struct {
	baseURL string
}

// NewScraper builds a scraper for the given odds site base URL.
func NewScraper(baseURL string) *Scraper {
	return &Scraper{baseURL: strings.TrimRight(baseURL, "/")}
}

// LeagueOdds fetches and parses the odds listing for one league page path.
func (s *Scraper) LeagueOdds(ctx context.Context, path string) ([]MatchOdds, error) {
	html, err := transport.GetHTML(ctx, s.baseURL+"/"+strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("fetch odds page: %w", err)
	}
	return ParseOddsTable(html)
}

// ParseOddsTable extracts match rows from an odds listing document. Rows
// that fail to parse are skipped with a warning rather than failing the
// whole page; odds sites reshuffle markup constantly.
func ParseOddsTable(html []byte) ([]MatchOdds, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, fmt.Errorf("parse odds page: %w", err)
	}

	var odds []MatchOdds
	doc.Find("tr.match-row, tr[data-match]").Each(func(_ int, row *goquery.Selection) {
		teams := strings.SplitN(row.Find(".match-name, td.name").First().Text(), " - ", 2)
		if len(teams) != 2 {
			return
		}

		prices := row.Find("td.odds, .odds-cell")
		if prices.Length() < 3 {
			logger.Warn("Odds row missing prices", strings.TrimSpace(teams[0]))
			return
		}

		home, err1 := parsePrice(prices.Eq(0).Text())
		draw, err2 := parsePrice(prices.Eq(1).Text())
		away, err3 := parsePrice(prices.Eq(2).Text())
		if err1 != nil || err2 != nil || err3 != nil {
			return
		}

		odds = append(odds, MatchOdds{
			HomeTeam: strings.TrimSpace(teams[0]),
			AwayTeam: strings.TrimSpace(teams[1]),
			Home:     home,
			Draw:     draw,
			Away:     away,
		})
	})

	return odds, nil
}

func parsePrice(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("bad price %q: %w", text, err)
	}
	return value, nil
}
