package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/Rasak123/betting-predictor/pkg/chat"
	"github.com/Rasak123/betting-predictor/pkg/predictor"
	"github.com/Rasak123/betting-predictor/pkg/provider"
	"github.com/Rasak123/betting-predictor/pkg/store"
)

func main() {
	leagues := flag.String("leagues", "39", "comma-separated league IDs to scan")
	season := flag.Int("season", time.Now().Year(), "season year")
	days := flag.Int("days", 7, "days ahead to look for fixtures")
	dbPath := flag.String("db", "predictions.db", "prediction database path")
	logPath := flag.String("log", "", "log to this file instead of the console")
	verbose := flag.Bool("v", false, "enable debug logging")
	workers := flag.Int("workers", 4, "concurrent fixture predictions")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}
	if *logPath != "" {
		if err := logger.SetLogFile(*logPath, false); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	}

	logger.Info("Starting betting-predictor")

	leagueIDs, err := parseLeagues(*leagues)
	if err != nil {
		logger.Fatal("Invalid -leagues value:", err)
	}

	if err := run(context.Background(), leagueIDs, *season, *days, *dbPath, *workers); err != nil {
		logger.Error("Prediction run failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, leagues []int, season, days int, dbPath string, workers int) error {
	client, err := provider.NewClient()
	if err != nil {
		return err
	}
	if err := client.VerifyConnection(ctx); err != nil {
		return err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := predictor.NewPredictor(predictor.DefaultConfig())
	if err != nil {
		return err
	}

	from := time.Now()
	to := from.AddDate(0, 0, days)

	var fixtures []predictor.Fixture
	for _, leagueID := range leagues {
		found, err := client.Fixtures(ctx, leagueID, season, from, to)
		if err != nil {
			logger.Warn("Skipping league", leagueID, err)
			continue
		}
		logger.Info("Found fixtures for league", leagueID, len(found))
		fixtures = append(fixtures, found...)
	}
	if len(fixtures) == 0 {
		logger.Info("No upcoming fixtures in the window")
		return nil
	}

	// Predictions are independent of each other, so fixtures fan out across
	// a bounded worker group.
	var mu sync.Mutex
	var docs []*predictor.Document

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, fixture := range fixtures {
		fixture := fixture // per-iteration copy; required while building with Go < 1.22
		g.Go(func() error {
			doc, err := predictFixture(gctx, client, engine, fixture)
			if err != nil {
				// One bad fixture should not sink the whole run.
				logger.Warn("Skipping fixture", fixture.HomeTeam, "vs", fixture.AwayTeam, err)
				return nil
			}
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Match.Date < docs[j].Match.Date })

	for _, doc := range docs {
		if err := db.SavePrediction(doc); err != nil {
			logger.Warn("Failed to persist prediction", doc.Match.ID, err)
		}
		for _, chunk := range chat.Split(chat.FormatPrediction(doc)) {
			fmt.Println(chunk)
			fmt.Println()
		}
	}

	logger.Info("Predicted fixtures:", len(docs))
	return nil
}

// predictFixture gathers the engine's inputs for one fixture and runs the
// model. League and season context rides along on the fixture itself.
func predictFixture(ctx context.Context, client *provider.Client, engine *predictor.Predictor, fixture predictor.Fixture) (*predictor.Document, error) {
	homeStats, err := client.TeamStatistics(ctx, fixture.HomeID, fixture.LeagueID, fixture.Season)
	if err != nil {
		return nil, err
	}
	awayStats, err := client.TeamStatistics(ctx, fixture.AwayID, fixture.LeagueID, fixture.Season)
	if err != nil {
		return nil, err
	}

	meetings, err := client.HeadToHead(ctx, fixture.HomeID, fixture.AwayID, 20)
	if err != nil {
		// Head-to-head is optional input; a failed lookup just lowers
		// confidence.
		logger.Warn("No head-to-head history available", fixture.HomeTeam, "vs", fixture.AwayTeam, err)
		meetings = nil
	}

	prediction, err := engine.Predict(fixture, homeStats, awayStats, meetings)
	if err != nil {
		return nil, err
	}
	return prediction.Document(), nil
}

func parseLeagues(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("league ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
