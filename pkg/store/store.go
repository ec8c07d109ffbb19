package store

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Rasak123/betting-predictor/internal/logger"
	"github.com/Rasak123/betting-predictor/pkg/predictor"
	_ "modernc.org/sqlite"
)

// Store persists emitted prediction documents so past runs can later be
// reviewed against actual results. The engine itself never touches it; the
// CLI writes documents through here after each run.
type Store struct {
	db *sql.DB
}

// PredictionRecord is the stored row for one fixture's prediction. Column
// definitions live in struct tags so the schema and the type cannot drift
// apart.
type PredictionRecord struct {
	FixtureID  int       `column:"fixture_id" dbtype:"INTEGER NOT NULL" primary:"true"`
	HomeTeam   string    `column:"home_team" dbtype:"TEXT NOT NULL"`
	AwayTeam   string    `column:"away_team" dbtype:"TEXT NOT NULL"`
	League     string    `column:"league" dbtype:"TEXT"`
	Kickoff    string    `column:"kickoff" dbtype:"TEXT"`
	Outcome    string    `column:"outcome" dbtype:"TEXT"`
	Confidence float64   `column:"confidence" dbtype:"REAL DEFAULT 0.0"`
	Document   string    `column:"document" dbtype:"TEXT NOT NULL"`
	CreatedAt  time.Time `column:"created_at" dbtype:"DATETIME"`
}

// Open opens (creating if necessary) the prediction database at path.
// ":memory:" is supported for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTable(&PredictionRecord{}, "predictions"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Prediction store opened", path)
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePrediction upserts the document for its fixture.
func (s *Store) SavePrediction(doc *predictor.Document) error {
	encoded, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode prediction for fixture %d: %w", doc.Match.ID, err)
	}

	record := &PredictionRecord{
		FixtureID:  doc.Match.ID,
		HomeTeam:   doc.Match.HomeTeam,
		AwayTeam:   doc.Match.AwayTeam,
		League:     doc.Match.League,
		Kickoff:    doc.Match.Date,
		Outcome:    doc.Prediction,
		Confidence: doc.Confidence,
		Document:   string(encoded),
		CreatedAt:  time.Now().UTC(),
	}
	return s.upsert(record, "predictions")
}

// GetPrediction loads the stored document for one fixture. A missing row is
// reported as sql.ErrNoRows wrapped with the fixture ID.
func (s *Store) GetPrediction(fixtureID int) (*predictor.Document, error) {
	var encoded string
	err := s.db.QueryRow("SELECT document FROM predictions WHERE fixture_id = ?", fixtureID).Scan(&encoded)
	if err != nil {
		return nil, fmt.Errorf("prediction for fixture %d: %w", fixtureID, err)
	}
	return predictor.DecodeDocument([]byte(encoded))
}

// ListPredictions returns all stored documents ordered by kickoff.
func (s *Store) ListPredictions() ([]*predictor.Document, error) {
	rows, err := s.db.Query("SELECT document FROM predictions ORDER BY kickoff")
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var docs []*predictor.Document
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, err
		}
		doc, err := predictor.DecodeDocument([]byte(encoded))
		if err != nil {
			logger.Warn("Skipping undecodable stored prediction", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

/////////////////////////////////////////////////////////////////////////
////// Tag-driven schema and upsert helpers
/////////////////////////////////////////////////////////////////////////

type columnSpec struct {
	name    string
	dbtype  string
	primary bool
	field   int
}

// columnsOf reads the column/dbtype/primary tags off a record struct.
func columnsOf(record any) ([]columnSpec, error) {
	t := reflect.TypeOf(record)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record must be a struct, got %s", t.Kind())
	}

	var specs []columnSpec
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("column")
		if name == "" {
			continue
		}
		specs = append(specs, columnSpec{
			name:    name,
			dbtype:  field.Tag.Get("dbtype"),
			primary: field.Tag.Get("primary") == "true",
			field:   i,
		})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("record %s has no column tags", t.Name())
	}
	return specs, nil
}

func (s *Store) createTable(record any, table string) error {
	specs, err := columnsOf(record)
	if err != nil {
		return err
	}

	var defs, keys []string
	for _, spec := range specs {
		defs = append(defs, spec.name+" "+spec.dbtype)
		if spec.primary {
			keys = append(keys, spec.name)
		}
	}
	if len(keys) > 0 {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (s *Store) upsert(record any, table string) error {
	specs, err := columnsOf(record)
	if err != nil {
		return err
	}

	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var names, placeholders []string
	var values []any
	for _, spec := range specs {
		names = append(names, spec.name)
		placeholders = append(placeholders, "?")
		field := v.Field(spec.field)
		if ts, ok := field.Interface().(time.Time); ok {
			values = append(values, ts.Format(time.RFC3339))
		} else {
			values = append(values, field.Interface())
		}
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}
