package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alex-user-go/tripplan/internal/trip"
)

// Store persists successfully planned trips.
type Store interface {
	SavePlan(rec PlanRecord) error
	RecentPlans(limit int) ([]PlanRecord, error)
	Close() error
}

// PlanRecord is one stored planning result.
type PlanRecord struct {
	ID        string    `json:"id"`
	Locations []int     `json:"locations"`
	PlanSpec  string    `json:"plan"`
	MaxRun    int       `json:"max_run"`
	Days      trip.Plan `json:"days"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlanRecord builds a record with a fresh ID and timestamp.
func NewPlanRecord(locations []int, planSpec string, maxRun int, days trip.Plan) PlanRecord {
	return PlanRecord{
		ID:        uuid.New().String(),
		Locations: locations,
		PlanSpec:  planSpec,
		MaxRun:    maxRun,
		Days:      days,
		CreatedAt: time.Now().UTC(),
	}
}

// SQLiteStore implements Store using the pure Go sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the
// schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for better concurrency on small writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS plans (
        id TEXT PRIMARY KEY,
        locations TEXT NOT NULL,
        plan_spec TEXT NOT NULL,
        max_run INTEGER NOT NULL,
        days TEXT NOT NULL,
        created_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// SavePlan inserts a planning result. Locations and days are stored as
// JSON text.
func (s *SQLiteStore) SavePlan(rec PlanRecord) error {
	locations, err := json.Marshal(rec.Locations)
	if err != nil {
		return err
	}
	days, err := json.Marshal(rec.Days)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO plans(id, locations, plan_spec, max_run, days, created_at) VALUES(?,?,?,?,?,?)`,
		rec.ID, string(locations), rec.PlanSpec, rec.MaxRun, string(days),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// RecentPlans returns the most recently stored plans, newest first.
func (s *SQLiteStore) RecentPlans(limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, locations, plan_spec, max_run, days, created_at FROM plans ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PlanRecord, 0)
	for rows.Next() {
		var rec PlanRecord
		var locations, days, createdAt string
		if err := rows.Scan(&rec.ID, &locations, &rec.PlanSpec, &rec.MaxRun, &days, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(locations), &rec.Locations); err != nil {
			return nil, fmt.Errorf("corrupt locations for plan %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(days), &rec.Days); err != nil {
			return nil, fmt.Errorf("corrupt days for plan %s: %w", rec.ID, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
