package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cycle-metrics/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path}
}

func (s *SQLiteStore) Init() error {
	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		source TEXT
	);
	CREATE INDEX IF NOT EXISTS runs_timestamp ON runs(timestamp);
	CREATE TABLE IF NOT EXISTS run_metrics (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);`

	_, err = s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	return nil
}

// StoreRun inserts the run and its metrics in one transaction.
func (s *SQLiteStore) StoreRun(ctx context.Context, run domain.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO runs(run_id, timestamp, source) VALUES(?, ?, ?)", run.RunID, run.Timestamp, run.Source)
	if err != nil {
		return fmt.Errorf("error inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO run_metrics(run_id, position, name, unit, value) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, m := range run.Metrics {
		if _, err := stmt.ExecContext(ctx, run.RunID, i, m.Name, m.Unit, m.Value); err != nil {
			return fmt.Errorf("error inserting metric: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRuns(ctx context.Context, startTime, endTime int64, limit, offset int) ([]domain.RunRecord, error) {
	query := "SELECT run_id, timestamp, source FROM runs WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC, rowid ASC"
	args := []interface{}{startTime, endTime}

	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if offset < 0 {
		offset = 0
	}
	query += " OFFSET ?"
	args = append(args, offset)

	runs, err := s.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Metrics, err = s.runMetrics(ctx, runs[i].RunID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (domain.RunRecord, error) {
	runs, err := s.queryRuns(ctx, "SELECT run_id, timestamp, source FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT 1")
	if err != nil {
		return domain.RunRecord{}, err
	}
	if len(runs) == 0 {
		return domain.RunRecord{}, domain.ErrRunNotFound
	}

	run := runs[0]
	if run.Metrics, err = s.runMetrics(ctx, run.RunID); err != nil {
		return domain.RunRecord{}, err
	}
	return run, nil
}

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...interface{}) ([]domain.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var fetched []domain.RunRecord

	for rows.Next() {
		var r domain.RunRecord
		var source sql.NullString

		if err := rows.Scan(&r.RunID, &r.Timestamp, &source); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		r.Source = source.String
		fetched = append(fetched, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return fetched, nil
}

func (s *SQLiteStore) runMetrics(ctx context.Context, runID string) (domain.MetricSet, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, unit, value FROM run_metrics WHERE run_id = ? ORDER BY position ASC", runID)
	if err != nil {
		return nil, fmt.Errorf("error querying metrics: %w", err)
	}
	defer rows.Close()

	set := domain.MetricSet{}
	for rows.Next() {
		var m domain.Metric
		if err := rows.Scan(&m.Name, &m.Unit, &m.Value); err != nil {
			return nil, fmt.Errorf("error scanning metric: %w", err)
		}
		set = append(set, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return set, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
