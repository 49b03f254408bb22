package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

// SQLiteStore keeps runs in a sqlite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sqlx.DB
}

type runRow struct {
	ID        string `db:"id"`
	StartedAt int64  `db:"started_at"`
	Phase     string `db:"phase"`
	Payload   []byte `db:"payload"`
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", s.path)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			phase TEXT NOT NULL,
			payload BLOB NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return fmt.Errorf("create runs table: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run v1alpha1.OptimizationRun) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := encodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO runs (id, started_at, phase, payload)
		VALUES (:id, :started_at, :phase, :payload)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			phase = excluded.phase,
			payload = excluded.payload
	`, runRow{
		ID:        run.ID,
		StartedAt: run.Status.StartedAt.UnixNano(),
		Phase:     string(run.Status.Phase),
		Payload:   payload,
	})
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (v1alpha1.OptimizationRun, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return v1alpha1.OptimizationRun{}, false, err
	}

	var row runRow
	err = db.GetContext(ctx, &row, `SELECT id, started_at, phase, payload FROM runs WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v1alpha1.OptimizationRun{}, false, nil
		}
		return v1alpha1.OptimizationRun{}, false, err
	}

	run, err := decodeRun(row.Payload)
	if err != nil {
		return v1alpha1.OptimizationRun{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]v1alpha1.OptimizationRun, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var rows []runRow
	if err := db.SelectContext(ctx, &rows, `SELECT id, started_at, phase, payload FROM runs ORDER BY started_at, id`); err != nil {
		return nil, err
	}

	runs := make([]v1alpha1.OptimizationRun, 0, len(rows))
	for _, row := range rows {
		run, err := decodeRun(row.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode run %s: %w", row.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Prune deletes the runs started before cutoff and reports how many were
// removed.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sqlx.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}
