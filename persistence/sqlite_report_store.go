package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexcodex/bonebudget/framework"
)

// SQLiteReportStore persists reports in a SQLite database.
type SQLiteReportStore struct {
	db *sql.DB
}

var _ ReportStore = (*SQLiteReportStore)(nil)

// NewSQLiteReportStore opens/creates the database at dbPath.
func NewSQLiteReportStore(dbPath string) (*SQLiteReportStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	store := &SQLiteReportStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteReportStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		scene TEXT NOT NULL,
		platform TEXT NOT NULL,
		chain_count INTEGER NOT NULL,
		transform_count INTEGER NOT NULL,
		collider_count INTEGER NOT NULL,
		collision_check_count INTEGER NOT NULL,
		contact_count INTEGER NOT NULL,
		ratings TEXT NOT NULL,
		overall TEXT NOT NULL,
		chains TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS reports_created_at ON reports(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteReportStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts a report.
func (s *SQLiteReportStore) Save(ctx context.Context, report *Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	stamp(report)
	ratings, err := json.Marshal(report.Ratings)
	if err != nil {
		return err
	}
	chains, err := json.Marshal(report.Chains)
	if err != nil {
		return err
	}
	query := `
	INSERT INTO reports (
		id, scene, platform, chain_count, transform_count, collider_count,
		collision_check_count, contact_count, ratings, overall, chains, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		scene=excluded.scene,
		platform=excluded.platform,
		chain_count=excluded.chain_count,
		transform_count=excluded.transform_count,
		collider_count=excluded.collider_count,
		collision_check_count=excluded.collision_check_count,
		contact_count=excluded.contact_count,
		ratings=excluded.ratings,
		overall=excluded.overall,
		chains=excluded.chains,
		created_at=excluded.created_at
	`
	_, err = s.db.ExecContext(ctx, query,
		report.ID,
		report.Scene,
		report.Platform,
		report.Stats.ChainCount,
		report.Stats.TransformCount,
		report.Stats.ColliderCount,
		report.Stats.CollisionCheckCount,
		report.Stats.ContactCount,
		string(ratings),
		report.Overall.String(),
		string(chains),
		report.CreatedAt.UTC(),
	)
	return err
}

const selectReport = `
	SELECT id, scene, platform, chain_count, transform_count, collider_count,
		collision_check_count, contact_count, ratings, overall, chains, created_at
	FROM reports`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*Report, error) {
	var (
		r       Report
		ratings string
		overall string
		chains  sql.NullString
		created time.Time
	)
	if err := row.Scan(
		&r.ID,
		&r.Scene,
		&r.Platform,
		&r.Stats.ChainCount,
		&r.Stats.TransformCount,
		&r.Stats.ColliderCount,
		&r.Stats.CollisionCheckCount,
		&r.Stats.ContactCount,
		&ratings,
		&overall,
		&chains,
		&created,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ratings), &r.Ratings); err != nil {
		return nil, fmt.Errorf("report %s ratings: %w", r.ID, err)
	}
	if err := r.Overall.UnmarshalText([]byte(overall)); err != nil {
		return nil, fmt.Errorf("report %s: %w", r.ID, err)
	}
	if chains.Valid && chains.String != "" && chains.String != "null" {
		var list []framework.ChainReport
		if err := json.Unmarshal([]byte(chains.String), &list); err != nil {
			return nil, fmt.Errorf("report %s chains: %w", r.ID, err)
		}
		r.Chains = list
	}
	r.CreatedAt = created.UTC()
	return &r, nil
}

// Load retrieves a report by ID.
func (s *SQLiteReportStore) Load(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, selectReport+` WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return r, err
}

// List returns all reports, newest first.
func (s *SQLiteReportStore) List(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, selectReport+` ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// Delete removes a report.
func (s *SQLiteReportStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	return err
}
