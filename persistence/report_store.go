package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexcodex/bonebudget/framework"
)

// ErrReportNotFound is returned by Load when no report matches the ID.
var ErrReportNotFound = errors.New("report not found")

// Report is a persisted, rated estimation.
type Report struct {
	ID        string                     `json:"id"`
	Scene     string                     `json:"scene"`
	Platform  string                     `json:"platform"`
	Stats     framework.PerformanceStats `json:"stats"`
	Ratings   framework.StatsRating      `json:"ratings"`
	Overall   framework.Rating           `json:"overall"`
	Chains    []framework.ChainReport    `json:"chains,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

// NewReport rates est against table and stamps a fresh ID.
func NewReport(scene string, table framework.ThresholdTable, est *framework.Estimation) *Report {
	ratings := table.Rate(est.Stats)
	return &Report{
		ID:        uuid.NewString(),
		Scene:     scene,
		Platform:  table.Platform,
		Stats:     est.Stats,
		Ratings:   ratings,
		Overall:   ratings.Overall(),
		Chains:    est.Chains,
		CreatedAt: time.Now().UTC(),
	}
}

// ReportStore persists reports between runs.
type ReportStore interface {
	Save(ctx context.Context, report *Report) error
	Load(ctx context.Context, id string) (*Report, error)
	// List returns every report, newest first.
	List(ctx context.Context) ([]Report, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// FileReportStore stores reports as one JSON document on disk.
type FileReportStore struct {
	path  string
	mu    sync.RWMutex
	cache map[string]Report
}

// NewFileReportStore creates a store under the provided directory.
func NewFileReportStore(root string) (*FileReportStore, error) {
	if root == "" {
		return nil, errors.New("report store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	store := &FileReportStore{
		path:  filepath.Join(root, "reports.json"),
		cache: make(map[string]Report),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// load hydrates the in-memory cache from disk.
func (s *FileReportStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return err
	}
	for _, r := range reports {
		s.cache[r.ID] = r
	}
	return nil
}

// persist writes the cached reports back to disk after any mutation.
func (s *FileReportStore) persist() error {
	data, err := json.MarshalIndent(s.sorted(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileReportStore) sorted() []Report {
	reports := make([]Report, 0, len(s.cache))
	for _, r := range s.cache {
		reports = append(reports, r)
	}
	sortNewestFirst(reports)
	return reports
}

// Save writes a report to disk, assigning an ID and timestamp when missing.
func (s *FileReportStore) Save(ctx context.Context, report *Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(report)
	s.cache[report.ID] = *report
	return s.persist()
}

// Load retrieves a report by ID.
func (s *FileReportStore) Load(ctx context.Context, id string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cache[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return &r, nil
}

// List returns all reports, newest first.
func (s *FileReportStore) List(ctx context.Context) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// Delete removes a report.
func (s *FileReportStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, id)
	return s.persist()
}

// Close is a no-op; every mutation is already on disk.
func (s *FileReportStore) Close() error {
	return nil
}

func stamp(report *Report) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
}

func sortNewestFirst(reports []Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID < reports[j].ID
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
