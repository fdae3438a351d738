package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run *Run) error
}

// Nop discards runs. It is used when no history database is configured.
type Nop struct{}

func (Nop) Record(context.Context, *Run) error { return nil }

// Repository stores runs with GORM.
type Repository struct {
	db *gorm.DB
}

var _ Recorder = (*Repository)(nil)

// NewRepository creates a new repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the sync_runs table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	return nil
}

// Record inserts run, assigning an id when it has none.
func (r *Repository) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of 0 or less returns all runs.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
