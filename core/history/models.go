package history

import "time"

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusDryRun    = "dry-run"
	StatusNoChanges = "no-changes"
)

// Run is one sync invocation.
type Run struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	StartedAt  time.Time `gorm:"column:started_at;index"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	Status     string    `gorm:"column:status;type:varchar(16)"`
	Error      string    `gorm:"column:error;type:text"`

	SourceItemID      string `gorm:"column:source_item_id;type:varchar(64)"`
	SourceLayer       string `gorm:"column:source_layer;type:varchar(255)"`
	DestinationItemID string `gorm:"column:destination_item_id;type:varchar(64)"`
	DestinationLayer  string `gorm:"column:destination_layer;type:varchar(255)"`
	ReferenceKey      string `gorm:"column:reference_key;type:varchar(64)"`

	Adds    int `gorm:"column:adds;default:0"`
	Updates int `gorm:"column:updates;default:0"`
	Deletes int `gorm:"column:deletes;default:0"`

	AddsFailed    int `gorm:"column:adds_failed;default:0"`
	UpdatesFailed int `gorm:"column:updates_failed;default:0"`
	DeletesFailed int `gorm:"column:deletes_failed;default:0"`

	BackupPath string `gorm:"column:backup_path;type:varchar(1024)"`
}

func (Run) TableName() string {
	return "sync_runs"
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
