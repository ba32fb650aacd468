package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Analysis run statuses.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
	RunStatusSkipped   = "SKIPPED"
)

// AnalysisRun records one invocation of the scheduled analyzer, for reporting
// and troubleshooting. Detail holds per-forum post counts as JSON.
type AnalysisRun struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	Status          string         `gorm:"not null" json:"status"`
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt     sql.NullTime   `json:"completed_at"`
	ForumsProcessed int            `gorm:"not null;default:0" json:"forums_processed"`
	PostsAnalyzed   int            `gorm:"not null;default:0" json:"posts_analyzed"`
	PostsFailed     int            `gorm:"not null;default:0" json:"posts_failed"`
	ErrorMessage    sql.NullString `json:"error_message"`
	Detail          datatypes.JSON `json:"detail"`
}

// TableName specifies the table name for the AnalysisRun model.
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
