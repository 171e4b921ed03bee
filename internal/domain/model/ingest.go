package model

import "time"

// IngestRunStatus tracks the lifecycle of a roster ingestion run.
type IngestRunStatus string

const (
	IngestRunRunning   IngestRunStatus = "running"
	IngestRunCompleted IngestRunStatus = "completed"
	IngestRunFailed    IngestRunStatus = "failed"
)

// IngestRun records one OneRoster synchronization pass.
type IngestRun struct {
	ID          string          `json:"id"          db:"id"`
	Status      IngestRunStatus `json:"status"      db:"status"`
	Users       int             `json:"users"       db:"users"`
	Classes     int             `json:"classes"     db:"classes"`
	Enrollments int             `json:"enrollments" db:"enrollments"`
	Error       *string         `json:"error,omitempty" db:"error"`
	StartedAt   time.Time       `json:"startedAt"   db:"started_at"`
	FinishedAt  *time.Time      `json:"finishedAt,omitempty" db:"finished_at"`
}
