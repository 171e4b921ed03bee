package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/classdash/classdash/internal/data/pgxutil"
	"github.com/classdash/classdash/internal/domain/model"
)

// IngestRunRepo records OneRoster synchronization runs for operator visibility.
type IngestRunRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewIngestRunRepo creates a new IngestRunRepo with real time provider.
func NewIngestRunRepo(db *sql.DB) *IngestRunRepo {
	return &IngestRunRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewIngestRunRepoWithTimeProvider creates an IngestRunRepo with a custom time provider.
func NewIngestRunRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *IngestRunRepo {
	return &IngestRunRepo{DB: db, timeProvider: tp}
}

const ingestRunColumnsQuery = `
	SELECT id, status, users, classes, enrollments, error, started_at, finished_at
	FROM ingest_runs`

// Start inserts a new running ingest run and returns it.
func (r *IngestRunRepo) Start(ctx context.Context) (*model.IngestRun, error) {
	run := &model.IngestRun{
		ID:        uuid.NewString(),
		Status:    model.IngestRunRunning,
		StartedAt: r.timeProvider.Now().UTC(),
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO ingest_runs (id, status, started_at)
			VALUES ($1, $2, $3)`,
			run.ID, run.Status, run.StartedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("start ingest run: %w", err)
	}
	return run, nil
}

// RunCounts carries the record totals for a completed run.
type RunCounts struct {
	Users       int
	Classes     int
	Enrollments int
}

// Complete marks a run as completed with its record counts.
func (r *IngestRunRepo) Complete(ctx context.Context, id string, counts RunCounts) error {
	return r.finish(ctx, id, model.IngestRunCompleted, counts, nil)
}

// Fail marks a run as failed with the error message.
func (r *IngestRunRepo) Fail(ctx context.Context, id string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	return r.finish(ctx, id, model.IngestRunFailed, RunCounts{}, &msg)
}

func (r *IngestRunRepo) finish(
	ctx context.Context,
	id string,
	status model.IngestRunStatus,
	counts RunCounts,
	errMsg *string,
) error {
	finishedAt := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE ingest_runs
			SET status = $2, users = $3, classes = $4, enrollments = $5, error = $6, finished_at = $7
			WHERE id = $1`,
			id, status, counts.Users, counts.Classes, counts.Enrollments, errMsg, finishedAt)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrIngestRunNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIngestRunNotFound) {
			return err
		}
		return fmt.Errorf("finish ingest run: %w", err)
	}
	return nil
}

// Latest returns the most recently started run.
func (r *IngestRunRepo) Latest(ctx context.Context) (*model.IngestRun, error) {
	var run model.IngestRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, ingestRunColumnsQuery+` ORDER BY started_at DESC LIMIT 1`)
		if err != nil {
			return err
		}
		run, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.IngestRun])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngestRunNotFound
		}
		return nil, fmt.Errorf("get latest ingest run: %w", err)
	}
	return &run, nil
}
