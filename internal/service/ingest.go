package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/classdash/classdash/internal/adapters/oneroster"
	"github.com/classdash/classdash/internal/data"
	"github.com/classdash/classdash/internal/domain/model"
)

// RosterFeed is the upstream SIS surface IngestService pulls from.
// *oneroster.Client satisfies it.
type RosterFeed interface {
	FetchUsers(ctx context.Context) ([]model.User, error)
	FetchClasses(ctx context.Context) ([]model.Class, error)
	FetchEnrollments(ctx context.Context) ([]oneroster.EnrollmentRecord, error)
}

// IngestRunRecorder records run outcomes. *data.IngestRunRepo satisfies it.
type IngestRunRecorder interface {
	Start(ctx context.Context) (*model.IngestRun, error)
	Complete(ctx context.Context, id string, counts data.RunCounts) error
	Fail(ctx context.Context, id string, runErr error) error
}

const defaultIngestInterval = time.Hour

// IngestServiceOptions groups dependencies for IngestService.
type IngestServiceOptions struct {
	Feed  RosterFeed
	Store RosterStore
	Runs  IngestRunRecorder
	// Cache is invalidated after each successful sync; nil disables.
	Cache SnapshotCache
	// Interval between scheduled runs. Zero uses the default.
	Interval time.Duration
	Logger   *slog.Logger
}

// IngestService synchronizes the stored roster from the OneRoster feed.
type IngestService struct {
	feed     RosterFeed
	store    RosterStore
	runs     IngestRunRecorder
	cache    SnapshotCache
	interval time.Duration
	logger   *slog.Logger
}

// NewIngestService constructs a new IngestService.
func NewIngestService(opts IngestServiceOptions) *IngestService {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultIngestInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		feed:     opts.Feed,
		store:    opts.Store,
		runs:     opts.Runs,
		cache:    opts.Cache,
		interval: interval,
		logger:   logger.With("component", "ingest_service"),
	}
}

// RunOnce performs one full sync: the three collections are fetched
// concurrently, then swapped into the database in a single transaction.
func (s *IngestService) RunOnce(ctx context.Context) error {
	run, err := s.runs.Start(ctx)
	if err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}

	counts, syncErr := s.sync(ctx)
	if syncErr != nil {
		s.logger.ErrorContext(ctx, "roster sync failed", "run_id", run.ID, "err", syncErr)
		if failErr := s.runs.Fail(ctx, run.ID, syncErr); failErr != nil {
			s.logger.ErrorContext(ctx, "failed to record run failure", "run_id", run.ID, "err", failErr)
		}
		return syncErr
	}

	if completeErr := s.runs.Complete(ctx, run.ID, counts); completeErr != nil {
		s.logger.ErrorContext(ctx, "failed to record run completion", "run_id", run.ID, "err", completeErr)
	}

	s.logger.InfoContext(ctx, "roster sync completed",
		"run_id", run.ID,
		"users", counts.Users,
		"classes", counts.Classes,
		"enrollments", counts.Enrollments,
	)
	return nil
}

func (s *IngestService) sync(ctx context.Context) (data.RunCounts, error) {
	var (
		users       []model.User
		classes     []model.Class
		enrollments []oneroster.EnrollmentRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.feed.FetchUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		classes, err = s.feed.FetchClasses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		enrollments, err = s.feed.FetchEnrollments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return data.RunCounts{}, fmt.Errorf("fetch feed: %w", err)
	}

	in := data.ReplaceInput{
		Users:         users,
		Classes:       classes,
		Enrollments:   make([]model.Enrollment, len(enrollments)),
		EnrollmentIDs: make([]string, len(enrollments)),
	}
	for i, rec := range enrollments {
		in.Enrollments[i] = rec.Enrollment
		in.EnrollmentIDs[i] = rec.ID
	}

	if err := s.store.ReplaceAll(ctx, in); err != nil {
		return data.RunCounts{}, fmt.Errorf("store roster: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "snapshot cache invalidation failed", "err", err)
		}
	}

	return data.RunCounts{
		Users:       len(users),
		Classes:     len(classes),
		Enrollments: len(enrollments),
	}, nil
}

// Run syncs immediately and then on the configured interval until the context
// is canceled.
func (s *IngestService) Run(ctx context.Context) error {
	if err := s.RunOnce(ctx); err != nil {
		// A failed run does not stop the schedule; the next tick retries.
		s.logger.WarnContext(ctx, "initial roster sync failed", "err", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled roster sync failed", "err", err)
			}
		}
	}
}
