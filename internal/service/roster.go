package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classdash/classdash/internal/data"
	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
	apperrors "github.com/classdash/classdash/internal/errors"
)

// RosterStore is the repository surface RosterService needs. *data.RosterRepo
// satisfies it.
type RosterStore interface {
	Snapshot(ctx context.Context) (*model.RosterPayload, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetClass(ctx context.Context, classID string) (*model.Class, error)
	EnrollmentsForUser(ctx context.Context, userID string) ([]model.Enrollment, error)
	EnrollmentsForClass(ctx context.Context, classID string) ([]model.Enrollment, error)
	SearchClasses(ctx context.Context, term string) ([]model.Class, error)
	ReplaceAll(ctx context.Context, in data.ReplaceInput) error
}

// SnapshotCache caches the flat roster snapshot. *redis.PayloadCache satisfies
// it; a nil cache disables caching.
type SnapshotCache interface {
	Get(ctx context.Context) (*model.RosterPayload, error)
	Set(ctx context.Context, payload *model.RosterPayload) error
	Invalidate(ctx context.Context) error
}

// RosterServiceOptions groups dependencies for RosterService.
type RosterServiceOptions struct {
	Store  RosterStore
	Cache  SnapshotCache
	Logger *slog.Logger
}

// RosterService serves roster payloads for the dashboard API.
type RosterService struct {
	store  RosterStore
	cache  SnapshotCache
	logger *slog.Logger
}

// NewRosterService constructs a new RosterService.
func NewRosterService(opts RosterServiceOptions) *RosterService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{
		store:  opts.Store,
		cache:  opts.Cache,
		logger: logger.With("component", "roster_service"),
	}
}

// Snapshot returns the flat roster payload, from cache when possible. Cache
// failures degrade to a database read rather than failing the request.
func (s *RosterService) Snapshot(ctx context.Context) (*model.RosterPayload, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "snapshot cache read failed", "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	payload, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, payload); cacheErr != nil {
			s.logger.WarnContext(ctx, "snapshot cache write failed", "err", cacheErr)
		}
	}
	return payload, nil
}

// DashboardFor builds the pre-resolved payload for an authenticated viewer:
// their profile, their enrollments, the classes those reference, and (for
// teacher viewers) the student roster of each class.
func (s *RosterService) DashboardFor(ctx context.Context, viewer domainauth.Session) (*model.DashboardPayload, error) {
	user, err := s.store.GetUser(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFoundf("no roster record for user %s", viewer.UserID)
		}
		return nil, fmt.Errorf("load viewer profile: %w", err)
	}

	enrollments, err := s.store.EnrollmentsForUser(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("load viewer enrollments: %w", err)
	}

	payload := &model.DashboardPayload{
		UserProfile: *user,
		Enrollments: enrollments,
		Classes:     []model.Class{},
	}

	seen := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		if seen[e.ClassID] {
			continue
		}
		seen[e.ClassID] = true

		class, classErr := s.store.GetClass(ctx, e.ClassID)
		if classErr != nil {
			if errors.Is(classErr, data.ErrClassNotFound) {
				// The dashboard renders a fallback name for classes the feed
				// never delivered.
				continue
			}
			return nil, fmt.Errorf("load class %s: %w", e.ClassID, classErr)
		}
		payload.Classes = append(payload.Classes, *class)
	}

	if user.IsTeacher() {
		payload.Rosters = make(map[string][]model.Enrollment, len(seen))
		for _, e := range enrollments {
			if e.Role != domainauth.RoleTeacher {
				continue
			}
			if _, ok := payload.Rosters[e.ClassID]; ok {
				continue
			}
			classEnrollments, rosterErr := s.store.EnrollmentsForClass(ctx, e.ClassID)
			if rosterErr != nil {
				return nil, fmt.Errorf("load roster for class %s: %w", e.ClassID, rosterErr)
			}
			payload.Rosters[e.ClassID] = classEnrollments
		}
	}

	return payload, nil
}

// RosterFor returns the student roster for one class in feed order. Students
// with no user record get a placeholder so the row count still matches the
// enrollment count.
func (s *RosterService) RosterFor(ctx context.Context, classID string) ([]model.User, error) {
	if classID == "" {
		return nil, apperrors.Validation("class ID is required")
	}

	if _, err := s.store.GetClass(ctx, classID); err != nil {
		if errors.Is(err, data.ErrClassNotFound) {
			return nil, apperrors.NotFoundf("class %s not found", classID)
		}
		return nil, fmt.Errorf("load class: %w", err)
	}

	enrollments, err := s.store.EnrollmentsForClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("load class enrollments: %w", err)
	}

	roster := make([]model.User, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Role != domainauth.RoleStudent {
			continue
		}
		user, userErr := s.store.GetUser(ctx, e.UserID)
		if userErr != nil {
			if errors.Is(userErr, data.ErrUserNotFound) {
				roster = append(roster, model.User{
					UserID:    e.UserID,
					FirstName: "Unknown",
					LastName:  "Student",
					Role:      domainauth.RoleStudent,
				})
				continue
			}
			return nil, fmt.Errorf("load roster member %s: %w", e.UserID, userErr)
		}
		roster = append(roster, *user)
	}
	return roster, nil
}

// SearchClasses returns classes matching the term for the class picker.
func (s *RosterService) SearchClasses(ctx context.Context, term string) ([]model.Class, error) {
	classes, err := s.store.SearchClasses(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search classes: %w", err)
	}
	return classes, nil
}
