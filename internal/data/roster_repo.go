package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/classdash/classdash/internal/data/pgxutil"
	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
)

// RosterRepo provides database operations for the synced roster: users,
// classes, and enrollments.
type RosterRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRosterRepo creates a new RosterRepo with real time provider.
func NewRosterRepo(db *sql.DB) *RosterRepo {
	return &RosterRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRosterRepoWithTimeProvider creates a new RosterRepo with a custom time provider (useful for tests).
func NewRosterRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RosterRepo {
	return &RosterRepo{DB: db, timeProvider: tp}
}

const (
	userColumnsQuery = `
		SELECT user_id, sourced_id, tenant_id, first_name, last_name, email, role
		FROM users`

	classColumnsQuery = `
		SELECT class_id, class_name, course_code
		FROM classes`

	enrollmentColumnsQuery = `
		SELECT user_id, class_id, role
		FROM enrollments`
)

// Snapshot loads the entire roster as one flat payload. Enrollment order is
// stable across calls: feed position first, then insertion order.
func (r *RosterRepo) Snapshot(ctx context.Context) (*model.RosterPayload, error) {
	payload := &model.RosterPayload{
		Users:       []model.User{},
		Enrollments: []model.Enrollment{},
		Classes:     []model.Class{},
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userColumnsQuery+` ORDER BY user_id`)
		if err != nil {
			return err
		}
		payload.Users, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		if err != nil {
			return err
		}

		rows, err = conn.Query(ctx, classColumnsQuery+` ORDER BY class_id`)
		if err != nil {
			return err
		}
		payload.Classes, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Class])
		if err != nil {
			return err
		}

		rows, err = conn.Query(ctx, enrollmentColumnsQuery+` ORDER BY position, created_at, enrollment_id`)
		if err != nil {
			return err
		}
		payload.Enrollments, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Enrollment])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load roster snapshot: %w", err)
	}

	// CollectRows returns nil for empty result sets; keep the collections
	// non-nil so the payload stays valid.
	if payload.Users == nil {
		payload.Users = []model.User{}
	}
	if payload.Classes == nil {
		payload.Classes = []model.Class{}
	}
	if payload.Enrollments == nil {
		payload.Enrollments = []model.Enrollment{}
	}
	return payload, nil
}

// GetUser retrieves a user by ID.
func (r *RosterRepo) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userColumnsQuery+` WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetClass retrieves a class by ID.
func (r *RosterRepo) GetClass(ctx context.Context, classID string) (*model.Class, error) {
	var class model.Class
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, classColumnsQuery+` WHERE class_id = $1`, classID)
		if err != nil {
			return err
		}
		class, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Class])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &class, nil
}

// EnrollmentsForUser returns the enrollments for one user in feed order.
func (r *RosterRepo) EnrollmentsForUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx, ` WHERE user_id = $1`, userID)
}

// EnrollmentsForClass returns the enrollments for one class in feed order.
func (r *RosterRepo) EnrollmentsForClass(ctx context.Context, classID string) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx, ` WHERE class_id = $1`, classID)
}

func (r *RosterRepo) listEnrollments(ctx context.Context, where string, args ...any) ([]model.Enrollment, error) {
	var out []model.Enrollment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, enrollmentColumnsQuery+where+` ORDER BY position, created_at, enrollment_id`, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Enrollment])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if out == nil {
		out = []model.Enrollment{}
	}
	return out, nil
}

// SearchClasses returns classes whose name or course code matches the term,
// case-insensitively. An empty term returns all classes.
func (r *RosterRepo) SearchClasses(ctx context.Context, term string) ([]model.Class, error) {
	term = strings.TrimSpace(term)

	var out []model.Class
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var (
			rows pgx.Rows
			err  error
		)
		if term == "" {
			rows, err = conn.Query(ctx, classColumnsQuery+` ORDER BY class_name, class_id`)
		} else {
			rows, err = conn.Query(ctx,
				classColumnsQuery+` WHERE class_name ILIKE $1 OR course_code ILIKE $1 ORDER BY class_name, class_id`,
				"%"+term+"%")
		}
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Class])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search classes: %w", err)
	}
	if out == nil {
		out = []model.Class{}
	}
	return out, nil
}

// ReplaceInput carries one full roster sync for ReplaceAll. EnrollmentIDs runs
// parallel to Enrollments and holds each row's stable feed identifier.
type ReplaceInput struct {
	Users         []model.User
	Classes       []model.Class
	Enrollments   []model.Enrollment
	EnrollmentIDs []string
}

// ReplaceAll swaps the stored roster for the given one in a single
// transaction, so readers never observe a half-synced roster.
func (r *RosterRepo) ReplaceAll(ctx context.Context, in ReplaceInput) error {
	if len(in.EnrollmentIDs) != len(in.Enrollments) {
		return errors.New("enrollment IDs must run parallel to enrollments")
	}

	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		for _, table := range []string{"enrollments", "classes", "users"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		batch := &pgx.Batch{}
		for _, u := range in.Users {
			batch.Queue(`
				INSERT INTO users (user_id, sourced_id, tenant_id, first_name, last_name, email, role, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
				u.UserID, u.SourcedID, u.TenantID, u.FirstName, u.LastName, u.Email, normalizeRole(u.Role), now)
		}
		for _, c := range in.Classes {
			batch.Queue(`
				INSERT INTO classes (class_id, class_name, course_code, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $4)`,
				c.ClassID, c.ClassName, c.CourseCode, now)
		}
		for i, e := range in.Enrollments {
			batch.Queue(`
				INSERT INTO enrollments (enrollment_id, user_id, class_id, role, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				in.EnrollmentIDs[i], e.UserID, e.ClassID, normalizeRole(e.Role), i, now)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range batch.Len() {
			if _, err := br.Exec(); err != nil {
				return err
			}
		}
		return br.Close()
	}})
	if err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func normalizeRole(role domainauth.Role) domainauth.Role {
	return domainauth.ParseRole(string(role))
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, pgErr.Detail)
	}
	return fmt.Errorf("replace roster: %w", err)
}
