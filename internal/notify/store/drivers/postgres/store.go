package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// NewStore connects a pool to url and verifies the connection.
func NewStore(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Tenants() store.Tenants   { return &tenantsRepo{pool: s.pool} }
func (s *Store) Projects() store.Projects { return &projectsRepo{pool: s.pool} }
func (s *Store) Tasks() store.Tasks       { return &tasksRepo{pool: s.pool} }
func (s *Store) Comments() store.Comments { return &commentsRepo{pool: s.pool} }
func (s *Store) Invites() store.Invites   { return &invitesRepo{pool: s.pool} }
func (s *Store) Users() store.Users       { return &usersRepo{pool: s.pool} }

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}

func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapText(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}

func mapTextNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func mapTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}

func mapOptionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
