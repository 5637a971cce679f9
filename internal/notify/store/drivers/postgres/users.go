package postgres

import (
	"context"
	"encoding/json"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct {
	pool *pgxpool.Pool
}

func (r *usersRepo) GetUser(ctx context.Context, id string) (domain.User, error) {
	var (
		u     domain.User
		prefs []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, email_preferences FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &prefs)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.EmailPreferences, err = domain.ParseEmailPreferences(prefs)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var prefs []byte
	if u.EmailPreferences != nil {
		raw, err := json.Marshal(u.EmailPreferences)
		if err != nil {
			return err
		}
		prefs = raw
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, email_preferences) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Email, prefs,
	)
	return mapConflict(err)
}
