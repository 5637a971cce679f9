package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUser(ctx context.Context, id string) (domain.User, error) {
	var (
		u     domain.User
		prefs sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, email_preferences FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &prefs)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.EmailPreferences, err = domain.ParseEmailPreferences([]byte(mapNullString(prefs)))
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var prefs sql.NullString
	if u.EmailPreferences != nil {
		raw, err := json.Marshal(u.EmailPreferences)
		if err != nil {
			return err
		}
		prefs = sql.NullString{String: string(raw), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, email_preferences) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, prefs,
	)
	return mapConflict(err)
}
