package postgres

import (
	"fmt"

	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/postgres/migrations"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplyMigrations brings the schema up to date from the embedded files.
// golang-migrate needs a database/sql handle, so one is borrowed from the pool
// for the duration of the run.
func (s *Store) ApplyMigrations() error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("postgres migrate driver: %w", err)
	}
	defer driver.Close()

	_, err = store.Migrate(migrations.Migrations, "pgx5", driver)
	return err
}
