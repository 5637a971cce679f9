package sqlite

import (
	"fmt"

	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/sqlite/migrations"
	"github.com/golang-migrate/migrate/v4/database/sqlite"

	_ "modernc.org/sqlite"
)

// ApplyMigrations brings the schema up to date from the embedded files.
// The migrate driver wraps s.db and is not closed here, since closing it
// would close the store.
func (s *Store) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}
	_, err = store.Migrate(migrations.Migrations, "sqlite", driver)
	return err
}
