package history

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/drivee/bidprice-service/internal/apierr"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// EnsureSchema brings the local/test Postgres read tables up to the shape
// this service expects. Production tables are owned by the offline history
// pipeline; this is only for local and CI bring-up against an empty database.
func EnsureSchema(dsn string) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return apierr.Wrap(apierr.KindConfig, "failed to load embedded history migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return apierr.Wrap(apierr.KindConfig, "failed to initialise history schema migrator", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		_ = srcErr
		_ = dbErr
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apierr.Wrap(apierr.KindConfig, "failed to migrate history schema", err)
	}
	return nil
}
