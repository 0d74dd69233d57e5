package store

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse" // clickhouse driver for migrations
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies the results schema to the database named in dsn.
func Migrate(log logrus.FieldLogger, dsn string) error {
	log = log.WithField("component", "store_migrations")

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("parsing clickhouse url: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, buildConnectionString(options))
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.WithError(errors.Join(srcErr, dbErr)).Warn("failed to close migration instance")
		}
	}()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", upErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		log.Debug("no new migrations to apply")
		return nil
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migrations applied")

	return nil
}

// buildConnectionString builds the ClickHouse connection string for golang-migrate
func buildConnectionString(options *clickhouse.Options) string {
	database := options.Auth.Database
	if database == "" {
		database = "default"
	}

	query := url.Values{}
	query.Set("database", database)
	query.Set("x-multi-statement", "true")
	query.Set("x-migrations-table-engine", "MergeTree")

	if options.Auth.Username != "" {
		query.Set("username", options.Auth.Username)
	}

	if options.Auth.Password != "" {
		query.Set("password", options.Auth.Password)
	}

	return fmt.Sprintf("clickhouse://%s?%s", strings.Join(options.Addr, ","), query.Encode())
}
