package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"quizforge/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

// Direction selects which way migrations run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies (or reverts) the embedded schema migrations for
// the driver db was opened with.
func RunMigrations(ctx context.Context, db *sqlx.DB, dir Direction) error {
	switch db.DriverName() {
	case DriverSQLite:
		return runSQLiteMigrations(db, dir)
	case DriverOracle:
		return runOracleMigrations(ctx, db, dir)
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
}

func runSQLiteMigrations(db *sqlx.DB, dir Direction) error {
	src, err := iofs.New(migrationFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("could not read migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	// m.Close would close db, which the caller still owns.
	m, err := migrate.NewWithInstance("iofs", src, DriverSQLite, driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	logger.Get().Info("Migrations completed successfully",
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// runOracleMigrations executes the embedded Oracle scripts one statement
// at a time, tracking applied versions in schema_migrations.
func runOracleMigrations(ctx context.Context, db *sqlx.DB, dir Direction) error {
	applied, err := oracleAppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	files, err := migrationFiles("migrations/oracle", dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		version := strings.SplitN(path.Base(file), "_", 2)[0]
		if (dir == Up) == applied[version] {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", file, err)
			}
		}

		if dir == Up {
			_, err = db.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version)
		} else {
			_, err = db.ExecContext(ctx, db.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), version)
		}
		if err != nil {
			return fmt.Errorf("could not record migration %s: %w", file, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", file))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("direction", string(dir)))
	return nil
}

func oracleAppliedVersions(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var exists int
	err := db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`)
	if err != nil {
		return nil, fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if exists == 0 {
		if _, err := db.ExecContext(ctx, `CREATE TABLE schema_migrations (version VARCHAR2(20) PRIMARY KEY)`); err != nil {
			return nil, fmt.Errorf("could not create schema_migrations: %w", err)
		}
	}

	var versions []string
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// migrationFiles lists the scripts for dir in execution order.
func migrationFiles(root string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	suffix := "." + string(dir) + ".sql"
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, path.Join(root, entry.Name()))
		}
	}
	sort.Strings(files)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// SplitStatements splits a script on semicolons that end a line. Oracle
// rejects multiple statements per Exec and a trailing semicolon.
func SplitStatements(script string) []string {
	var stmts []string
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(b.String()), ";")
			stmts = append(stmts, stmt)
			b.Reset()
		}
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
