package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"trade-journal-go/internal/config"

	"github.com/lib/pq"
)

// EnsurePostgresDatabase connects to the server's maintenance database and
// creates the database named by cfg.DSN if it does not exist yet.
func EnsurePostgresDatabase(cfg config.Database) error {
	name, err := targetDatabase(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", maintenanceDSN(cfg.DSN))
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer db.Close()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1);`
	if err := db.QueryRow(query, name).Scan(&exists); err != nil {
		return fmt.Errorf("check db exists failed: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("create db failed: %w", err)
	}
	return nil
}

// targetDatabase returns the database the DSN connects to. cfg.Name is
// optional but must agree with it.
func targetDatabase(cfg config.Database) (string, error) {
	name := dsnDatabaseName(cfg.DSN)
	if name == "" {
		return "", fmt.Errorf("database.dsn must name the database (dbname) to create it")
	}
	if cfg.Name != "" && cfg.Name != name {
		return "", fmt.Errorf("database.name %q does not match dbname %q in database.dsn", cfg.Name, name)
	}
	return name, nil
}

// dsnDatabaseName extracts the database from a URL or key=value DSN.
func dsnDatabaseName(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return ""
		}
		return strings.TrimPrefix(u.Path, "/")
	}
	for _, f := range strings.Fields(dsn) {
		if v, ok := strings.CutPrefix(f, "dbname="); ok {
			return strings.Trim(v, "'")
		}
	}
	return ""
}

// maintenanceDSN points a DSN at the default "postgres" database.
// Both URL and key=value forms are accepted.
func maintenanceDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		u.Path = "/postgres"
		return u.String()
	}

	fields := strings.Fields(dsn)
	out := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if strings.HasPrefix(f, "dbname=") {
			continue
		}
		out = append(out, f)
	}
	out = append(out, "dbname=postgres")
	return strings.Join(out, " ")
}
