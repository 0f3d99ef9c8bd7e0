package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/golfmapper/coursemap/internal/config"
)

// Driver names registered by the imported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connection holds the database connection
type Connection struct {
	DB     *sql.DB
	Driver string
	Source string // DSN or file path, password redacted
}

// Open connects to a course store. Postgres URLs and key=value DSNs use
// lib/pq; anything else is treated as a SQLite file, which must already
// exist. An empty dsn builds a Postgres DSN from the PG* environment.
func Open(ctx context.Context, dsn string) (*Connection, error) {
	driver, source := resolve(dsn)

	if driver == DriverSQLite {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("course store %s: %w", source, err)
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	if driver == DriverPostgres {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}

	return &Connection{DB: db, Driver: driver, Source: redact(source)}, nil
}

// Fingerprint identifies the current contents of a course store cheaply.
// SQLite files report their size and modification time without opening the
// database; Postgres stores report the reference course row count.
func Fingerprint(ctx context.Context, dsn string) (string, error) {
	driver, source := resolve(dsn)
	if driver == DriverSQLite {
		info, err := os.Stat(source)
		if err != nil {
			return "", fmt.Errorf("course store %s: %w", source, err)
		}
		return fmt.Sprintf("file:%d:%d", info.Size(), info.ModTime().UnixNano()), nil
	}

	conn, err := Open(ctx, dsn)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	n, err := conn.CountRows(ctx, "courses")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rows:%d", n), nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// CountRows returns the number of rows in one of the known course tables.
func (c *Connection) CountRows(ctx context.Context, table string) (int64, error) {
	switch table {
	case "courses", "user_courses", "new_user_courses":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// HasTable reports whether the store has the named table.
func (c *Connection) HasTable(ctx context.Context, table string) (bool, error) {
	var query string
	if c.Driver == DriverPostgres {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1"
	} else {
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	}
	var n int
	if err := c.DB.QueryRowContext(ctx, query, table).Scan(&n); err != nil {
		return false, fmt.Errorf("look up table %s: %w", table, err)
	}
	return n > 0, nil
}

func resolve(dsn string) (driver, source string) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return DriverPostgres, envDSN()
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn
	case strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname="):
		return DriverPostgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://")
	default:
		return DriverSQLite, dsn
	}
}

func envDSN() string {
	host := config.GetEnv("PGHOST", "localhost")
	port := config.GetEnv("PGPORT", "5432")
	user := config.GetEnv("PGUSER", "golf")
	password := config.GetEnv("PGPASSWORD", "")
	dbname := config.GetEnv("PGDATABASE", "golf_courses")

	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable", host, port, user, dbname)
	if password != "" {
		dsn += " password=" + password
	}
	return dsn
}

func redact(source string) string {
	fields := strings.Fields(source)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=***"
		}
	}
	if len(fields) > 1 {
		return strings.Join(fields, " ")
	}
	if i := strings.Index(source, "://"); i >= 0 {
		if at := strings.LastIndex(source, "@"); at > i {
			if colon := strings.Index(source[i+3:at], ":"); colon >= 0 {
				return source[:i+3+colon] + ":***" + source[at:]
			}
		}
	}
	return source
}
