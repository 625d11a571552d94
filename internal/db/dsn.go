package db

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// WithDBName returns dsn pointing at database instead of its own database.
// Postgres DSNs are URLs (the postgres:// scheme may be omitted); MySQL DSNs
// use the driver's user:pass@tcp(host)/db form.
func WithDBName(driver, dsn, database string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty DSN")
	}
	database = strings.TrimPrefix(database, "/")
	switch driver {
	case DriverMySQL:
		c, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql DSN: %w", err)
		}
		c.DBName = database
		return c.FormatDSN(), nil
	default:
		u, err := parsePostgresURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres DSN: %w", err)
		}
		u.Path = "/" + database
		return u.String(), nil
	}
}

func parsePostgresURL(dsn string) (*url.URL, error) {
	if !strings.Contains(dsn, "://") {
		dsn = "postgres://" + dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u, nil
}
