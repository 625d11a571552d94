package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"worldtour/internal/world"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Open returns a pooled handle for driver ("pgx" or "mysql").
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "", DriverPostgres:
		driver = DriverPostgres
	case DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// FetchCities reads raw city rows from table. The table needs the columns
// id, city, lat, lng, iso3 and population; population may be NULL.
func FetchCities(ctx context.Context, db *sql.DB, table string) ([]world.City, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	q := `SELECT id, city, lat, lng, COALESCE(iso3, ''), COALESCE(population, 0) FROM ` + table + ` ORDER BY id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query cities: %w", err)
	}
	defer rows.Close()
	return scanCities(rows)
}

// rowScanner is the subset of *sql.Rows used by scanCities.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCities(rows rowScanner) ([]world.City, error) {
	var cities []world.City
	n := 0
	for rows.Next() {
		n++
		var c world.City
		var name sql.NullString
		if err := rows.Scan(&c.ID, &name, &c.Lat, &c.Lng, &c.ISO3, &c.Population); err != nil {
			return nil, fmt.Errorf("scan city row %d: %w", n, err)
		}
		c.Name = name.String
		if err := c.Validate(n); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
