package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"worldtour/internal/world"
)

// London as the original circuit defines it.
var DefaultOrigin = world.City{
	ID:         1826645935,
	Name:       "London",
	Lat:        51.5072,
	Lng:        -0.1275,
	ISO3:       "GBR",
	Population: 10979000,
}

// Config is the process configuration read from the environment and .env.
type Config struct {
	CitiesFile  string
	DatabaseURL string
	DBDriver    string
	CitiesTable string
	Dataset     string

	Origin      world.City
	BudgetDays  int
	Parallelism int

	NATSURL         string
	NATSPrefix      string
	LogNATSSubjects bool
	LogHops         bool

	MetricsAddr string
	HTTPAddr    string
}

func (c *Config) BudgetHours() int { return c.BudgetDays * 24 }

// UseDatabase reports whether cities come from SQL rather than a file.
func (c *Config) UseDatabase() bool { return c.CitiesFile == "" && c.DatabaseURL != "" }

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.CitiesFile = os.Getenv("CITIES_FILE")
	cfg.DBDriver = envOr("pgx", "DB_DRIVER")
	cfg.CitiesTable = envOr("cities", "CITIES_TABLE")
	cfg.Dataset = os.Getenv("DATASET")

	// DATABASE_URL wins over PG_DSN; PG* vars are used only when PGDATABASE is set
	dsn := envOr("", "DATABASE_URL", "PG_DSN")
	if dsn == "" && os.Getenv("PGDATABASE") != "" {
		dsn = postgresDSNFromEnv()
	}
	cfg.DatabaseURL = dsn

	if cfg.CitiesFile == "" && cfg.DatabaseURL == "" {
		cfg.CitiesFile = "worldcities.xlsx"
	}
	if cfg.DBDriver != "pgx" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("DB_DRIVER must be pgx or mysql, got %q", cfg.DBDriver)
	}
	if cfg.Dataset != "" && cfg.DatabaseURL == "" {
		return nil, errors.New("DATASET needs DATABASE_URL or PG* settings")
	}

	origin, err := loadOrigin()
	if err != nil {
		return nil, err
	}
	cfg.Origin = origin

	if cfg.BudgetDays, err = positiveInt("BUDGET_DAYS", 80); err != nil {
		return nil, err
	}
	if cfg.Parallelism, err = positiveInt("PARALLELISM", 4); err != nil {
		return nil, err
	}

	// Empty NATS_URL disables hop publishing.
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.NATSPrefix = envOr("worldtour", "NATS_SUBJECT_PREFIX")
	cfg.LogNATSSubjects = getenvBool("LOG_NATS_SUBJECTS")
	cfg.LogHops = getenvBool("LOG_HOPS")

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	cfg.HTTPAddr = envOr(":8080", "HTTP_ADDR")

	return cfg, nil
}

// loadOrigin reads ORIGIN_* over the London defaults. When only ORIGIN_ID is
// changed the rest is expected to come from the dataset.
func loadOrigin() (world.City, error) {
	o := DefaultOrigin
	if v := os.Getenv("ORIGIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return o, fmt.Errorf("invalid ORIGIN_ID: %q", v)
		}
		if id != o.ID {
			o = world.City{ID: id}
		}
	}
	if v := os.Getenv("ORIGIN_NAME"); v != "" {
		o.Name = v
	}
	if v := os.Getenv("ORIGIN_ISO3"); v != "" {
		o.ISO3 = v
	}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"ORIGIN_LAT", &o.Lat},
		{"ORIGIN_LNG", &o.Lng},
		{"ORIGIN_POPULATION", &o.Population},
	} {
		if v := os.Getenv(f.key); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return o, fmt.Errorf("invalid %s: %q", f.key, v)
			}
			*f.dst = x
		}
	}
	return o, nil
}

func positiveInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getenvBool(k string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// envOr returns the first non-blank value among keys, or def.
func envOr(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

// postgresDSNFromEnv assembles a pgx URL from the libpq-style PG* variables.
func postgresDSNFromEnv() string {
	user := url.User(envOr("postgres", "PGUSER"))
	if pass := os.Getenv("PGPASSWORD"); pass != "" {
		user = url.UserPassword(user.Username(), pass)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(envOr("127.0.0.1", "PGHOST"), envOr("5432", "PGPORT")),
		Path:     "/" + os.Getenv("PGDATABASE"),
		RawQuery: url.Values{"sslmode": {envOr("disable", "PGSSLMODE")}}.Encode(),
	}
	return u.String()
}
