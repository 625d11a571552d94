package commands

import (
	"context"
	"fmt"
	"log"

	"worldtour/internal/config"
	"worldtour/internal/dataset"
	"worldtour/internal/db"
	"worldtour/internal/world"
)

// loadCities reads the raw dataset from the configured file or database.
func loadCities(ctx context.Context, cfg *config.Config) ([]world.City, error) {
	if !cfg.UseDatabase() {
		cities, err := dataset.LoadFile(cfg.CitiesFile)
		if err != nil {
			return nil, err
		}
		log.Printf("loaded %d cities from %s", len(cities), cfg.CitiesFile)
		return cities, nil
	}

	dsn := cfg.DatabaseURL
	if cfg.Dataset != "" {
		// Postgres keeps the import log in the cluster's "postgres" database,
		// MySQL in whatever database the DSN names.
		rootDSN := dsn
		if cfg.DBDriver == db.DriverPostgres {
			var err error
			if rootDSN, err = db.WithDBName(cfg.DBDriver, dsn, "postgres"); err != nil {
				return nil, fmt.Errorf("invalid base DSN: %w", err)
			}
		}
		metaDB, err := db.Open(cfg.DBDriver, rootDSN)
		if err != nil {
			return nil, fmt.Errorf("db open (meta): %w", err)
		}
		defer metaDB.Close()
		if err := db.Ping(ctx, metaDB); err != nil {
			return nil, fmt.Errorf("db ping (meta): %w", err)
		}
		imp, err := db.LatestImport(ctx, metaDB, cfg.DBDriver, cfg.Dataset)
		if err != nil {
			return nil, fmt.Errorf("resolve latest import for dataset %q: %w", cfg.Dataset, err)
		}
		if dsn, err = db.WithDBName(cfg.DBDriver, dsn, imp.DBName); err != nil {
			return nil, fmt.Errorf("compose DSN: %w", err)
		}
		log.Printf("Using database %q for dataset %q (imported %s)", imp.DBName, cfg.Dataset, imp.ImportedAt.Format("2006-01-02 15:04"))
	}

	conn, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	defer conn.Close()
	if err := db.Ping(ctx, conn); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	cities, err := db.FetchCities(ctx, conn, cfg.CitiesTable)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d cities from table %s", len(cities), cfg.CitiesTable)
	return cities, nil
}

// resolveOrigin picks the origin record: the dataset's own row when the
// configured ID is present, otherwise the configured fallback record.
func resolveOrigin(raw []world.City, cfg *config.Config) (world.City, error) {
	o := dataset.ResolveOrigin(raw, cfg.Origin.ID, cfg.Origin)
	if o.Name == "" {
		return o, fmt.Errorf("%w: id %d (set ORIGIN_NAME/ORIGIN_LAT/ORIGIN_LNG to use a city outside the dataset)", dataset.ErrOriginNotFound, cfg.Origin.ID)
	}
	if err := o.Validate(0); err != nil {
		return o, fmt.Errorf("origin: %w", err)
	}
	return o, nil
}

// originsByID looks up raw records for ids.
func originsByID(raw []world.City, ids []int64) ([]world.City, error) {
	out := make([]world.City, 0, len(ids))
	for _, id := range ids {
		c, err := dataset.FindCity(raw, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
