package database

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// Connect opens the SQL store selected by DB_DRIVER and brings the schema up
// to date.
func Connect() (*sqlx.DB, error) {
	return Open(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
}

// Open connects with an explicit driver ("postgres" or "sqlite") and DSN.
func Open(driver, dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case "postgres", "pgx", "":
		db, err = sqlx.Connect("pgx", dsn)
	case "sqlite":
		db, err = sqlx.Connect("sqlite", dsn)
		if err == nil {
			// A single connection keeps ":memory:" databases coherent.
			db.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS aqi (
	id        BIGSERIAL PRIMARY KEY,
	pm2_5     DOUBLE PRECISION DEFAULT 0,
	pm10      DOUBLE PRECISION DEFAULT 0,
	no2       DOUBLE PRECISION DEFAULT 0,
	o3        DOUBLE PRECISION DEFAULT 0,
	co        DOUBLE PRECISION DEFAULT 0,
	so2       DOUBLE PRECISION DEFAULT 0,
	nh3       DOUBLE PRECISION DEFAULT 0,
	pb        DOUBLE PRECISION DEFAULT 0,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_aqi_timestamp ON aqi(timestamp);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS aqi (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	pm2_5     REAL DEFAULT 0,
	pm10      REAL DEFAULT 0,
	no2       REAL DEFAULT 0,
	o3        REAL DEFAULT 0,
	co        REAL DEFAULT 0,
	so2       REAL DEFAULT 0,
	nh3       REAL DEFAULT 0,
	pb        REAL DEFAULT 0,
	timestamp TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_aqi_timestamp ON aqi(timestamp);
`

// Migrate creates the aqi table for the connection's driver.
func Migrate(db *sqlx.DB) error {
	schema := postgresSchema
	if db.DriverName() == "sqlite" {
		schema = sqliteSchema
	}
	_, err := db.Exec(schema)
	return err
}
