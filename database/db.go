package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Connect establishes a connection to the PostgreSQL database, optimized for
// serverless environments like Neon by managing idle connections efficiently.
func Connect() (*sql.DB, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		fmt.Printf("Warning: Database ping failed: %v. Proceeding carefully...\n", err)
	}

	// Disable idle connections to avoid holding on to suspended compute
	db.SetMaxIdleConns(0)
	// Limit open connections for this simple app
	db.SetMaxOpenConns(10)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	fmt.Println("Connected to PostgreSQL successfully")
	return db, nil
}

// migrate creates the restaurants table used by the persistence façade.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS restaurants (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			address         TEXT NOT NULL DEFAULT '',
			district        TEXT NOT NULL DEFAULT '',
			cuisine_type    TEXT NOT NULL DEFAULT '',
			category        TEXT NOT NULL DEFAULT 'local',
			latitude        DOUBLE PRECISION NOT NULL,
			longitude       DOUBLE PRECISION NOT NULL,
			rating          DOUBLE PRECISION NOT NULL DEFAULT 0,
			price_min       INTEGER NOT NULL DEFAULT 0,
			price_max       INTEGER NOT NULL DEFAULT 0,
			currency        TEXT NOT NULL DEFAULT 'S/',
			opening_hours   TEXT NOT NULL DEFAULT '',
			contact_number  TEXT NOT NULL DEFAULT '',
			solo            BOOLEAN NOT NULL DEFAULT true,
			couple          BOOLEAN NOT NULL DEFAULT true,
			family          BOOLEAN NOT NULL DEFAULT true,
			large_group     BOOLEAN NOT NULL DEFAULT true,
			date_added      TIMESTAMPTZ NOT NULL DEFAULT now(),
			user_added      BOOLEAN NOT NULL DEFAULT true
		)
	`)
	return err
}
