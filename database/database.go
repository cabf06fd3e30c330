package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite database at url, applies connection tuning and runs
// any pending migrations. Foreign keys are enforced per connection through the
// DSN, so cascading deletes work on every pooled connection.
func Open(url string) (db *sql.DB, err error) {
	dsn := url
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	// immediate transactions avoid lock upgrade deadlocks between
	// concurrent submissions; the busy timeout serializes them instead
	dsn += "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

	db, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}
