package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Connect opens a PostgreSQL connection for postgres:// DSNs and falls
// back to the pure-Go SQLite driver for anything else.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite database:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        sqliteDSN(dsn),
		}),
		cfg,
	)
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by
// default; without it ON DELETE CASCADE does nothing.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
