package database

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// SQLX wraps gorm's pool for hand-written read queries. Both share the same connections.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlx picks the bind style from the driver name.
	name := "sqlite3"
	if DriverName(db) == DriverPostgres {
		name = "pgx"
	}
	return sqlx.NewDb(sqlDB, name), nil
}
