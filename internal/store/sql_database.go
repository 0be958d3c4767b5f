package store

import (
	"database/sql"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
