package storage

import (
	"strings"

	"sectorscope/internal"
	"sectorscope/internal/config"
)

// Store is the persistence boundary for normalized snapshots. Both
// backends satisfy it; callers never see the driver.
type Store interface {
	SaveSectorSnapshot(snap *internal.SectorSnapshot) (int64, error)
	SaveEventSnapshot(snap *internal.EventSnapshot) (int64, error)
	GetSectorSnapshot(id int64) (*internal.SectorSnapshot, error)
	GetEventSnapshot(id int64) (*internal.EventSnapshot, error)
	SetMetadata(key, value string) error
	GetMetadata(key string) (*string, error)
	Close() error
}

// Open picks the backend: Postgres when a DSN is configured, embedded
// SQLite otherwise.
func Open(cfg config.Config) (Store, error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		return OpenPostgres(cfg.PostgresDSN)
	}
	return OpenSQLite(cfg.DBPath)
}
