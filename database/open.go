package database

import (
	"context"

	"property-ops/config"
)

// Open returns the store selected by the configuration.
func Open(ctx context.Context, cfg *config.Configuration) (Store, error) {
	if cfg.StorageBackend == config.StorageLocal {
		return NewLocalStore(cfg.LocalDBPath)
	}
	return DBInit(ctx, cfg.Mongo.ConnString, cfg.Mongo.Database)
}
