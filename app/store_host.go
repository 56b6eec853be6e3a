//go:build !tinygo

package app

import (
	"fmt"
	"io"
	"log/slog"

	"pocket/hal"
	"pocket/pocketos/config"
	"pocket/pocketos/store"
)

func openStore(h hal.HAL, cfg config.Store, log *slog.Logger) (store.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		db, err := store.OpenBadger(store.BadgerConfig{Path: cfg.Path, Logger: log})
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return db, db, nil
	case config.BackendFlash:
		kv, err := openFlashStore(h.Flash(), log)
		return kv, nil, err
	default:
		return store.NewMemory(), nil, nil
	}
}
