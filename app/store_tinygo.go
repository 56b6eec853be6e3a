//go:build tinygo

package app

import (
	"io"
	"log/slog"

	"pocket/hal"
	"pocket/pocketos/config"
	"pocket/pocketos/store"
)

// openStore falls back to memory when the board has no usable flash. Badger
// is host only, so it selects flash here too.
func openStore(h hal.HAL, cfg config.Store, log *slog.Logger) (store.Store, io.Closer, error) {
	if cfg.Backend == config.BackendMemory {
		return store.NewMemory(), nil, nil
	}
	kv, err := openFlashStore(h.Flash(), log)
	if err != nil {
		log.Warn("flash store unavailable, settings will not persist", "err", err)
		return store.NewMemory(), nil, nil
	}
	return kv, nil, nil
}
