// Package storage selects the durable key-value backend from config.
package storage

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/config"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/storage/badger"
	"github.com/bobmcallan/stock-analyser/internal/storage/memory"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	switch strings.ToLower(cfg.Storage.Type) {
	case "", "badger":
		return badger.NewManager(logger, &cfg.Storage.Badger)
	case "memory":
		return memory.NewManager(logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
