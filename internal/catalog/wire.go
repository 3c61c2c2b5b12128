package catalog

import (
	"go.uber.org/zap"

	"radagast/internal/storage"
)

// NewModule wires the catalog store and its HTTP controller. The store is
// returned as well so the POS module can be injected with it.
func NewModule(collections *storage.Collections, logger *zap.Logger, seedDemo bool) (*Store, *Controller) {
	store := NewStore(collections, logger, seedDemo)
	return store, NewController(store, logger)
}
