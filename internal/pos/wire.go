package pos

import (
	"go.uber.org/zap"

	"radagast/internal/catalog"
	"radagast/internal/storage"
)

// NewModule wires the register and its HTTP controller against the shared
// catalog store.
func NewModule(cat *catalog.Store, collections *storage.Collections, logger *zap.Logger, receiptHeader string) (*Register, *Controller) {
	register := NewRegister(cat, collections, logger)
	return register, NewController(register, logger, receiptHeader)
}
