package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/common"
	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	quotations interfaces.QuotationStorage
	logger     arbor.ILogger
}

// Compile-time assertion
var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		quotations: NewQuotationStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// QuotationStorage returns the quotation storage interface
func (m *Manager) QuotationStorage() interfaces.QuotationStorage {
	return m.quotations
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
