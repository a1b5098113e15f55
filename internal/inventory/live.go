package inventory

import (
	"fmt"
	"io"

	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// LiveInventory is the current state of one schema of a database, read from
// a schema snapshot script.
type LiveInventory struct {
	Inventory
	SchemaName string
}

// NewLiveInventory returns an empty live inventory for schemaName.
func NewLiveInventory(schemaName string) *LiveInventory {
	l := &LiveInventory{SchemaName: schemaName}
	l.init()
	return l
}

// LoadLiveInventory reads a schema snapshot. Statements that do not create an
// object are ignored.
func LoadLiveInventory(schemaName string, r io.Reader, parser Parser) (*LiveInventory, error) {
	l := NewLiveInventory(schemaName)
	err := l.ProcessSingleScript(r, parser, func(stmt sqlast.Statement) {
		logger.Get().Debug("ignoring snapshot statement", "statement", fmt.Sprintf("%T", stmt))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load schema snapshot: %w", err)
	}
	return l, nil
}
