package util

import (
	"context"
	"fmt"
	"os"

	"github.com/xingh/bsn-modulestore/internal/inventory"
	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/unit"
)

var units = inventory.NewCache()

// LoadAssembly returns the inventory of the unit in dir. Inventories are
// built once per process.
func LoadAssembly(ctx context.Context, dir string) (*inventory.AssemblyInventory, error) {
	if dir == "" {
		return nil, fmt.Errorf("unit directory is required (use --unit flag)")
	}
	u, err := unit.FromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit %s: %w", dir, err)
	}
	logger.ForUnit(u.Key()).Debug("loading unit", "name", u.Name())
	return units.Get(ctx, u, inventory.DefaultParser)
}

// LoadLive reads a schema snapshot script.
func LoadLive(path, schema string) (*inventory.LiveInventory, error) {
	if path == "" {
		return nil, fmt.Errorf("schema snapshot is required (use --current flag)")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema snapshot: %w", err)
	}
	defer f.Close()
	return inventory.LoadLiveInventory(schema, f, inventory.DefaultParser)
}
