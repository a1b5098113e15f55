package inventory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/unit"
)

// Cache builds each assembly inventory at most once per unit key. Concurrent
// requests for the same unit wait for a single construction. Failed
// constructions are not cached.
//
// Cached inventories are shared. Generating scripts from one inventory must
// not happen concurrently, since qualification scopes are inventory state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*AssemblyInventory
	group   singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*AssemblyInventory{}}
}

func (c *Cache) lookup(k string) (*AssemblyInventory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[k]
	return a, ok
}

// Get returns the inventory of u, building it with parser on first use.
func (c *Cache) Get(ctx context.Context, u unit.Unit, parser Parser) (*AssemblyInventory, error) {
	k := u.Key()
	if a, ok := c.lookup(k); ok {
		return a, nil
	}
	ch := c.group.DoChan(k, func() (any, error) {
		if a, ok := c.lookup(k); ok {
			return a, nil
		}
		logger.ForUnit(k).Debug("building assembly inventory")
		a, err := NewAssemblyInventory(u, parser)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[k] = a
		c.mu.Unlock()
		return a, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*AssemblyInventory), nil
	}
}

// GetAll builds the inventories of several units concurrently. The result
// has the order of units.
func (c *Cache) GetAll(ctx context.Context, units []unit.Unit, parser Parser) ([]*AssemblyInventory, error) {
	result := make([]*AssemblyInventory, len(units))
	eg, ctx := errgroup.WithContext(ctx)
	for i, u := range units {
		eg.Go(func() error {
			a, err := c.Get(ctx, u, parser)
			if err != nil {
				return fmt.Errorf("failed to build inventory of unit %s: %w", u.Key(), err)
			}
			result[i] = a
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Len returns the number of cached inventories.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
