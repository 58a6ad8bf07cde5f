// Package hotswap implements C10: the atomic triple plus double-buffered
// region swap described in §9's "Shared mutable data via shared memory"
// design note. The teacher has no equivalent swap coordinator — its
// ContractedGraph is loaded once at process start and never replaced —
// so the in-memory coordination (sync.RWMutex guarding a pointer rebind)
// is built directly from §9/§5's description rather than ported from any
// corpus file; sync.RWMutex is the standard multi-reader/single-writer
// idiom this pattern calls for, and no example repo offers an
// RCU-style alternative worth reaching for instead. The durable side —
// persisting the triple across process restarts so a router can resume
// against the last-swapped snapshot without a fresh full reload — uses
// github.com/cockroachdb/pebble, wired in per SPEC_FULL.md's domain
// dependency table.
package hotswap

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/pebble"
)

// ErrNoSnapshot is returned by Current when the coordinator has never
// been swapped into a live snapshot.
var ErrNoSnapshot = errors.New("hotswap: no snapshot loaded")

const currentKey = "current"

// Triple is the atomic (layout_gen, data_gen, timestamp) tuple of §9,
// plus the two double-buffered region ids a swap rebinds. DataFacade
// itself is intentionally not part of the persisted record — only the
// region identifiers needed to remap it are durable; the live facade
// pointer is rebuilt in-process on load.
type Triple struct {
	LayoutGen int64  `json:"layout_gen"`
	DataGen   int64  `json:"data_gen"`
	Timestamp string `json:"timestamp"`

	LayoutRegionID string `json:"layout_region_id"`
	DataRegionID   string `json:"data_region_id"`
}

// Snapshot pairs a Triple with the live facade it governs, opaquely —
// hotswap does not depend on internal/facade to avoid a import cycle
// with packages that both consume a snapshot and could in principle
// drive a swap; callers type-assert Facade to facade.DataFacade.
type Snapshot struct {
	Triple
	Facade any
}

// Coordinator is the shared-memory swap daemon's in-process counterpart:
// workers call Current() to snapshot the triple under a shared lock;
// Swap() rebinds it under an exclusive lock and persists the new triple
// to pebble before publishing it, so no data pointer is ever published
// before its mapping is complete (§9).
type Coordinator struct {
	mu      sync.RWMutex
	current *Snapshot
	db      *pebble.DB
}

// Open opens (creating if absent) the durable pebble store at dir and,
// if it already recorded a triple from a prior process, loads it as the
// starting Current() — the facade for that triple must still be
// attached via a subsequent Swap() before queries can run against it.
func Open(dir string) (*Coordinator, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("hotswap: open pebble store: %w", err)
	}
	c := &Coordinator{db: db}

	if raw, closer, err := db.Get([]byte(currentKey)); err == nil {
		var t Triple
		if jsonErr := json.Unmarshal(raw, &t); jsonErr == nil {
			c.current = &Snapshot{Triple: t}
		}
		closer.Close()
	} else if !errors.Is(err, pebble.ErrNotFound) {
		db.Close()
		return nil, fmt.Errorf("hotswap: read persisted triple: %w", err)
	}

	return c, nil
}

func (c *Coordinator) Close() error {
	return c.db.Close()
}

// Current returns the live snapshot under a shared (read) lock. Queries
// in flight hold the returned pointer for their whole lifetime, so a
// concurrent Swap never invalidates work already underway (§8 "Hot-swap
// during query": the query completes against the old snapshot).
func (c *Coordinator) Current() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNoSnapshot
	}
	return c.current, nil
}

// Swap installs next as the live snapshot under an exclusive lock,
// persisting its Triple to pebble first, so a failed persist returns an
// error and leaves the previous snapshot live. Logs one line per swap per
// SPEC_FULL.md's logging section.
func (c *Coordinator) Swap(next *Snapshot) error {
	raw, err := json.Marshal(next.Triple)
	if err != nil {
		return fmt.Errorf("hotswap: marshal triple: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Set([]byte(currentKey), raw, pebble.Sync); err != nil {
		log.Printf("hotswap: swap failed: persist triple: %v", err)
		return fmt.Errorf("hotswap: persist triple: %w", err)
	}

	c.current = next
	log.Printf("hotswap: swapped to layout_gen=%d data_gen=%d timestamp=%s",
		next.LayoutGen, next.DataGen, next.Timestamp)
	return nil
}
