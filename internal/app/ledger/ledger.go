// Package ledger holds the order ledger: an ordered list of line items with
// prices fixed at insertion, persisted to a blob store after every change.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderledger/internal/app/ds"
	"orderledger/internal/app/storage"

	"github.com/bwmarrin/snowflake"
	"github.com/sirupsen/logrus"
)

const DefaultKey = "@products"

var (
	ErrStorageRead  = errors.New("ledger storage read failure")
	ErrStorageWrite = errors.New("ledger storage write failure")
)

type Config struct {
	Key          string
	NodeID       int64
	WriteTimeout time.Duration
}

// Stats describes the background persistence state.
type Stats struct {
	Saves        uint64    `json:"saves"`
	SaveFailures uint64    `json:"save_failures"`
	LastSavedAt  time.Time `json:"last_saved_at"`
	LastError    string    `json:"last_error,omitempty"`
	Pending      bool      `json:"pending"`
}

type Ledger struct {
	mu    sync.RWMutex
	items []ds.LineItem

	store storage.BlobStore
	key   string
	ids   *snowflake.Node
	p     *persister
}

func New(store storage.BlobStore, cfg Config) (*Ledger, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("ledger id generator: %w", err)
	}
	return &Ledger{
		items: []ds.LineItem{},
		store: store,
		key:   cfg.Key,
		ids:   node,
		p:     newPersister(store, cfg.Key, cfg.WriteTimeout),
	}, nil
}

// Restore replaces the in-memory items with the persisted ones. A missing
// blob leaves the ledger empty; an unreadable or corrupt one is logged and
// also leaves it empty.
func (l *Ledger) Restore(ctx context.Context) {
	log := logrus.WithField("key", l.key)

	data, err := l.store.Get(ctx, l.key)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("no saved ledger, starting empty")
		l.replace(nil)
		return
	}
	if err != nil {
		log.WithError(fmt.Errorf("%w: %v", ErrStorageRead, err)).Error("failed to load ledger")
		l.replace(nil)
		return
	}

	items, err := decode(data)
	if err != nil {
		log.WithError(fmt.Errorf("%w: %v", ErrStorageRead, err)).Error("saved ledger is corrupt")
		l.replace(nil)
		return
	}

	l.replace(items)
	log.WithField("items", len(items)).Info("ledger restored")
}

func (l *Ledger) replace(items []ds.LineItem) {
	if items == nil {
		items = []ds.LineItem{}
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

// Add prices the input, appends it and schedules a save. It does not wait
// for the save and performs no validation.
func (l *Ledger) Add(in ds.LineItemInput) ds.LineItem {
	item := ds.LineItem{
		ID:              l.ids.Generate().String(),
		Code:            in.Code,
		Description:     in.Description,
		UnitPrice:       in.UnitPrice,
		Quantity:        in.Quantity,
		PricingMode:     in.PricingMode,
		DiscountPercent: in.DiscountPercent,
		FinalPrice:      Quote(in),
	}

	l.mu.Lock()
	l.items = append(l.items, item)
	l.persistLocked()
	l.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"id":          item.ID,
		"code":        item.Code,
		"final_price": item.FinalPrice,
	}).Debug("line item added")
	return item
}

// Remove deletes the item with the given id. Unknown ids are a no-op.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, it := range l.items {
		if it.ID != id {
			continue
		}
		next := make([]ds.LineItem, 0, len(l.items)-1)
		next = append(next, l.items[:i]...)
		next = append(next, l.items[i+1:]...)
		l.items = next
		l.persistLocked()
		return true
	}
	return false
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	l.items = []ds.LineItem{}
	l.persistLocked()
	l.mu.Unlock()
}

// Total is the sum of FinalPrice over all items.
func (l *Ledger) Total() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sum(l.items).InexactFloat64()
}

// Items returns a copy of the items in insertion order.
func (l *Ledger) Items() []ds.LineItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ds.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Snapshot returns a copy of the items together with their total, both
// taken under the same read lock.
func (l *Ledger) Snapshot() ([]ds.LineItem, float64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ds.LineItem, len(l.items))
	copy(out, l.items)
	return out, sum(out).InexactFloat64()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Flush waits until all saves scheduled so far have been attempted.
func (l *Ledger) Flush(ctx context.Context) error {
	return l.p.flush(ctx)
}

// Close flushes pending saves and stops the background writer. Mutations
// after Close are kept in memory only.
func (l *Ledger) Close(ctx context.Context) error {
	return l.p.stop(ctx)
}

func (l *Ledger) Stats() Stats {
	return l.p.stats()
}

// persistLocked must be called with l.mu held so snapshots are scheduled in
// mutation order.
func (l *Ledger) persistLocked() {
	data, err := encode(l.items)
	if err != nil {
		logrus.WithError(fmt.Errorf("%w: %v", ErrStorageWrite, err)).Error("failed to encode ledger")
		return
	}
	l.p.schedule(data)
}
