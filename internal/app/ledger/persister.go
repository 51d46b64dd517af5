package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"orderledger/internal/app/storage"

	"github.com/sirupsen/logrus"
)

// persister writes ledger snapshots in the background. Only the latest
// pending snapshot is kept: a burst of mutations results in one write.
type persister struct {
	store   storage.BlobStore
	key     string
	timeout time.Duration

	mu        sync.Mutex
	pending   []byte
	scheduled uint64
	written   uint64
	saves     uint64
	failures  uint64
	lastSaved time.Time
	lastErr   error

	notify chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func newPersister(store storage.BlobStore, key string, timeout time.Duration) *persister {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &persister{
		store:   store,
		key:     key,
		timeout: timeout,
		notify:  make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go p.loop(ctx)
	return p
}

// schedule queues a snapshot and returns its generation.
func (p *persister) schedule(data []byte) uint64 {
	p.mu.Lock()
	p.scheduled++
	gen := p.scheduled
	p.pending = data
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
	return gen
}

func (p *persister) loop(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			p.writeOnce()
			return
		case <-p.notify:
			p.writeOnce()
		}
	}
}

// writeOnce writes the pending snapshot, if any.
func (p *persister) writeOnce() {
	p.mu.Lock()
	if p.written == p.scheduled {
		p.mu.Unlock()
		return
	}
	data, gen := p.pending, p.scheduled
	p.pending = nil
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	err := p.store.Put(ctx, p.key, data)
	cancel()

	p.mu.Lock()
	p.written = gen
	if err != nil {
		p.failures++
		p.lastErr = fmt.Errorf("%w: %v", ErrStorageWrite, err)
	} else {
		p.saves++
		p.lastSaved = time.Now()
		p.lastErr = nil
	}
	p.mu.Unlock()

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"key":        p.key,
			"generation": gen,
		}).WithError(err).Error("failed to save ledger")
		return
	}
	logrus.WithFields(logrus.Fields{
		"key":        p.key,
		"generation": gen,
		"bytes":      len(data),
	}).Debug("ledger saved")
}

// flush blocks until every snapshot scheduled before the call was written
// or attempted, or ctx is done.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.scheduled
	p.mu.Unlock()

	for {
		p.mu.Lock()
		written := p.written
		p.mu.Unlock()
		if written >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// stop flushes and terminates the background loop.
func (p *persister) stop(ctx context.Context) error {
	err := p.flush(ctx)
	p.cancel()
	select {
	case <-p.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (p *persister) stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := Stats{
		Saves:        p.saves,
		SaveFailures: p.failures,
		LastSavedAt:  p.lastSaved,
		Pending:      p.written != p.scheduled,
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	return st
}
