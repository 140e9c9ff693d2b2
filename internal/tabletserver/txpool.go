package tabletserver

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/tabletdb/tabletd/internal/platform/errors"
	"github.com/tabletdb/tabletd/internal/storage"
)

const (
	defaultTxPoolSize = 20
	defaultTxTimeout  = 30 * time.Second

	txReaperInterval = time.Second
)

// pooledTx tracks one open transaction and its start time for the reaper.
type pooledTx struct {
	tx        *sql.Tx
	startedAt time.Time
}

// TxPool hands out server-side transactions addressed by int64 ids. The id
// space restarts from a time-seeded counter on every process start, so ids
// from a previous incarnation never resolve.
type TxPool struct {
	db      storage.QueryDB
	size    int
	timeout time.Duration
	clock   func() time.Time

	nextID atomic.Int64

	mu      sync.Mutex
	active  map[int64]*pooledTx
	pending int
}

// NewTxPool creates a transaction pool over db. Non-positive size and
// timeout fall back to defaults.
func NewTxPool(db storage.QueryDB, size int, timeout time.Duration) *TxPool {
	if size <= 0 {
		size = defaultTxPoolSize
	}
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	pool := &TxPool{
		db:      db,
		size:    size,
		timeout: timeout,
		clock:   time.Now,
		active:  map[int64]*pooledTx{},
	}
	pool.nextID.Store(time.Now().UnixNano())
	return pool
}

// Begin opens a transaction and returns its id.
func (p *TxPool) Begin(ctx context.Context) (int64, error) {
	if p == nil || p.db == nil {
		return 0, fmt.Errorf("transaction pool is not configured")
	}

	// Reserve the slot before starting the transaction so concurrent
	// callers cannot overshoot the pool size while BeginTx is in flight.
	p.mu.Lock()
	if len(p.active)+p.pending >= p.size {
		p.mu.Unlock()
		return 0, apperrors.WithMetadata(apperrors.CodeTxPoolFull, "transaction pool is full", map[string]string{
			"pool_size": fmt.Sprintf("%d", p.size),
		})
	}
	p.pending++
	p.mu.Unlock()

	// The transaction must outlive the RPC that opened it, so detach from
	// the per-call context. The reaper enforces the pool timeout instead.
	tx, err := p.db.BeginTx(context.WithoutCancel(ctx), nil)

	p.mu.Lock()
	p.pending--
	if err != nil {
		p.mu.Unlock()
		return 0, apperrors.Wrap(apperrors.CodeQueryFailed, "begin transaction", err)
	}
	txID := p.nextID.Add(1)
	p.active[txID] = &pooledTx{tx: tx, startedAt: p.clock()}
	p.mu.Unlock()
	return txID, nil
}

// Get returns the open transaction for txID. The transaction stays in the
// pool until Commit or Rollback.
func (p *TxPool) Get(txID int64) (*sql.Tx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.active[txID]
	if !ok {
		return nil, apperrors.New(apperrors.CodeTxNotFound, "transaction not found: it may have been rolled back after timing out")
	}
	return entry.tx, nil
}

// Commit commits the transaction for txID and removes it from the pool.
func (p *TxPool) Commit(txID int64) error {
	entry, err := p.take(txID)
	if err != nil {
		return err
	}
	if err := entry.tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeQueryFailed, "commit transaction", err)
	}
	return nil
}

// Rollback rolls back the transaction for txID and removes it from the pool.
func (p *TxPool) Rollback(txID int64) error {
	entry, err := p.take(txID)
	if err != nil {
		return err
	}
	if err := entry.tx.Rollback(); err != nil {
		return apperrors.Wrap(apperrors.CodeQueryFailed, "rollback transaction", err)
	}
	return nil
}

func (p *TxPool) take(txID int64) (*pooledTx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.active[txID]
	if !ok {
		return nil, apperrors.New(apperrors.CodeTxNotFound, "transaction not found: it may have been rolled back after timing out")
	}
	delete(p.active, txID)
	return entry, nil
}

// ActiveCount reports how many transactions are currently open.
func (p *TxPool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// ExpireOlderThan rolls back every transaction that started before cutoff
// and reports how many were reaped.
func (p *TxPool) ExpireOlderThan(cutoff time.Time) int {
	p.mu.Lock()
	var expired []*pooledTx
	for txID, entry := range p.active {
		if entry.startedAt.Before(cutoff) {
			expired = append(expired, entry)
			delete(p.active, txID)
		}
	}
	p.mu.Unlock()

	for _, entry := range expired {
		if err := entry.tx.Rollback(); err != nil {
			log.Printf("rollback expired transaction: %v", err)
		}
	}
	return len(expired)
}

// StartReaper rolls back timed-out transactions until ctx ends.
func (p *TxPool) StartReaper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(txReaperInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := p.ExpireOlderThan(p.clock().Add(-p.timeout)); n > 0 {
					log.Printf("reaped %d timed-out transactions", n)
				}
			}
		}
	}()
}

// Shutdown rolls back every open transaction.
func (p *TxPool) Shutdown() {
	p.ExpireOlderThan(p.clock().Add(time.Hour))
}
