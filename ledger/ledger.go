// Package ledger is an in-memory host ledger. It runs each instruction against
// a private copy of its state and only keeps that copy if the instruction
// succeeds and the snapshot store accepts it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cosmossdk.io/log"

	"github.com/strangelove-ventures/token-bridge-relayer/store"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

type Ledger struct {
	mu sync.Mutex

	state   *state
	version uint64

	snapshots store.Snapshots
	logger    log.Logger
}

var _ types.Ledger = (*Ledger)(nil)

// New loads the latest snapshot, or writes genesis if the store is empty.
func New(ctx context.Context, logger log.Logger, snapshots store.Snapshots, genesis Genesis) (*Ledger, error) {
	l := &Ledger{
		snapshots: snapshots,
		logger:    logger.With("component", "ledger"),
	}

	snap, err := snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Version > 0 {
		if l.state, err = decodeState(snap.Data); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		l.version = snap.Version
		l.logger.Info("Loaded ledger snapshot", "version", l.version)
		return l, nil
	}

	initial, err := genesis.state()
	if err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	data, err := initial.encode()
	if err != nil {
		return nil, err
	}
	version, err := snapshots.Save(ctx, data, 0)
	switch {
	case errors.Is(err, types.ErrVersionConflict):
		// another process wrote genesis first
		if err := l.refresh(ctx); err != nil {
			return nil, err
		}
		return l, nil
	case err != nil:
		return nil, err
	}

	l.state = initial
	l.version = version
	l.logger.Info("Wrote ledger genesis", "version", l.version)
	return l, nil
}

// refresh picks up snapshots written by other processes. Callers hold l.mu.
func (l *Ledger) refresh(ctx context.Context) error {
	snap, err := l.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if snap.Version == l.version && l.state != nil {
		return nil
	}
	s, err := decodeState(snap.Data)
	if err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	l.logger.Debug("Refreshed ledger snapshot", "from", l.version, "to", snap.Version)
	l.state = s
	l.version = snap.Version
	return nil
}

// Execute implements types.Ledger.
func (l *Ledger) Execute(ctx context.Context, fn func(tx types.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.refresh(ctx); err != nil {
		return err
	}

	working, err := l.state.clone()
	if err != nil {
		return err
	}
	if err := fn(&txn{state: working}); err != nil {
		return err
	}

	data, err := working.encode()
	if err != nil {
		return err
	}
	version, err := l.snapshots.Save(ctx, data, l.version)
	if err != nil {
		l.logger.Error("Failed to save ledger snapshot", "version", l.version, "err", err)
		return err
	}

	l.state = working
	l.version = version
	return nil
}

// View implements types.Ledger.
func (l *Ledger) View(ctx context.Context, fn func(tx types.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refresh(ctx); err != nil {
		return err
	}
	working, err := l.state.clone()
	if err != nil {
		return err
	}
	return fn(&txn{state: working})
}

// Version is the snapshot version of the current state.
func (l *Ledger) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

type txn struct {
	state *state
}

func (t *txn) Accounts() types.Accounts   { return accounts{t.state} }
func (t *txn) Token() types.TokenProgram   { return tokenProgram{t.state} }
func (t *txn) System() types.SystemProgram { return systemProgram{t.state} }
func (t *txn) Bridge() types.TokenBridge   { return bridge{t.state} }
