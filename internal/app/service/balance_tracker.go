package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
)

// Side distinguishes the two ends of a transfer.
type Side uint8

const (
	SideSource Side = iota
	SideTarget
)

func (s Side) String() string {
	if s == SideTarget {
		return "target"
	}
	return "source"
}

type balanceState = entity.DataWrapper[entity.ParsedTokenAccount]

// BalanceTracker follows the balance of the selected asset for the wallet
// connected on the selected chain. Any change of chain, asset or wallet
// restarts the fetch; only the latest fetch may commit.
type BalanceTracker struct {
	side     Side
	fetchers port.BalanceFetcherSet
	logger   port.Logger
	parent   context.Context
	now      func() time.Time

	mu      sync.Mutex
	chain   entity.ChainID
	asset   string
	wallets map[entity.ChainID]string
	state   balanceState
	gen     uint64
	cancel  context.CancelFunc
	subs    map[int]chan balanceState
	nextSub int
	closed  bool
	wg      sync.WaitGroup
}

// NewBalanceTracker creates an idle tracker. Fetches are bound to ctx.
func NewBalanceTracker(ctx context.Context, side Side, fetchers port.BalanceFetcherSet, logger port.Logger) *BalanceTracker {
	return &BalanceTracker{
		side:     side,
		fetchers: fetchers,
		logger:   logger,
		parent:   ctx,
		now:      time.Now,
		wallets:  make(map[entity.ChainID]string),
		state:    entity.Idle[entity.ParsedTokenAccount](),
		subs:     make(map[int]chan balanceState),
	}
}

// Side returns the transfer side the tracker serves.
func (t *BalanceTracker) Side() Side {
	return t.side
}

// SelectAsset selects the chain and asset to track.
func (t *BalanceTracker) SelectAsset(chain entity.ChainID, asset string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || (t.chain == chain && t.asset == asset) {
		return
	}
	t.chain, t.asset = chain, asset
	t.refetchLocked()
}

// ConnectWallet records the wallet connected on chain.
func (t *BalanceTracker) ConnectWallet(chain entity.ChainID, address string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.wallets[chain] == address {
		return
	}
	t.wallets[chain] = address
	if chain == t.chain {
		t.refetchLocked()
	}
}

// DisconnectWallet forgets the wallet connected on chain.
func (t *BalanceTracker) DisconnectWallet(chain entity.ChainID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.wallets[chain]; t.closed || !ok {
		return
	}
	delete(t.wallets, chain)
	if chain == t.chain {
		t.refetchLocked()
	}
}

// Current returns the latest state.
func (t *BalanceTracker) Current() entity.DataWrapper[entity.ParsedTokenAccount] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe returns a channel receiving state snapshots, starting with the
// current one. Slow readers only see the most recent snapshot.
func (t *BalanceTracker) Subscribe() (<-chan entity.DataWrapper[entity.ParsedTokenAccount], func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan balanceState, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- t.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if sub, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels the fetch in flight, closes all subscriptions and waits for
// the fetch goroutine to return.
func (t *BalanceTracker) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		t.gen++
		if t.cancel != nil {
			t.cancel()
		}
		for id, ch := range t.subs {
			delete(t.subs, id)
			close(ch)
		}
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *BalanceTracker) refetchLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.setLocked(entity.Idle[entity.ParsedTokenAccount]())

	wallet := t.wallets[t.chain]
	if t.chain == entity.ChainUnset || t.asset == "" || wallet == "" {
		return
	}
	fetcher, err := t.fetchers.For(t.chain)
	if err != nil {
		t.logger.Warn("No balance fetcher for chain", "side", t.side.String(), "chain", t.chain.String(), "error", err)
		return
	}

	ctx, cancel := context.WithCancel(t.parent)
	t.cancel = cancel
	t.setLocked(entity.Fetching[entity.ParsedTokenAccount]())

	t.wg.Add(1)
	go t.fetch(ctx, t.gen, fetcher, t.asset, wallet)
}

func (t *BalanceTracker) fetch(ctx context.Context, gen uint64, fetcher port.BalanceFetcher, asset, wallet string) {
	defer t.wg.Done()

	account, err := fetcher.FetchBalance(ctx, asset, wallet)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	if err != nil || account == nil {
		t.logAbort(fetcher.Chain(), asset, wallet, err)
		t.setLocked(entity.Idle[entity.ParsedTokenAccount]())
		return
	}
	t.setLocked(entity.Loaded(*account, t.now()))
}

func (t *BalanceTracker) logAbort(chain entity.ChainID, asset, wallet string, err error) {
	args := []any{"side", t.side.String(), "chain", chain.String(), "asset", asset, "wallet", wallet, "error", err}
	switch {
	case err == nil, errors.Is(err, entity.ErrInvalidAddress), errors.Is(err, entity.ErrNoTokenAccount):
		t.logger.Debug("Balance left unset", args...)
	default:
		t.logger.Warn("Balance fetch failed", args...)
	}
}

func (t *BalanceTracker) setLocked(state balanceState) {
	t.state = state
	for _, ch := range t.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// BalanceSession pairs the source and target trackers of one user session.
// Wallet connections apply to both sides.
type BalanceSession struct {
	Source *BalanceTracker
	Target *BalanceTracker
}

// NewBalanceSession creates both trackers over the same fetcher set.
func NewBalanceSession(ctx context.Context, fetchers port.BalanceFetcherSet, logger port.Logger) *BalanceSession {
	return &BalanceSession{
		Source: NewBalanceTracker(ctx, SideSource, fetchers, logger),
		Target: NewBalanceTracker(ctx, SideTarget, fetchers, logger),
	}
}

// Tracker returns the tracker of side.
func (s *BalanceSession) Tracker(side Side) *BalanceTracker {
	if side == SideTarget {
		return s.Target
	}
	return s.Source
}

func (s *BalanceSession) ConnectWallet(chain entity.ChainID, address string) {
	s.Source.ConnectWallet(chain, address)
	s.Target.ConnectWallet(chain, address)
}

func (s *BalanceSession) DisconnectWallet(chain entity.ChainID) {
	s.Source.DisconnectWallet(chain)
	s.Target.DisconnectWallet(chain)
}

func (s *BalanceSession) Close() {
	s.Source.Close()
	s.Target.Close()
}
