package service

import (
	"context"
	"sync"
	"time"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

type tvlState = entity.DataWrapper[[]entity.TVLEntry]

// MergeTVL concatenates the per-chain results in priority order (Ethereum,
// BSC, Solana, Terra). The report is fetching if any chain is, and carries the
// first non-empty error in the same order.
func MergeTVL(eth, bsc, sol, terra entity.DataWrapper[[]entity.TVLEntry]) entity.TVLReport {
	parts := [...]tvlState{eth, bsc, sol, terra}

	total := 0
	for _, p := range parts {
		total += len(p.Value())
	}
	report := entity.TVLReport{Data: make([]entity.TVLEntry, 0, total)}
	for _, p := range parts {
		report.Data = append(report.Data, p.Value()...)
		report.IsFetching = report.IsFetching || p.IsFetching
		if report.Error == "" && p.Error != "" {
			report.Error = p.Error
		}
		if p.ReceivedAt != nil && (report.ReceivedAt == nil || p.ReceivedAt.After(*report.ReceivedAt)) {
			at := *p.ReceivedAt
			report.ReceivedAt = &at
		}
	}
	return report
}

// TVLService owns the per-chain TVL states and refreshes them from their sources.
type TVLService struct {
	sources []port.TVLSource
	metrics *metrics.Metrics
	logger  port.Logger
	now     func() time.Time

	mu         sync.RWMutex
	states     map[entity.ChainID]tvlState
	gens       map[entity.ChainID]uint64
	cancelPrev context.CancelFunc
}

// NewTVLService creates a service over the given sources, one per chain. m may be nil.
func NewTVLService(sources []port.TVLSource, m *metrics.Metrics, logger port.Logger) *TVLService {
	s := &TVLService{
		sources: sources,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		states:  make(map[entity.ChainID]tvlState, len(entity.TVLPriority)),
		gens:    make(map[entity.ChainID]uint64, len(entity.TVLPriority)),
	}
	for _, chain := range entity.TVLPriority {
		s.states[chain] = entity.Idle[[]entity.TVLEntry]()
	}
	return s
}

// Refresh fetches every chain concurrently and returns the merged report.
// Starting a refresh cancels one still in flight; results of a superseded
// refresh are never committed.
func (s *TVLService) Refresh(ctx context.Context) entity.TVLReport {
	start := s.now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	s.cancelPrev = cancel
	gens := make(map[entity.ChainID]uint64, len(s.sources))
	for _, src := range s.sources {
		chain := src.Chain()
		s.gens[chain]++
		gens[chain] = s.gens[chain]
		s.states[chain] = entity.Fetching[[]entity.TVLEntry]()
	}
	s.mu.Unlock()

	var g errgroup.Group
	for _, src := range s.sources {
		g.Go(func() error {
			entries, err := src.FetchTVL(ctx)
			s.commit(src.Chain(), gens[src.Chain()], entries, err)
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.ObserveRefresh(s.now().Sub(start))
	return s.Snapshot()
}

func (s *TVLService) commit(chain entity.ChainID, gen uint64, entries []entity.TVLEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gens[chain] != gen {
		s.logger.Debug("Dropping superseded TVL result", "chain", chain.String())
		return
	}
	if err != nil {
		s.metrics.SourceError(chain)
		s.states[chain] = entity.Failed[[]entity.TVLEntry](TVLErrorMessage(chain), s.now())
		return
	}
	if entries == nil {
		entries = []entity.TVLEntry{}
	}
	s.metrics.SetEntries(chain, len(entries))
	s.states[chain] = entity.Loaded(entries, s.now())
}

// Snapshot merges the current per-chain states.
func (s *TVLService) Snapshot() entity.TVLReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MergeTVL(
		s.states[entity.ChainEthereum],
		s.states[entity.ChainBSC],
		s.states[entity.ChainSolana],
		s.states[entity.ChainTerra],
	)
}

// ChainState returns the state of a single chain.
func (s *TVLService) ChainState(chain entity.ChainID) (entity.DataWrapper[[]entity.TVLEntry], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[chain]
	return state, ok
}

// Run refreshes immediately and then every interval until ctx is done. Each
// refresh is bounded by timeout.
func (s *TVLService) Run(ctx context.Context, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		refreshCtx, cancel := context.WithTimeout(ctx, timeout)
		report := s.Refresh(refreshCtx)
		cancel()
		s.logger.Info("TVL refreshed", "entries", len(report.Data), "error", report.Error)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
