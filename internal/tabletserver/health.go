package tabletserver

import (
	"context"
	"sync"
	"time"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
)

const defaultHealthInterval = time.Second

// healthBroadcaster fans health snapshots out to every open StreamHealth
// call. Sends never block: a subscriber that stops draining misses updates
// instead of stalling the ticker.
type healthBroadcaster struct {
	mu   sync.Mutex
	subs map[chan *queryv1.StreamHealthResponse]struct{}
}

func newHealthBroadcaster() *healthBroadcaster {
	return &healthBroadcaster{
		subs: map[chan *queryv1.StreamHealthResponse]struct{}{},
	}
}

// subscribe registers a new subscriber and returns its channel plus a
// cancel function that must be called when the stream ends.
func (b *healthBroadcaster) subscribe() (<-chan *queryv1.StreamHealthResponse, func()) {
	ch := make(chan *queryv1.StreamHealthResponse, 4)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

// broadcast delivers shr to every subscriber that has buffer room.
func (b *healthBroadcaster) broadcast(shr *queryv1.StreamHealthResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- shr:
		default:
		}
	}
}

// subscriberCount reports how many streams are currently attached.
func (b *healthBroadcaster) subscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// startHealthTicker publishes a health snapshot on every tick until ctx
// ends. QPS is derived from the service's query counter across ticks.
func (s *Service) startHealthTicker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.healthInterval)
		defer ticker.Stop()

		lastCount := s.queries.Load()
		lastTick := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count := s.queries.Load()
				elapsed := now.Sub(lastTick).Seconds()
				if elapsed > 0 {
					s.storeQPS(float64(count-lastCount) / elapsed)
				}
				lastCount = count
				lastTick = now
				s.health.broadcast(s.healthSnapshot())
			}
		}
	}()
}

// healthSnapshot builds the current StreamHealth payload.
func (s *Service) healthSnapshot() *queryv1.StreamHealthResponse {
	target := s.target
	shr := &queryv1.StreamHealthResponse{
		Target:                    &target,
		Serving:                   s.serving.Load(),
		PrimaryTermStartTimestamp: s.started.Unix(),
		RealtimeStats: &queryv1.RealtimeStats{
			Qps: s.loadQPS(),
		},
	}
	if !shr.Serving {
		shr.RealtimeStats.HealthError = "tablet is not accepting queries"
	}
	return shr
}

// StreamHealth streams health snapshots until the caller goes away. The
// current state is sent immediately so callers never wait a full tick for
// the first update.
func (s *Service) StreamHealth(_ *queryv1.StreamHealthRequest, stream queryv1.Query_StreamHealthServer) error {
	updates, cancel := s.health.subscribe()
	defer cancel()

	if err := stream.Send(s.healthSnapshot()); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case shr := <-updates:
			if err := stream.Send(shr); err != nil {
				return err
			}
		}
	}
}
