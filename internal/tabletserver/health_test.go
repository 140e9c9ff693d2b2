package tabletserver

import (
	"context"
	"sync"
	"testing"
	"time"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
)

func TestHealthBroadcasterDeliversToSubscribers(t *testing.T) {
	b := newHealthBroadcaster()
	ch, cancel := b.subscribe()
	defer cancel()

	b.broadcast(&queryv1.StreamHealthResponse{Serving: true})

	select {
	case shr := <-ch:
		if !shr.Serving {
			t.Fatal("expected serving snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("expected broadcast to deliver")
	}
}

func TestHealthBroadcasterDropsWhenFull(t *testing.T) {
	b := newHealthBroadcaster()
	_, cancel := b.subscribe()
	defer cancel()

	// Exceed the subscriber buffer; broadcast must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			b.broadcast(&queryv1.StreamHealthResponse{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}

func TestHealthBroadcasterCancelRemovesSubscriber(t *testing.T) {
	b := newHealthBroadcaster()
	_, cancel := b.subscribe()
	if got := b.subscriberCount(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	cancel()
	if got := b.subscriberCount(); got != 0 {
		t.Fatalf("expected 0 subscribers after cancel, got %d", got)
	}
}

func TestHealthSnapshotReflectsServingState(t *testing.T) {
	svc := newTestService(t, Config{})

	shr := svc.healthSnapshot()
	if !shr.Serving {
		t.Fatal("expected serving snapshot")
	}
	if shr.Target == nil || shr.Target.Keyspace != "test_keyspace" || shr.Target.Shard != "0" {
		t.Fatalf("unexpected target: %+v", shr.Target)
	}
	if shr.RealtimeStats == nil || shr.RealtimeStats.HealthError != "" {
		t.Fatalf("expected healthy stats, got %+v", shr.RealtimeStats)
	}

	svc.SetServing(false)
	shr = svc.healthSnapshot()
	if shr.Serving {
		t.Fatal("expected non-serving snapshot")
	}
	if shr.RealtimeStats.HealthError == "" {
		t.Fatal("expected health error while not serving")
	}
}

// fakeHealthStream collects StreamHealth messages in memory. Sends happen
// on the stream goroutine, so access is guarded for concurrent inspection.
type fakeHealthStream struct {
	fakeExecuteStream
	mu   sync.Mutex
	sent []*queryv1.StreamHealthResponse
}

func (s *fakeHealthStream) Send(shr *queryv1.StreamHealthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, shr)
	return nil
}

func (s *fakeHealthStream) messages() []*queryv1.StreamHealthResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*queryv1.StreamHealthResponse(nil), s.sent...)
}

func TestStreamHealthSendsImmediateSnapshot(t *testing.T) {
	svc := newTestService(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeHealthStream{}
	stream.ctx = ctx

	done := make(chan error, 1)
	go func() {
		done <- svc.StreamHealth(&queryv1.StreamHealthRequest{}, stream)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for svc.health.subscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("stream health: %v", err)
	}
	sent := stream.messages()
	if len(sent) < 1 {
		t.Fatal("expected an immediate snapshot")
	}
	if !sent[0].Serving {
		t.Fatal("expected first snapshot to report serving")
	}
	if got := svc.health.subscriberCount(); got != 0 {
		t.Fatalf("expected subscriber to detach, got %d", got)
	}
}

func TestStreamHealthForwardsStateChanges(t *testing.T) {
	svc := newTestService(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := &fakeHealthStream{}
	stream.ctx = ctx

	done := make(chan error, 1)
	go func() {
		done <- svc.StreamHealth(&queryv1.StreamHealthRequest{}, stream)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for svc.health.subscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	svc.SetServing(false)

	for {
		if time.Now().After(deadline) {
			t.Fatal("state change never forwarded")
		}
		sent := stream.messages()
		if n := len(sent); n >= 2 && !sent[n-1].Serving {
			break
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("stream health: %v", err)
	}
}
