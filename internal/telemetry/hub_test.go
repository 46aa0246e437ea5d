package telemetry

import (
	"testing"
	"time"

	"papertrader/internal/domain"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	events := hub.Subscribe()

	hub.Publish(domain.LifecycleEvent{Type: domain.EventReadyForLive, At: time.Now()})

	select {
	case event := <-events:
		if event.Type != domain.EventReadyForLive {
			t.Fatalf("event type=%s want=ready-for-live", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber received nothing")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	// No Run pump: the buffer fills and further publishes must drop, not hang
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(domain.LifecycleEvent{Type: domain.EventTradeOpened, At: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full hub")
	}
}
