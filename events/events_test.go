package events

import (
	"testing"
	"time"

	"nipow/block"
)

func TestEventBus(t *testing.T) {
	eventBus := NewEventBus()

	// Test subscription
	id, eventChan := eventBus.Subscribe()

	// Verify subscription count
	if count := eventBus.GetTotalSubscriptions(); count != 1 {
		t.Errorf("Expected 1 subscriber, got %d", count)
	}
	if !eventBus.HasSubscriber(id) {
		t.Error("Expected subscriber to exist")
	}

	// Test publishing event
	head := block.Genesis()
	event := NewHeadChanged(head, false)

	// Publish event in goroutine to avoid blocking
	go func() {
		eventBus.Publish(event)
	}()

	// Wait for event
	select {
	case receivedEvent := <-eventChan:
		if receivedEvent.Type() != "HeadChanged" {
			t.Errorf("Expected HeadChanged, got %s", receivedEvent.Type())
		}
		if receivedEvent.BlockHash() != head.Hash().Hex() {
			t.Errorf("Expected block hash %s, got %s", head.Hash().Hex(), receivedEvent.BlockHash())
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for event")
	}

	// Test unsubscribe
	if !eventBus.Unsubscribe(id) {
		t.Error("Expected unsubscribe to succeed")
	}

	// Verify subscription count is 0
	if count := eventBus.GetTotalSubscriptions(); count != 0 {
		t.Errorf("Expected 0 subscribers after unsubscribe, got %d", count)
	}

	// Unsubscribing again fails cleanly
	if eventBus.Unsubscribe(id) {
		t.Error("Expected second unsubscribe to fail")
	}
}

func TestHeadChangedEvent(t *testing.T) {
	head := block.Genesis()

	event := NewHeadChanged(head, true)
	if event.Type() != EventHeadChanged {
		t.Errorf("Expected HeadChanged, got %s", event.Type())
	}
	if !event.Rebranch() {
		t.Error("Expected rebranch flag to be set")
	}
	if event.Height() != 0 {
		t.Errorf("Expected height 0, got %d", event.Height())
	}
	if event.Head() != head {
		t.Error("Expected event to carry the head block")
	}
	if event.Timestamp().IsZero() {
		t.Error("Expected event timestamp to be set")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	eventBus := NewEventBus()

	id1, eventChan1 := eventBus.Subscribe()
	id2, eventChan2 := eventBus.Subscribe()

	if count := eventBus.GetTotalSubscriptions(); count != 2 {
		t.Errorf("Expected 2 subscribers, got %d", count)
	}

	event := NewHeadChanged(block.Genesis(), false)
	eventBus.Publish(event)

	for i, ch := range []chan ChainEvent{eventChan1, eventChan2} {
		select {
		case received := <-ch:
			if received.Type() != EventHeadChanged {
				t.Errorf("Subscriber %d: expected HeadChanged, got %s", i+1, received.Type())
			}
		case <-time.After(1 * time.Second):
			t.Errorf("Subscriber %d: timeout waiting for event", i+1)
		}
	}

	eventBus.Unsubscribe(id1)
	eventBus.Unsubscribe(id2)
}
