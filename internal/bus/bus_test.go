package bus

import (
	"testing"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/event"
)

type recorder struct {
	names  []string
	events []event.Event
}

func (r *recorder) handler() Handler {
	return func(name string, evt event.Event) {
		r.names = append(r.names, name)
		r.events = append(r.events, evt)
	}
}

func TestBus_GlobalEventReachesEveryone(t *testing.T) {
	b := New()
	var rec1, rec2 recorder
	b.Register(rec1.handler())
	sub2 := b.Register(rec2.handler())
	b.Join(sub2, "board_1")

	b.Publish("board-created", event.Event{Type: event.BoardCreated})

	if len(rec1.events) != 1 || len(rec2.events) != 1 {
		t.Errorf("Global event should reach all subscriptions: got %d and %d", len(rec1.events), len(rec2.events))
	}
}

func TestBus_BoardEventOnlyReachesSubscribers(t *testing.T) {
	b := New()
	var joined, other, global recorder
	subJoined := b.Register(joined.handler())
	subOther := b.Register(other.handler())
	b.Register(global.handler())
	b.Join(subJoined, "board_1")
	b.Join(subOther, "board_2")

	b.Publish("card-created", event.Event{Type: event.CardCreated, BoardID: "board_1"})

	if len(joined.events) != 1 {
		t.Errorf("board_1 subscriber should receive the event, got %d", len(joined.events))
	}
	if len(other.events) != 0 {
		t.Errorf("board_2 subscriber should not receive board_1 events, got %d", len(other.events))
	}
	if len(global.events) != 0 {
		t.Errorf("Unjoined subscription should not receive board-scoped events, got %d", len(global.events))
	}
}

func TestBus_JoinSwitchesBoards(t *testing.T) {
	b := New()
	var rec recorder
	sub := b.Register(rec.handler())

	b.Join(sub, "board_1")
	b.Join(sub, "board_2") // implicitly leaves board_1

	b.Publish("card-created", event.Event{BoardID: "board_1"})
	b.Publish("card-created", event.Event{BoardID: "board_2"})

	if len(rec.events) != 1 || rec.events[0].BoardID != "board_2" {
		t.Errorf("Joining a new board should leave the previous one: %+v", rec.events)
	}
	if b.BoardSubscribers("board_1") != 0 || b.BoardSubscribers("board_2") != 1 {
		t.Error("Subscriber counts wrong after switching boards")
	}
}

func TestBus_JoinIdempotent(t *testing.T) {
	b := New()
	var rec recorder
	sub := b.Register(rec.handler())

	b.Join(sub, "board_1")
	b.Join(sub, "board_1")

	b.Publish("card-created", event.Event{BoardID: "board_1"})
	if len(rec.events) != 1 {
		t.Errorf("Expected exactly one delivery, got %d", len(rec.events))
	}
}

func TestBus_LeaveOnlyClearsMatchingBoard(t *testing.T) {
	b := New()
	sub := b.Register(func(string, event.Event) {})
	b.Join(sub, "board_1")

	b.Leave(sub, "board_2") // not the joined board: no-op
	if b.BoardSubscribers("board_1") != 1 {
		t.Error("Leaving a different board should not affect the joined one")
	}

	b.Leave(sub, "board_1")
	b.Leave(sub, "board_1") // repeat is safe
	if b.BoardSubscribers("board_1") != 0 {
		t.Error("Leave should clear the board subscription")
	}
	if b.Size() != 1 {
		t.Error("Leave should not deregister the subscription")
	}
}

func TestBus_DeregisterStopsDelivery(t *testing.T) {
	b := New()
	var rec recorder
	sub := b.Register(rec.handler())

	b.Deregister(sub)
	b.Deregister(sub) // repeat is safe

	b.Publish("board-created", event.Event{})
	if len(rec.events) != 0 {
		t.Errorf("Deregistered subscription received %d events", len(rec.events))
	}
	if b.Size() != 0 {
		t.Errorf("Expected empty bus, size=%d", b.Size())
	}
}

func TestBus_EventNamePassedThrough(t *testing.T) {
	b := New()
	var rec recorder
	b.Register(rec.handler())

	b.Publish("trello-event", event.Event{Type: event.Unknown})

	if len(rec.names) != 1 || rec.names[0] != "trello-event" {
		t.Errorf("Expected trello-event name, got %v", rec.names)
	}
}

func TestBus_PerSubscriberOrder(t *testing.T) {
	b := New()
	var rec recorder
	sub := b.Register(rec.handler())
	b.Join(sub, "board_1")

	for i := 0; i < 5; i++ {
		b.Publish("card-updated", event.Event{BoardID: "board_1", Timestamp: string(rune('a' + i))})
	}

	if len(rec.events) != 5 {
		t.Fatalf("Expected 5 deliveries, got %d", len(rec.events))
	}
	for i, evt := range rec.events {
		if evt.Timestamp != string(rune('a'+i)) {
			t.Errorf("Deliveries out of publish order at %d: %q", i, evt.Timestamp)
		}
	}
}
