package event

import (
	"sync"
	"testing"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe("dependency.added", func(e Event) {
		received = e
	})

	bus.Publish(NewEdgeAddedEvent("e-1", "plan-1", "task-b", "task-a"))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	if received.EventType() != "dependency.added" {
		t.Errorf("EventType() = %q, want %q", received.EventType(), "dependency.added")
	}
	added, ok := received.(EdgeAddedEvent)
	if !ok {
		t.Fatalf("received %T, want EdgeAddedEvent", received)
	}
	if added.DependentID != "task-b" || added.PrerequisiteID != "task-a" {
		t.Errorf("edge = %s -> %s, want task-b -> task-a", added.DependentID, added.PrerequisiteID)
	}
}

func TestBus_PublishWrongType(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe("dependency.removed", func(e Event) {
		called = true
	})

	bus.Publish(NewEdgeAddedEvent("e-1", "plan-1", "b", "a"))

	if called {
		t.Error("Handler for a different event type should not be called")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var types []string
	bus.SubscribeAll(func(e Event) {
		types = append(types, e.EventType())
	})

	bus.Publish(NewEdgeAddedEvent("e-1", "p", "b", "a"))
	bus.Publish(NewTaskCompletedEvent("t-1", "p", true))
	bus.Publish(NewTaskEdgesRemovedEvent("t-1", 3))

	want := []string{"dependency.added", "task.completed", "dependency.task_cleared"}
	if len(types) != len(want) {
		t.Fatalf("received %d events, want %d", len(types), len(want))
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("types[%d] = %q, want %q", i, types[i], w)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return true for a known ID")
	}
	if bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return false for a removed ID")
	}

	bus.Publish(newBaseEvent("test.event"))
	if called {
		t.Error("Unsubscribed handler should not be called")
	}
}

func TestBus_PanickingHandler(t *testing.T) {
	bus := NewBus()

	bus.Subscribe("test.event", func(e Event) {
		panic("boom")
	})

	called := false
	bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	bus.Publish(newBaseEvent("test.event"))

	if !called {
		t.Error("A panicking handler must not block delivery to other handlers")
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(NewEdgeAddedEvent("e", "p", "b", "a"))
			}
		}()
	}
	wg.Wait()

	if count != 1000 {
		t.Errorf("handler called %d times, want 1000", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("a", func(Event) {})
	bus.Subscribe("b", func(Event) {})

	bus.Clear()

	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after Clear, want 0", bus.SubscriptionCount())
	}
}
