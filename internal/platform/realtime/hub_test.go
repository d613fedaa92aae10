package realtime

import (
	"sync"
	"testing"
	"time"

	"retroboard/internal/shared/events"
)

func drainOne(t *testing.T, sub *Subscription) events.Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed while waiting for event")
		}
		return event
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return events.Event{}
}

func TestBroadcastReachesOnlySubscribersOfThatRetrospective(t *testing.T) {
	hub := NewHub(nil)
	subsR := []*Subscription{
		hub.Subscribe("retro-r"),
		hub.Subscribe("retro-r"),
		hub.Subscribe("retro-r"),
	}
	subS := hub.Subscribe("retro-s")

	event := events.New("retro-r", events.TypeVoteCast, time.Now())
	event.VoteCast = &events.VoteChange{ItemID: "item-1", NewVoteCount: 1, UserID: "user-1"}
	hub.Broadcast("retro-r", event)

	for i, sub := range subsR {
		got := drainOne(t, sub)
		if got.Type != events.TypeVoteCast {
			t.Fatalf("subscriber %d: expected vote.cast, got %s", i, got.Type)
		}
		if got.VoteCast == nil || got.VoteCast.NewVoteCount != 1 {
			t.Fatalf("subscriber %d: missing vote payload", i)
		}
	}
	select {
	case unexpected := <-subS.Events():
		t.Fatalf("retro-s subscriber received %s", unexpected.Type)
	default:
	}

	hub.Unsubscribe("retro-r", subsR[0])
	hub.Broadcast("retro-r", event)
	for _, sub := range subsR[1:] {
		drainOne(t, sub)
	}
	if _, ok := <-subsR[0].Events(); ok {
		t.Fatalf("unsubscribed queue still open")
	}
}

func TestBroadcastDropsWhenQueueIsFull(t *testing.T) {
	hub := NewHub(nil)
	hub.queueSize = 2
	sub := hub.Subscribe("retro-1")

	for i := 0; i < 5; i++ {
		hub.Broadcast("retro-1", events.New("retro-1", events.TypeItemCreated, time.Now()))
	}

	received := 0
	for {
		select {
		case <-sub.Events():
			received++
			continue
		default:
		}
		break
	}
	if received != 2 {
		t.Fatalf("expected 2 buffered events, got %d", received)
	}
}

func TestUnsubscribeIsSafeUnderConcurrentBroadcast(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("retro-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			hub.Broadcast("retro-1", events.New("retro-1", events.TypeItemUpdated, time.Now()))
		}
	}()
	go func() {
		for range sub.Events() {
		}
	}()

	hub.Unsubscribe("retro-1", sub)
	hub.Unsubscribe("retro-1", sub) // repeated teardown is a no-op
	<-done
}

func TestCloseTearsDownEverySubscription(t *testing.T) {
	hub := NewHub(nil)
	subs := []*Subscription{
		hub.Subscribe("retro-1"),
		hub.Subscribe("retro-1"),
		hub.Subscribe("retro-2"),
	}

	hub.Close()
	for i, sub := range subs {
		if _, ok := <-sub.Events(); ok {
			t.Fatalf("subscription %d still open after Close", i)
		}
	}
}

func TestPerSubscriberOrderingIsPreserved(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("retro-1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			event := events.New("retro-1", events.TypeVoteCast, time.Now())
			event.VoteCast = &events.VoteChange{ItemID: "item-1", NewVoteCount: i + 1, UserID: "user-1"}
			hub.Broadcast("retro-1", event)
		}
	}()
	wg.Wait()

	for i := 0; i < 10; i++ {
		got := drainOne(t, sub)
		if got.VoteCast.NewVoteCount != i+1 {
			t.Fatalf("event %d out of order: counter %d", i, got.VoteCast.NewVoteCount)
		}
	}
}
