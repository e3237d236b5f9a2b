package event

import (
	"testing"

	"github.com/dshills/neoview/internal/logger"
)

func init() {
	logger.InitNop()
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []int
	b.Subscribe(TopicFontContext, func(any) { got = append(got, 1) })
	b.Subscribe(TopicFontContext, func(any) { got = append(got, 2) })

	b.Publish(TopicFontContext, nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("delivery order = %v, want [1 2]", got)
	}
}

func TestPublishCarriesPayload(t *testing.T) {
	b := NewBus()
	var got any
	b.Subscribe(TopicConfigReload, func(p any) { got = p })

	b.Publish(TopicConfigReload, "payload")

	if got != "payload" {
		t.Errorf("payload = %v, want %q", got, "payload")
	}
}

func TestPublishIsolatedByTopic(t *testing.T) {
	b := NewBus()
	called := false
	b.Subscribe(TopicHighlightRoles, func(any) { called = true })

	b.Publish(TopicFontContext, nil)

	if called {
		t.Error("handler on another topic was invoked")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := b.Subscribe(TopicFontContext, func(any) { calls++ })

	b.Publish(TopicFontContext, nil)
	sub.Cancel()
	b.Publish(TopicFontContext, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := b.SubscriberCount(TopicFontContext); n != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", n)
	}
}

func TestCancelTwiceIsSafe(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe(TopicFontContext, func(any) {})
	sub.Cancel()
	sub.Cancel()
}

func TestPanicInHandlerDoesNotStopOthers(t *testing.T) {
	b := NewBus()
	reached := false
	b.Subscribe(TopicFontContext, func(any) { panic("boom") })
	b.Subscribe(TopicFontContext, func(any) { reached = true })

	b.Publish(TopicFontContext, nil)

	if !reached {
		t.Error("handler after a panicking one was not invoked")
	}
}
