package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/expander/internal/ports/secondary"
)

func TestBroker_FansOut(t *testing.T) {
	b := NewBroker()

	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	b.Publish(secondary.SnippetsUpdated)

	assert.Equal(t, secondary.SnippetsUpdated, <-a)
	assert.Equal(t, secondary.SnippetsUpdated, <-c)
}

func TestBroker_PublishNeverBlocks(t *testing.T) {
	b := NewBroker()
	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Publish(secondary.SnippetsUpdated)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a subscriber that never reads")
	}
}

func TestBroker_SlowSubscriberSeesEveryKind(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		b.Publish(secondary.SnippetsUpdated)
	}
	b.Publish(secondary.SettingsUpdated)

	seen := map[secondary.ChangeKind]int{}
	timeout := time.After(time.Second)
	for seen[secondary.SettingsUpdated] == 0 {
		select {
		case kind := <-ch:
			seen[kind]++
		case <-timeout:
			t.Fatalf("settings signal never delivered, got %v", seen)
		}
	}

	assert.LessOrEqual(t, seen[secondary.SnippetsUpdated], 2, "repeated snippet signals should coalesce")
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())

	b.Publish(secondary.SnippetsUpdated)
}
