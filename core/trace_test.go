package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_Subscribe(t *testing.T) {
	tr := NewTrace()
	defer tr.Close()

	ch, unsubscribe := tr.Subscribe(4)
	require.True(t, tr.Publish(TraceEvent{Event: RouteAdded, Desc: "route added"}))

	select {
	case ev := <-ch:
		assert.Equal(t, RouteAdded, ev.(TraceEvent).Event)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
	unsubscribe()
	unsubscribe()
}

func TestTrace_SubscribeAfterClose(t *testing.T) {
	tr := NewTrace()
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	ch, unsubscribe := tr.Subscribe(1)
	_, ok := <-ch
	assert.False(t, ok)
	unsubscribe()
}

func TestRouterEvent(t *testing.T) {
	assert.True(t, RoundLimitReached.IsWarning())
	assert.True(t, IncompleteTable.IsWarning())
	assert.False(t, RouteAdded.IsWarning())
	assert.False(t, Converged.IsWarning())
	assert.Equal(t, "RouteImproved", RouteImproved.String())
	assert.Equal(t, "Unknown", RouterEvent(42).String())
}
