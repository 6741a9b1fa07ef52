package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTickSourceRejectsBadInterval(t *testing.T) {
	_, err := NewTickSource(0)
	assert.Error(t, err)
	_, err = NewTickSource(-time.Second)
	assert.Error(t, err)
}

func TestTickSourceDeliversMonotonicTicks(t *testing.T) {
	ticks, err := NewTickSource(5 * time.Millisecond)
	require.NoError(t, err)
	ticks.Run()
	defer ticks.Stop()

	ch, cancel := ticks.Subscribe()
	defer cancel()

	var last Tick
	for i := 0; i < 5; i++ {
		select {
		case event := <-ch:
			assert.Greater(t, event.Tick, last)
			last = event.Tick
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}
}

func TestTickSourceDropsTicksForSlowSubscribers(t *testing.T) {
	ticks, err := NewTickSource(time.Hour)
	require.NoError(t, err)

	slow, cancelSlow := ticks.Subscribe()
	defer cancelSlow()
	fast, cancelFast := ticks.Subscribe()
	defer cancelFast()

	// Drive the clock directly; the slow subscriber never reads.
	for i := 0; i < tickChanSize+4; i++ {
		ticks.broadcast(time.Now())
	}

	assert.Len(t, slow, tickChanSize)

	received := 0
	for {
		select {
		case event := <-fast:
			received++
			assert.Equal(t, Tick(received), event.Tick)
		default:
			assert.Equal(t, tickChanSize+4, received)
			return
		}
	}
}

func TestTickSourceUnsubscribe(t *testing.T) {
	ticks, err := NewTickSource(time.Hour)
	require.NoError(t, err)

	ch, cancel := ticks.Subscribe()
	cancel()
	ticks.broadcast(time.Now())
	assert.Len(t, ch, 0)
}
