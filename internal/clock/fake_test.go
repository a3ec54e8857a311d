package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClock_AdvanceMovesNow(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := Fake(start)

	c.Advance(90 * time.Minute)

	assert.Equal(t, start.Add(90*time.Minute), c.Now())
}

func TestFakeClock_TickerFiresWhenDeadlinePassed(t *testing.T) {
	c := Fake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	c.Advance(500 * time.Millisecond)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired before its interval")
	default:
	}

	c.Advance(500 * time.Millisecond)
	select {
	case fired := <-ticker.C:
		assert.Equal(t, c.Now(), fired)
	default:
		t.Fatal("ticker did not fire")
	}
}

func TestFakeClock_StoppedTickerIsNotRunning(t *testing.T) {
	c := Fake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Second)
	require.Equal(t, 1, c.Running())

	ticker.Stop()
	c.Advance(5 * time.Second)

	assert.Equal(t, 0, c.Running())
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}
