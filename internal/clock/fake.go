package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock stopped at initial. Time moves only through Advance and Set.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{now: initial}
	c.tickersChanged = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a Clock for tests. It is safe for concurrent use.
type FakeClock struct {
	mu             sync.Mutex
	now            time.Time
	tickers        []*fakeTicker
	tickersChanged *sync.Cond
}

type fakeTicker struct {
	next     time.Time
	interval time.Duration
	channel  chan time.Time
	stopped  bool
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTicker{
		next:     c.now.Add(d),
		interval: d,
		channel:  make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	c.tickersChanged.Broadcast()

	return &Ticker{
		C: t.channel,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			t.stopped = true
			c.tickersChanged.Broadcast()
		},
	}
}

// Advance moves the clock forward by d and fires every ticker whose deadline was passed.
// Each ticker fires at most once per Advance; extra ticks are dropped like time.Ticker does.
func (c *FakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

// Set moves the clock to t, firing due tickers. Moving backwards fires nothing.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
	live := c.tickers[:0]
	for _, ticker := range c.tickers {
		if ticker.stopped {
			continue
		}
		live = append(live, ticker)
		if ticker.next.After(t) {
			continue
		}
		for !ticker.next.After(t) {
			ticker.next = ticker.next.Add(ticker.interval)
		}
		select {
		case ticker.channel <- t:
		default:
		}
	}
	c.tickers = live
}

// WaitForTickers blocks until at least n tickers are running, so a test can advance the
// clock only after the goroutine under test has started its ticker.
func (c *FakeClock) WaitForTickers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.runningLocked() < n {
		c.tickersChanged.Wait()
	}
}

// Running returns the number of tickers that have not been stopped.
func (c *FakeClock) Running() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runningLocked()
}

func (c *FakeClock) runningLocked() int {
	n := 0
	for _, ticker := range c.tickers {
		if !ticker.stopped {
			n++
		}
	}
	return n
}
