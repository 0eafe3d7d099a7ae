package stream

import (
	"context"
	"strconv"
	"time"
)

// Event names
const (
	EventTick   = "tick"
	EventSecond = "second"
	EventMinute = "minute"
)

// Event is one item of a stream. Data is always a JSON value.
type Event struct {
	Name string
	Data string
}

// Source produces an unbounded sequence of events, one per interval. Next
// blocks until the next event is due and returns ctx.Err() once ctx is done.
// A Source belongs to a single connection.
type Source interface {
	Next(ctx context.Context) (Event, error)
}

// wait sleeps for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tick emits "tick" events carrying a counter starting at 1
type Tick struct {
	interval time.Duration
	count    int64
}

// NewTick returns a tick source
func NewTick(interval time.Duration) *Tick {
	return &Tick{interval: interval}
}

// Next implements Source
func (t *Tick) Next(ctx context.Context) (Event, error) {
	if err := wait(ctx, t.interval); err != nil {
		return Event{}, err
	}
	t.count++
	return Event{Name: EventTick, Data: strconv.FormatInt(t.count, 10)}, nil
}

// Clock samples local wall-clock time each interval. The event is "minute"
// on the first second of a minute and "second" otherwise.
type Clock struct {
	interval time.Duration
	now      func() time.Time
}

// NewClock returns a clock source reading the local time
func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval, now: time.Now}
}

// Next implements Source
func (c *Clock) Next(ctx context.Context) (Event, error) {
	if err := wait(ctx, c.interval); err != nil {
		return Event{}, err
	}
	return clockEvent(c.now().Local()), nil
}

func clockEvent(now time.Time) Event {
	name := EventSecond
	if now.Second() == 0 {
		name = EventMinute
	}
	return Event{Name: name, Data: formatClock(now)}
}

// formatClock renders the payload with ", " and ": " separators to match
// the clients already consuming the feed.
func formatClock(now time.Time) string {
	return "{\"hour\": " + strconv.Itoa(now.Hour()) +
		", \"minute\": " + strconv.Itoa(now.Minute()) +
		", \"second\": " + strconv.Itoa(now.Second()) + "}"
}

// Factory creates a fresh source per connection
type Factory struct {
	Interval time.Duration
}

// New returns the source for a stream resource name, or false if name is not
// a stream.
func (f Factory) New(name string) (Source, bool) {
	switch name {
	case "tick":
		return NewTick(f.Interval), true
	case "clock":
		return NewClock(f.Interval), true
	default:
		return nil, false
	}
}
