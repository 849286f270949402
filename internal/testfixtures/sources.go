package testfixtures

import (
	"cmp"
	"strconv"
	"sync/atomic"
	"time"
)

// Clock is a settable time source. Batch forecasts read it from several
// goroutines at once, so the instant is kept in an atomic.
type Clock struct {
	loc   *time.Location
	nanos atomic.Int64
}

// NewClock starts a clock at start, or at ReferenceTime when start is zero.
// Readings are reported in start's location.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	c := &Clock{loc: start.Location()}
	c.nanos.Store(start.UnixNano())
	return c
}

func (c *Clock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).In(c.loc)
}

// NowFunc returns the clock as an injectable func, falling back to the wall
// clock for a nil receiver.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps to t. The reporting location does not change.
func (c *Clock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

func (c *Clock) Advance(d time.Duration) time.Time {
	return time.Unix(0, c.nanos.Add(int64(d))).In(c.loc)
}

// Today is midnight of the current reading.
func (c *Clock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// IDGenerator hands out "<prefix>-<n>" identifiers, n starting at 1.
type IDGenerator struct {
	prefix string
	issued atomic.Uint64
}

func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: cmp.Or(prefix, "id")}
}

func (g *IDGenerator) Next() string {
	return g.prefix + "-" + strconv.FormatUint(g.issued.Add(1), 10)
}

// NextFunc returns Next as an injectable func. A nil generator yields empty
// IDs so the service under test substitutes its own.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

func (g *IDGenerator) Issued() int {
	return int(g.issued.Load())
}
