package testfixtures

import (
	"sync"
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("zero start uses reference time", func(t *testing.T) {
		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
	})

	t.Run("advance and set", func(t *testing.T) {
		start := time.Date(2024, time.May, 6, 9, 30, 0, 0, time.UTC)
		clock := NewClock(start)

		if updated := clock.Advance(90 * time.Minute); !updated.Equal(start.Add(90 * time.Minute)) {
			t.Fatalf("advance returned %v", updated)
		}

		clock.Set(start.Add(26 * time.Hour))
		want := time.Date(2024, time.May, 7, 0, 0, 0, 0, time.UTC)
		if got := clock.Today(); !got.Equal(want) {
			t.Fatalf("expected today %v, got %v", want, got)
		}
	})

	t.Run("reports in the start location", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		clock := NewClock(time.Date(2024, time.May, 6, 23, 0, 0, 0, tokyo))
		clock.Set(time.Date(2024, time.May, 6, 15, 30, 0, 0, time.UTC))

		if got := clock.Now().Location(); got != tokyo {
			t.Fatalf("expected JST readings, got %v", got)
		}
		want := time.Date(2024, time.May, 7, 0, 0, 0, 0, tokyo)
		if got := clock.Today(); !got.Equal(want) {
			t.Fatalf("expected today %v, got %v", want, got)
		}
	})

	t.Run("now func follows the clock", func(t *testing.T) {
		clock := NewClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
		nowFn := clock.NowFunc()

		clock.Advance(time.Minute)
		if got := nowFn(); !got.Equal(clock.Now()) {
			t.Fatalf("expected updated time %v, got %v", clock.Now(), got)
		}

		var nilClock *Clock
		if nilClock.NowFunc() == nil {
			t.Fatalf("expected a fallback time source for a nil clock")
		}
	})
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	t.Run("sequential", func(t *testing.T) {
		gen := NewIDGenerator("prediction")
		if first, second := gen.Next(), gen.Next(); first != "prediction-1" || second != "prediction-2" {
			t.Fatalf("unexpected identifiers: %q, %q", first, second)
		}
		if gen.Issued() != 2 {
			t.Fatalf("expected 2 issued identifiers, got %d", gen.Issued())
		}
	})

	t.Run("default prefix", func(t *testing.T) {
		if next := NewIDGenerator("").Next(); next != "id-1" {
			t.Fatalf("expected id-1, got %q", next)
		}
	})

	t.Run("unique across goroutines", func(t *testing.T) {
		gen := NewIDGenerator("p")
		next := gen.NextFunc()

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[string]bool)
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					id := next()
					mu.Lock()
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if len(seen) != 200 || gen.Issued() != 200 {
			t.Fatalf("expected 200 unique ids, got %d (issued %d)", len(seen), gen.Issued())
		}
	})
}
