package clock

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AfterFunc_FiresAtDeadline(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	c.AfterFunc(time.Second, func() { fired++ })

	c.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired = %d before deadline, want 0", fired)
	}

	c.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d at deadline, want 1", fired)
	}

	c.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("one-shot timer fired %d times, want 1", fired)
	}
}

func TestFake_Every_FiresOncePerPeriod(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	c.Every(1100*time.Millisecond, func() { fired++ })

	c.Advance(3300 * time.Millisecond)
	if fired != 3 {
		t.Errorf("fired = %d, want 3", fired)
	}
}

func TestFake_Stop(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	tm := c.Every(time.Second, func() { fired++ })

	c.Advance(time.Second)
	if !tm.Stop() {
		t.Error("Stop() = false on active timer, want true")
	}
	if tm.Stop() {
		t.Error("second Stop() = true, want false")
	}
	c.Advance(5 * time.Second)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	c := NewFake(epoch)
	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "c") })

	c.Advance(3 * time.Second)

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestFake_NowFollowsCallbacks(t *testing.T) {
	c := NewFake(epoch)
	var seen time.Time
	c.AfterFunc(1500*time.Millisecond, func() { seen = c.Now() })

	c.Advance(2 * time.Second)

	if got := seen.Sub(epoch); got != 1500*time.Millisecond {
		t.Errorf("Now() inside callback = +%v, want +1.5s", got)
	}
	if got := c.Now().Sub(epoch); got != 2*time.Second {
		t.Errorf("Now() after Advance = +%v, want +2s", got)
	}
}

func TestFake_StopFromCallback(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	var tm Timer
	tm = c.Every(time.Second, func() {
		fired++
		if fired == 2 {
			tm.Stop()
		}
	})

	c.Advance(10 * time.Second)
	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
}

func TestReal_Every(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var ticks atomic.Int32
		tm := Real().Every(1100*time.Millisecond, func() { ticks.Add(1) })

		time.Sleep(3400 * time.Millisecond)
		synctest.Wait()
		tm.Stop()

		if got := ticks.Load(); got != 3 {
			t.Errorf("ticks = %d, want 3", got)
		}

		time.Sleep(5 * time.Second)
		synctest.Wait()
		if got := ticks.Load(); got != 3 {
			t.Errorf("ticks after Stop = %d, want 3", got)
		}
	})
}

func TestReal_AfterFunc(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var fired atomic.Bool
		Real().AfterFunc(time.Second, func() { fired.Store(true) })

		time.Sleep(time.Second)
		synctest.Wait()

		if !fired.Load() {
			t.Error("AfterFunc callback did not fire")
		}
	})
}
