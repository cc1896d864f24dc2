package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	start := c.Now()
	if d := c.Since(start); d < 0 {
		t.Errorf("expected non-negative elapsed, got %v", d)
	}
}

func TestMockClockFrozen(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)
	if !c.Now().Equal(base) || !c.Now().Equal(base) {
		t.Fatal("frozen clock moved")
	}
	c.Advance(5 * time.Second)
	if got := c.Since(base); got != 5*time.Second {
		t.Errorf("expected 5s since base, got %v", got)
	}
	later := base.Add(time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("expected %v after Set, got %v", later, c.Now())
	}
}

func TestMockClockStep(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)
	c.Step = 3 * time.Millisecond

	start := c.Now()
	if !start.Equal(base) {
		t.Errorf("first read should return the base time, got %v", start)
	}
	if got := c.Since(start); got != 3*time.Millisecond {
		t.Errorf("expected one step elapsed, got %v", got)
	}
	c.Now()
	if got := c.Since(start); got != 6*time.Millisecond {
		t.Errorf("expected two steps elapsed, got %v", got)
	}
}
