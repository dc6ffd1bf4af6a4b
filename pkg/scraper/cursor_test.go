package scraper

import "testing"

func TestCursorAdvancesForward(t *testing.T) {
	c := NewCursor(100, 1000)

	c.Advance(250)
	if c.Pos() != 250 {
		t.Errorf("expected cursor at 250, got %d", c.Pos())
	}

	c.Advance(900)
	if c.Pos() != 900 {
		t.Errorf("expected cursor at 900, got %d", c.Pos())
	}
}

func TestCursorStallGuard(t *testing.T) {
	c := NewCursor(100, 1000)

	// batch max equal to the cursor: advance by exactly one second
	c.Advance(100)
	if c.Pos() != 101 {
		t.Errorf("expected cursor at 101 after stalled window, got %d", c.Pos())
	}

	// batch max behind the cursor: still one second forward, never backward
	c.Advance(50)
	if c.Pos() != 102 {
		t.Errorf("expected cursor at 102, got %d", c.Pos())
	}
}

func TestCursorNeverMovesBackward(t *testing.T) {
	c := NewCursor(500, 1000)

	positions := []int64{600, 300, 600, 599, 700}
	last := c.Pos()
	for _, p := range positions {
		c.Advance(p)
		if c.Pos() < last {
			t.Fatalf("cursor moved backward: %d -> %d", last, c.Pos())
		}
		last = c.Pos()
	}
}

func TestCursorDone(t *testing.T) {
	c := NewCursor(100, 200)

	if c.Done() {
		t.Error("cursor should not be done before reaching end")
	}

	c.Advance(200)
	if !c.Done() {
		t.Error("cursor should be done at end boundary")
	}

	if !NewCursor(300, 200).Done() {
		t.Error("cursor starting past end should be done immediately")
	}
}
