package notify

import (
	"testing"
	"time"
)

func TestAddAndList(t *testing.T) {
	c := NewCenter()
	c.Add("first", "m1")
	c.Add("second", "")

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// Newest first.
	if list[0].Message != "second" {
		t.Errorf("list[0] = %q, want second", list[0].Message)
	}
	if list[1].MenuID != "m1" {
		t.Errorf("list[1].MenuID = %q", list[1].MenuID)
	}
}

func TestMarkReadOrdering(t *testing.T) {
	c := NewCenter()
	a := c.Add("a", "")
	c.Add("b", "")

	if !c.MarkRead(a.ID) {
		t.Fatal("MarkRead returned false for known ID")
	}
	if c.MarkRead("nope") {
		t.Error("MarkRead returned true for unknown ID")
	}

	list := c.List()
	// Unread before read.
	if list[0].Message != "b" || list[0].Read {
		t.Errorf("list[0] = %+v, want unread b", list[0])
	}
	if list[1].Message != "a" || !list[1].Read {
		t.Errorf("list[1] = %+v, want read a", list[1])
	}
}

func TestPruneByAge(t *testing.T) {
	c := NewCenter()
	old := c.Add("old", "")
	// Backdate the first entry past the cutoff.
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == old.ID {
			c.items[i].CreatedAt = time.Now().Add(-2 * time.Hour)
		}
	}
	c.mu.Unlock()
	c.Add("fresh", "")

	if n := c.Prune(time.Hour, 0); n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
	if list := c.List(); list[0].Message != "fresh" {
		t.Errorf("survivor = %q, want fresh", list[0].Message)
	}
}

func TestPruneByCount(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 10; i++ {
		c.Add("n", "")
	}

	if n := c.Prune(0, 3); n != 7 {
		t.Errorf("pruned = %d, want 7", n)
	}
	if c.Len() != 3 {
		t.Errorf("len = %d, want 3", c.Len())
	}
}

func TestPruneDisabledBounds(t *testing.T) {
	c := NewCenter()
	c.Add("keep", "")

	if n := c.Prune(0, 0); n != 0 {
		t.Errorf("pruned = %d, want 0 with bounds disabled", n)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}
