package pool

import (
	"errors"
	"testing"
)

type item struct {
	Handle
	n     int
	reset bool
}

func (i *item) Reset() {
	i.n = 0
	i.reset = true
}

func newItem() *item { return &item{} }

func TestNewPrefills(t *testing.T) {
	tests := []struct {
		capacity  int
		replenish float64
		want      int
	}{
		{64, 0.5, 32},
		{10, 1, 10},
		{10, 7, 10},
		{10, 0, 1},
		{10, -3, 1},
	}
	for _, tc := range tests {
		p := New(newItem, tc.capacity, tc.replenish)
		if p.Len() != tc.want {
			t.Errorf("New(%d, %v): Len=%d want %d", tc.capacity, tc.replenish, p.Len(), tc.want)
		}
	}
}

func TestAcquireRefills(t *testing.T) {
	p := New(newItem, 4, 0.5)
	for range 5 {
		if p.Acquire() == nil {
			t.Fatal("Acquire returned nil")
		}
	}
	if p.Len() != 1 {
		t.Fatalf("expected one left after refill, got %d", p.Len())
	}
}

func TestAcquireWithoutReplenish(t *testing.T) {
	p := New(newItem, 2, 0)
	a := p.Acquire()
	b := p.Acquire()
	if a == b {
		t.Fatal("expected distinct objects")
	}
}

func TestReleaseResetsAndReuses(t *testing.T) {
	p := New(newItem, 1, 1)
	it := p.Acquire()
	it.n = 42
	if err := p.Release(it); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !it.reset || it.n != 0 {
		t.Error("Release should reset the object")
	}
	if !it.Owned() {
		t.Error("released object should be owned")
	}
	if got := p.Acquire(); got != it {
		t.Error("expected released object back")
	}
	if it.Owned() {
		t.Error("acquired object should not be owned")
	}
}

func TestDoubleReleaseIsAnError(t *testing.T) {
	p := New(newItem, 2, 1)
	it := p.Acquire()
	if err := p.Release(it); err != nil {
		t.Fatal(err)
	}
	if err := p.Release(it); !errors.Is(err, ErrAlreadyPooled) {
		t.Fatalf("expected ErrAlreadyPooled, got %v", err)
	}

	other := New(newItem, 2, 1)
	if err := other.Release(it); !errors.Is(err, ErrForeignPool) {
		t.Fatalf("expected ErrForeignPool, got %v", err)
	}
}

func TestReleaseDoublesCapacity(t *testing.T) {
	p := New(newItem, 2, 1)
	extra := []*item{newItem(), newItem(), newItem()}
	if err := p.ReleaseAll(extra); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 5 {
		t.Fatalf("Len=%d want 5", p.Len())
	}
	if p.Cap() != 8 {
		t.Fatalf("Cap=%d want 8", p.Cap())
	}
}

func TestReleaseAllIsAtomic(t *testing.T) {
	p := New(newItem, 2, 1)
	a, b := newItem(), newItem()
	before := p.Len()
	if err := p.ReleaseAll([]*item{a, b, a}); !errors.Is(err, ErrAlreadyPooled) {
		t.Fatalf("expected ErrAlreadyPooled, got %v", err)
	}
	if p.Len() != before {
		t.Fatalf("nothing should be released, Len=%d", p.Len())
	}
	if a.Owned() || b.Owned() {
		t.Fatal("ownership should be rolled back")
	}
	if err := p.ReleaseAll([]*item{a, b}); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(newItem, 0, 1)
}
