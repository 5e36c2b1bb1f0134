package tymock

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazyComputesOnce(t *testing.T) {
	var calls int
	l := NewLazy(func() Value {
		calls++
		return "v"
	})
	if l.Resolved() {
		t.Fatal("expected unresolved before first Get")
	}
	for range 3 {
		if got := l.Get(); got != "v" {
			t.Fatalf("Get() = %v, want v", got)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if !l.Resolved() {
		t.Error("expected resolved after Get")
	}
}

func TestLazySetDiscardsCompute(t *testing.T) {
	l := NewLazy(func() Value {
		t.Fatal("compute must not run after Set")
		return nil
	})
	l.Set(1.0)
	if got := l.Get(); got != 1.0 {
		t.Errorf("Get() = %v, want 1", got)
	}
}

func TestLazyUpdate(t *testing.T) {
	l := Resolved(1.0)
	l.Update(func(v Value) Value { return v.(float64) + 1 })
	if got := l.Get(); got != 2.0 {
		t.Errorf("Get() = %v, want 2", got)
	}
}

func TestLazyReentrant(t *testing.T) {
	var o *Object
	o = NewObject(
		Field("name", "a"),
		LazyField("self", func() Value {
			name, _ := o.Get("name")
			return name
		}),
	)
	if got, _ := o.Get("self"); got != "a" {
		t.Errorf("self = %v, want a", got)
	}
}

func TestLazyConcurrent(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func() Value {
		calls.Add(1)
		return "x"
	})

	var wg sync.WaitGroup
	results := make([]Value, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = l.Get()
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r != "x" {
			t.Errorf("result %d = %v, want x", i, r)
		}
	}
	if calls.Load() == 0 {
		t.Error("expected compute to run")
	}
}
