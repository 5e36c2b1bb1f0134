package tymock

import "sync"

// Lazy holds a member value that is computed on first read and can be
// replaced. Thread-safe for concurrent Get/Set operations.
//
// The compute function runs without holding the lock, so it may read other
// members of the same object. If two readers race, the first value stored
// wins and both observe it.
//
// Example:
//
//	next := tymock.NewLazy(func() tymock.Value { return buildNode() })
//
//	// Computed once, then memoised
//	v := next.Get()
//
//	// Replace the memoised value
//	next.Set(tymock.Null)
type Lazy struct {
	mu      sync.Mutex
	value   Value
	done    bool
	compute func() Value
}

// NewLazy returns a value computed by compute on first read.
func NewLazy(compute func() Value) *Lazy {
	return &Lazy{compute: compute}
}

// Resolved returns a Lazy that already holds v.
func Resolved(v Value) *Lazy {
	return &Lazy{value: v, done: true}
}

// Get returns the value, computing it if needed.
func (l *Lazy) Get() Value {
	l.mu.Lock()
	if l.done {
		v := l.value
		l.mu.Unlock()
		return v
	}
	compute := l.compute
	l.mu.Unlock()

	var v Value
	if compute != nil {
		v = compute()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.value = v
		l.done = true
		l.compute = nil
	}
	return l.value
}

// Set replaces the value. A pending computation is discarded.
func (l *Lazy) Set(v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
	l.done = true
	l.compute = nil
}

// Update stores fn applied to the current value, computing it first if
// needed.
func (l *Lazy) Update(fn func(Value) Value) {
	current := l.Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = fn(current)
}

// Resolved reports whether the value has been computed or set.
func (l *Lazy) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}
