package middleware

import (
	"slices"
	"sync"

	"github.com/broady/tymock"
)

// Recorder counts factory calls by key.
//
//	rec := middleware.NewRecorder()
//	registry.WithInterceptor(rec.Interceptor())
//	...
//	rec.Count("@User")
type Recorder struct {
	mu     sync.Mutex
	counts map[string]int
	order  []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[string]int)}
}

// Interceptor returns an interceptor that records each call before
// running the factory.
func (r *Recorder) Interceptor() tymock.Interceptor {
	return func(info *tymock.CallInfo, g tymock.Generics, next tymock.Factory) tymock.Value {
		r.mu.Lock()
		r.counts[info.Key]++
		r.order = append(r.order, info.Key)
		r.mu.Unlock()
		return next(g)
	}
}

// Count returns how many times the factory under key was called.
func (r *Recorder) Count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

// Calls returns the called keys in call order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.counts)
	r.order = nil
}
