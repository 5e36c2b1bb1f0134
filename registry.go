package tymock

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Factory builds one mock value from the generic bindings of its use site.
type Factory func(generics Generics) Value

// Generic is one generic binding passed to a factory. IDs holds the
// canonical identity followed by the identities forwarded to it.
type Generic struct {
	IDs   []string
	Value func() Value
}

// Generics are the bindings passed to one factory call.
type Generics []Generic

// Lookup returns the value bound to id. Each lookup calls the binding
// again, so instantiable bindings yield fresh values.
func (g Generics) Lookup(id string) (Value, bool) {
	for _, b := range g {
		if slices.Contains(b.IDs, id) {
			if b.Value == nil {
				return nil, true
			}
			return b.Value(), true
		}
	}
	return nil, false
}

// Get returns the value bound to id, or undefined.
func (g Generics) Get(id string) Value {
	v, _ := g.Lookup(id)
	return v
}

// MethodProvider builds the function used for a mocked method. The default
// provider returns a function that calls body on every invocation.
type MethodProvider func(name string, body func() Value) *Func

// Registry maps factory keys to factories.
// Generated files register their factories when loaded and look up
// factories by key when a mock is built.
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	interceptors []Interceptor
	methods      MethodProvider
	logger       *slog.Logger
}

// Default is the registry used by generated code.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithMethodProvider replaces the function used to build mocked methods.
// It returns the registry for chaining.
func (r *Registry) WithMethodProvider(p MethodProvider) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = p
	return r
}

// WithInterceptor adds an interceptor around every factory call.
// Interceptors run in the order they were added; the first added is
// outermost.
func (r *Registry) WithInterceptor(i Interceptor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, i)
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// RegisterFactory registers f under key. Registering a key twice replaces
// the earlier factory; files compiled without a shared cache register the
// same declarations independently.
func (r *Registry) RegisterFactory(key string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; exists {
		r.log().Debug("factory replaced", slog.String("key", key))
	}
	r.factories[key] = f
}

// GetFactory returns the factory registered under key, wrapped by the
// registry's interceptors.
func (r *Registry) GetFactory(key string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[key]
	chain := chainInterceptors(r.interceptors)
	r.mu.RUnlock()

	if !ok {
		return nil, ErrFactoryNotFound.WithDetail("key", key)
	}
	if chain == nil {
		return f, nil
	}
	info := &CallInfo{Key: key, Registry: r}
	return func(g Generics) Value {
		return chain(info, g, f)
	}, nil
}

// Call builds a value with the factory registered under key.
func (r *Registry) Call(key string, generics Generics) (Value, error) {
	f, err := r.GetFactory(key)
	if err != nil {
		return nil, err
	}
	return f(generics), nil
}

// MustCall is like Call but panics if no factory is registered under key.
// Generated code uses MustCall; a missing factory means a generated file
// was not loaded.
func (r *Registry) MustCall(key string, generics Generics) Value {
	v, err := r.Call(key, generics)
	if err != nil {
		panic(fmt.Sprintf("tymock: %v", err))
	}
	return v
}

// Method returns the mocked method named name.
func (r *Registry) Method(name string, body func() Value) *Func {
	r.mu.RLock()
	p := r.methods
	r.mu.RUnlock()
	if p != nil {
		return p(name, body)
	}
	return NewFunc(name, body)
}

// Has reports whether a factory is registered under key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[key]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Reset removes every registered factory.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.factories)
}
