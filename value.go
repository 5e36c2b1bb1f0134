// Package tymock is the runtime for generated mocks.
//
// Generated code registers one factory per mocked declaration in a
// [Registry] and builds mock values by calling those factories. A factory
// receives the generic bindings of its use site and returns a [Value].
//
// Values are plain Go values:
//
//   - nil is undefined
//   - [Null] is null
//   - string, float64 and bool are primitives
//   - *big.Int is a bigint
//   - []Value is an array or tuple
//   - *Object is an object, possibly callable
//   - *Func is a function
package tymock

import (
	"math/big"
	"slices"
	"sync"
)

// Value is a mock value.
type Value = any

type nullValue struct{}

func (nullValue) String() string { return "null" }

// MarshalJSON encodes null.
func (nullValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Null is the null value.
var Null Value = nullValue{}

// IsNull reports whether v is [Null].
func IsNull(v Value) bool {
	_, ok := v.(nullValue)
	return ok
}

// BigInt returns the bigint with the given decimal digits. Invalid digits
// yield zero.
func BigInt(digits string) *big.Int {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// Func is a mock function. Arguments are accepted and ignored.
type Func struct {
	Name string
	body func() Value
}

// NewFunc returns a function named name whose calls return body().
func NewFunc(name string, body func() Value) *Func {
	return &Func{Name: name, body: body}
}

// Call invokes the function.
func (f *Func) Call(args ...Value) Value {
	if f == nil || f.body == nil {
		return nil
	}
	return f.body()
}

// Member is one member passed to [NewObject].
type Member struct {
	name    string
	value   Value
	compute func() Value
}

// Field returns an eager member.
func Field(name string, v Value) Member {
	return Member{name: name, value: v}
}

// LazyField returns a member computed on first read and memoised per object.
func LazyField(name string, compute func() Value) Member {
	return Member{name: name, compute: compute}
}

// Object is a mock object. Members keep their insertion order.
// Safe for concurrent use.
type Object struct {
	mu     sync.Mutex
	keys   []string
	fields map[string]*Lazy
	call   *Func
}

// NewObject returns an object with the given members.
func NewObject(members ...Member) *Object {
	o := &Object{fields: make(map[string]*Lazy, len(members))}
	for _, m := range members {
		if m.compute != nil {
			o.add(m.name, NewLazy(m.compute))
			continue
		}
		o.add(m.name, Resolved(m.value))
	}
	return o
}

// NewCallable returns an object that can also be invoked as call.
func NewCallable(call *Func, members ...Member) *Object {
	o := NewObject(members...)
	o.call = call
	return o
}

func (o *Object) add(name string, l *Lazy) {
	if _, ok := o.fields[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.fields[name] = l
}

func (o *Object) field(name string) (*Lazy, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.fields[name]
	return l, ok
}

// Get returns the member value, computing a lazy member on first read.
func (o *Object) Get(name string) (Value, bool) {
	l, ok := o.field(name)
	if !ok {
		return nil, false
	}
	return l.Get(), true
}

// Set replaces the member value. Unknown names are appended.
func (o *Object) Set(name string, v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if l, ok := o.fields[name]; ok {
		l.Set(v)
		return
	}
	o.add(name, Resolved(v))
}

// Has reports whether the object has the member.
func (o *Object) Has(name string) bool {
	_, ok := o.field(name)
	return ok
}

// Resolved reports whether a member's value has been computed.
func (o *Object) Resolved(name string) bool {
	l, ok := o.field(name)
	return ok && l.Resolved()
}

// Keys returns the member names in order.
func (o *Object) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.keys)
}

// Len returns the number of members.
func (o *Object) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.keys)
}

// Callable reports whether the object can be invoked.
func (o *Object) Callable() bool { return o.call != nil }

// Call invokes a callable object.
func (o *Object) Call(args ...Value) (Value, error) {
	if o.call == nil {
		return nil, NewError(CodeNotCallable, "object is not callable")
	}
	return o.call.Call(args...), nil
}

// Path reads a dotted member path through nested objects.
func Path(v Value, names ...string) (Value, bool) {
	for _, name := range names {
		o, ok := v.(*Object)
		if !ok {
			return nil, false
		}
		if v, ok = o.Get(name); !ok {
			return nil, false
		}
	}
	return v, true
}

// Constructor builds a fresh value each time it is called.
type Constructor func() Value

// Construct calls build with a constructor that re-runs build, and returns
// the first value built. Self-referencing generic bindings use the
// constructor to create new instances of the value under construction.
func Construct(build func(self Constructor) Value) Value {
	var self Constructor
	self = func() Value { return build(self) }
	return self()
}
