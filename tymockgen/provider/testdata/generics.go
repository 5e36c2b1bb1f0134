package testdata

// Response is a generic response wrapper.
type Response[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// Pair holds two values of potentially different types.
type Pair[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Stringish is a union constraint.
type Stringish interface {
	~string | ~int
}

type Wrapper[T Stringish] struct {
	Item T `json:"item"`
}

// TreeNode is a recursive generic type.
//
//tymock:mock tree
type TreeNode[T any] struct {
	Value    T             `json:"value"`
	Children []TreeNode[T] `json:"children,omitempty"`
}

// UserPage instantiates a generic type.
//
//tymock:mock page hydrated
type UserPage struct {
	Response[[]User]
	Next Pair[string, int] `json:"next"`
}
