package descriptor

// Walk traverses d in depth-first order, calling fn for each descriptor.
// Children are skipped when fn returns false.
func Walk(d Descriptor, fn func(Descriptor) bool) {
	if d == nil || !fn(d) {
		return
	}
	switch d := d.(type) {
	case *Array:
		for _, e := range d.Elements {
			Walk(e, fn)
		}
	case *ObjectLiteral:
		for _, p := range d.Eager {
			Walk(p.Value, fn)
		}
		for _, c := range d.Lazy {
			Walk(c, fn)
		}
		if d.Call != nil {
			Walk(d.Call, fn)
		}
	case *Conditional:
		Walk(d.Value, fn)
	case *Function:
		Walk(d.Returns, fn)
	case *DeferredCall:
		for _, g := range d.Generics {
			Walk(g.Value, fn)
		}
	case *Instantiate:
		Walk(d.Source, fn)
	case *Literal, *GenericRef:
	}
}

// Count returns how many descriptors of the given kind d contains,
// including d itself.
func Count(d Descriptor, k Kind) int {
	n := 0
	Walk(d, func(x Descriptor) bool {
		if x.Kind() == k {
			n++
		}
		return true
	})
	return n
}

// Keys returns the factory keys referenced by deferred calls in d, in
// traversal order with duplicates removed.
func Keys(d Descriptor) []string {
	var keys []string
	seen := make(map[string]bool)
	Walk(d, func(x Descriptor) bool {
		if c, ok := x.(*DeferredCall); ok && !seen[c.Key] {
			seen[c.Key] = true
			keys = append(keys, c.Key)
		}
		return true
	})
	return keys
}
