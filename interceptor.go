package tymock

// CallInfo describes the factory call an interceptor wraps.
type CallInfo struct {
	Key      string
	Registry *Registry
}

// Interceptor is a hook that wraps factory calls.
//
//	func counting(counts map[string]int) tymock.Interceptor {
//	    return func(info *tymock.CallInfo, g tymock.Generics, next tymock.Factory) tymock.Value {
//	        counts[info.Key]++
//	        return next(g)
//	    }
//	}
//
// The next parameter is the next interceptor in the chain, or the factory
// itself. Interceptors can:
//   - Inspect or replace the generic bindings before calling next
//   - Modify the value returned by next
//   - Short-circuit by returning a value without calling next
type Interceptor func(info *CallInfo, generics Generics, next Factory) Value

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(info *CallInfo, g Generics, f Factory) Value {
		chain := f
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(g Generics) Value {
				return current(info, g, next)
			}
		}
		return chain(g)
	}
}
