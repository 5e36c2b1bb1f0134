package tymock

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// Snapshot converts a mock value into plain data suitable for JSON
// encoding, reading lazy members down to depth levels of nesting.
// Objects beyond depth render as "[Object]". Functions render as
// "[Function name]". Undefined members are omitted; undefined array
// elements become null.
func Snapshot(v Value, depth int) any {
	switch x := v.(type) {
	case nil:
		return nil
	case nullValue:
		return nil
	case *big.Int:
		return x.String() + "n"
	case *Func:
		return "[Function " + x.Name + "]"
	case []Value:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Snapshot(e, depth)
		}
		return out
	case *Object:
		if depth <= 0 {
			return "[Object]"
		}
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			mv, _ := x.Get(k)
			if mv == nil {
				continue
			}
			out[k] = Snapshot(mv, depth-1)
		}
		if x.Callable() {
			out["()"] = Snapshot(x.call, depth-1)
		}
		return out
	default:
		return x
	}
}

// MarshalSnapshot encodes Snapshot(v, depth) as indented JSON.
func MarshalSnapshot(v Value, depth int) ([]byte, error) {
	return json.MarshalIndent(Snapshot(v, depth), "", "  ")
}

// Describe returns a short human-readable rendering of a primitive value.
func Describe(v Value) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case nullValue:
		return "null"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case *big.Int:
		return x.String() + "n"
	case *Func:
		return "[Function " + x.Name + "]"
	case []Value:
		return "[Array(" + strconv.Itoa(len(x)) + ")]"
	case *Object:
		return "[Object]"
	}
	return "[unknown]"
}
