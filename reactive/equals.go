package reactive

import "reflect"

// defaultEquals implements SameValue-style equality for signal writes: a
// write that doesn't change the value is a no-op (no version bump, no
// trigger). NaN compares equal to itself here, unlike Go's native ==,
// matching spec §4.3's "SameValue, not ===" requirement.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case float64:
		bv := any(b).(float64)
		if av != av && bv != bv { // both NaN
			return true
		}
		return av == bv
	case float32:
		bv := any(b).(float32)
		if av != av && bv != bv {
			return true
		}
		return av == bv
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		string, bool:
		_ = av
		return any(a) == any(b) // comparable, no NaN concern
	default:
		return reflect.DeepEqual(a, b)
	}
}
