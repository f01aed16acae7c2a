package internal

import (
	"math"
	"reflect"
)

// SafeNotEqual reports whether b should be treated as a change from a.
//
// Values are compared with ==, except:
//   - NaN is equal to NaN, also per part of a complex number
//   - funcs, maps, slices and pointers always count as changed, their
//     content may have been mutated behind the same reference
//   - values that are not comparable always count as changed
func SafeNotEqual(a, b any) bool {
	if a == nil || b == nil {
		return a != nil || b != nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return true
	}

	switch va.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Pointer, reflect.UnsafePointer:
		return true
	case reflect.Float32, reflect.Float64:
		return floatNotEqual(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return floatNotEqual(real(ca), real(cb)) || floatNotEqual(imag(ca), imag(cb))
	}

	if !va.Comparable() || !vb.Comparable() {
		return true
	}

	return !va.Equal(vb)
}

func floatNotEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return false
	}
	return a != b
}
