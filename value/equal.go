package value

import "bytes"

// Equal reports whether a and b are the same value. Integers compare by
// numeric value regardless of width, Bytes equals a Seq of integers with
// the same byte values, and variants compare by name when both carry one,
// otherwise by index. Composite names are ignored.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bytes:
		switch y := b.(type) {
		case Bytes:
			return bytes.Equal(x, y)
		case Seq:
			return bytesEqualSeq(x, y)
		}
		return false
	case *Int:
		y, ok := b.(*Int)
		return ok && x.Cmp(y) == 0
	case Seq:
		switch y := b.(type) {
		case Seq:
			return valuesEqual(x, y)
		case Bytes:
			return bytesEqualSeq(y, x)
		}
		return false
	case Tuple:
		y, ok := b.(Tuple)
		return ok && valuesEqual(x, y)
	case *Composite:
		y, ok := b.(*Composite)
		return ok && fieldsEqual(x.Fields, y.Fields)
	case *Variant:
		y, ok := b.(*Variant)
		if !ok {
			return false
		}
		if x.Name != "" && y.Name != "" {
			if x.Name != y.Name {
				return false
			}
		} else if x.Index != y.Index {
			return false
		}
		return fieldsEqual(x.Fields, y.Fields)
	default:
		return false
	}
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func bytesEqualSeq(b Bytes, s Seq) bool {
	if len(b) != len(s) {
		return false
	}
	for i, v := range s {
		n, ok := v.(*Int)
		if !ok {
			return false
		}
		u, ok := n.Uint64()
		if !ok || u != uint64(b[i]) {
			return false
		}
	}
	return true
}
