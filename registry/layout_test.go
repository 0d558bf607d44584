package registry

import "testing"

func TestMinSize(t *testing.T) {
	b := NewBuilder()
	boolean := b.Prim(PrimBool)
	char := b.Prim(PrimChar)
	str := b.Prim(PrimStr)
	u16 := b.Prim(PrimU16)
	u256 := b.Prim(PrimU256)
	vec := b.Sequence(u256)
	arr := b.Array(u16, 10)
	tup := b.Tuple(boolean, u16, char)
	unit := b.Tuple()
	opt := b.Option(u256)
	compact := b.Compact(u256)
	point := b.Composite([]string{"Point"}, Field{Name: "x", Type: u16}, Field{Name: "y", Type: u16})
	emptyEnum := b.Variant([]string{"Never"})
	nested := b.Array(b.Array(u256, 1<<20), 1<<30)

	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		name string
		id   TypeID
		want int
	}{
		{"bool", boolean, 1},
		{"char", char, 4},
		{"str", str, 1},
		{"u256", u256, 32},
		{"sequence", vec, 1},
		{"array", arr, 20},
		{"tuple", tup, 7},
		{"unit", unit, 0},
		{"option", opt, 1},
		{"compact", compact, 1},
		{"composite", point, 4},
		{"empty variant", emptyEnum, 1},
		{"saturated array", nested, maxSize},
		{"unknown", 9999, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.MinSize(tt.id); got != tt.want {
				t.Errorf("MinSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMinSize_MutualRecursion(t *testing.T) {
	b := NewBuilder()
	u8 := b.Prim(PrimU8)
	expr := b.Reserve()
	pair := b.Tuple(expr, expr)
	b.Define(expr, TypeDef{
		Kind: KindVariant,
		Path: []string{"Expr"},
		Cases: []Case{
			{Name: "Lit", Index: 0, Fields: []Field{{Type: u8}}},
			{Name: "Add", Index: 1, Fields: []Field{{Type: pair}}},
		},
	})

	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := reg.MinSize(expr); got != 1 {
		t.Errorf("MinSize(Expr) = %d, want 1", got)
	}
}
