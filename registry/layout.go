package registry

// maxSize caps size arithmetic so nested arrays cannot overflow int.
const maxSize = 1 << 40

type sizeCalculator struct {
	reg     *Registry
	cache   map[TypeID]int
	visited map[TypeID]bool
}

func computeMinSizes(r *Registry) map[TypeID]int {
	c := &sizeCalculator{
		reg:     r,
		cache:   make(map[TypeID]int, len(r.ids)),
		visited: make(map[TypeID]bool),
	}
	for _, id := range r.ids {
		c.calculate(id)
	}
	return c.cache
}

// calculate returns the minimum number of bytes any encoding of id can
// occupy. A type reached again while its own size is being computed counts
// as zero, which keeps recursive types finite and the bound conservative.
func (c *sizeCalculator) calculate(id TypeID) int {
	if size, ok := c.cache[id]; ok {
		return size
	}
	if c.visited[id] {
		return 0
	}
	def, ok := c.reg.defs[id]
	if !ok {
		return 0
	}
	c.visited[id] = true
	defer delete(c.visited, id)

	var size int
	switch def.Kind {
	case KindPrimitive:
		size = def.Prim.Size()
		if def.Prim == PrimStr {
			size = 1
		}
	case KindComposite:
		size = c.fields(def.Fields)
	case KindVariant:
		if len(def.Cases) == 0 {
			size = 1
			break
		}
		smallest := maxSize
		for _, cs := range def.Cases {
			if s := c.fields(cs.Fields); s < smallest {
				smallest = s
			}
		}
		size = saturate(1 + smallest)
	case KindSequence, KindBitSequence:
		size = 1
	case KindCompact:
		size = 1
		if target, _, err := c.reg.CompactTarget(def.Elem); err == nil && target.Kind == KindTuple {
			size = 0
		}
	case KindArray:
		elem := c.calculate(def.Elem)
		if elem > 0 && int(def.Len) > maxSize/elem {
			size = maxSize
		} else {
			size = int(def.Len) * elem
		}
	case KindTuple:
		for _, e := range def.Elems {
			size = saturate(size + c.calculate(e))
		}
	}

	c.cache[id] = size
	return size
}

func (c *sizeCalculator) fields(fields []Field) int {
	size := 0
	for _, f := range fields {
		size = saturate(size + c.calculate(f.Type))
	}
	return size
}

func saturate(n int) int {
	if n > maxSize {
		return maxSize
	}
	return n
}

// MinSize returns the smallest number of bytes a value of type id can
// encode to. Decoders use it to reject length prefixes that cannot fit in
// the remaining input.
func (r *Registry) MinSize(id TypeID) int {
	return r.minSize[id]
}
