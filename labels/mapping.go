package labels

// Pair maps one raw dataset label id to a train id.
type Pair struct {
	Source int32
	Target int32
}

// Mapping is an ordered list of label pairs. When two pairs share a source
// id the later one wins.
//
// Apply is not idempotent: it is meant to run exactly once over raw ground
// truth. Running it again over train ids rewrites any train id that also
// appears as a raw source id.
type Mapping []Pair

// table collapses the pair list into a lookup, later pairs overwriting earlier ones.
func (m Mapping) table() map[int32]int32 {
	t := make(map[int32]int32, len(m))
	for _, p := range m {
		t[p.Source] = p.Target
	}
	return t
}

// Lookup returns the target for a raw id and whether any pair covers it.
func (m Mapping) Lookup(v int32) (int32, bool) {
	found := false
	var out int32
	for _, p := range m {
		if p.Source == v {
			out, found = p.Target, true
		}
	}
	return out, found
}

// Apply returns a new array with every covered raw id replaced by its target.
// Ids that no pair covers keep their value. Replacement reads the original
// values only, so a target that is also a source is never remapped again.
//
// Arguments:
// - in: Raw ground-truth labels. Not modified.
//
// Returns:
// - The mapped labels.
//
// @example
// m := Mapping{{Source: 7, Target: 0}, {Source: 0, Target: 255}}
// out := m.Apply(gt) // 7 -> 0, 0 -> 255, everything else unchanged
func (m Mapping) Apply(in *Array) *Array {
	out := in.Clone()
	if len(m) == 0 {
		return out
	}

	// Raw ids in Cityscapes fit in a byte; use a flat table when possible.
	var (
		dense   [256]int32
		covered [256]bool
	)
	sparse := make(map[int32]int32)
	for src, dst := range m.table() {
		if src >= 0 && src < 256 {
			dense[src], covered[src] = dst, true
			continue
		}
		sparse[src] = dst
	}

	src := in.Flat()
	dst := out.Flat()
	for i, v := range src {
		if v >= 0 && v < 256 {
			if covered[v] {
				dst[i] = dense[v]
			}
			continue
		}
		if t, ok := sparse[v]; ok {
			dst[i] = t
		}
	}
	return out
}
