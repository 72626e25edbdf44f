package interval

const bitsetWords = (MinutesPerWeek + 63) / 64

// BitSet marks each available minute of a canonical week. It is the
// representation the scheduler uses for overlap checks: building one is
// O(minutes) once per person per run, after which group-validity checks are
// cheap intersections instead of per-interval scans.
type BitSet struct {
	words [bitsetWords]uint64
}

// NewBitSet builds a set from one or more interval lists. Spans that run past
// the week boundary fold back onto the start of the week.
func NewBitSet(sets ...[]Interval) *BitSet {
	b := &BitSet{}
	for _, intervals := range sets {
		for _, iv := range intervals {
			b.SetSpan(iv.Start, iv.End)
		}
	}
	return b
}

// SetSpan marks every minute in [start,end) as available.
func (b *BitSet) SetSpan(start, end int) {
	for m := start; m < end; m++ {
		mm := m % MinutesPerWeek
		b.words[mm>>6] |= 1 << uint(mm&63)
	}
}

// Contains reports whether minute m is available.
func (b *BitSet) Contains(m int) bool {
	mm := ((m % MinutesPerWeek) + MinutesPerWeek) % MinutesPerWeek
	return b.words[mm>>6]&(1<<uint(mm&63)) != 0
}

// ContainsSpan reports whether every minute in [start,start+length) is
// available, folding past the week boundary.
func (b *BitSet) ContainsSpan(start, length int) bool {
	for m := start; m < start+length; m++ {
		mm := m % MinutesPerWeek
		if b.words[mm>>6]&(1<<uint(mm&63)) == 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (b *BitSet) Clone() *BitSet {
	clone := &BitSet{}
	clone.words = b.words
	return clone
}

// IntersectWith removes every minute not present in other.
func (b *BitSet) IntersectWith(other *BitSet) {
	for i := range b.words {
		b.words[i] &= other.words[i]
	}
}

// Intersect returns a new set holding the minutes present in both.
func (b *BitSet) Intersect(other *BitSet) *BitSet {
	out := b.Clone()
	out.IntersectWith(other)
	return out
}

// Intersects reports whether the two sets share any minute.
func (b *BitSet) Intersects(other *BitSet) bool {
	for i := range b.words {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Any reports whether at least one minute is available.
func (b *BitSet) Any() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// FirstSpan returns the earliest step-aligned start in [0,MinutesPerWeek)
// from which a contiguous run of length minutes is fully available.
func (b *BitSet) FirstSpan(length, step int) (int, bool) {
	if step <= 0 || length <= 0 {
		return 0, false
	}
	for start := 0; start < MinutesPerWeek; start += step {
		if b.ContainsSpan(start, length) {
			return start, true
		}
	}
	return 0, false
}

// AllSpans returns every step-aligned start from which a contiguous run of
// length minutes is fully available, in ascending order.
func (b *BitSet) AllSpans(length, step int) []int {
	if step <= 0 || length <= 0 {
		return nil
	}
	var starts []int
	for start := 0; start < MinutesPerWeek; start += step {
		if b.ContainsSpan(start, length) {
			starts = append(starts, start)
		}
	}
	return starts
}
