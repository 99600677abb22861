package bot

type ttFlag uint8

const (
	ttExact ttFlag = iota
	ttLower
	ttUpper
)

type ttEntry struct {
	key   uint64
	depth int
	score int
	flag  ttFlag
	best  int
	valid bool
}

// transpositionTable is a fixed-size, direct-mapped cache owned by a
// single search. It is never shared between goroutines or requests.
type transpositionTable struct {
	mask    uint64
	entries []ttEntry
	hits    int
	stores  int
}

const (
	minTTBits = 4
	maxTTBits = 24
)

func newTranspositionTable(bits int) *transpositionTable {
	if bits < minTTBits {
		bits = minTTBits
	}
	if bits > maxTTBits {
		bits = maxTTBits
	}
	size := uint64(1) << uint(bits)
	return &transpositionTable{
		mask:    size - 1,
		entries: make([]ttEntry, size),
	}
}

func (tt *transpositionTable) probe(key uint64) (ttEntry, bool) {
	entry := tt.entries[key&tt.mask]
	if !entry.valid || entry.key != key {
		return ttEntry{}, false
	}
	tt.hits++
	return entry, true
}

// store keeps the deeper result when two positions share a slot; an entry
// for the same key is always refreshed.
func (tt *transpositionTable) store(key uint64, depth, score int, flag ttFlag, best int) {
	idx := key & tt.mask
	current := tt.entries[idx]
	if current.valid && current.key != key && current.depth > depth {
		return
	}
	tt.entries[idx] = ttEntry{
		key:   key,
		depth: depth,
		score: score,
		flag:  flag,
		best:  best,
		valid: true,
	}
	tt.stores++
}
