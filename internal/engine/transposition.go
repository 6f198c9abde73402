package engine

import "github.com/arvidsson/corvid/internal/board"

// NodeType classifies how a transposition entry's score relates to the
// true value of the position: an exact score, or a bound produced by
// an alpha-beta cutoff.
type NodeType uint8

const (
	NodeEmpty NodeType = iota
	NodeExact
	NodeLower
	NodeUpper
)

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key   uint32 // upper 32 bits of the Zobrist key, for collision detection
	Depth int
	Score int
	Move  board.Move
	Type  NodeType
}

// TranspositionTable is a fixed-size, direct-mapped hash table indexed
// by key mod len(entries). It is never cleared between searches: entries
// simply age out under the replacement policy as new positions overwrite
// them.
type TranspositionTable struct {
	entries []TTEntry
}

// DefaultTTSize is the entry count used when none is configured.
const DefaultTTSize = 100000

// NewTranspositionTable allocates a table with size entries.
func NewTranspositionTable(size int) *TranspositionTable {
	if size <= 0 {
		size = DefaultTTSize
	}
	return &TranspositionTable{entries: make([]TTEntry, size)}
}

func (tt *TranspositionTable) index(key uint64) int {
	return int(key % uint64(len(tt.entries)))
}

// Probe returns the entry stored for key and whether the key matched
// (a match requires both the slot's upper-32-bit tag and a non-empty
// node type).
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	e := tt.entries[tt.index(key)]
	if e.Type == NodeEmpty || e.Key != uint32(key>>32) {
		return TTEntry{}, false
	}
	return e, true
}

// Store writes an entry, replacing the current occupant only if the
// replacement policy prefers the new one: an empty slot always
// accepts; otherwise an EXACT entry is preferred over a bound entry,
// and among entries of the same class the greater depth wins.
func (tt *TranspositionTable) Store(key uint64, depth, score int, move board.Move, nodeType NodeType) {
	idx := tt.index(key)
	cur := &tt.entries[idx]

	if cur.Type != NodeEmpty {
		curIsExact := cur.Type == NodeExact
		newIsExact := nodeType == NodeExact
		switch {
		case curIsExact && !newIsExact:
			return
		case curIsExact == newIsExact && cur.Depth > depth:
			return
		}
	}

	cur.Key = uint32(key >> 32)
	cur.Depth = depth
	cur.Score = score
	cur.Move = move
	cur.Type = nodeType
}

// Clear empties every slot. Not used between searches per the spec's
// resource model (the table survives across searches); provided for
// ucinewgame-style resets and tests.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

// Resize reallocates the table, discarding its contents. Used by the
// UCI `setoption name Hash value N` command.
func (tt *TranspositionTable) Resize(size int) {
	if size <= 0 {
		size = DefaultTTSize
	}
	tt.entries = make([]TTEntry, size)
}

// Len reports the table's entry count.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}
