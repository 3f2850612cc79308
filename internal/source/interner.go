package source

// StringID is a dense, stable identifier for an interned byte payload.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// Interner maps decoded string-literal payloads to stable ids. Identical
// payloads share an id even when the source spelled them with different
// escape sequences (spec §4.3, testable property 2).
type Interner struct {
	byID  [][]byte
	index map[string]StringID
}

// NewInterner creates an empty table; id 0 is reserved for NoStringID.
func NewInterner() *Interner {
	return &Interner{
		byID:  [][]byte{nil},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts payload if new and returns its id.
func (in *Interner) Intern(payload []byte) StringID {
	key := string(payload)
	if id, ok := in.index[key]; ok {
		return id
	}
	cpy := make([]byte, len(payload))
	copy(cpy, payload)
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[key] = id
	return id
}

// Lookup returns the payload registered under id.
func (in *Interner) Lookup(id StringID) ([]byte, bool) {
	i := int(id)
	if i < 0 || i >= len(in.byID) {
		return nil, false
	}
	return in.byID[i], true
}

// Len returns the number of distinct interned strings, including
// NoStringID's empty placeholder.
func (in *Interner) Len() int { return len(in.byID) }

// Snapshot returns every interned payload in id order, for the codegen
// sink's read-only data section.
func (in *Interner) Snapshot() [][]byte {
	out := make([][]byte, len(in.byID))
	copy(out, in.byID)
	return out
}

// Prune clears every payload whose id is not in live, reporting how many
// were removed. Ids are never renumbered: every remaining Operation that
// still references a string does so by id, so a byte payload can only be
// blanked out in place, not compacted away (spec §4.8's "erase any string
// not reachable").
func (in *Interner) Prune(live map[StringID]bool) int {
	removed := 0
	for id := 1; id < len(in.byID); id++ {
		if in.byID[id] == nil {
			continue
		}
		if live[StringID(id)] {
			continue
		}
		in.byID[id] = nil
		removed++
	}
	return removed
}
