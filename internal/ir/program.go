package ir

import "stacky/internal/source"

// JumpKey identifies one crossreferenced control-flow site for the
// jump-target index (spec §4.9): the enclosing function's name (empty
// string for main) and the operation's index within that body.
type JumpKey struct {
	Function string
	Index    int
}

// WordTable is an insertion-ordered map from name to *Word. Go's map
// iteration order is randomized, but spec §5 requires the optimizer and
// codegen sink to iterate words in a stable order ("main first, then
// words in a stable iteration order") so program output is reproducible;
// WordTable carries its own order alongside the lookup map to satisfy
// that without reaching for a third-party ordered-map type the pack does
// not otherwise use.
type WordTable struct {
	byName map[string]*Word
	order  []string
}

func NewWordTable() *WordTable {
	return &WordTable{byName: make(map[string]*Word)}
}

// Set inserts or replaces the word registered under name. Replacing an
// existing name keeps its original position, matching "the later
// definition wins" (spec §4.4) without disturbing enumeration order for
// unrelated words.
func (t *WordTable) Set(name string, w *Word) {
	if _, exists := t.byName[name]; !exists {
		t.order = append(t.order, name)
	}
	t.byName[name] = w
}

func (t *WordTable) Get(name string) (*Word, bool) {
	w, ok := t.byName[name]
	return w, ok
}

func (t *WordTable) Delete(name string) {
	if _, ok := t.byName[name]; !ok {
		return
	}
	delete(t.byName, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Names returns every registered name in stable insertion order.
func (t *WordTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *WordTable) Len() int { return len(t.order) }

// Program ("GenerationInfo" in spec §3) owns every Word, Operation, and
// interned string produced by the pipeline, and is handed read-only to
// the codegen sink.
type Program struct {
	Strings     *source.Interner
	Words       *WordTable
	Main        []Operation
	JumpTargets map[JumpKey]struct{}
}

func NewProgram() *Program {
	return &Program{
		Strings:     source.NewInterner(),
		Words:       NewWordTable(),
		JumpTargets: make(map[JumpKey]struct{}),
	}
}
