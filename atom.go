// Package bytelog holds the types shared by every ByteLog component: the
// atom table, the token kinds, and the AST produced by the parser.
package bytelog

// AtomTable interns strings into dense, monotonically increasing 32-bit
// IDs, assigned in insertion order starting at 0. Interning is idempotent:
// two calls to Intern with the same string always return the same ID.
//
// Unlike the global, concurrency-safe KeywordIntern
// (datalog/intern.go), an AtomTable is owned exclusively by a single
// engine or WAT generator for the duration of one run. ByteLog
// programs execute single-threaded, so no locking is needed.
type AtomTable struct {
	names []string
	ids   map[string]int32
}

// NewAtomTable returns an empty atom table.
func NewAtomTable() *AtomTable {
	return &AtomTable{
		ids: make(map[string]int32),
	}
}

// Intern returns the ID for s, assigning a new one if s has not been seen
// before.
func (t *AtomTable) Intern(s string) int32 {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := int32(len(t.names))
	t.names = append(t.names, s)
	t.ids[s] = id
	return id
}

// Lookup returns the ID for s and true, or (0, false) if s was never
// interned.
func (t *AtomTable) Lookup(s string) (int32, bool) {
	id, ok := t.ids[s]
	return id, ok
}

// Name returns the string that was interned as id, or ("", false) if id
// is out of range.
func (t *AtomTable) Name(id int32) (string, bool) {
	if id < 0 || int(id) >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// Count returns the number of distinct strings interned so far.
func (t *AtomTable) Count() int {
	return len(t.names)
}
