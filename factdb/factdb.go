// Package factdb stores the set of ground facts a ByteLog program
// asserts and derives, indexed for fast membership and scan/join
// lookups. Its shape, a triple set plus per-column lookup indices,
// streamed through a Next/Value/Close iterator, follows
// datalog/storage/store.go and datalog/executor/relation.go's Iterator
// interfaces, simplified from BadgerDB-backed persistent storage to an
// in-memory, single-run store: a program's fact set lives only for the
// lifetime of its engine.
package factdb

// Pair is a (a, b) column pair belonging to some relation.
type Pair struct {
	A, B int64
}

// triple is the map key for exact membership tests.
type triple struct {
	Rel  int32
	A, B int64
}

// relFirst is the map key for the by-(relation, first-column) index.
type relFirst struct {
	Rel int32
	A   int64
}

// relSecond is the map key for the by-(relation, second-column) index.
type relSecond struct {
	Rel int32
	B   int64
}

// DB is the fact database: a set of (relation, a, b) triples with O(1)
// amortized membership, insertion, and by-first-column lookup.
type DB struct {
	facts    map[triple]struct{}
	byRel    map[int32][]Pair
	byFirst  map[relFirst][]int64
	bySecond map[relSecond][]int64
}

// New returns an empty fact database.
func New() *DB {
	return &DB{
		facts:    make(map[triple]struct{}),
		byRel:    make(map[int32][]Pair),
		byFirst:  make(map[relFirst][]int64),
		bySecond: make(map[relSecond][]int64),
	}
}

// Add inserts (rel, a, b) and reports whether it was newly inserted.
// Insertion is idempotent: re-adding an existing triple is a no-op.
func (db *DB) Add(rel int32, a, b int64) bool {
	key := triple{Rel: rel, A: a, B: b}
	if _, exists := db.facts[key]; exists {
		return false
	}
	db.facts[key] = struct{}{}
	db.byRel[rel] = append(db.byRel[rel], Pair{A: a, B: b})
	db.byFirst[relFirst{Rel: rel, A: a}] = append(db.byFirst[relFirst{Rel: rel, A: a}], b)
	db.bySecond[relSecond{Rel: rel, B: b}] = append(db.bySecond[relSecond{Rel: rel, B: b}], a)
	return true
}

// Contains reports whether (rel, a, b) is in the database.
func (db *DB) Contains(rel int32, a, b int64) bool {
	_, ok := db.facts[triple{Rel: rel, A: a, B: b}]
	return ok
}

// Iterate returns every (a, b) pair stored for rel, in insertion order.
// Unknown relations yield an empty slice, not an error.
func (db *DB) Iterate(rel int32) []Pair {
	return db.byRel[rel]
}

// IterateByFirst returns every b such that (rel, a, b) is in the
// database, in insertion order.
func (db *DB) IterateByFirst(rel int32, a int64) []int64 {
	return db.byFirst[relFirst{Rel: rel, A: a}]
}

// IterateBySecond returns every a such that (rel, a, b) is in the
// database, in insertion order.
func (db *DB) IterateBySecond(rel int32, b int64) []int64 {
	return db.bySecond[relSecond{Rel: rel, B: b}]
}

// Size returns the number of facts stored for rel.
func (db *DB) Size(rel int32) int {
	return len(db.byRel[rel])
}

// Iterator streams the (a, b) pairs of a relation snapshot, following the
// Next/Value/Close shape of datalog/executor/relation.go's Iterator.
type Iterator struct {
	pairs []Pair
	pos   int
}

// NewIterator returns an iterator over rel's current facts.
func (db *DB) NewIterator(rel int32) *Iterator {
	return &Iterator{pairs: db.byRel[rel]}
}

// Next advances to the next pair, returning false once exhausted.
func (it *Iterator) Next() bool {
	if it.pos >= len(it.pairs) {
		return false
	}
	it.pos++
	return true
}

// Value returns the current pair.
func (it *Iterator) Value() Pair {
	return it.pairs[it.pos-1]
}

// Close releases the iterator. The in-memory iterator holds no
// resources; Close always succeeds.
func (it *Iterator) Close() error {
	return nil
}
