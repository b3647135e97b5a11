package engine

import (
	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/factdb"
)

// ResultKind distinguishes the four shapes a Query can take, depending
// on which of its two argument slots are concrete versus wildcard.
type ResultKind int

const (
	// ResultMembership is a fully concrete query: "does (a, b) exist?"
	ResultMembership ResultKind = iota
	// ResultColumnB is a concrete-A/wildcard-B query: the free column's values.
	ResultColumnB
	// ResultColumnA is a wildcard-A/concrete-B query: the free column's values.
	ResultColumnA
	// ResultPairs is a wildcard/wildcard query: every tuple in the relation.
	ResultPairs
)

// QueryResult is the resolved answer to a Query statement.
type QueryResult struct {
	Kind     ResultKind
	Relation string

	// Found is valid when Kind == ResultMembership.
	Found bool
	// Values holds the free (wildcard) column's values when Kind is
	// ResultColumnA or ResultColumnB, in insertion order.
	Values []int64
	// Pairs holds every (a, b) tuple when Kind == ResultPairs, in insertion
	// order.
	Pairs []factdb.Pair
}

// Query resolves q against the current state of the fact database. An
// unknown relation yields an empty result rather than an error, the
// same way a rule body scanning an undeclared relation simply never
// matches.
func (e *Engine) Query(q *bytelog.Query) QueryResult {
	rel := e.internRelation(q.Relation)
	aWild := isWildcard(q.ANum, q.AtomA)
	bWild := isWildcard(q.BNum, q.AtomB)

	switch {
	case !aWild && !bWild:
		a := e.resolveArg(q.ANum, q.AtomA)
		b := e.resolveArg(q.BNum, q.AtomB)
		return QueryResult{
			Kind:     ResultMembership,
			Relation: q.Relation,
			Found:    e.facts.Contains(rel, a, b),
		}
	case !aWild && bWild:
		a := e.resolveArg(q.ANum, q.AtomA)
		return QueryResult{
			Kind:     ResultColumnB,
			Relation: q.Relation,
			Values:   e.facts.IterateByFirst(rel, a),
		}
	case aWild && !bWild:
		b := e.resolveArg(q.BNum, q.AtomB)
		return QueryResult{
			Kind:     ResultColumnA,
			Relation: q.Relation,
			Values:   e.facts.IterateBySecond(rel, b),
		}
	default:
		return QueryResult{
			Kind:     ResultPairs,
			Relation: q.Relation,
			Pairs:    e.facts.Iterate(rel),
		}
	}
}

func isWildcard(num int64, atom *string) bool {
	return atom == nil && num == -1
}
