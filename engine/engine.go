// Package engine implements the in-process ByteLog back-end: it loads
// facts, runs the rules to a fixpoint, and resolves queries
// against the result. Its three-pass shape (load, solve, query) and
// its explicit engine-owned atom table follow
// datalog/storage/database.go's Database type, simplified from
// BadgerDB-backed persistent storage to an in-memory, single-run fact
// database (bytelog/factdb).
package engine

import (
	"fmt"

	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/factdb"
)

// MaxRegisters is the width of a rule's variable register file.
const MaxRegisters = 16

// Engine owns the atom table, the fact database, and the parsed program
// for the duration of one run.
type Engine struct {
	Program   *bytelog.Program
	atoms     *bytelog.AtomTable
	facts     *factdb.DB
	rules     []*bytelog.Rule
	solved    bool
	relations map[string]int32
}

// New returns an engine ready to execute program.
func New(program *bytelog.Program) *Engine {
	return &Engine{
		Program:   program,
		atoms:     bytelog.NewAtomTable(),
		facts:     factdb.New(),
		relations: make(map[string]int32),
	}
}

// Atoms returns the engine's atom table, for callers (such as
// bytelog/report) that need to render an atom ID back to its name.
func (e *Engine) Atoms() *bytelog.AtomTable {
	return e.atoms
}

// Facts returns the engine's fact database.
func (e *Engine) Facts() *factdb.DB {
	return e.facts
}

// Relations returns every relation name seen so far, mapped to its
// interned ID, for callers (such as bytelog/report) that need to list
// relations by name rather than by raw ID.
func (e *Engine) Relations() map[string]int32 {
	out := make(map[string]int32, len(e.relations))
	for name, id := range e.relations {
		out[name] = id
	}
	return out
}

func (e *Engine) internRelation(name string) int32 {
	id := e.atoms.Intern(name)
	e.relations[name] = id
	return id
}

// Error is a fatal engine error, carrying the source position of the
// statement that triggered it.
type Error struct {
	Line    int
	Col     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("at line %d, column %d: %s", e.Line, e.Col, e.Message)
}

// Run executes the program statement by statement, in source order:
// facts are loaded and rules are collected as they are seen, and the
// first SOLVE statement runs the fixpoint over the facts and rules seen
// up to that point. Later SOLVE statements do nothing, so facts and
// rules that appear after the first SOLVE are not taken into the
// fixpoint. It does not resolve queries; call Query for that once Run
// has completed.
func (e *Engine) Run() error {
	if e.Program == nil {
		return &Error{Message: "no program to execute"}
	}

	for _, stmt := range e.Program.Statements {
		switch s := stmt.(type) {
		case *bytelog.RelDecl:
			e.internRelation(s.Name)
		case *bytelog.Fact:
			e.loadFact(s)
		case *bytelog.Rule:
			e.rules = append(e.rules, s)
		case *bytelog.Solve:
			e.solve()
		case *bytelog.Query:
			// Queries are resolved on demand via Query(); nothing to do here.
		}
	}
	return nil
}

// loadFact interns the fact's atom arguments (if any), records the
// resolved values in the fact's ANum/BNum, and inserts the resulting
// triple into the fact database.
func (e *Engine) loadFact(f *bytelog.Fact) {
	rel := e.internRelation(f.Relation)
	a := e.resolveArg(f.ANum, f.AtomA)
	b := e.resolveArg(f.BNum, f.AtomB)
	f.ANum, f.BNum = a, b
	e.facts.Add(rel, a, b)
}

func (e *Engine) resolveArg(num int64, atom *string) int64 {
	if atom != nil {
		return int64(e.atoms.Intern(*atom))
	}
	return num
}

// solve evaluates every rule collected so far, pass after pass, until a
// full pass derives no new fact. Each pass re-evaluates every rule over
// the whole fact database (naive evaluation). Only the first call does
// any work; repeat calls return at once without evaluating a rule.
func (e *Engine) solve() {
	if e.solved {
		return
	}
	for {
		changed := false
		for _, rule := range e.rules {
			if e.evalRule(rule) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	e.solved = true
}

// evalRule evaluates one rule body to exhaustion (a nested-loop join
// over its SCAN/JOIN operations), emitting a derived tuple for every
// satisfying binding. It reports whether any emitted tuple was novel.
func (e *Engine) evalRule(rule *bytelog.Rule) bool {
	var regs [MaxRegisters]int64
	return e.evalBody(rule, regs[:], 0, 0)
}

func (e *Engine) evalBody(rule *bytelog.Rule, regs []int64, opIndex, nextReg int) bool {
	if opIndex == len(rule.Body) {
		return e.evalEmit(rule.Emit, regs)
	}

	switch op := rule.Body[opIndex].(type) {
	case *bytelog.Scan:
		rel := e.internRelation(op.Relation)
		if op.MatchVar == nil {
			productive := false
			it := e.facts.NewIterator(rel)
			defer it.Close()
			for it.Next() {
				pair := it.Value()
				regs[nextReg] = pair.A
				regs[nextReg+1] = pair.B
				if e.evalBody(rule, regs, opIndex+1, nextReg+2) {
					productive = true
				}
			}
			return productive
		}
		matched := regs[*op.MatchVar]
		productive := false
		for _, b := range e.facts.IterateByFirst(rel, matched) {
			regs[nextReg] = b
			if e.evalBody(rule, regs, opIndex+1, nextReg+1) {
				productive = true
			}
		}
		return productive

	case *bytelog.Join:
		rel := e.internRelation(op.Relation)
		matched := regs[op.MatchVar]
		productive := false
		for _, b := range e.facts.IterateByFirst(rel, matched) {
			regs[nextReg] = b
			if e.evalBody(rule, regs, opIndex+1, nextReg+1) {
				productive = true
			}
		}
		return productive
	}

	return false
}

func (e *Engine) evalEmit(emit bytelog.Emit, regs []int64) bool {
	rel := e.internRelation(emit.Relation)
	return e.facts.Add(rel, regs[emit.VarA], regs[emit.VarB])
}
