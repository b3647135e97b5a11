// Package watgen renders a parsed ByteLog program as WebAssembly Text
// (WAT), targeting a runtime such as Wasmtime. The indenting
// line-builder it writes through follows watBuilder from
// aratama-tunascript's internal/compiler/generator.go; the memory
// layout, hash function, and exported ABI (hash_fact/add_fact/has_fact,
// plus the "main"/"memory" exports) are ported from
// original_source/src/wat_gen.c.
package watgen

import (
	"strconv"
	"strings"

	"github.com/wbrown/bytelog"
)

const (
	// pageSize is the WebAssembly linear-memory page size in bytes.
	pageSize = 65536
	// factSlotSize is the byte width of one stored fact: three i32
	// fields (relation, a, b), matching add_fact's store layout.
	factSlotSize = 12
	// hashSlots is the size of the fact hash table (hash_fact's
	// "i32.rem_u 1000" modulus).
	hashSlots = 1000
)

// builder is an indenting line accumulator, in the style of
// aratama-tunascript's watBuilder.
type builder struct {
	sb     strings.Builder
	indent int
}

func (b *builder) line(s string) {
	b.sb.WriteString(strings.Repeat("  ", b.indent))
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

func (b *builder) blank() {
	b.sb.WriteByte('\n')
}

func (b *builder) String() string {
	return b.sb.String()
}

// Generate renders program as a complete WAT module. Generation is
// deterministic: the same AST always produces byte-identical output.
//
// Relation names and atom arguments are interned into one shared atom
// table, since relations and value atoms occupy the same value space:
// every string seen in facts, queries, or rules is interned together,
// the same convention bytelog/engine uses at execution time.
func Generate(program *bytelog.Program) string {
	atoms := bytelog.NewAtomTable()
	collectAtoms(program, atoms)

	w := &builder{}
	w.line("(module")
	w.indent++
	w.line(";; Generated ByteLog WebAssembly module")

	emitMemory(w, program)
	emitFactFunctions(w)
	emitRuleFunctions(w, program)
	emitQueryFunctions(w, program, atoms)
	emitMainFunction(w, program, atoms)
	emitExports(w)

	w.indent--
	w.line(")")
	return w.String()
}

// collectAtoms interns every relation name and atom argument the module
// will need a numeric ID for, in program order, so IDs come out
// deterministic across repeated generation.
func collectAtoms(program *bytelog.Program, atoms *bytelog.AtomTable) {
	bytelog.Walk(program, func(stmt bytelog.Statement) {
		switch s := stmt.(type) {
		case *bytelog.RelDecl:
			atoms.Intern(s.Name)
		case *bytelog.Fact:
			atoms.Intern(s.Relation)
			if s.AtomA != nil {
				atoms.Intern(*s.AtomA)
			}
			if s.AtomB != nil {
				atoms.Intern(*s.AtomB)
			}
		case *bytelog.Rule:
			atoms.Intern(s.Target)
			for _, op := range s.Body {
				switch o := op.(type) {
				case *bytelog.Scan:
					atoms.Intern(o.Relation)
				case *bytelog.Join:
					atoms.Intern(o.Relation)
				}
			}
			atoms.Intern(s.Emit.Relation)
		case *bytelog.Query:
			atoms.Intern(s.Relation)
			if s.AtomA != nil {
				atoms.Intern(*s.AtomA)
			}
			if s.AtomB != nil {
				atoms.Intern(*s.AtomB)
			}
		}
	})
}

// resolveArg returns the numeric i32 value for a fact/query argument:
// an interned atom ID for identifier arguments, or the literal integer
// for numeric arguments. A wildcard (num == -1, atom == nil) resolves
// to -1; callers only resolve concrete arguments.
func resolveArg(num int64, atom *string, atoms *bytelog.AtomTable) int64 {
	if atom != nil {
		id, _ := atoms.Lookup(*atom)
		return int64(id)
	}
	return num
}

// emitMemory sizes the module's linear memory per wat_gen.c's
// wat_gen_calculate_memory: enough for 3x the source facts (an estimate
// of derived-fact growth) plus, for every identifier argument of every
// FACT, its byte length plus one (repeated atoms count each time),
// rounded up to whole pages, plus one page of headroom.
func emitMemory(w *builder, program *bytelog.Program) {
	factCount := 0
	atomBytes := 0
	for _, stmt := range program.Statements {
		if f, ok := stmt.(*bytelog.Fact); ok {
			factCount++
			if f.AtomA != nil {
				atomBytes += len(*f.AtomA) + 1
			}
			if f.AtomB != nil {
				atomBytes += len(*f.AtomB) + 1
			}
		}
	}
	factCount *= 3
	memoryNeeded := factCount*factSlotSize + atomBytes
	pages := (memoryNeeded+pageSize-1)/pageSize + 1

	w.line("(memory " + itoa(pages) + ")")
	w.blank()
}

// emitFactFunctions writes hash_fact, add_fact, and has_fact, byte-level
// ports of the same three functions in wat_gen.c.
func emitFactFunctions(w *builder) {
	w.line(";; Fact database functions")
	w.line("(func $hash_fact (param $rel i32) (param $a i32) (param $b i32) (result i32)")
	w.indent++
	w.line(";; (rel * 31 + a) * 31 + b, mod " + itoa(hashSlots))
	w.line("local.get $rel")
	w.line("i32.const 31")
	w.line("i32.mul")
	w.line("local.get $a")
	w.line("i32.add")
	w.line("i32.const 31")
	w.line("i32.mul")
	w.line("local.get $b")
	w.line("i32.add")
	w.line("i32.const " + itoa(hashSlots))
	w.line("i32.rem_u")
	w.indent--
	w.line(")")
	w.blank()

	w.line("(func $add_fact (param $rel i32) (param $a i32) (param $b i32)")
	w.indent++
	w.line("(local $offset i32)")
	w.line("local.get $rel")
	w.line("local.get $a")
	w.line("local.get $b")
	w.line("call $hash_fact")
	w.line("i32.const " + itoa(factSlotSize))
	w.line("i32.mul")
	w.line("local.set $offset")
	w.line("local.get $offset")
	w.line("local.get $rel")
	w.line("i32.store")
	w.line("local.get $offset")
	w.line("i32.const 4")
	w.line("i32.add")
	w.line("local.get $a")
	w.line("i32.store")
	w.line("local.get $offset")
	w.line("i32.const 8")
	w.line("i32.add")
	w.line("local.get $b")
	w.line("i32.store")
	w.indent--
	w.line(")")
	w.blank()

	w.line("(func $has_fact (param $rel i32) (param $a i32) (param $b i32) (result i32)")
	w.indent++
	w.line("(local $offset i32)")
	w.line("(local $stored_rel i32)")
	w.line("(local $stored_a i32)")
	w.line("(local $stored_b i32)")
	w.line("local.get $rel")
	w.line("local.get $a")
	w.line("local.get $b")
	w.line("call $hash_fact")
	w.line("i32.const " + itoa(factSlotSize))
	w.line("i32.mul")
	w.line("local.set $offset")
	w.line("local.get $offset")
	w.line("i32.load")
	w.line("local.set $stored_rel")
	w.line("local.get $offset")
	w.line("i32.const 4")
	w.line("i32.add")
	w.line("i32.load")
	w.line("local.set $stored_a")
	w.line("local.get $offset")
	w.line("i32.const 8")
	w.line("i32.add")
	w.line("i32.load")
	w.line("local.set $stored_b")
	w.line("local.get $stored_rel")
	w.line("local.get $rel")
	w.line("i32.eq")
	w.line("local.get $stored_a")
	w.line("local.get $a")
	w.line("i32.eq")
	w.line("i32.and")
	w.line("local.get $stored_b")
	w.line("local.get $b")
	w.line("i32.eq")
	w.line("i32.and")
	w.indent--
	w.line(")")
	w.blank()
}

// emitRuleFunctions writes one named stub per rule, $rule_<target>_<n>,
// matching wat_gen.c's rule-function convention. Lowering a rule body
// (SCAN/JOIN/EMIT) to WAT control flow is not attempted, the same as
// the reference generator this is ported from.
func emitRuleFunctions(w *builder, program *bytelog.Program) {
	w.line(";; Rule evaluation functions")
	n := 0
	for _, stmt := range program.Statements {
		rule, ok := stmt.(*bytelog.Rule)
		if !ok {
			continue
		}
		w.line("(func $rule_" + rule.Target + "_" + itoa(n))
		n++
		w.indent++
		w.line(";; rule body evaluation not yet lowered to WAT")
		w.indent--
		w.line(")")
		w.blank()
	}
}

// emitQueryFunctions writes one $query_<n> function per QUERY statement,
// resolving concrete queries with has_fact and returning 1 unconditionally
// for any query with a wildcard argument, per wat_gen.c.
func emitQueryFunctions(w *builder, program *bytelog.Program, atoms *bytelog.AtomTable) {
	w.line(";; Query functions")
	n := 0
	for _, stmt := range program.Statements {
		q, ok := stmt.(*bytelog.Query)
		if !ok {
			continue
		}
		w.line("(func $query_" + itoa(n) + " (result i32)")
		n++
		w.indent++
		w.line(";; Query: " + q.Relation + "(" + queryArg(q.ANum, q.AtomA) + ", " + queryArg(q.BNum, q.AtomB) + ")")

		if !isWildcard(q.ANum, q.AtomA) && !isWildcard(q.BNum, q.AtomB) {
			relID, _ := atoms.Lookup(q.Relation)
			a := resolveArg(q.ANum, q.AtomA, atoms)
			b := resolveArg(q.BNum, q.AtomB, atoms)
			w.line("i32.const " + itoa(int(relID)))
			w.line("i32.const " + itoa(int(a)))
			w.line("i32.const " + itoa(int(b)))
			w.line("call $has_fact")
		} else {
			w.line("i32.const 1")
		}

		w.indent--
		w.line(")")
		w.blank()
	}
}

// emitMainFunction writes $main, which loads every source fact into the
// hash table via add_fact, in source order.
func emitMainFunction(w *builder, program *bytelog.Program, atoms *bytelog.AtomTable) {
	w.line(";; Main execution function")
	w.line("(func $main")
	w.indent++
	for _, stmt := range program.Statements {
		f, ok := stmt.(*bytelog.Fact)
		if !ok {
			continue
		}
		relID, _ := atoms.Lookup(f.Relation)
		a := resolveArg(f.ANum, f.AtomA, atoms)
		b := resolveArg(f.BNum, f.AtomB, atoms)

		w.line(";; Add fact: " + f.Relation + "(" + itoa(int(a)) + ", " + itoa(int(b)) + ")")
		w.line("i32.const " + itoa(int(relID)))
		w.line("i32.const " + itoa(int(a)))
		w.line("i32.const " + itoa(int(b)))
		w.line("call $add_fact")
		w.blank()
	}
	w.line(";; TODO: evaluate rules here once lowering lands")
	w.indent--
	w.line(")")
	w.blank()
}

// emitExports writes the module's exported ABI: main, memory, add_fact,
// and has_fact, matching wat_gen.c's wat_gen_exports.
func emitExports(w *builder) {
	w.line(";; Exports for host interface")
	w.line("(export \"main\" (func $main))")
	w.line("(export \"memory\" (memory 0))")
	w.line("(export \"add_fact\" (func $add_fact))")
	w.line("(export \"has_fact\" (func $has_fact))")
}

func isWildcard(num int64, atom *string) bool {
	return atom == nil && num == -1
}

func queryArg(num int64, atom *string) string {
	if isWildcard(num, atom) {
		return "?"
	}
	if atom != nil {
		return *atom
	}
	return itoa(int(num))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
