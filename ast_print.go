package bytelog

import (
	"fmt"
	"strings"
)

// Print renders a one-line-per-statement summary of the program, in the
// style of the original ByteLog demo's `ast_print_tree`.
func (p *Program) Print() string {
	var b strings.Builder
	for _, stmt := range p.Statements {
		b.WriteString(describeStatement(stmt))
		b.WriteString("\n")
	}
	return b.String()
}

func describeStatement(stmt Statement) string {
	switch s := stmt.(type) {
	case *RelDecl:
		return fmt.Sprintf("REL %s", s.Name)
	case *Fact:
		return fmt.Sprintf("FACT %s %s %s", s.Relation, argString(s.ANum, s.AtomA), argString(s.BNum, s.AtomB))
	case *Rule:
		var ops []string
		for _, op := range s.Body {
			ops = append(ops, describeBodyOp(op))
		}
		ops = append(ops, describeEmit(s.Emit))
		return fmt.Sprintf("RULE %s: %s", s.Target, strings.Join(ops, ", "))
	case *Solve:
		return "SOLVE"
	case *Query:
		return fmt.Sprintf("QUERY %s %s %s", s.Relation, queryArgString(s.ANum, s.AtomA), queryArgString(s.BNum, s.AtomB))
	default:
		return "?"
	}
}

func describeBodyOp(op BodyOp) string {
	switch o := op.(type) {
	case *Scan:
		if o.MatchVar != nil {
			return fmt.Sprintf("SCAN %s MATCH $%d", o.Relation, *o.MatchVar)
		}
		return fmt.Sprintf("SCAN %s", o.Relation)
	case *Join:
		return fmt.Sprintf("JOIN %s $%d", o.Relation, o.MatchVar)
	default:
		return "?"
	}
}

func describeEmit(e Emit) string {
	return fmt.Sprintf("EMIT %s $%d $%d", e.Relation, e.VarA, e.VarB)
}

func argString(n int64, atom *string) string {
	if atom != nil {
		return *atom
	}
	return fmt.Sprintf("%d", n)
}

func queryArgString(n int64, atom *string) string {
	if n == -1 {
		return "?"
	}
	return argString(n, atom)
}

// Tally counts statements by kind, in the order the demo driver reports
// them.
type Tally struct {
	Relations int
	Facts     int
	Rules     int
	Solves    int
	Queries   int
}

// Tally walks the program and counts each statement kind.
func (p *Program) Tally() Tally {
	var t Tally
	for _, stmt := range p.Statements {
		switch stmt.(type) {
		case *RelDecl:
			t.Relations++
		case *Fact:
			t.Facts++
		case *Rule:
			t.Rules++
		case *Solve:
			t.Solves++
		case *Query:
			t.Queries++
		}
	}
	return t
}
