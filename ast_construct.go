package bytelog

// This file collects the AST node constructors, mirroring the
// ast_make_* family in the original ByteLog implementation. The parser
// uses them for every node except Fact, which it builds as a struct
// literal because its argument slots may each be an atom or an integer.

// NewRelDecl constructs a RelDecl statement.
func NewRelDecl(name string, line, col int) *RelDecl {
	return &RelDecl{Position: Pos{Line: line, Col: col}, Name: name}
}

// NewFactInt constructs a Fact whose arguments are both integer literals.
func NewFactInt(relation string, a, b int64, line, col int) *Fact {
	return &Fact{Position: Pos{Line: line, Col: col}, Relation: relation, ANum: a, BNum: b}
}

// NewFactAtomA constructs a Fact whose first argument is an identifier
// and whose second is an integer literal.
func NewFactAtomA(relation, a string, b int64, line, col int) *Fact {
	return &Fact{Position: Pos{Line: line, Col: col}, Relation: relation, AtomA: &a, BNum: b}
}

// NewFactAtomB constructs a Fact whose first argument is an integer
// literal and whose second is an identifier.
func NewFactAtomB(relation string, a int64, b string, line, col int) *Fact {
	return &Fact{Position: Pos{Line: line, Col: col}, Relation: relation, ANum: a, AtomB: &b}
}

// NewFactAtoms constructs a Fact whose arguments are both identifiers.
func NewFactAtoms(relation, a, b string, line, col int) *Fact {
	return &Fact{Position: Pos{Line: line, Col: col}, Relation: relation, AtomA: &a, AtomB: &b}
}

// NewSolve constructs a Solve statement.
func NewSolve(line, col int) *Solve {
	return &Solve{Position: Pos{Line: line, Col: col}}
}

// NewScan constructs a Scan body op. Pass matchVar < 0 for an
// unconstrained scan.
func NewScan(relation string, matchVar int, line, col int) *Scan {
	s := &Scan{Position: Pos{Line: line, Col: col}, Relation: relation}
	if matchVar >= 0 {
		v := matchVar
		s.MatchVar = &v
	}
	return s
}

// NewJoin constructs a Join body op.
func NewJoin(relation string, matchVar int, line, col int) *Join {
	return &Join{Position: Pos{Line: line, Col: col}, Relation: relation, MatchVar: matchVar}
}

// NewEmit constructs an Emit terminator.
func NewEmit(relation string, varA, varB int, line, col int) Emit {
	return Emit{Position: Pos{Line: line, Col: col}, Relation: relation, VarA: varA, VarB: varB}
}

// NewRule constructs a Rule statement from its body ops and emit.
func NewRule(target string, body []BodyOp, emit Emit, line, col int) *Rule {
	return &Rule{Position: Pos{Line: line, Col: col}, Target: target, Body: body, Emit: emit}
}

// NewQuery constructs a Query statement. Pass -1 (with a nil atom) for
// a wildcard in that slot.
func NewQuery(relation string, a, b int64, atomA, atomB *string, line, col int) *Query {
	return &Query{Position: Pos{Line: line, Col: col}, Relation: relation, ANum: a, BNum: b, AtomA: atomA, AtomB: atomB}
}

// Walk calls visit for every statement in the program, in source order.
func Walk(p *Program, visit func(Statement)) {
	for _, stmt := range p.Statements {
		visit(stmt)
	}
}
