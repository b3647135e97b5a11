package bytelog

// Pos is the source position of an AST node, 1-based in both fields.
type Pos struct {
	Line int
	Col  int
}

// Program is the root of a parsed ByteLog source file: an ordered
// sequence of statements.
type Program struct {
	Statements []Statement
}

// Statement is implemented by every top-level ByteLog construct.
type Statement interface {
	Pos() Pos
	statementNode()
}

// RelDecl declares a binary relation by name: `REL name`.
type RelDecl struct {
	Position Pos
	Name     string
}

func (n *RelDecl) Pos() Pos     { return n.Position }
func (*RelDecl) statementNode() {}

// Fact asserts a ground tuple into a relation: `FACT rel a b`.
//
// AtomA/AtomB hold the original identifier text when that argument slot
// was parsed as an IDENT; they are nil when the slot was an INTEGER
// literal, in which case ANum/BNum already hold the numeric value. When
// an atom is present, ANum/BNum are populated by the engine once the
// identifier has been interned.
type Fact struct {
	Position Pos
	Relation string
	ANum     int64
	BNum     int64
	AtomA    *string
	AtomB    *string
}

func (n *Fact) Pos() Pos     { return n.Position }
func (*Fact) statementNode() {}

// Rule derives new facts from existing ones: `RULE target: body, ..., emit`.
type Rule struct {
	Position Pos
	Target   string
	Body     []BodyOp
	Emit     Emit
}

func (n *Rule) Pos() Pos     { return n.Position }
func (*Rule) statementNode() {}

// Solve triggers fixpoint computation. Only the first Solve in a program
// computes anything; later ones are no-ops in bytelog/engine.
type Solve struct {
	Position Pos
}

func (n *Solve) Pos() Pos     { return n.Position }
func (*Solve) statementNode() {}

// Query asks the resolved database a question: `QUERY rel a b`.
//
// ANum/BNum are -1 to denote a wildcard (`?`) in that slot; AtomA/AtomB
// are nil whenever the corresponding slot is a wildcard or an integer
// literal, and hold the identifier text when it was an IDENT.
type Query struct {
	Position Pos
	Relation string
	ANum     int64
	BNum     int64
	AtomA    *string
	AtomB    *string
}

func (n *Query) Pos() Pos     { return n.Position }
func (*Query) statementNode() {}

// BodyOp is implemented by the two rule-body primitives, Scan and Join.
type BodyOp interface {
	Pos() Pos
	bodyOpNode()
}

// Scan iterates every fact in Relation. When MatchVar is non-nil, the
// scanned pair is filtered to those whose first column equals the
// current binding of that register, and only the second column is bound
// into a fresh register; when nil, both columns are bound.
type Scan struct {
	Position Pos
	Relation string
	MatchVar *int
}

func (n *Scan) Pos() Pos    { return n.Position }
func (*Scan) bodyOpNode()   {}

// Join looks up facts in Relation whose first column equals the current
// binding of MatchVar, binding the second column into a fresh register.
// A Join may never be the first body operation in a rule: it always
// consumes a register a prior op bound.
type Join struct {
	Position Pos
	Relation string
	MatchVar int
}

func (n *Join) Pos() Pos  { return n.Position }
func (*Join) bodyOpNode() {}

// Emit closes a rule body, inserting a derived tuple built from two
// already-bound registers into Relation.
type Emit struct {
	Position Pos
	Relation string
	VarA     int
	VarB     int
}

func (n Emit) Pos() Pos { return n.Position }
