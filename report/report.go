// Package report renders engine output for the CLI: colorized status
// lines follow datalog/annotations/output.go's OutputFormatter, and
// tabular fact/query listings follow
// datalog/executor/table_formatter.go's TableFormatter. The specific
// sections rendered (parsed program summary, derived facts, per-query
// results) mirror original_source/src/demo.c's console output shape.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/engine"
	"github.com/wbrown/bytelog/factdb"
)

// Reporter writes human-readable ByteLog output to an underlying writer,
// colorizing it when that writer is a terminal.
type Reporter struct {
	w        io.Writer
	useColor bool
	atoms    *bytelog.AtomTable
}

// New returns a Reporter that renders IDs from atoms back to their
// source names.
func New(w io.Writer, atoms *bytelog.AtomTable) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}
	return &Reporter{w: w, useColor: useColor, atoms: atoms}
}

func (r *Reporter) colorize(text string, attrs ...color.Attribute) string {
	if !r.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// Header prints a titled section divider, matching demo.c's repeated
// "Title\n─────" banners.
func (r *Reporter) Header(title string) {
	fmt.Fprintln(r.w, r.colorize(title, color.Bold))
	fmt.Fprintln(r.w, strings.Repeat("─", 43))
}

// ParseSuccess and ParseFailure report the outcome of parsing.
func (r *Reporter) ParseSuccess() {
	fmt.Fprintln(r.w, r.colorize("Parse successful!", color.FgGreen))
}

func (r *Reporter) ParseFailure(err error) {
	fmt.Fprintln(r.w, r.colorize("Parse failed: ", color.FgRed)+err.Error())
}

// ExecutionSuccess and ExecutionFailure report the outcome of Engine.Run.
func (r *Reporter) ExecutionSuccess() {
	fmt.Fprintln(r.w, r.colorize("Execution successful!", color.FgGreen))
}

func (r *Reporter) ExecutionFailure(err error) {
	fmt.Fprintln(r.w, r.colorize("Execution failed: ", color.FgRed)+err.Error())
}

// Tally prints the per-kind statement counts, matching demo.c's
// "Relations declared: N" block.
func (r *Reporter) Tally(t bytelog.Tally) {
	fmt.Fprintf(r.w, "Relations declared: %d\n", t.Relations)
	fmt.Fprintf(r.w, "Facts asserted: %d\n", t.Facts)
	fmt.Fprintf(r.w, "Rules defined: %d\n", t.Rules)
	fmt.Fprintf(r.w, "Solve statements: %d\n", t.Solves)
	fmt.Fprintf(r.w, "Queries: %d\n", t.Queries)
}

// Logic prints a plain-English restatement of each statement, matching
// demo.c's "Program Logic" section.
func (r *Reporter) Logic(prog *bytelog.Program) {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *bytelog.RelDecl:
			fmt.Fprintf(r.w, "• Declares relation '%s'\n", s.Name)
		case *bytelog.Fact:
			fmt.Fprintf(r.w, "• Asserts fact: %s(%s, %s)\n", s.Relation, factArgText(s.ANum, s.AtomA), factArgText(s.BNum, s.AtomB))
		case *bytelog.Rule:
			fmt.Fprintf(r.w, "• Defines rule for '%s'\n", s.Target)
		case *bytelog.Solve:
			fmt.Fprintln(r.w, "• Computes fixpoint (derives all facts)")
		case *bytelog.Query:
			switch {
			case s.ANum != -1 && s.BNum != -1:
				fmt.Fprintf(r.w, "• Queries: Is %s(%s, %s) true?\n", s.Relation, r.queryArgText(s.ANum, s.AtomA), r.queryArgText(s.BNum, s.AtomB))
			case s.ANum != -1:
				fmt.Fprintf(r.w, "• Queries: All Y where %s(%s, Y)\n", s.Relation, r.queryArgText(s.ANum, s.AtomA))
			case s.BNum != -1:
				fmt.Fprintf(r.w, "• Queries: All X where %s(X, %s)\n", s.Relation, r.queryArgText(s.BNum, s.AtomB))
			default:
				fmt.Fprintf(r.w, "• Queries: All facts in %s\n", s.Relation)
			}
		}
	}
}

// name resolves an interned atom ID back to its source text, falling
// back to the numeric value when no atom has that ID. Atoms and integer
// literals share one value space, so an integer literal that equals an
// assigned atom ID is rendered as that atom's name.
func (r *Reporter) name(id int64) string {
	if s, ok := r.atoms.Name(int32(id)); ok {
		return s
	}
	return fmt.Sprintf("%d", id)
}

// Facts renders every relation's tuples as a markdown table, in the
// style of TableFormatter.FormatRelation. rels maps each relation's
// display name to its interned relation ID.
func (r *Reporter) Facts(db *factdb.DB, rels map[string]int32) {
	for _, name := range sortedKeys(rels) {
		pairs := db.Iterate(rels[name])
		if len(pairs) == 0 {
			continue
		}
		fmt.Fprintf(r.w, "%s:\n", r.colorize(name, color.FgCyan))
		fmt.Fprintln(r.w, r.tableOfPairs([]string{"A", "B"}, pairs))
	}
}

func (r *Reporter) tableOfPairs(headers []string, pairs []factdb.Pair) string {
	var sb strings.Builder
	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}
	table := tablewriter.NewTable(&sb,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, p := range pairs {
		table.Append([]string{r.name(p.A), r.name(p.B)})
	}
	table.Render()
	fmt.Fprintf(&sb, "\n_%d rows_\n", len(pairs))
	return sb.String()
}

// Query prints one query's description and result, matching demo.c's
// "Query N: rel(a, b)" plus result block.
func (r *Reporter) Query(n int, q *bytelog.Query, result engine.QueryResult) {
	fmt.Fprintf(r.w, "Query %d: %s(%s, %s)\n", n, q.Relation, r.queryArgText(q.ANum, q.AtomA), r.queryArgText(q.BNum, q.AtomB))

	switch result.Kind {
	case engine.ResultMembership:
		if result.Found {
			fmt.Fprintln(r.w, "  "+r.colorize("true", color.FgGreen))
		} else {
			fmt.Fprintln(r.w, "  "+r.colorize("false", color.FgRed))
		}
	case engine.ResultColumnA, engine.ResultColumnB:
		if len(result.Values) == 0 {
			fmt.Fprintln(r.w, "  No results found.")
			return
		}
		names := make([]string, len(result.Values))
		for i, v := range result.Values {
			names[i] = r.name(v)
		}
		fmt.Fprintf(r.w, "  {%s}\n", strings.Join(names, ", "))
	case engine.ResultPairs:
		if len(result.Pairs) == 0 {
			fmt.Fprintln(r.w, "  No results found.")
			return
		}
		parts := make([]string, len(result.Pairs))
		for i, p := range result.Pairs {
			parts[i] = fmt.Sprintf("(%s, %s)", r.name(p.A), r.name(p.B))
		}
		fmt.Fprintf(r.w, "  {%s}\n", strings.Join(parts, ", "))
	}
}

// factArgText renders a fact argument, which is never a wildcard: a
// literal -1 is a real integer, not a missing slot.
func factArgText(num int64, atom *string) string {
	if atom != nil {
		return *atom
	}
	return fmt.Sprintf("%d", num)
}

func (r *Reporter) queryArgText(num int64, atom *string) string {
	if atom == nil && num == -1 {
		return "?"
	}
	if atom != nil {
		return *atom
	}
	return fmt.Sprintf("%d", num)
}

func sortedKeys(m map[string]int32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isTerminal reports whether fd looks like stdout or stderr, following
// datalog/annotations/output.go's simplified terminal check.
func isTerminal(fd uintptr) bool {
	return fd == uintptr(1) || fd == uintptr(2)
}
