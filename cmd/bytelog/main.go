// Command bytelog is the ByteLog CLI driver: a "demo" subcommand that
// parses and executes a `.bl` file and prints its derived facts and
// query results, a "wat-gen" subcommand that compiles a `.bl` file
// to WebAssembly Text, and a "cache" subcommand (put/get) that stores
// and prints a program's solved facts. Its flag handling and usage banner follow
// cmd/datalog/main.go.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/cache"
	"github.com/wbrown/bytelog/engine"
	"github.com/wbrown/bytelog/parser"
	"github.com/wbrown/bytelog/report"
	"github.com/wbrown/bytelog/watgen"
)

const defaultDemoFile = "testdata/example_family.bl"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [args]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  demo [file.bl]                  parse, solve, and report a ByteLog program\n")
		fmt.Fprintf(os.Stderr, "  wat-gen <in.bl> <out.wat>       compile a ByteLog program to WAT\n")
		fmt.Fprintf(os.Stderr, "  cache put <file.bl> <cache-dir> memoize a program's derived facts\n")
		fmt.Fprintf(os.Stderr, "  cache get <file.bl> <cache-dir> print a program's memoized facts\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                     # run the demo against %s\n", os.Args[0], defaultDemoFile)
		fmt.Fprintf(os.Stderr, "  %s demo family.bl      # run the demo against family.bl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s wat-gen a.bl a.wat  # compile a.bl to a.wat\n", os.Args[0])
	}
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		runDemo(defaultDemoFile)
		return
	}

	switch args[0] {
	case "demo":
		file := defaultDemoFile
		if len(args) > 1 {
			file = args[1]
		}
		runDemo(file)
	case "wat-gen":
		if len(args) != 3 {
			flag.Usage()
			os.Exit(1)
		}
		runWatGen(args[1], args[2])
	case "cache":
		if len(args) != 4 {
			flag.Usage()
			os.Exit(1)
		}
		runCache(args[1], args[2], args[3])
	default:
		runDemo(args[0])
	}
}

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func runDemo(file string) {
	source := readSource(file)

	r := report.New(os.Stdout, bytelog.NewAtomTable())
	fmt.Println("ByteLog Compiler Demo")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("\nParsing file: %s\n\n", file)

	prog, err := parser.Parse(source)
	if err != nil {
		r.ParseFailure(fmt.Errorf("parse: %w", err))
		os.Exit(1)
	}
	r.ParseSuccess()

	r.Header("\nAbstract Syntax Tree")
	fmt.Print(prog.Print())

	r.Header("\nAnalysis")
	r.Tally(prog.Tally())

	r.Header("\nProgram Logic")
	r.Logic(prog)

	r.Header("\nExecution")
	e := engine.New(prog)
	if err := e.Run(); err != nil {
		r.ExecutionFailure(fmt.Errorf("engine: %w", err))
		os.Exit(1)
	}
	r.ExecutionSuccess()

	rpt := report.New(os.Stdout, e.Atoms())
	rpt.Header("\nDerived Facts")
	rpt.Facts(e.Facts(), e.Relations())

	rpt.Header("\nQuery Results")
	n := 1
	for _, stmt := range prog.Statements {
		q, ok := stmt.(*bytelog.Query)
		if !ok {
			continue
		}
		result := e.Query(q)
		rpt.Query(n, q, result)
		n++
	}

	fmt.Println("\nByteLog program executed successfully!")
}

func runWatGen(inPath, outPath string) {
	source := readSource(inPath)

	prog, err := parser.Parse(source)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	out := watgen.Generate(prog)
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", outPath, err)
	}
	fmt.Printf("wrote %s\n", outPath)
}

func runCache(op, file, cacheDir string) {
	source := readSource(file)

	c, err := cache.Open(cacheDir)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	defer c.Close()

	switch op {
	case "put":
		prog, err := parser.Parse(source)
		if err != nil {
			log.Fatalf("parse: %v", err)
		}
		e := engine.New(prog)
		if err := e.Run(); err != nil {
			log.Fatalf("engine: %v", err)
		}

		var facts []cache.Fact
		for name, relID := range e.Relations() {
			for _, pair := range e.Facts().Iterate(relID) {
				facts = append(facts, cache.Fact{Relation: name, A: pair.A, B: pair.B})
			}
		}
		if err := c.Put(source, facts); err != nil {
			log.Fatalf("cache: %v", err)
		}
		fmt.Printf("cached %d facts for %s\n", len(facts), file)

	case "get":
		facts, found, err := c.Get(source)
		if err != nil {
			log.Fatalf("cache: %v", err)
		}
		if !found {
			fmt.Printf("no cache entry for %s\n", file)
			return
		}
		for _, f := range facts {
			fmt.Printf("%s(%d, %d)\n", f.Relation, f.A, f.B)
		}

	default:
		log.Fatalf("unknown cache operation %q (want put or get)", op)
	}
}
