package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/auguria/augur/report"
	"github.com/auguria/augur/typesys"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: augur <command> [flags] <model.yaml>

commands:
  infer    guess signatures for every callable in the model
  graph    print the class hierarchy as Graphviz dot
  query    interactively query the type system
  version  print version information

Run 'augur <command> -h' for command flags.
`)
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var code int
	switch os.Args[1] {
	case "infer":
		code = runInfer(os.Args[2:])
	case "graph":
		code = runGraph(os.Args[2:])
	case "query":
		code = runQuery(os.Args[2:])
	case "version":
		printVersion()
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "augur: unknown command %q\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}

func runInfer(args []string) int {
	fs := flag.NewFlagSet("infer", flag.ExitOnError)
	reportDir := fs.String("report", "", "write signatures, stats and hierarchy under this directory")
	draws := fs.Int("draws", typesys.StatsDraws, "guesses drawn per parameter")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: augur infer [flags] <model.yaml>")
		return 2
	}

	e, err := loadEngine(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "augur: %v\n", err)
		return 1
	}

	stats := typesys.NewTypeGuessingStats()
	nameColor := color.New(color.Bold)
	typeColor := color.New(color.FgCyan)
	lines := make([]string, 0, len(e.order))
	for _, full := range e.order {
		sig := e.sigs[full]
		sig.LogStatsAndGuessSignature(stats, *draws)
		line := stats.FormattedGuessedSignatures[full]
		lines = append(lines, line)
		if i := strings.Index(line, "("); i >= 0 {
			fmt.Printf("%s%s\n", nameColor.Sprint(line[:i]), typeColor.Sprint(line[i:]))
		} else {
			fmt.Println(line)
		}
	}

	if *reportDir != "" {
		w := &report.Writer{Dir: *reportDir}
		if err := w.Write(lines, stats, e.sys.Dot()); err != nil {
			fmt.Fprintf(os.Stderr, "augur: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", *reportDir)
	}
	return 0
}

func runGraph(args []string) int {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: augur graph [flags] <model.yaml>")
		return 2
	}
	e, err := loadEngine(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "augur: %v\n", err)
		return 1
	}
	fmt.Print(e.sys.Dot())
	return 0
}

const queryHelp = `commands:
  subtype <T> ; <U>     is T a subtype of U
  maybe <T> ; <U>       could T be a subtype of U (unions read loosely)
  convert <T>           parse and render a type expression
  subclasses <name>     subclass closure of a class
  superclasses <name>   superclass closure of a class
  outside <a,b,...>     types outside the given subclass closures
  symbol <name>         types owning an accessible symbol
  dump <callable> <p>   dump the usage trace of a parameter
  help                  this text
  quit                  leave
`

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: augur query [flags] <model.yaml>")
		return 2
	}
	e, err := loadEngine(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "augur: %v\n", err)
		return 1
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("augur> ")
		if err != nil {
			// io.EOF on ^D, liner.ErrPromptAborted on ^C.
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == "quit" || input == "exit" {
			return 0
		}
		if out, done := e.evalQuery(input); done {
			fmt.Print(out)
		}
	}
}

// evalQuery runs one query-REPL command and returns its output.
func (e *engine) evalQuery(input string) (string, bool) {
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "help":
		return queryHelp, true
	case "subtype", "maybe":
		leftExpr, rightExpr, ok := strings.Cut(rest, ";")
		if !ok {
			return "expected: " + cmd + " <T> ; <U>\n", true
		}
		left, err := e.parseType(strings.TrimSpace(leftExpr))
		if err != nil {
			return fmt.Sprintf("error: %v\n", err), true
		}
		right, err := e.parseType(strings.TrimSpace(rightExpr))
		if err != nil {
			return fmt.Sprintf("error: %v\n", err), true
		}
		res := false
		if cmd == "subtype" {
			res = e.sys.IsSubtype(left, right)
		} else {
			res = e.sys.IsMaybeSubtype(left, right)
		}
		return fmt.Sprintf("%v\n", res), true
	case "convert":
		t, err := e.parseType(rest)
		if err != nil {
			return fmt.Sprintf("error: %v\n", err), true
		}
		return e.sys.TypeString(t) + "\n", true
	case "subclasses", "superclasses":
		info := e.findInfo(rest)
		if info == nil {
			return fmt.Sprintf("unknown class %q\n", rest), true
		}
		closure := e.sys.GetSubclasses(info)
		if cmd == "superclasses" {
			closure = e.sys.GetSuperclasses(info)
		}
		var b strings.Builder
		for _, ti := range closure.Slice() {
			fmt.Fprintln(&b, ti.FullName)
		}
		return b.String(), true
	case "outside":
		var exclude []*typesys.TypeInfo
		for _, name := range strings.Split(rest, ",") {
			info := e.findInfo(strings.TrimSpace(name))
			if info == nil {
				return fmt.Sprintf("unknown class %q\n", strings.TrimSpace(name)), true
			}
			exclude = append(exclude, info)
		}
		var b strings.Builder
		for _, ti := range e.sys.GetTypeOutsideOf(exclude) {
			fmt.Fprintln(&b, ti.FullName)
		}
		return b.String(), true
	case "symbol":
		var b strings.Builder
		for _, ti := range e.sys.FindBySymbol(rest) {
			fmt.Fprintln(&b, ti.FullName)
		}
		return b.String(), true
	case "dump":
		callable, param, ok := strings.Cut(rest, " ")
		if !ok {
			return "expected: dump <callable> <param>\n", true
		}
		sig, ok := e.sigs[callable]
		if !ok {
			sig, ok = e.sigs[e.doc.Module+"."+callable]
		}
		if !ok {
			return fmt.Sprintf("unknown callable %q\n", callable), true
		}
		node, ok := sig.Knowledge[strings.TrimSpace(param)]
		if !ok {
			return fmt.Sprintf("no trace recorded for %q\n", param), true
		}
		return node.Dump(), true
	}
	return fmt.Sprintf("unknown command %q (try help)\n", cmd), true
}

// findInfo resolves a class name like resolveClass does, against the
// registry.
func (e *engine) findInfo(name string) *typesys.TypeInfo {
	if c := e.resolveClass(name); c != nil {
		return e.sys.FindTypeInfo(c.FullName())
	}
	return e.sys.FindTypeInfo(name)
}
