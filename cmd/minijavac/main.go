package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/compiler"
	"github.com/Ozzcarr/minijava-compiler/internal/formatter"
	"github.com/Ozzcarr/minijava-compiler/internal/linter"
	"github.com/Ozzcarr/minijava-compiler/internal/parser"
)

const appName = "minijavac"

// exitUsage is returned for bad command lines and unreadable inputs.
const exitUsage = 64

const usage = `minijavac - static checker for MiniJava

Usage:
  minijavac check [-j N] [-v] [-symbols] <file.java>...   Parse and type-check
  minijavac symbols <file.java>                           Dump the symbol table
  minijavac ast <file.java>                               Dump the syntax tree
  minijavac lint <file.java>                              Run style checks
  minijavac fmt [-w] [-check] <file.java>...              Print canonical source
  minijavac repl                                          Check programs interactively

Exit codes:
  0 ok, 1 lexical error, 2 syntax error, 3 internal error, 4 semantic error,
  64 usage or I/O error
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	switch args[0] {
	case "check":
		return cmdCheck(args[1:], stdout, stderr)
	case "symbols":
		return cmdSymbols(args[1:], stdout, stderr)
	case "ast":
		return cmdAST(args[1:], stdout, stderr)
	case "lint":
		return cmdLint(args[1:], stdout, stderr)
	case "fmt":
		return cmdFmt(args[1:], stdout, stderr)
	case "repl":
		return cmdRepl(args[1:])
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return compiler.ExitOK
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n\n", appName, args[0])
		fmt.Fprint(stderr, usage)
		return exitUsage
	}
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("j", runtime.NumCPU(), "number of classes checked concurrently")
	verbose := fs.Bool("v", false, "log pipeline progress to stderr")
	dumpSymbols := fs.Bool("symbols", false, "print the symbol table of each file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s check [-j N] [-v] [-symbols] <file.java>...\n", appName)
		return exitUsage
	}

	logger := newLogger(stderr, *verbose)
	reg, err := compiler.NewRegistry(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	start := time.Now()
	logger.Debug("checking", "files", len(reg.Paths()), "workers", *workers)
	if err := reg.CheckAll(context.Background(), compiler.Options{Workers: *workers}); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	errorCount := 0
	for _, path := range reg.Paths() {
		res := reg.Result(path)
		logger.Debug("checked", "file", path,
			"diagnostics", res.Diagnostics.Count(),
			"exit_code", res.ExitCode())

		if *dumpSymbols && res.Symbols != nil {
			if err := res.Symbols.Dump(stdout); err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", appName, err)
				return exitUsage
			}
		}
		if res.Diagnostics.Count() > 0 {
			fmt.Fprintln(stderr, res.Diagnostics.Format(path))
		}
		errorCount += res.Diagnostics.ErrorCount()
	}
	logger.Debug("done", "elapsed", time.Since(start), "errors", errorCount)

	code := reg.ExitCode()
	if code == compiler.ExitOK {
		fmt.Fprintln(stdout, "No errors found.")
	}
	return code
}

// newLogger returns a debug logger when verbose is set and a logger that
// drops everything otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// -----------------------------------------------------------------------------
// symbols / ast
// -----------------------------------------------------------------------------

func cmdSymbols(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s symbols <file.java>\n", appName)
		return exitUsage
	}
	path := args[0]

	res, err := compiler.CheckFile(context.Background(), path, compiler.Options{Workers: 1})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}
	if res.Symbols == nil {
		fmt.Fprintln(stderr, res.Diagnostics.Format(path))
		return res.ExitCode()
	}
	if err := res.Symbols.Dump(stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}
	return compiler.ExitOK
}

func cmdAST(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s ast <file.java>\n", appName)
		return exitUsage
	}
	prog, code := parseFile(args[0], stderr)
	if prog == nil {
		return code
	}
	fmt.Fprint(stdout, ast.Print(prog))
	return compiler.ExitOK
}

// parseFile reads and parses path. On failure the diagnostics are written to
// stderr and the program is nil.
func parseFile(path string, stderr io.Writer) (*ast.Program, int) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return nil, exitUsage
	}

	p := parser.New(string(source))
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		fmt.Fprintln(stderr, p.Diagnostics().Format(path))
		res := &compiler.Result{Diagnostics: p.Diagnostics()}
		return nil, res.ExitCode()
	}
	return prog, compiler.ExitOK
}

// -----------------------------------------------------------------------------
// lint
// -----------------------------------------------------------------------------

func cmdLint(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s lint <file.java>\n", appName)
		return exitUsage
	}
	path := args[0]
	prog, code := parseFile(path, stderr)
	if prog == nil {
		return code
	}

	diag := linter.Lint(prog)
	if diag.Count() == 0 {
		fmt.Fprintln(stdout, "No lint warnings.")
		return compiler.ExitOK
	}

	fmt.Fprintln(stdout, diag.Format(path))
	fmt.Fprintf(stdout, "%d warning(s) found.\n", diag.Count())
	return compiler.ExitOK
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	write := fs.Bool("w", false, "write the result back to the source file")
	check := fs.Bool("check", false, "list files whose formatting differs; exit 1 if any")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s fmt [-w] [-check] <file.java>...\n", appName)
		return exitUsage
	}

	changed := 0
	for _, path := range fs.Args() {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, path, err)
			return exitUsage
		}
		p := parser.New(string(source))
		prog := p.Parse()
		if p.Diagnostics().HasErrors() {
			fmt.Fprintln(stderr, p.Diagnostics().Format(path))
			res := &compiler.Result{Diagnostics: p.Diagnostics()}
			return res.ExitCode()
		}

		out := []byte(formatter.Format(prog))
		same := bytes.Equal(out, source)
		switch {
		case *check:
			if !same {
				fmt.Fprintln(stdout, path)
				changed++
			}
		case *write:
			if same {
				continue
			}
			if err := os.WriteFile(path, out, 0644); err != nil {
				fmt.Fprintf(stderr, "%s: cannot write %s: %v\n", appName, path, err)
				return exitUsage
			}
		default:
			stdout.Write(out)
		}
	}
	if *check && changed > 0 {
		return 1
	}
	return compiler.ExitOK
}
