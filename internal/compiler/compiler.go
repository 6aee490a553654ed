package compiler

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/checker"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/parser"
	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

var tracer = otel.Tracer("github.com/Ozzcarr/minijava-compiler/internal/compiler")

// Exit codes returned by the minijavac driver
const (
	ExitOK       = 0
	ExitLexical  = 1
	ExitSyntax   = 2
	ExitInternal = 3
	ExitSemantic = 4
)

// Options configures a compilation
type Options struct {
	// Workers bounds concurrent class checking; see checker.Options.
	Workers int
	// File is stamped on every diagnostic that has no file of its own.
	File string
}

// Result holds the output of a compilation. Program and Symbols are nil when
// the pipeline stopped before producing them.
type Result struct {
	File        string
	Program     *ast.Program
	Symbols     *symbols.Table
	Diagnostics *diagnostic.Diagnostics
	ExprTypes   map[ast.Expression]types.Type
}

// ExitCode maps the most severe pipeline stage that failed to the driver's
// exit code. Warnings never affect it.
func (r *Result) ExitCode() int {
	code := ExitOK
	for _, d := range r.Diagnostics.Errors() {
		var c int
		switch {
		case d.Kind == diagnostic.LexicalError:
			c = ExitLexical
		case d.Kind == diagnostic.SyntaxError:
			c = ExitSyntax
		case d.Kind == diagnostic.InternalError:
			c = ExitInternal
		default:
			c = ExitSemantic
		}
		if code == ExitOK || c < code {
			code = c
		}
	}
	return code
}

// Compile runs the pipeline: parse -> symbols -> check.
// Syntax errors stop the pipeline; symbol and type errors are reported
// together. The error is non-nil only when ctx is cancelled.
func Compile(ctx context.Context, source string, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "compiler.Compile",
		trace.WithAttributes(
			attribute.String("file", opts.File),
			attribute.Int("source.bytes", len(source)),
		),
	)
	defer span.End()

	res := &Result{
		File:        opts.File,
		Diagnostics: diagnostic.New(),
	}
	defer func() {
		res.Diagnostics.SetFile(opts.File)
		span.SetAttributes(
			attribute.Int("diagnostics", res.Diagnostics.Count()),
			attribute.Int("exit_code", res.ExitCode()),
		)
	}()

	// Parse
	runPhase(ctx, "parse", res.Diagnostics, func(ctx context.Context) {
		p := parser.New(source)
		prog := p.Parse()
		res.Diagnostics.Merge(p.Diagnostics())
		res.Program = prog
	})
	if res.Diagnostics.HasErrors() {
		return res, nil
	}

	if err := analyze(ctx, res, opts); err != nil {
		return nil, err
	}
	res.Diagnostics.Sort()
	return res, nil
}

// analyze builds the symbol table for res.Program and type-checks it
func analyze(ctx context.Context, res *Result, opts Options) error {
	runPhase(ctx, "symbols", res.Diagnostics, func(ctx context.Context) {
		table, diags := symbols.Build(res.Program)
		res.Diagnostics.Merge(diags)
		res.Symbols = table
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("classes", len(table.Classes())))
	})
	if res.Symbols == nil {
		return nil
	}

	var cancelled error
	runPhase(ctx, "check", res.Diagnostics, func(ctx context.Context) {
		checked, err := checker.CheckContext(ctx, res.Program, res.Symbols, checker.Options{Workers: opts.Workers})
		if err != nil {
			cancelled = err
			return
		}
		res.Diagnostics.Merge(checked.Diagnostics)
		res.ExprTypes = checked.ExprTypes
	})
	return cancelled
}

// runPhase runs fn inside its own span. A panic is turned into an
// InternalError diagnostic so one bad input cannot take down a batch run.
func runPhase(ctx context.Context, name string, diags *diagnostic.Diagnostics, fn func(ctx context.Context)) {
	ctx, span := tracer.Start(ctx, "compiler."+name)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			span.SetAttributes(attribute.Bool("panic", true))
			diags.ErrorWithHint(diagnostic.InternalError, 0, 0,
				fmt.Sprintf("%s phase failed: %v", name, r),
				"this is a compiler bug; please report it with the input file")
		}
	}()
	fn(ctx)
}

// Check runs the whole pipeline on source and returns its diagnostics
func Check(source string) *diagnostic.Diagnostics {
	// Cannot fail: the context is never cancelled.
	res, _ := Compile(context.Background(), source, Options{Workers: 1})
	return res.Diagnostics
}

// CheckFile reads and compiles the file at path
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if opts.File == "" {
		opts.File = path
	}
	return Compile(ctx, string(source), opts)
}
