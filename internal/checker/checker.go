// Package checker type-checks MiniJava method bodies against a symbol table.
package checker

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

var tracer = otel.Tracer("github.com/Ozzcarr/minijava-compiler/internal/checker")

// Options configures a checking run
type Options struct {
	// Workers bounds how many classes are checked at once. Zero or less
	// means one per CPU.
	Workers int
}

// Result holds the results of type checking for use by later pipeline stages
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	ExprTypes   map[ast.Expression]types.Type
}

// unit is one class body to check. decl is nil for the main class.
type unit struct {
	class *symbols.Class
	decl  *ast.ClassDecl
	main  *ast.MainClass
}

type unitResult struct {
	diag  *diagnostic.Diagnostics
	types map[ast.Expression]types.Type
}

// Check type-checks every method body of prog sequentially
func Check(prog *ast.Program, table *symbols.Table) *Result {
	// Cannot fail: the context is never cancelled.
	res, _ := CheckContext(context.Background(), prog, table, Options{Workers: 1})
	return res
}

// CheckContext type-checks every method body of prog, spreading classes over
// opts.Workers goroutines. Diagnostics are returned sorted by location so the
// output does not depend on scheduling. A cancelled context abandons the run.
func CheckContext(ctx context.Context, prog *ast.Program, table *symbols.Table, opts Options) (*Result, error) {
	units := collectUnits(prog, table)

	ctx, span := tracer.Start(ctx, "checker.Check",
		trace.WithAttributes(attribute.Int("classes", len(units))),
	)
	defer span.End()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					results[i] = crashedUnit(u, r)
				}
			}()
			results[i] = checkUnit(gctx, table, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetAttributes(attribute.Bool("cancelled", true))
		return nil, err
	}

	res := &Result{
		Diagnostics: diagnostic.New(),
		ExprTypes:   make(map[ast.Expression]types.Type),
	}
	for _, r := range results {
		res.Diagnostics.Merge(r.diag)
		for expr, t := range r.types {
			res.ExprTypes[expr] = t
		}
	}
	res.Diagnostics.Sort()

	span.SetAttributes(attribute.Int("diagnostics", res.Diagnostics.Count()))
	return res, nil
}

// collectUnits lists the main class followed by every class the symbol table
// accepted, in source order. Duplicate declarations are left out.
func collectUnits(prog *ast.Program, table *symbols.Table) []unit {
	var units []unit
	if prog.Main != nil && table.Main() != nil {
		units = append(units, unit{class: table.Main(), main: prog.Main})
	}
	for _, decl := range prog.Classes {
		c := table.Class(decl.Name)
		if c == nil || c.IsMain || c.Line != decl.Line || c.Column != decl.Column {
			continue
		}
		units = append(units, unit{class: c, decl: decl})
	}
	return units
}

func checkUnit(ctx context.Context, table *symbols.Table, u unit) unitResult {
	_, span := tracer.Start(ctx, "checker.checkClass",
		trace.WithAttributes(attribute.String("class", u.class.Name)),
	)
	defer span.End()

	diag := diagnostic.New()
	eval := NewEvaluator(table, u.class)

	if u.main != nil {
		bc := &bodyChecker{table: table, class: u.class, eval: eval, diag: diag}
		bc.checkMain(u.main)
	} else {
		for _, md := range u.decl.Methods {
			m := u.class.Method(md.Name)
			if m == nil || m.Decl != md {
				continue
			}
			bc := &bodyChecker{table: table, class: u.class, method: m, eval: eval, diag: diag}
			bc.checkMethod()
		}
	}

	span.SetAttributes(
		attribute.Int("methods", len(u.class.Methods)),
		attribute.Int("diagnostics", diag.Count()),
	)
	return unitResult{diag: diag, types: eval.Types()}
}

// crashedUnit turns a panic while checking u into an InternalError on the
// class. Panics do not cross goroutines, so it has to be caught per unit.
func crashedUnit(u unit, r interface{}) unitResult {
	diag := diagnostic.New()
	diag.Report(diagnostic.Diagnostic{
		Severity: diagnostic.Error,
		Kind:     diagnostic.InternalError,
		Message:  fmt.Sprintf("checking class '%s' failed: %v", u.class.Name, r),
		Hint:     "this is a compiler bug; please report it with the input file",
		Line:     u.class.Line,
		Column:   u.class.Column,
		Class:    u.class.Name,
	})
	return unitResult{diag: diag}
}
