package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single compiler error, warning, or info message.
// Class, Method, Expected and Actual are filled in by the type checker when
// they apply to the rule that fired.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Line     int
	Column   int
	File     string // optional file path
	Hint     string // optional suggestion
	Class    string
	Method   string
	Expected types.Type
	Actual   types.Type
}

// Diagnostics manages a collection of diagnostic messages. A collection is
// owned by one goroutine; concurrent producers each fill their own and the
// results are combined with Merge.
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Report appends a fully built diagnostic
func (d *Diagnostics) Report(item Diagnostic) {
	d.items = append(d.items, item)
}

// Errorf adds an error diagnostic of the given kind with formatted message
func (d *Diagnostics) Errorf(kind Kind, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Warningf adds a warning diagnostic of the given kind with formatted message
func (d *Diagnostics) Warningf(kind Kind, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// ErrorWithHint adds an error diagnostic with an optional hint
func (d *Diagnostics) ErrorWithHint(kind Kind, line, col int, msg, hint string) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Kind:     kind,
		Message:  msg,
		Line:     line,
		Column:   col,
		Hint:     hint,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// ByKind returns the diagnostics of one kind in collection order
func (d *Diagnostics) ByKind(kind Kind) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// Merge appends the items of every other collection, in argument order.
// Nil collections are skipped.
func (d *Diagnostics) Merge(others ...*Diagnostics) {
	for _, o := range others {
		if o == nil || o == d {
			continue
		}
		d.items = append(d.items, o.items...)
	}
}

// Sort orders the diagnostics by file, line, column and kind. Items that
// compare equal keep their collection order.
func (d *Diagnostics) Sort() {
	sort.SliceStable(d.items, func(i, j int) bool {
		a, b := d.items[i], d.items[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Kind < b.Kind
	})
}

// SetFile stamps a file path on every diagnostic that has none
func (d *Diagnostics) SetFile(file string) {
	for i := range d.items {
		if d.items[i].File == "" {
			d.items[i].File = file
		}
	}
}

// Format returns human-readable error messages
// Output format:
//
//	error[InvalidReturn.java:18:9]: InvalidReturnType: method 'MyClass.xyFunc' must return int, got boolean
//	  hint: change the declared return type or the returned expression
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		fileToUse := filename
		if item.File != "" {
			fileToUse = item.File
		}

		builder.WriteString(fmt.Sprintf("%s[%s:%d:%d]: ",
			item.Severity.String(),
			fileToUse,
			item.Line,
			item.Column,
		))
		if item.Kind != KindNone {
			builder.WriteString(item.Kind.String() + ": ")
		}
		builder.WriteString(item.Message)

		if item.Hint != "" {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", item.Hint))
		}

		// Add newline unless it's the last item
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
