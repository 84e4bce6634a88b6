// Package diag implements the compiler's diagnostic taxonomy: parse,
// resolver, and fatal errors, each carrying a source location and
// rendered in the "file:line:col : severity : message" form consumed
// by the CLI.
package diag

import "fmt"

// Severity is the closed set of diagnostic levels a compilation run
// can produce.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Location pinpoints a diagnostic in DSL source. Line and Col are
// 1-based; a zero Line means the location is unknown (e.g. a
// model-wide diagnostic with no single declaration site).
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Diagnostic is a single compiler message.
type Diagnostic struct {
	Severity Severity
	Loc      Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s : %s : %s", d.Loc, d.Severity, d.Message)
}

// Bag accumulates diagnostics for one compilation run and keeps the
// running error/warning counts spec.md §7 requires ("the compiler
// always prints the total error/warning counts").
type Bag struct {
	items    []Diagnostic
	errors   int
	warnings int
}

// Error records an error-severity diagnostic.
func (b *Bag) Error(loc Location, format string, args ...any) {
	b.add(SeverityError, loc, format, args...)
}

// Warning records a warning-severity diagnostic. Warnings never abort
// code generation (§7).
func (b *Bag) Warning(loc Location, format string, args ...any) {
	b.add(SeverityWarning, loc, format, args...)
}

// Fatal records a fatal diagnostic. It increments the error count like
// any other error; it is the caller's responsibility (the resolver
// pass runner) to stop processing when a FatalError is returned.
func (b *Bag) Fatal(loc Location, format string, args ...any) {
	b.add(SeverityFatal, loc, format, args...)
}

func (b *Bag) add(sev Severity, loc Location, format string, args ...any) {
	d := Diagnostic{Severity: sev, Loc: loc, Message: fmt.Sprintf(format, args...)}
	b.items = append(b.items, d)
	switch sev {
	case SeverityWarning:
		b.warnings++
	default:
		b.errors++
	}
}

// Items returns all diagnostics recorded so far, in emission order.
func (b *Bag) Items() []Diagnostic { return b.items }

// ErrorCount returns the number of error+fatal diagnostics recorded.
func (b *Bag) ErrorCount() int { return b.errors }

// WarningCount returns the number of warning diagnostics recorded.
func (b *Bag) WarningCount() int { return b.warnings }

// HasErrors reports whether code generation must be aborted (§7:
// "Code generation runs only if post_parse_errors == 0").
func (b *Bag) HasErrors() bool { return b.errors > 0 }

// Merge appends another bag's diagnostics and counts into b. Used to
// fold a sub-pass's (e.g. a parallel fan-out worker's) diagnostics back
// into the run-level bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.errors += other.errors
	b.warnings += other.warnings
}

// Summary renders the final "N errors in post-parse phase" style line.
func (b *Bag) Summary() string {
	return fmt.Sprintf("%d errors, %d warnings in post-parse phase", b.errors, b.warnings)
}

// FatalError is the typed exception raised by a resolver pass to
// terminate the resolver immediately (spec.md §4.2, §7's "Resolver
// fatal"). It still carries the message that was also recorded in the
// Bag so callers can log it without re-deriving text.
type FatalError struct {
	Loc     Location
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s : fatal : %s", e.Loc, e.Message)
}
