// Package metadiff checks that two compiles of the same resolved model
// produce byte-identical artefacts (spec.md §4.3's determinism
// contract: cppgen output differs only in the single timestamp line
// emitted into the tier-0 types header). It is the CLI's idempotence
// check: compile once, emit, compile again, diff.
//
// The unified-diff shape is grounded on the teacher's
// services/trace/cli/tools/file/diff.go DiffTool, which hand-rolls an
// LCS-based hunk builder to produce "--- / +++ / @@" output. Rather
// than port that hand-rolled algorithm, this package wires
// pmezard/go-difflib directly (an indirect dependency already present
// in the teacher's own go.mod), since it already implements the same
// unified-diff format DiffTool was reconstructing by hand. The
// teacher's services/trace/diff/parse.go instead wires
// sourcegraph/go-diff directly, but that package is built for parsing
// an existing unified diff into hunks for interactive review, not for
// generating one from two whole-file strings — this package only ever
// needs the latter, so go-difflib's narrower GetUnifiedDiffString is
// the closer fit.
package metadiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Report holds the comparison result for one named artefact.
type Report struct {
	Name       string
	Identical  bool
	Unified    string
	LinesAdded int
	LinesRemoved int
}

// Compare diffs two versions of a named artefact (a file path or
// logical artefact name used only for the diff header) and reports
// whether they're identical.
func Compare(name, before, after string) Report {
	if before == after {
		return Report{Name: name, Identical: true}
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name + " (first compile)",
		ToFile:   name + " (second compile)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		text = fmt.Sprintf("<diff failed: %v>", err)
	}

	added, removed := countChanges(text)
	return Report{
		Name:         name,
		Identical:    false,
		Unified:      text,
		LinesAdded:   added,
		LinesRemoved: removed,
	}
}

func countChanges(unified string) (added, removed int) {
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// file header lines, not content changes
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

// CompareSets diffs two named sets of artefacts (e.g. the Artefacts
// returned by two cppgen.Emit calls, field by field) and returns one
// Report per artefact that differs. A caller that wants to ignore the
// tier-0 timestamp line should exclude that artefact's name from
// either map before calling, or strip the timestamp comment first —
// CompareSets itself does no timestamp-aware filtering.
func CompareSets(before, after map[string]string) []Report {
	var reports []Report
	for name, b := range before {
		a, ok := after[name]
		if !ok {
			reports = append(reports, Report{Name: name, Identical: false, Unified: fmt.Sprintf("artefact %q missing from second compile", name)})
			continue
		}
		if r := Compare(name, b, a); !r.Identical {
			reports = append(reports, r)
		}
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			reports = append(reports, Report{Name: name, Identical: false, Unified: fmt.Sprintf("artefact %q missing from first compile", name)})
		}
	}
	return reports
}

// IsIdempotent reports whether every artefact matched byte-for-byte.
func IsIdempotent(reports []Report) bool {
	return len(reports) == 0
}
