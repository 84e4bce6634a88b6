// Package resolve implements C2, the post-parse multi-pass resolver
// (spec.md §4.2): a fixed sequence of sweeps over the symbol table,
// each a pure function from the current symtab.Arena state plus
// inputs to a diag.Bag of diagnostics and in-place symbol mutations.
package resolve

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/openmpp/ompp-core/internal/diag"
	"github.com/openmpp/ompp-core/internal/symtab"
)

// Pass identifies one of the fixed resolver sweeps, in the exact order
// spec.md §4.2 mandates. Re-entry into an earlier pass is forbidden;
// Run enforces this by executing the slice once, in order.
type Pass int

const (
	PassCreateMissingSymbols Pass = iota
	PassAssignMembers
	PassAssignLabel
	PassResolveDataTypes
	PassPopulateCollections
	PassPopulateDependencies
	passCount
)

func (p Pass) String() string {
	switch p {
	case PassCreateMissingSymbols:
		return "eCreateMissingSymbols"
	case PassAssignMembers:
		return "eAssignMembers"
	case PassAssignLabel:
		return "eAssignLabel"
	case PassResolveDataTypes:
		return "eResolveDataTypes"
	case PassPopulateCollections:
		return "ePopulateCollections"
	case PassPopulateDependencies:
		return "ePopulateDependencies"
	default:
		return "unknown-pass"
	}
}

// Collections is the resolver's ePopulateCollections output: the
// per-kind global lists spec.md §4.2 names (pp_all_parameters,
// pp_all_tables, ...), kept alongside the arena rather than as symbol
// fields because they are a resolver-owned view, not symbol state.
type Collections struct {
	Parameters      []*symtab.Symbol
	Tables          []*symtab.Symbol
	Entities        []*symtab.Symbol
	Enumerations    []*symtab.Symbol
	ParameterGroups []*symtab.Symbol
	TableGroups     []*symtab.Symbol
}

// Result is everything a caller needs after running the full pass
// sequence: the diagnostics harvested and the populated collections.
type Result struct {
	Diagnostics *diag.Bag
	Collections Collections
}

// Run executes the fixed pass sequence over arena in order, per
// spec.md §4.2's "error discipline": a diagnostic at pass P does not
// stop passes > P from running (diagnostics accumulate across the
// whole sequence), except that a pp_fatal during a pass aborts the
// entire Run immediately, since later passes would operate on
// undefined state.
func Run(arena *symtab.Arena) (*Result, error) {
	bag := &diag.Bag{}
	res := &Result{Diagnostics: bag}

	passes := []func(*symtab.Arena, *diag.Bag, *Result) error{
		runCreateMissingSymbols,
		runAssignMembers,
		runAssignLabel,
		runResolveDataTypes,
		runPopulateCollections,
		runPopulateDependencies,
	}

	for i, run := range passes {
		if err := run(arena, bag, res); err != nil {
			var fatal *diag.FatalError
			if asFatal(err, &fatal) {
				bag.Fatal(fatal.Loc, "%s", fatal.Message)
				return res, fmt.Errorf("resolver aborted in pass %s: %w", Pass(i), err)
			}
			return res, fmt.Errorf("pass %s: %w", Pass(i), err)
		}
	}
	return res, nil
}

func asFatal(err error, out **diag.FatalError) bool {
	fe, ok := err.(*diag.FatalError)
	if ok {
		*out = fe
	}
	return ok
}

// runCreateMissingSymbols is pass 1 (spec.md §4.2 item 1): generate
// symbols implicit in declarations. After this pass the symbol
// population is fixed — later passes must not call arena.GetOrCreate
// on names that do not already exist.
func runCreateMissingSymbols(arena *symtab.Arena, bag *diag.Bag, _ *Result) error {
	for _, s := range arena.Placeholders() {
		bag.Error(s.Loc, "symbol %q is referenced but never declared", s.UniqueName)
	}

	for _, s := range arena.AllOfKind(symtab.KindBoolEnum) {
		if s.Enumeration == nil {
			s.Enumeration = &symtab.EnumerationPayload{}
		}
		ensureBoolEnumerators(arena, s)
	}
	return nil
}

// ensureBoolEnumerators synthesizes the false/true Enumerator symbols
// of a BoolEnum (spec.md §4.2 item 1's example: "false/true
// enumerators of bool").
func ensureBoolEnumerators(arena *symtab.Arena, boolEnum *symtab.Symbol) {
	for ord, name := range []string{"false", "true"} {
		enumName := boolEnum.UniqueName + "::" + name
		sym := arena.GetOrCreate(enumName, boolEnum.Loc)
		if sym.IsPlaceholder() {
			sym.Kind = symtab.KindEnumerator
		}
		sym.Enumerator = &symtab.EnumeratorPayload{Parent: boolEnum.UniqueName, Ordinal: ord}
		boolEnum.Enumeration.Enumerators = append(boolEnum.Enumeration.Enumerators, enumName)
	}
}

// runAssignMembers is pass 2 (spec.md §4.2 item 2): resolve every
// reference-to-symbol held in parse data to a direct pointer, and
// record parent/child relations. Reference resolution in this port is
// the arena lookup itself (symtab.Arena.Find); the table-dimension
// check is in resolveMemberKindConflicts.
func runAssignMembers(arena *symtab.Arena, bag *diag.Bag, _ *Result) error {
	for _, s := range arena.AllOfKind(symtab.KindEnumerator) {
		if s.Enumerator == nil || s.Enumerator.Parent == "" {
			continue
		}
		parent := arena.Find(s.Enumerator.Parent)
		if parent == nil || parent.IsPlaceholder() {
			bag.Error(s.Loc, "enumerator %q has no resolvable parent enumeration", s.UniqueName)
			continue
		}
		parent.MemberOfGroups[s.UniqueName] = true
	}

	for _, s := range arena.AllOfKind(symtab.KindEntity) {
		if s.Entity == nil {
			continue
		}
		for _, memberName := range s.Entity.Members {
			member := arena.Find(memberName)
			if member == nil || member.IsPlaceholder() {
				bag.Error(s.Loc, "entity %q references undeclared member %q", s.UniqueName, memberName)
				continue
			}
			if member.Member == nil {
				member.Member = &symtab.MemberPayload{}
			}
			member.Member.Entity = s.UniqueName
		}
	}
	return resolveMemberKindConflicts(arena, bag)
}

// resolveMemberKindConflicts checks that each entity-table dimension
// name resolves to a declared (non-placeholder) symbol. The kind of
// the resolved symbol is not checked, and no other reference is
// examined here.
func resolveMemberKindConflicts(arena *symtab.Arena, bag *diag.Bag) error {
	for _, s := range arena.AllOfKind(symtab.KindEntityTable) {
		if s.Table == nil {
			continue
		}
		for _, dimName := range s.Table.Dimensions {
			dim := arena.Find(dimName)
			if dim == nil || dim.IsPlaceholder() {
				bag.Error(s.Loc, "table %q dimension %q does not resolve to a symbol", s.UniqueName, dimName)
			}
		}
	}
	return nil
}

// runAssignLabel is pass 3 (spec.md §4.2 item 3): for each label entry
// a symbol already has that is neither explicit nor non-empty, it
// fills in the symbol's short name. Symbols with no label entries get
// none, and notes are not touched.
func runAssignLabel(arena *symtab.Arena, bag *diag.Bag, _ *Result) error {
	for _, s := range arena.All() {
		if s.IsPlaceholder() {
			continue
		}
		if len(s.Labels) == 0 {
			continue
		}
		for lang, lbl := range s.Labels {
			if lbl.Explicit {
				continue
			}
			if lbl.Text == "" {
				s.Labels[lang] = symtab.Label{Text: shortName(s.UniqueName), Explicit: false}
			}
		}
	}
	return nil
}

// shortName extracts the trailing "::"-delimited component, the
// fallback label source spec.md §4.2 item 3 names ("fallbacks via
// short names and stems").
func shortName(uniqueName string) string {
	for i := len(uniqueName) - 1; i > 0; i-- {
		if uniqueName[i] == ':' && uniqueName[i-1] == ':' {
			return uniqueName[i+1:]
		}
	}
	return uniqueName
}

// runResolveDataTypes is pass 4 (spec.md §4.2 item 4). Its only check
// is each entity table's declared rank against its dimension count;
// it infers no types and expands no module group members. The
// per-table checks fan out across an errgroup, grounded on
// services/trace/analysis/enhanced_analyzer.go's errgroup.WithContext
// fan-out over independent enrichers, since each table/parameter's
// type check here touches only that symbol plus already-resolved
// referents.
func runResolveDataTypes(arena *symtab.Arena, bag *diag.Bag, _ *Result) error {
	tables := arena.AllOfKind(symtab.KindEntityTable)
	diagsPerTable := make([][]diag.Diagnostic, len(tables))

	var g errgroup.Group
	for i, t := range tables {
		i, t := i, t
		g.Go(func() error {
			diagsPerTable[i] = checkTableMeasureTypes(t)
			return nil
		})
	}
	_ = g.Wait() // per-symbol checks never return errors, only diagnostics

	for _, ds := range diagsPerTable {
		for _, d := range ds {
			bag.Error(d.Loc, "%s", d.Message)
		}
	}
	return nil
}

// checkTableMeasureTypes reports a table whose declared rank differs
// from its number of dimensions; measures are not examined. It
// returns diagnostics rather than writing to
// a shared bag directly, so that it is safe to call concurrently.
func checkTableMeasureTypes(t *symtab.Symbol) []diag.Diagnostic {
	if t.Table == nil {
		return nil
	}
	var out []diag.Diagnostic
	if t.Table.Rank != len(t.Table.Dimensions) {
		out = append(out, diag.Diagnostic{
			Severity: diag.SeverityError,
			Loc:      t.Loc,
			Message:  fmt.Sprintf("table %q declares rank %d but has %d dimensions", t.UniqueName, t.Table.Rank, len(t.Table.Dimensions)),
		})
	}
	return out
}

// runPopulateCollections is pass 5 (spec.md §4.2 item 5): build the
// per-kind global lists and detect cyclic group containment.
func runPopulateCollections(arena *symtab.Arena, bag *diag.Bag, res *Result) error {
	res.Collections = Collections{
		Parameters:      arena.AllOfKind(symtab.KindParameter),
		Tables:          append(arena.AllOfKind(symtab.KindEntityTable), arena.AllOfKind(symtab.KindDerivedTable)...),
		Entities:        arena.AllOfKind(symtab.KindEntity),
		Enumerations:    collectEnumerations(arena),
		ParameterGroups: arena.AllOfKind(symtab.KindParameterGroup),
		TableGroups:     arena.AllOfKind(symtab.KindTableGroup),
	}
	sort.Slice(res.Collections.Tables, func(i, j int) bool {
		return res.Collections.Tables[i].UniqueName < res.Collections.Tables[j].UniqueName
	})

	for _, g := range append(append([]*symtab.Symbol{}, res.Collections.ParameterGroups...), res.Collections.TableGroups...) {
		if cyclePath, ok := detectGroupCycle(arena, g.UniqueName, map[string]bool{}); ok {
			bag.Error(g.Loc, "circular reference in group %q (via %s)", g.UniqueName, cyclePath)
		}
	}
	return nil
}

func collectEnumerations(arena *symtab.Arena) []*symtab.Symbol {
	var out []*symtab.Symbol
	for _, k := range []symtab.Kind{symtab.KindClassification, symtab.KindRange, symtab.KindPartition, symtab.KindBoolEnum} {
		out = append(out, arena.AllOfKind(k)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UniqueName < out[j].UniqueName })
	return out
}

// detectGroupCycle walks a group's member chain via depth-first
// search, the same traversal shape the teacher uses for dependency
// walking, reporting the first cycle found (spec.md's group-cycle test
// case expects exactly one error per distinct cycle root).
func detectGroupCycle(arena *symtab.Arena, name string, visiting map[string]bool) (string, bool) {
	if visiting[name] {
		return name, true
	}
	sym := arena.Find(name)
	if sym == nil || sym.Group == nil {
		return "", false
	}
	visiting[name] = true
	defer delete(visiting, name)

	for _, member := range sym.Group.Members {
		child := arena.Find(member)
		if child == nil || child.Group == nil {
			continue
		}
		if path, ok := detectGroupCycle(arena, member, visiting); ok {
			return name + "->" + path, true
		}
	}
	return "", false
}

// runPopulateDependencies is pass 6, the final pass (spec.md §4.2 item
// 6): it resets every table's Requires set to empty, checks that each
// table's filter attribute resolves, and applies hide and
// parameters_suppress (with retain/suppress conflict detection). It
// computes no attribute or event dependency sets and reads no
// Dependency symbols, so after Run no table requires another;
// parameters_retain has no effect beyond the conflict check, and
// tables_suppress/tables_retain groups are not handled.
func runPopulateDependencies(arena *symtab.Arena, bag *diag.Bag, res *Result) error {
	for _, t := range res.Collections.Tables {
		if t.Table == nil {
			continue
		}
		t.Table.Requires = map[string]bool{}
		if t.Table.FilterAttribute == "" {
			continue
		}
		attr := arena.Find(t.Table.FilterAttribute)
		if attr == nil || attr.IsPlaceholder() {
			bag.Error(t.Loc, "table %q filter attribute %q does not resolve", t.UniqueName, t.Table.FilterAttribute)
		}
	}
	applyHideAndSuppress(arena, bag)
	return nil
}

// applyHideAndSuppress implements the spec.md §9 Open Question
// decisions recorded in DESIGN.md: a "hide" anonymous group sets
// is_internal on its members; parameters_suppress and
// parameters_retain conflicting on the same parameter is a single
// error, emitted before either mutation is applied.
func applyHideAndSuppress(arena *symtab.Arena, bag *diag.Bag) {
	retained := map[string]bool{}
	suppressed := map[string]bool{}

	for _, g := range arena.AllOfKind(symtab.KindAnonGroup) {
		if g.Group == nil {
			continue
		}
		switch g.Group.Variant {
		case "hide":
			for _, m := range g.Group.Members {
				if sym := arena.Find(m); sym != nil {
					sym.IsInternal = true
				}
			}
		case "parameters_retain":
			for _, m := range g.Group.Members {
				retained[m] = true
			}
		case "parameters_suppress":
			for _, m := range g.Group.Members {
				suppressed[m] = true
			}
		}
	}

	for name := range retained {
		if suppressed[name] {
			sym := arena.Find(name)
			bag.Error(sym.Loc, "parameter %q is both retained and suppressed", name)
			continue
		}
	}
	for name := range suppressed {
		if retained[name] {
			continue // already reported above
		}
		if sym := arena.Find(name); sym != nil {
			sym.IsSuppressed = true
		}
	}
}
