package cppgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openmpp/ompp-core/internal/resolve"
	"github.com/openmpp/ompp-core/internal/symtab"
)

// Options controls compile-time configuration baked into the tier-0
// types header (spec.md §4.3: "compile-time configuration constants
// derived from resolver options").
type Options struct {
	BoundsChecking      bool
	Censoring           bool
	Weighting           bool
	EventTracing        bool
	MicrodataOutput     bool
	LocalRandomStreams  bool
	SuppressLineDirectives bool
	ModelName           string
	BuildTimestamp      string // stamped once per run, per the determinism contract
}

// Artefacts holds the five generated C++ files (spec.md §4.3), one
// field per file, so a caller can write them wherever the run's code
// directory points. The comments give the file names cmd/ompp writes.
type Artefacts struct {
	TypesTier0     string // Types0.h
	TypesTier1     string // Types1.h
	Declarations   string // declarations.h
	Definitions    string // Definitions.cpp
	FixedParams    string // FixedParams.cpp
}

// Emit produces the five artefacts from a resolved symbol table. It is
// a pure function: identical arena contents and Options yield
// byte-identical artefacts except for the single BuildTimestamp line
// in the tier-0 header, per the determinism contract in spec.md §4.3.
func Emit(arena *symtab.Arena, collections resolve.Collections, opt Options) Artefacts {
	return Artefacts{
		TypesTier0:   emitTypesTier0(opt),
		TypesTier1:   emitTypesTier1(arena, collections),
		Declarations: emitDeclarations(arena, collections),
		Definitions:  emitDefinitions(arena, collections, opt),
		FixedParams:  emitFixedParams(collections),
	}
}

func emitTypesTier0(opt Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Generated by the ompp-core emitter — %s\n", opt.BuildTimestamp)
	fmt.Fprintf(&b, "// model: %s\n", opt.ModelName)
	b.WriteString("#pragma once\n\n")
	fmt.Fprintf(&b, "constexpr bool OM_BOUNDS_CHECKING = %s;\n", cppBool(opt.BoundsChecking))
	fmt.Fprintf(&b, "constexpr bool OM_CENSORING = %s;\n", cppBool(opt.Censoring))
	fmt.Fprintf(&b, "constexpr bool OM_WEIGHTING = %s;\n", cppBool(opt.Weighting))
	fmt.Fprintf(&b, "constexpr bool OM_EVENT_TRACE = %s;\n", cppBool(opt.EventTracing))
	fmt.Fprintf(&b, "constexpr bool OM_MICRODATA = %s;\n", cppBool(opt.MicrodataOutput))
	fmt.Fprintf(&b, "constexpr bool OM_LOCAL_RANDOM_STREAMS = %s;\n", cppBool(opt.LocalRandomStreams))
	return b.String()
}

func cppBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// emitTypesTier1 emits the template-instantiated enumeration types and
// entity forward declarations (spec.md §4.3 tier 1).
func emitTypesTier1(arena *symtab.Arena, collections resolve.Collections) string {
	var b strings.Builder
	b.WriteString("#pragma once\n#include \"om_types.h\"\n\n")

	for _, e := range collections.Enumerations {
		switch e.Kind {
		case symtab.KindClassification:
			fmt.Fprintf(&b, "using %s = Classification<%d>;\n", e.UniqueName, len(e.Enumeration.Enumerators))
		case symtab.KindRange:
			fmt.Fprintf(&b, "using %s = Range<%s>;\n", e.UniqueName, e.UniqueName)
		case symtab.KindPartition:
			fmt.Fprintf(&b, "using %s = Partition<%s>;\n", e.UniqueName, e.UniqueName)
		case symtab.KindBoolEnum:
			fmt.Fprintf(&b, "using %s = BoolEnum;\n", e.UniqueName)
		}
	}

	b.WriteString("\n")
	for _, ent := range collections.Entities {
		fmt.Fprintf(&b, "class %s;\n", ent.UniqueName)
	}
	return b.String()
}

// emitDeclarations emits the global declaration header: parameters,
// tables, entity sets, entity classes (spec.md §4.3).
func emitDeclarations(arena *symtab.Arena, collections resolve.Collections) string {
	var b strings.Builder
	b.WriteString("#pragma once\n\n")

	for _, p := range collections.Parameters {
		storage := parameterStorageDecl(p)
		fmt.Fprintf(&b, "%s %s;\n", storage, p.UniqueName)
	}

	b.WriteString("\n")
	for _, t := range collections.Tables {
		fmt.Fprintf(&b, "extern entity_table %s;\n", t.UniqueName)
	}

	b.WriteString("\n")
	for _, ent := range collections.Entities {
		fmt.Fprintf(&b, "class %s : public Entity {\npublic:\n", ent.UniqueName)
		if ent.Entity != nil {
			members := append([]string(nil), ent.Entity.Members...)
			sort.Strings(members)
			for _, m := range members {
				if mem := arena.Find(m); mem != nil {
					fmt.Fprintf(&b, "    Attribute<%s> %s;\n", memberCppType(mem), shortMemberName(m))
				}
			}
		}
		b.WriteString("};\n\n")
	}
	return b.String()
}

func parameterStorageDecl(p *symtab.Symbol) string {
	if p.Parameter == nil {
		return "extern double"
	}
	switch p.Parameter.Source {
	case symtab.ParamScenario:
		return "thread_local double*"
	case symtab.ParamFixed:
		return "const double"
	default:
		return "double"
	}
}

func memberCppType(m *symtab.Symbol) string {
	if m.Kind == symtab.KindDerivedAttribute || m.Kind == symtab.KindIdentityAttribute {
		return "double"
	}
	return "int"
}

func shortMemberName(uniqueName string) string {
	if i := strings.LastIndex(uniqueName, "::"); i >= 0 {
		return uniqueName[i+2:]
	}
	return uniqueName
}

// emitDefinitions emits the single definitions translation unit: the
// ModelStartup, RunModel and ModelShutdown entry points plus the
// parameter and entity name/size tables. No RunInit, RunOnce or
// RunShutdown function and no event id/name table is emitted.
func emitDefinitions(arena *symtab.Arena, collections resolve.Collections, opt Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// model: %s\n", opt.ModelName)
	b.WriteString("#include \"declarations.h\"\n\n")

	b.WriteString("void ModelStartup(IModel* model) {\n")
	for _, p := range collections.Parameters {
		if p.Parameter != nil && p.Parameter.Source == symtab.ParamScenario {
			fmt.Fprintf(&b, "    %s = model->bindParameter(\"%s\");\n", p.UniqueName, p.UniqueName)
			if p.Parameter.HasCumrate {
				fmt.Fprintf(&b, "    %s_cumrate.prepare(%s);\n", p.UniqueName, p.UniqueName)
			}
		}
	}
	for _, t := range collections.Tables {
		fmt.Fprintf(&b, "    if (!model->isSuppressed(\"%s\")) %s.instantiate();\n", t.UniqueName, t.UniqueName)
	}
	b.WriteString("}\n\n")

	b.WriteString("void RunModel(IModel* model) {\n")
	b.WriteString("    for (int sv = 0; sv < model->subValueCount(); ++sv) RunSimulation(model, sv);\n")
	b.WriteString("}\n\n")

	b.WriteString("void ModelShutdown(IModel* model) {\n")
	order, _ := topoSortTables(collections.Tables)
	for _, t := range order {
		fmt.Fprintf(&b, "    %s.extractAccumulatorsAndWriteMeasures(model);\n", t)
	}
	b.WriteString("}\n\n")

	emitNameDispatchTables(&b, collections)
	return b.String()
}

// emitNameDispatchTables emits the ParameterNameSizeItem and
// EntityNameSizeItem static arrays the runtime consumes verbatim
// (spec.md §4.3.1). It emits no EventIdNameItem array.
func emitNameDispatchTables(b *strings.Builder, collections resolve.Collections) {
	b.WriteString("ParameterNameSizeItem ParameterNameSizeArr[] = {\n")
	for _, p := range collections.Parameters {
		fmt.Fprintf(b, "    { \"%s\", sizeof(%s) },\n", p.UniqueName, p.UniqueName)
	}
	b.WriteString("};\n\n")

	b.WriteString("EntityNameSizeItem EntityNameSizeArr[] = {\n")
	for _, e := range collections.Entities {
		fmt.Fprintf(b, "    { \"%s\", sizeof(%s) },\n", e.UniqueName, e.UniqueName)
	}
	b.WriteString("};\n")
}

// emitFixedParams emits the isolated translation unit for fixed
// parameter initializers (spec.md §4.3's "isolated in their own
// translation unit so incremental rebuilds of scenario parameters do
// not retouch fixed data").
func emitFixedParams(collections resolve.Collections) string {
	var b strings.Builder
	b.WriteString("#include \"declarations.h\"\n\n")
	for _, p := range collections.Parameters {
		if p.Parameter == nil || p.Parameter.Source != symtab.ParamFixed {
			continue
		}
		fmt.Fprintf(&b, "const double %s[] = { %s };\n", p.UniqueName, strings.Join(p.Parameter.Initializer, ", "))
	}
	return b.String()
}

// topoSortTables orders tables so that each comes after the tables in
// its Requires set, ties broken by name (spec.md §4.3's ModelShutdown
// ordering). If the Requires sets form a cycle, the tables on it are
// left out of the result and an error is returned; the resolver does
// not check table dependencies for cycles, and emitDefinitions ignores
// this error.
func topoSortTables(tables []*symtab.Symbol) ([]string, error) {
	inDegree := map[string]int{}
	edges := map[string][]string{}
	for _, t := range tables {
		inDegree[t.UniqueName] = 0
	}
	for _, t := range tables {
		if t.Table == nil {
			continue
		}
		for need := range t.Table.Requires {
			edges[need] = append(edges[need], t.UniqueName)
			inDegree[t.UniqueName]++
		}
	}

	var queue []string
	for _, t := range tables {
		if inDegree[t.UniqueName] == 0 {
			queue = append(queue, t.UniqueName)
		}
	}
	sort.Strings(queue)

	var out []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		next := append([]string(nil), edges[n]...)
		sort.Strings(next)
		for _, m := range next {
			inDegree[m]--
			if inDegree[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(out) != len(tables) {
		return out, fmt.Errorf("table dependency graph has a cycle")
	}
	return out, nil
}
