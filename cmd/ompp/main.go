// Command ompp is the compiler's CLI: discover a model's DSL modules
// and parameter files, resolve the symbol table, emit C++ artefacts
// and the SQLite metadata database, and (for `check`) verify that two
// emissions of the same resolved model are byte-identical.
//
// Grounded on cmd/aleutian/main.go and commands.go's Cobra
// root-plus-subcommand tree (a package-level rootCmd with subcommands
// wired via AddCommand and a PersistentPreRun that loads configuration
// before any subcommand runs); diagnostic severities are colored with
// the same charmbracelet/lipgloss styles pkg/ux/output.go defines for
// success/warning/error text. Flag parsing for each subcommand is
// delegated to internal/config.BuildOptionsFromFlags rather than bound
// through Cobra's own pflag wiring, since that package already owns the
// compiler's full flag set and ini-file merge behavior.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openmpp/ompp-core/internal/config"
	"github.com/openmpp/ompp-core/internal/cppgen"
	"github.com/openmpp/ompp-core/internal/diag"
	"github.com/openmpp/ompp-core/internal/diaglog"
	"github.com/openmpp/ompp-core/internal/metadb"
	"github.com/openmpp/ompp-core/internal/metadiff"
	"github.com/openmpp/ompp-core/internal/resolve"
	"github.com/openmpp/ompp-core/internal/scanner"
	"github.com/openmpp/ompp-core/internal/symtab"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))

	errColor  = errStyle.Render
	warnColor = warnStyle.Render
	okColor   = okStyle.Render
)

func main() {
	root := &cobra.Command{
		Use:   "ompp",
		Short: "Microsimulation model compiler",
		Long:  "Compiles a model's DSL modules into C++ generated code and a SQLite metadata database.",
	}

	buildCmd := &cobra.Command{
		Use:                "build",
		Short:              "Resolve the model and emit C++ and metadata artefacts",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runBuild(args)
			return err
		},
	}

	checkCmd := &cobra.Command{
		Use:                "check",
		Short:              "Verify that emitting twice produces byte-identical artefacts",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}

	emitSQLCmd := &cobra.Command{
		Use:                "emit-sql",
		Short:              "Build the metadata database without emitting C++",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmitSQL(args)
		},
	}

	root.AddCommand(buildCmd, checkCmd, emitSQLCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errColor("fatal:"), err)
		os.Exit(1)
	}
}

// buildResult bundles what a compile run produces, so `check` can run
// the pipeline twice and compare without duplicating this plumbing.
type buildResult struct {
	opt       *config.Options
	arena     *symtab.Arena
	res       *resolve.Result
	artefacts cppgen.Artefacts
	holder    *metadb.Holder
}

// runBuild discovers sources, resolves the symbol table, and (unless
// the caller only wants the in-memory result) writes every artefact to
// disk. It mirrors spec.md §7's "code generation runs only if
// post_parse_errors == 0" gate.
func runBuild(args []string) (*buildResult, error) {
	opt, err := config.BuildOptionsFromFlags(args)
	if err != nil {
		return nil, err
	}
	log := diaglog.Default()

	sc := scanner.New(opt.InputDir)
	modules, err := sc.DSLModules(opt.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scanning DSL modules: %w", err)
	}
	for _, d := range opt.UseDirs {
		more, err := sc.DSLModules(d)
		if err != nil {
			return nil, fmt.Errorf("scanning use directory %s: %w", d, err)
		}
		modules = append(modules, more...)
	}
	log.Infof("found %d DSL module(s) under %s", len(modules), opt.InputDir)

	arena := symtab.NewArena()

	// spec.md §1 scopes the lexer/parser grammar itself out of this
	// tool: we assume upstream parsing has already declared every
	// symbol a module names. What this CLI itself owns per §6.2 is the
	// file-name-to-parameter-name mapping for scenario parameter data
	// files, so those placeholders are seeded here from the scan.
	if opt.ParamDir != "" {
		paramFiles, err := sc.ParamFiles(opt.ParamDir)
		if err != nil {
			return nil, fmt.Errorf("scanning parameter files: %w", err)
		}
		for _, f := range paramFiles {
			name := scanner.ParameterNameFromFile(f)
			arena.GetOrCreate(name, diag.Location{File: f})
			if _, err := arena.Morph(name, symtab.KindParameter, diag.Location{File: f}); err != nil {
				log.Warningf("parameter file %s: %v", f, err)
			}
		}
	}

	res, err := resolve.Run(arena)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	for _, d := range res.Diagnostics.Items() {
		if d.Severity == diag.SeverityWarning {
			fmt.Fprintf(os.Stderr, "%s %s\n", warnColor("warning:"), d.String())
		} else {
			fmt.Fprintf(os.Stderr, "%s %s\n", errColor(string(d.Severity)+":"), d.String())
		}
	}
	fmt.Fprintln(os.Stderr, res.Diagnostics.Summary())

	if res.Diagnostics.HasErrors() {
		return &buildResult{opt: opt, arena: arena, res: res}, fmt.Errorf("compilation failed: %s", res.Diagnostics.Summary())
	}

	cppOpt := cppgen.Options{
		ModelName:              opt.ModelName,
		SuppressLineDirectives: opt.SuppressLineDirectives,
		BuildTimestamp:         time.Now().UTC().Format(time.RFC3339),
	}
	artefacts := cppgen.Emit(arena, res.Collections, cppOpt)

	if opt.OutputDir != "" {
		w := cppgen.NewAtomicWriter()
		files := map[string]string{
			"Types0.h":        artefacts.TypesTier0,
			"Types1.h":        artefacts.TypesTier1,
			"declarations.h":  artefacts.Declarations,
			"Definitions.cpp": artefacts.Definitions,
			"FixedParams.cpp": artefacts.FixedParams,
		}
		for name, content := range files {
			path := filepath.Join(opt.OutputDir, name)
			if err := w.WriteFile(path, []byte(content)); err != nil {
				return nil, fmt.Errorf("writing %s: %w", path, err)
			}
		}
		log.Infof("wrote %d artefact(s) to %s", len(files), opt.OutputDir)
	}

	result := &buildResult{opt: opt, arena: arena, res: res, artefacts: artefacts}

	if !opt.SuppressMetadata {
		holder := metadb.Build(opt.ModelName, res.Collections, []string{opt.MessageLanguage})
		result.holder = holder
		if opt.SQLDir != "" {
			if err := writeMetadata(opt, holder); err != nil {
				return result, err
			}
		}
	}

	fmt.Fprintf(os.Stderr, "%s model %q compiled with %d warning(s)\n", okColor("ok:"), opt.ModelName, res.Diagnostics.WarningCount())
	return result, nil
}

func writeMetadata(opt *config.Options, holder *metadb.Holder) error {
	dsn := filepath.Join(opt.SQLDir, opt.ModelName+".sqlite")
	db, err := metadb.Connect(dsn, false)
	if err != nil {
		return fmt.Errorf("connecting metadata database: %w", err)
	}
	if err := metadb.Insert(db, holder); err != nil {
		return fmt.Errorf("inserting metadata rows: %w", err)
	}
	return nil
}

// runCheck resolves the model once and emits it twice, asserting every
// artefact but the tier-0 timestamp header matches byte-for-byte
// (spec.md §4.3, §8's idempotence property).
func runCheck(args []string) error {
	opt, err := config.BuildOptionsFromFlags(args)
	if err != nil {
		return err
	}

	first, err := runBuild(append([]string{}, args...))
	if err != nil {
		return err
	}
	cppOpt := cppgen.Options{ModelName: opt.ModelName, SuppressLineDirectives: opt.SuppressLineDirectives}
	second := cppgen.Emit(first.arena, first.res.Collections, cppOpt)

	before := map[string]string{
		"Types1.h":        first.artefacts.TypesTier1,
		"Declarations.h":  first.artefacts.Declarations,
		"Definitions.cpp": first.artefacts.Definitions,
		"FixedParams.cpp": first.artefacts.FixedParams,
	}
	after := map[string]string{
		"Types1.h":        second.TypesTier1,
		"Declarations.h":  second.Declarations,
		"Definitions.cpp": second.Definitions,
		"FixedParams.cpp": second.FixedParams,
	}
	reports := metadiff.CompareSets(before, after)
	if metadiff.IsIdempotent(reports) {
		fmt.Fprintf(os.Stderr, "%s emission is idempotent (timestamp header excluded)\n", okColor("ok:"))
		return nil
	}
	for _, r := range reports {
		fmt.Fprintf(os.Stderr, "%s %s differs between compiles:\n%s\n", errColor("error:"), r.Name, r.Unified)
	}
	return fmt.Errorf("%d artefact(s) differ between identical compiles", len(reports))
}

// runEmitSQL builds and writes only the metadata database, skipping
// C++ emission (spec.md §6.3: the metadata database is a standalone
// output a caller may want without regenerating C++).
func runEmitSQL(args []string) error {
	opt, err := config.BuildOptionsFromFlags(args)
	if err != nil {
		return err
	}
	if opt.SQLDir == "" {
		return fmt.Errorf("--sql-dir is required for emit-sql")
	}

	sc := scanner.New(opt.InputDir)
	arena := symtab.NewArena()
	if opt.ParamDir != "" {
		paramFiles, err := sc.ParamFiles(opt.ParamDir)
		if err != nil {
			return fmt.Errorf("scanning parameter files: %w", err)
		}
		for _, f := range paramFiles {
			name := scanner.ParameterNameFromFile(f)
			arena.GetOrCreate(name, diag.Location{File: f})
			_, _ = arena.Morph(name, symtab.KindParameter, diag.Location{File: f})
		}
	}

	res, err := resolve.Run(arena)
	if err != nil {
		return fmt.Errorf("resolver: %w", err)
	}
	if res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation failed: %s", res.Diagnostics.Summary())
	}

	holder := metadb.Build(opt.ModelName, res.Collections, []string{opt.MessageLanguage})
	if err := writeMetadata(opt, holder); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s metadata database written to %s\n", okColor("ok:"), opt.SQLDir)
	return nil
}
