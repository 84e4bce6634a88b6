// Package config builds the compiler's Options from command-line
// flags and an optional ini file (spec.md §6.1). The flag vocabulary
// is bound the way cmd/aleutian/commands.go binds its package-level
// flag variables onto cobra.Command.Flags(), adapted here onto a
// standalone pflag.FlagSet since every ompp subcommand shares one flag
// vocabulary rather than each owning a disjoint set.
package config

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Options holds every compiler invocation setting spec.md §6.1 names.
type Options struct {
	ModelName     string
	ScenarioName  string

	InputDir  string
	OutputDir string
	UseDirs   []string
	ParamDir  string
	FixedDir  string
	DocDir    string
	SQLDir    string

	CodePage        string
	MessageLanguage string

	SuppressLineDirectives bool
	SuppressMetadata       bool
	EmitDocHTML            bool
	EmitDocMarkdown        bool

	IniFile string
}

// BuildOptionsFromFlags parses args into Options, the compiler's
// equivalent of the teacher's BuildConfigFromFlags: define every flag
// with short and long forms, parse, then let ini-file values (if an
// ini file was named) fill in anything the command line left at its
// zero value.
func BuildOptionsFromFlags(args []string) (*Options, error) {
	fs := pflag.NewFlagSet("ompp", pflag.ContinueOnError)

	modelName := fs.StringP("model", "m", "", "Model name.")
	scenarioName := fs.StringP("scenario", "s", "Default", "Scenario name.")
	inputDir := fs.StringP("input-dir", "i", ".", "Directory containing DSL source modules.")
	outputDir := fs.StringP("output-dir", "o", "./build", "Directory to write generated C++ into.")
	useDirs := fs.StringSliceP("use-dir", "u", nil, "Directories searched for use-statement library modules.")
	paramDir := fs.StringP("param-dir", "p", "", "Directory containing scenario parameter files.")
	fixedDir := fs.StringP("fixed-dir", "f", "", "Directory containing fixed parameter files.")
	docDir := fs.String("doc-dir", "", "Directory to write model documentation into.")
	sqlDir := fs.String("sql-dir", "", "Directory to write the SQLite metadata database (<model>.sqlite) into.")
	codePage := fs.String("code-page", "UTF-8", "Code page of DSL source files.")
	msgLang := fs.StringP("lang", "L", "EN", "Default message language.")
	noLineDirectives := fs.Bool("no-line-directives", false, "Suppress #line directives in emitted code.")
	noMetadata := fs.Bool("no-metadata", false, "Suppress metadata database generation.")
	docHTML := fs.Bool("doc-html", false, "Emit HTML model documentation.")
	docMd := fs.Bool("doc-md", false, "Emit markdown model documentation.")
	iniFile := fs.StringP("ini", "I", "", "Read additional options from this ini file.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opt := &Options{
		ModelName:              *modelName,
		ScenarioName:           *scenarioName,
		InputDir:               *inputDir,
		OutputDir:              *outputDir,
		UseDirs:                *useDirs,
		ParamDir:               *paramDir,
		FixedDir:               *fixedDir,
		DocDir:                 *docDir,
		SQLDir:                 *sqlDir,
		CodePage:               *codePage,
		MessageLanguage:        *msgLang,
		SuppressLineDirectives: *noLineDirectives,
		SuppressMetadata:       *noMetadata,
		EmitDocHTML:            *docHTML,
		EmitDocMarkdown:        *docMd,
		IniFile:                *iniFile,
	}

	if opt.IniFile != "" {
		if err := mergeIniFile(opt, opt.IniFile, fs); err != nil {
			return nil, fmt.Errorf("reading ini file %s: %w", opt.IniFile, err)
		}
	}

	if opt.ModelName == "" {
		return nil, fmt.Errorf("model name is required (-m/--model or ModelName= in the ini file)")
	}
	return opt, nil
}

// mergeIniFile reads KEY=VALUE entries via godotenv.Read (the model's
// ini files use the same flat KEY=VALUE shape godotenv already parses
// for .env files) and fills in any Options field whose corresponding
// flag was not explicitly set on the command line — command-line
// flags always win over the ini file.
func mergeIniFile(opt *Options, path string, fs *pflag.FlagSet) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return err
	}

	setIfUnchanged(fs, "model", values, "ModelName", &opt.ModelName)
	setIfUnchanged(fs, "scenario", values, "ScenarioName", &opt.ScenarioName)
	setIfUnchanged(fs, "input-dir", values, "InputDir", &opt.InputDir)
	setIfUnchanged(fs, "output-dir", values, "OutputDir", &opt.OutputDir)
	setIfUnchanged(fs, "param-dir", values, "ParamDir", &opt.ParamDir)
	setIfUnchanged(fs, "fixed-dir", values, "FixedDir", &opt.FixedDir)
	setIfUnchanged(fs, "doc-dir", values, "DocDir", &opt.DocDir)
	setIfUnchanged(fs, "sql-dir", values, "SQLDir", &opt.SQLDir)
	setIfUnchanged(fs, "code-page", values, "CodePage", &opt.CodePage)
	setIfUnchanged(fs, "lang", values, "MessageLanguage", &opt.MessageLanguage)

	if !fs.Changed("no-metadata") {
		if v, ok := values["SuppressMetadata"]; ok {
			opt.SuppressMetadata = parseIniBool(v)
		}
	}
	if !fs.Changed("no-line-directives") {
		if v, ok := values["SuppressLineDirectives"]; ok {
			opt.SuppressLineDirectives = parseIniBool(v)
		}
	}
	return nil
}

func setIfUnchanged(fs *pflag.FlagSet, flagName string, values map[string]string, iniKey string, dst *string) {
	if fs.Changed(flagName) {
		return
	}
	if v, ok := values[iniKey]; ok && v != "" {
		*dst = v
	}
}

func parseIniBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
