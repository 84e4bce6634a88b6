// Package symtab implements the central data model of the compiler
// (spec.md §3, §4.1): an arena of address-stable symbol slots, morphed
// in place from placeholder to concrete kind as the parser recognizes
// declarations, and the per-kind collections the resolver populates.
package symtab

import "github.com/openmpp/ompp-core/internal/diag"

// Kind discriminates the closed set of symbol variants from spec.md
// §3.1. It is a plain string tag, the same "pure data, no methods"
// split services/policy_engine/types.go's ConfidenceLevel uses —
// behavior lives in per-kind dispatch, not in methods on Kind itself.
type Kind string

const (
	KindBase Kind = "" // placeholder: not yet morphed

	KindLanguage       Kind = "Language"
	KindClassification Kind = "Classification"
	KindRange          Kind = "Range"
	KindPartition      Kind = "Partition"
	KindBoolEnum       Kind = "BoolEnum"
	KindEnumerator     Kind = "Enumerator"
	KindAggregation    Kind = "Aggregation"
	KindParameter      Kind = "Parameter"
	KindParameterGroup Kind = "ParameterGroup"
	KindEntityTable    Kind = "EntityTable"
	KindDerivedTable   Kind = "DerivedTable"
	KindTableGroup     Kind = "TableGroup"
	KindAnonGroup      Kind = "AnonGroup"
	KindHideGroup      Kind = "HideGroup"
	KindDependency     Kind = "Dependency"
	KindImport         Kind = "Import"
	KindEntity         Kind = "Entity"
	KindEntitySet      Kind = "EntitySet"
	KindAttributeGroup Kind = "AttributeGroup"
	KindGlobalFunc     Kind = "GlobalFunc"
	KindEntityFunc     Kind = "EntityFunc"
	KindModule         Kind = "Module"
	KindScenario       Kind = "Scenario"
	KindVersion        Kind = "Version"
	KindModel          Kind = "Model"
	KindModelType      Kind = "ModelType"
	KindDimension      Kind = "Dimension"
	KindMeasureDim     Kind = "MeasureDimension"
	KindTableMeasure   Kind = "TableMeasure"
	KindTableAccum     Kind = "TableAccumulator"

	// EntityDataMember sub-kinds.
	KindBuiltinAttribute     Kind = "BuiltinAttribute"
	KindSimpleAttribute      Kind = "SimpleAttribute"
	KindIdentityAttribute    Kind = "IdentityAttribute"
	KindDerivedAttribute     Kind = "DerivedAttribute"
	KindLinkAttribute        Kind = "LinkAttribute"
	KindMultilinkAggAttr     Kind = "MultilinkAggregateAttribute"
	KindEvent                Kind = "Event"
	KindIncrement            Kind = "Increment"
	KindMultilink            Kind = "Multilink"
	KindArrayMember          Kind = "Array"
	KindForeignMember        Kind = "Foreign"
	KindInternalMember       Kind = "Internal"
)

// Label holds one language's label or note text, plus whether it was
// explicitly supplied in source (spec.md §3.1's "per-language flag").
type Label struct {
	Text     string
	Explicit bool
}

// Symbol is the tagged-union node of the symbol table. Every declared
// named thing in the DSL is one Symbol; Kind selects which Payload
// field is meaningful, mirroring the inheritance-hierarchy-as-tagged-
// sum redesign note (spec.md §9).
type Symbol struct {
	UniqueName string
	Kind       Kind
	Loc        diag.Location

	Labels map[string]Label // language -> label
	Notes  map[string]Label // language -> note

	// Cross-reference sets (spec.md §3.1).
	ReferencedByFuncs map[string]bool // global func unique_name -> true
	MemberOfGroups    map[string]bool // group unique_name -> true

	// Kind-specific payload. Only the field matching Kind is valid.
	Enumeration *EnumerationPayload
	Enumerator  *EnumeratorPayload
	Parameter   *ParameterPayload
	Table       *TablePayload
	Entity      *EntityPayload
	Member      *MemberPayload
	Group       *GroupPayload
	Dependency  *DependencyPayload

	// Resolved-by-pass bookkeeping.
	IsHidden     bool
	IsInternal   bool
	IsSuppressed bool
}

// IsPlaceholder reports whether the symbol has been referenced but not
// yet morphed into a concrete kind (spec.md §3.1 lifecycle).
func (s *Symbol) IsPlaceholder() bool { return s.Kind == KindBase }

// EnumerationPayload backs Classification/Range/Partition/BoolEnum
// symbols (spec.md §3.2).
type EnumerationPayload struct {
	DicID          int
	TypeID         int
	Enumerators    []string // unique_names, ordinal-ordered
	MetadataNeeded bool
}

// EnumeratorPayload backs Enumerator symbols.
type EnumeratorPayload struct {
	Parent  string // enumeration unique_name
	Ordinal int
}

// ParameterPayload backs Parameter symbols (spec.md §3.3).
type ParameterPayload struct {
	Source          ParamSource
	Datatype        string // Type symbol unique_name, "" for fundamental
	Dimensions      []string
	CumrateDims     int
	HasCumrate      bool
	HasHaz1rate     bool
	Initializer     []string // literal forms, row-major
	SubValueCount   int
	ValueNotes      map[string]Label
}

// ParamSource is spec.md §3.3's closed source enum.
type ParamSource string

const (
	ParamMissing  ParamSource = "missing"
	ParamFixed    ParamSource = "fixed"
	ParamScenario ParamSource = "scenario"
	ParamDerived  ParamSource = "derived"
)

// TablePayload backs EntityTable/DerivedTable symbols (spec.md §3.4).
type TablePayload struct {
	Rank              int
	Dimensions        []string
	Accumulators      []string
	Measures          []string
	FilterAttribute   string
	RequiredBy        map[string]bool // tables that require this one
	Requires          map[string]bool // tables this one requires
}

// EntityPayload backs Entity symbols (spec.md §3.5).
type EntityPayload struct {
	Members            []string // ordered data member unique_names
	LocalRandomStreams  bool
}

// MemberPayload backs EntityDataMember symbols (spec.md §3.5).
type MemberPayload struct {
	Entity               string
	Offset                int
	DependentAttributes   map[string]bool
	EventAttributeDeps    map[string]bool
}

// GroupPayload backs ParameterGroup/TableGroup/AttributeGroup/AnonGroup
// /HideGroup symbols (spec.md §3.6).
type GroupPayload struct {
	Members []string // ordered unique_names, may reference other groups
	Variant string   // for AnonGroup: hide/parameters_suppress/... (spec.md §4.2.1)
}

// DependencyPayload backs Dependency symbols (spec.md §4.2.2):
// "table X requires tables {Y,Z,...}".
type DependencyPayload struct {
	Subject string
	Needs   []string
}
