// Package metadb implements C4, the metadata builder (spec.md §4.4):
// gorm row models mirroring the relational MetaModelHolder schema, a
// stable content-digest computation, and workset construction.
//
// gorm + SQLite have no grounding in the teacher's own stack — the
// teacher persists locally through dgraph-io/badger, an embedded KV
// store, not a relational database — but spec.md §6.3 names "an
// embedded SQLite database" as a literal output artefact, so gorm is
// wired in as the real ecosystem ORM for it (see DESIGN.md). The
// tagged-struct row shape mirrors services/policy_engine/types.go's
// tagged POD structs (there `yaml:"..."`, here `gorm:"..."`),
// repurposed from a classification-pattern schema to the openM++-style
// dictionary schema spec.md §4.4 names.
package metadb

import (
	"time"

	"gorm.io/datatypes"
)

// ModelDic is the one row per model: name, type, version, timestamp,
// digest (spec.md §4.4).
type ModelDic struct {
	ModelID      int    `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);uniqueIndex;not null"`
	ModelType    int    `gorm:"not null"`
	Version      string `gorm:"type:varchar(32)"`
	CreatedDate  time.Time
	Digest       string `gorm:"type:varchar(64);index"`
}

// ModelTxt is the per-language model description row.
type ModelTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
	Note     string `gorm:"type:text"`
}

// TypeDic is one row per enumeration type that is metadata_needed
// (spec.md §4.4).
type TypeDic struct {
	ModelID  int    `gorm:"primaryKey"`
	TypeID   int    `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Kind     string `gorm:"type:varchar(32)"` // classification, range, partition, bool
	TotalEnumCount int
	Digest   string `gorm:"type:varchar(64)"`
}

// TypeTxt is the per-language type description.
type TypeTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	TypeID   int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
	Note     string `gorm:"type:text"`
}

// TypeEnum is one enumerator row. Build writes one row per name in the
// enumeration's Enumerators list, for every kind including Range.
type TypeEnum struct {
	ModelID  int    `gorm:"primaryKey"`
	TypeID   int    `gorm:"primaryKey"`
	EnumID   int    `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
}

// TypeEnumTxt is the per-language enumerator label/note.
type TypeEnumTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	TypeID   int    `gorm:"primaryKey"`
	EnumID   int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
	Note     string `gorm:"type:text"`
}

// ParamDic is one row per scenario/derived-published parameter.
type ParamDic struct {
	ModelID       int    `gorm:"primaryKey"`
	ParamID       int    `gorm:"primaryKey"`
	Name          string `gorm:"type:varchar(255);not null"`
	TypeID        int
	Rank          int
	IsHidden      bool
	NumCumulated  int
	Digest        string `gorm:"type:varchar(64)"`
}

// ParamTxt is the per-language parameter description.
type ParamTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	ParamID  int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
	Note     string `gorm:"type:text"`
}

// ParamDims is one row per parameter dimension.
type ParamDims struct {
	ModelID int    `gorm:"primaryKey"`
	ParamID int    `gorm:"primaryKey"`
	DimID   int    `gorm:"primaryKey"`
	TypeID  int
	Name    string `gorm:"type:varchar(32)"`
}

// ParamDimsTxt is the per-language dimension description.
type ParamDimsTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	ParamID  int    `gorm:"primaryKey"`
	DimID    int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
}

// TableDic is one row per output table.
type TableDic struct {
	ModelID  int    `gorm:"primaryKey"`
	TableID  int    `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Rank     int
	IsHidden bool
	Digest   string `gorm:"type:varchar(64)"`
}

// TableTxt is the per-language table description.
type TableTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	TableID  int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
	Note     string `gorm:"type:text"`
}

// TableDims is one row per table dimension.
type TableDims struct {
	ModelID int    `gorm:"primaryKey"`
	TableID int    `gorm:"primaryKey"`
	DimID   int    `gorm:"primaryKey"`
	TypeID  int
	Name    string `gorm:"type:varchar(32)"`
}

// TableAcc is one row per table accumulator.
type TableAcc struct {
	ModelID int    `gorm:"primaryKey"`
	TableID int    `gorm:"primaryKey"`
	AccID   int    `gorm:"primaryKey"`
	Name    string `gorm:"type:varchar(255)"`
	Expr    string `gorm:"type:text"`
}

// TableAccTxt is the per-language accumulator description.
type TableAccTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	TableID  int    `gorm:"primaryKey"`
	AccID    int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
}

// TableExpr is one row per table measure/expression.
type TableExpr struct {
	ModelID int    `gorm:"primaryKey"`
	TableID int    `gorm:"primaryKey"`
	ExprID  int    `gorm:"primaryKey"`
	Name    string `gorm:"type:varchar(255)"`
	Decimals int
	SrcExpr string `gorm:"type:text"`
}

// TableExprTxt is the per-language measure description.
type TableExprTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	TableID  int    `gorm:"primaryKey"`
	ExprID   int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
}

// EntityDic is one row per entity kind.
type EntityDic struct {
	ModelID  int    `gorm:"primaryKey"`
	EntityID int    `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Digest   string `gorm:"type:varchar(64)"`
}

// EntityAttr is one row per entity attribute.
type EntityAttr struct {
	ModelID    int    `gorm:"primaryKey"`
	EntityID   int    `gorm:"primaryKey"`
	AttrID     int    `gorm:"primaryKey"`
	Name       string `gorm:"type:varchar(255);not null"`
	TypeID     int
	IsInternal bool
}

// GroupLst is one row per parameter/table/attribute group.
type GroupLst struct {
	ModelID int    `gorm:"primaryKey"`
	GroupID int    `gorm:"primaryKey"`
	Name    string `gorm:"type:varchar(255);not null"`
	IsParam bool // true = parameter group, false = table group
}

// GroupPc is one ordered member row within a group.
type GroupPc struct {
	ModelID  int `gorm:"primaryKey"`
	GroupID  int `gorm:"primaryKey"`
	ChildPos int `gorm:"primaryKey"`
	ChildGroupID *int
	LeafID       *int
}

// GroupTxt is the per-language group description.
type GroupTxt struct {
	ModelID  int    `gorm:"primaryKey"`
	GroupID  int    `gorm:"primaryKey"`
	LangCode string `gorm:"primaryKey;type:varchar(8)"`
	Descr    string `gorm:"type:varchar(255)"`
}

// ParamImport is one row per import statement targeting a scenario
// parameter (spec.md §4.4).
type ParamImport struct {
	ModelID     int    `gorm:"primaryKey"`
	ParamID     int    `gorm:"primaryKey"`
	FromName    string `gorm:"type:varchar(255)"`
	FromModel   string `gorm:"type:varchar(255)"`
	IsSampled   bool
}

// LangLst is one row per language the model supports.
type LangLst struct {
	LangID   int    `gorm:"primaryKey;autoIncrement"`
	LangCode string `gorm:"type:varchar(8);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(64)"`
}

// LangWord is one row per localized fixed string (e.g. "Scenario",
// "Parameters") the runtime/UI needs.
type LangWord struct {
	LangID int    `gorm:"primaryKey"`
	Code   string `gorm:"primaryKey;type:varchar(64)"`
	Value  string `gorm:"type:varchar(255)"`
}

// WorksetDic is the named workset created after metadata insertion
// (spec.md §4.4's "Workset construction").
type WorksetDic struct {
	SetID       int    `gorm:"primaryKey;autoIncrement"`
	ModelID     int    `gorm:"index;not null"`
	Name        string `gorm:"type:varchar(255);not null"`
	IsReadonly  bool
	UpdatedDate time.Time
}

// WorksetParam is one parameter entry in a workset: sub-value count,
// default sub-value id, and per-language notes.
type WorksetParam struct {
	SetID           int            `gorm:"primaryKey"`
	ParamID         int            `gorm:"primaryKey"`
	SubCount        int
	DefaultSubID    int
	ValueNotes      datatypes.JSON `gorm:"type:jsonb"` // lang -> note text
}

// WorksetParamValue is one flattened value row of a workset parameter
// sub-value. The table is created by AllModels; nothing in this
// package produces rows of it.
type WorksetParamValue struct {
	SetID    int    `gorm:"primaryKey"`
	ParamID  int    `gorm:"primaryKey"`
	SubID    int    `gorm:"primaryKey"`
	CellPos  int    `gorm:"primaryKey"`
	Value    string `gorm:"type:text"` // storage-formatted via types.Type.FormatForStorage
}

// AllModels lists every row model for a single AutoMigrate call; gorm
// has no direct pack precedent for this (see the package doc comment),
// so the migration list is just every struct this package defines.
func AllModels() []any {
	return []any{
		&ModelDic{}, &ModelTxt{},
		&TypeDic{}, &TypeTxt{}, &TypeEnum{}, &TypeEnumTxt{},
		&ParamDic{}, &ParamTxt{}, &ParamDims{}, &ParamDimsTxt{},
		&TableDic{}, &TableTxt{}, &TableDims{}, &TableAcc{}, &TableAccTxt{}, &TableExpr{}, &TableExprTxt{},
		&EntityDic{}, &EntityAttr{},
		&GroupLst{}, &GroupPc{}, &GroupTxt{},
		&ParamImport{},
		&LangLst{}, &LangWord{},
		&WorksetDic{}, &WorksetParam{}, &WorksetParamValue{},
	}
}
