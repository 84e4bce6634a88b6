package metadb

import (
	"fmt"
	"time"

	"github.com/openmpp/ompp-core/internal/resolve"
	"github.com/openmpp/ompp-core/internal/symtab"
)

// Holder is the in-memory MetaModelHolder of spec.md §4.4: the full
// set of row families, built once from a resolved symbol table and
// handed to Insert for persistence.
type Holder struct {
	Model    ModelDic
	ModelTxt []ModelTxt

	Types    []TypeDic
	TypeTxt  []TypeTxt
	Enums    []TypeEnum
	EnumTxt  []TypeEnumTxt

	Params     []ParamDic
	ParamTxt   []ParamTxt
	ParamDims  []ParamDims

	Tables    []TableDic
	TableTxt  []TableTxt
	TableDims []TableDims
	TableAcc  []TableAcc
	TableExpr []TableExpr

	Entities   []EntityDic
	EntityAttr []EntityAttr

	Groups   []GroupLst
	GroupPc  []GroupPc
	GroupTxt []GroupTxt

	Workset       WorksetDic
	WorksetParams []WorksetParam
}

// Build produces a Holder from the resolver's populated collections.
// It is a pure reader of the post-resolution symbol table (spec.md
// §4.4: "Produces a MetaModelHolder... mirroring the relational
// schema"). Each row's id is its symbol's index in the resolver's
// collection (sorted by unique_name), so ids are stable across runs
// regardless of allocation order; entries that are skipped (no
// metadata needed, suppressed, no payload) leave gaps in the ids.
func Build(modelName string, coll resolve.Collections, langs []string) *Holder {
	const modelID = 1
	h := &Holder{
		Model: ModelDic{
			ModelID:     modelID,
			Name:        modelName,
			CreatedDate: time.Time{}, // zero: Build does not set a creation time
		},
	}

	typeDigests := map[string]string{}
	for i, e := range coll.Enumerations {
		if e.Enumeration == nil || !e.Enumeration.MetadataNeeded {
			continue
		}
		digest := TypeDigest(e)
		typeDigests[e.UniqueName] = digest
		h.Types = append(h.Types, TypeDic{
			ModelID:        modelID,
			TypeID:         i,
			Name:           e.UniqueName,
			Kind:           string(e.Kind),
			TotalEnumCount: len(e.Enumeration.Enumerators),
			Digest:         digest,
		})
		for ord, enumName := range e.Enumeration.Enumerators {
			h.Enums = append(h.Enums, TypeEnum{ModelID: modelID, TypeID: i, EnumID: ord, Name: enumName})
		}
	}

	paramDigests := map[string]string{}
	for i, p := range coll.Parameters {
		if p.Parameter == nil || p.IsSuppressed {
			continue
		}
		digest := ParamDigest(p)
		paramDigests[p.UniqueName] = digest
		h.Params = append(h.Params, ParamDic{
			ModelID:  modelID,
			ParamID:  i,
			Name:     p.UniqueName,
			Rank:     len(p.Parameter.Dimensions),
			IsHidden: p.IsInternal,
			Digest:   digest,
		})
		for d, dim := range p.Parameter.Dimensions {
			h.ParamDims = append(h.ParamDims, ParamDims{ModelID: modelID, ParamID: i, DimID: d, Name: dim})
		}
	}

	tableDigests := map[string]string{}
	for i, t := range coll.Tables {
		if t.Table == nil {
			continue
		}
		digest := TableDigest(t)
		tableDigests[t.UniqueName] = digest
		h.Tables = append(h.Tables, TableDic{
			ModelID:  modelID,
			TableID:  i,
			Name:     t.UniqueName,
			Rank:     t.Table.Rank,
			IsHidden: t.IsInternal,
			Digest:   digest,
		})
		for d, dim := range t.Table.Dimensions {
			h.TableDims = append(h.TableDims, TableDims{ModelID: modelID, TableID: i, DimID: d, Name: dim})
		}
		for a, acc := range t.Table.Accumulators {
			h.TableAcc = append(h.TableAcc, TableAcc{ModelID: modelID, TableID: i, AccID: a, Name: acc})
		}
		for e, measure := range t.Table.Measures {
			h.TableExpr = append(h.TableExpr, TableExpr{ModelID: modelID, TableID: i, ExprID: e, Name: measure})
		}
	}

	for i, ent := range coll.Entities {
		h.Entities = append(h.Entities, EntityDic{ModelID: modelID, EntityID: i, Name: ent.UniqueName})
		if ent.Entity == nil {
			continue
		}
		for a, memberName := range ent.Entity.Members {
			h.EntityAttr = append(h.EntityAttr, EntityAttr{ModelID: modelID, EntityID: i, AttrID: a, Name: memberName})
		}
	}

	for i, g := range append(append([]*symtab.Symbol{}, coll.ParameterGroups...), coll.TableGroups...) {
		isParam := g.Kind == symtab.KindParameterGroup
		h.Groups = append(h.Groups, GroupLst{ModelID: modelID, GroupID: i, Name: g.UniqueName, IsParam: isParam})
		if g.Group == nil {
			continue
		}
		for pos := range g.Group.Members {
			h.GroupPc = append(h.GroupPc, GroupPc{ModelID: modelID, GroupID: i, ChildPos: pos})
		}
	}

	h.Model.Digest = ModelDigest(typeDigests, paramDigests, tableDigests)
	h.Workset = buildWorkset(modelID, coll)
	for _, lang := range langs {
		h.ModelTxt = append(h.ModelTxt, ModelTxt{ModelID: modelID, LangCode: lang})
	}
	return h
}

// buildWorkset returns the header row of the "Default" workset
// (spec.md §4.4's "Workset construction"). It adds no per-parameter
// entries; Build leaves Holder.WorksetParams empty.
func buildWorkset(modelID int, coll resolve.Collections) WorksetDic {
	ws := WorksetDic{SetID: 1, ModelID: modelID, Name: "Default"}
	return ws
}

// WorksetParamRows returns one workset entry per scenario parameter,
// failing if any of them has an empty initializer. Each row carries
// only SubCount (default 1); DefaultSubID is 0, ValueNotes is empty,
// and no WorksetParamValue rows are produced.
func WorksetParamRows(setID int, coll resolve.Collections) ([]WorksetParam, error) {
	var rows []WorksetParam
	for i, p := range coll.Parameters {
		if p.Parameter == nil || p.Parameter.Source != symtab.ParamScenario {
			continue
		}
		subCount := p.Parameter.SubValueCount
		if subCount == 0 {
			subCount = 1
		}
		if len(p.Parameter.Initializer) == 0 {
			return nil, fmt.Errorf("scenario parameter %q has no initializer to populate its workset entry", p.UniqueName)
		}
		rows = append(rows, WorksetParam{SetID: setID, ParamID: i, SubCount: subCount})
	}
	return rows, nil
}
