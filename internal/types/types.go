// Package types implements the compiler's two-tier type system
// (spec.md §3.7): fundamental types (bool, fixed-width integers, Time,
// real) and templated types (Range, Partition, Classification), plus
// the Constant value they produce.
package types

import (
	"fmt"
	"math"
	"strconv"
)

// Constant is a typed literal or enumerator reference, per spec.md
// §3.7. EnumOrdinal is only meaningful when Type is an enumeration
// type; for fundamental types only Literal/Value matter.
type Constant struct {
	Type        Type
	Literal     string
	Value       float64
	EnumOrdinal int
}

// Type is implemented by every fundamental and templated type. It
// mirrors spec.md §3.7's four required operations.
type Type interface {
	Name() string
	IsValidConstant(literal string) bool
	MakeConstant(literal string) (Constant, error)
	DefaultInitialValue() Constant
	FormatForStorage(c Constant) string
}

// fundamentalKind discriminates the built-in scalar types.
type fundamentalKind int

const (
	kindBool fundamentalKind = iota
	kindInt8
	kindInt16
	kindInt32
	kindInt64
	kindTime
	kindReal
)

// Fundamental is a non-templated scalar type: bool, a fixed-width
// signed integer, Time, or real (spec.md §3.7).
type Fundamental struct {
	kind fundamentalKind
	name string
	lo   int64
	hi   int64
}

var (
	Bool  = &Fundamental{kind: kindBool, name: "bool"}
	Int8  = &Fundamental{kind: kindInt8, name: "int8", lo: math.MinInt8, hi: math.MaxInt8}
	Int16 = &Fundamental{kind: kindInt16, name: "int16", lo: math.MinInt16, hi: math.MaxInt16}
	Int32 = &Fundamental{kind: kindInt32, name: "int32", lo: math.MinInt32, hi: math.MaxInt32}
	Int64 = &Fundamental{kind: kindInt64, name: "int64", lo: math.MinInt64, hi: math.MaxInt64}
	Time  = &Fundamental{kind: kindTime, name: "Time"}
	Real  = &Fundamental{kind: kindReal, name: "real"}
)

func (f *Fundamental) Name() string { return f.name }

func (f *Fundamental) IsValidConstant(literal string) bool {
	_, err := f.MakeConstant(literal)
	return err == nil
}

func (f *Fundamental) MakeConstant(literal string) (Constant, error) {
	switch f.kind {
	case kindBool:
		switch literal {
		case "true", "false":
			v := 0.0
			if literal == "true" {
				v = 1.0
			}
			return Constant{Type: f, Literal: literal, Value: v}, nil
		}
		return Constant{}, fmt.Errorf("%q is not a valid bool constant", literal)
	case kindInt8, kindInt16, kindInt32, kindInt64:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return Constant{}, fmt.Errorf("%q is not a valid %s constant", literal, f.name)
		}
		if n < f.lo || n > f.hi {
			return Constant{}, fmt.Errorf("%q out of range for %s", literal, f.name)
		}
		return Constant{Type: f, Literal: literal, Value: float64(n)}, nil
	case kindTime, kindReal:
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Constant{}, fmt.Errorf("%q is not a valid %s constant", literal, f.name)
		}
		return Constant{Type: f, Literal: literal, Value: v}, nil
	}
	return Constant{}, fmt.Errorf("unreachable fundamental kind")
}

func (f *Fundamental) DefaultInitialValue() Constant {
	switch f.kind {
	case kindBool:
		return Constant{Type: f, Literal: "false", Value: 0}
	default:
		return Constant{Type: f, Literal: "0", Value: 0}
	}
}

func (f *Fundamental) FormatForStorage(c Constant) string {
	if f.kind == kindBool {
		if c.Value != 0 {
			return "1"
		}
		return "0"
	}
	if f.kind == kindTime || f.kind == kindReal {
		return strconv.FormatFloat(c.Value, 'g', -1, 64)
	}
	return strconv.FormatInt(int64(c.Value), 10)
}

// SmallestIntegralFor returns the smallest of Int8/Int16/Int32/Int64
// whose range covers [lo, hi], per spec.md §3.2's Range storage-width
// optimization ("storage width optimized to the smallest signed
// integral type that holds hi"), ported from the bit-width selection
// in the original omc's range-symbol code generation.
func SmallestIntegralFor(lo, hi int64) *Fundamental {
	for _, t := range []*Fundamental{Int8, Int16, Int32, Int64} {
		if lo >= t.lo && hi <= t.hi {
			return t
		}
	}
	return Int64
}

// RangeType is the templated integer-interval enumeration of spec.md
// §3.2: enumerator ordinal i represents value lo+i.
type RangeType struct {
	Lo, Hi  int64
	Storage *Fundamental
}

// NewRangeType validates lo <= hi (spec.md §8: "lo > hi emits exactly
// one error and produces no enumerator rows" — the caller is
// responsible for emitting that diagnostic; this constructor only
// reports the condition) and selects the storage width.
func NewRangeType(lo, hi int64) (*RangeType, error) {
	if lo > hi {
		return nil, fmt.Errorf("range [%d,%d] has lo > hi", lo, hi)
	}
	return &RangeType{Lo: lo, Hi: hi, Storage: SmallestIntegralFor(lo, hi)}, nil
}

// Count is the number of enumerators (hi-lo+1).
func (r *RangeType) Count() int { return int(r.Hi-r.Lo) + 1 }

func (r *RangeType) Name() string { return fmt.Sprintf("range[%d,%d]", r.Lo, r.Hi) }

func (r *RangeType) IsValidConstant(literal string) bool {
	_, err := r.MakeConstant(literal)
	return err == nil
}

func (r *RangeType) MakeConstant(literal string) (Constant, error) {
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return Constant{}, fmt.Errorf("%q is not a valid integer literal", literal)
	}
	if n < r.Lo || n > r.Hi {
		return Constant{}, fmt.Errorf("%q out of range [%d,%d]", literal, r.Lo, r.Hi)
	}
	return Constant{Type: r, Literal: literal, Value: float64(n), EnumOrdinal: int(n - r.Lo)}, nil
}

func (r *RangeType) DefaultInitialValue() Constant {
	c, _ := r.MakeConstant(strconv.FormatInt(r.Lo, 10))
	return c
}

func (r *RangeType) FormatForStorage(c Constant) string {
	return r.Storage.FormatForStorage(Constant{Type: r.Storage, Value: c.Value})
}

// PartitionType is a sorted list of split points partitioning the real
// line into half-open intervals (spec.md §3.2).
type PartitionType struct {
	SplitPoints []float64
}

func NewPartitionType(splitPoints []float64) *PartitionType {
	return &PartitionType{SplitPoints: splitPoints}
}

// Count is the number of intervals: len(splitPoints)+1.
func (p *PartitionType) Count() int { return len(p.SplitPoints) + 1 }

func (p *PartitionType) Name() string { return "partition" }

// IntervalOf returns the ordinal of the half-open interval containing
// v: interval i covers [SplitPoints[i-1], SplitPoints[i]).
func (p *PartitionType) IntervalOf(v float64) int {
	for i, s := range p.SplitPoints {
		if v < s {
			return i
		}
	}
	return len(p.SplitPoints)
}

func (p *PartitionType) IsValidConstant(literal string) bool {
	_, err := p.MakeConstant(literal)
	return err == nil
}

func (p *PartitionType) MakeConstant(literal string) (Constant, error) {
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Constant{}, fmt.Errorf("%q is not a valid partition value", literal)
	}
	return Constant{Type: p, Literal: literal, Value: v, EnumOrdinal: p.IntervalOf(v)}, nil
}

func (p *PartitionType) DefaultInitialValue() Constant {
	c, _ := p.MakeConstant("0")
	return c
}

func (p *PartitionType) FormatForStorage(c Constant) string {
	return strconv.Itoa(c.EnumOrdinal)
}

// ClassificationType is a user-named, ordinal-ordered set of levels
// (spec.md §3.2).
type ClassificationType struct {
	Levels []string
}

func NewClassificationType(levels []string) *ClassificationType {
	return &ClassificationType{Levels: levels}
}

func (c *ClassificationType) Count() int { return len(c.Levels) }

func (c *ClassificationType) Name() string { return "classification" }

func (c *ClassificationType) ordinalOf(literal string) (int, bool) {
	for i, lvl := range c.Levels {
		if lvl == literal {
			return i, true
		}
	}
	return 0, false
}

// IsValidConstant accepts only enumerator-literal initializers of this
// classification (spec.md §8: "a parameter whose datatype is a
// classification accepts only enumerator-literal initializers of that
// classification").
func (c *ClassificationType) IsValidConstant(literal string) bool {
	_, ok := c.ordinalOf(literal)
	return ok
}

func (c *ClassificationType) MakeConstant(literal string) (Constant, error) {
	ord, ok := c.ordinalOf(literal)
	if !ok {
		return Constant{}, fmt.Errorf("%q is not an enumerator of this classification", literal)
	}
	return Constant{Type: c, Literal: literal, Value: float64(ord), EnumOrdinal: ord}, nil
}

func (c *ClassificationType) DefaultInitialValue() Constant {
	if len(c.Levels) == 0 {
		return Constant{Type: c}
	}
	v, _ := c.MakeConstant(c.Levels[0])
	return v
}

func (c *ClassificationType) FormatForStorage(cst Constant) string {
	return strconv.Itoa(cst.EnumOrdinal)
}

// BoolEnumType is the two-level enumeration {false, true} (spec.md
// §3.2), distinct from the Fundamental Bool scalar because it is
// itself an Enumeration symbol kind with its own type_id and
// enumerator rows.
type BoolEnumType struct{}

func (BoolEnumType) Name() string { return "BOOL" }

func (BoolEnumType) Count() int { return 2 }

func (b BoolEnumType) IsValidConstant(literal string) bool {
	return literal == "false" || literal == "true"
}

func (b BoolEnumType) MakeConstant(literal string) (Constant, error) {
	switch literal {
	case "false":
		return Constant{Type: b, Literal: literal, Value: 0, EnumOrdinal: 0}, nil
	case "true":
		return Constant{Type: b, Literal: literal, Value: 1, EnumOrdinal: 1}, nil
	}
	return Constant{}, fmt.Errorf("%q is not false or true", literal)
}

func (b BoolEnumType) DefaultInitialValue() Constant {
	c, _ := b.MakeConstant("false")
	return c
}

func (b BoolEnumType) FormatForStorage(c Constant) string {
	return strconv.Itoa(c.EnumOrdinal)
}
