package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallestIntegralFor(t *testing.T) {
	assert.Equal(t, Int8, SmallestIntegralFor(0, 120))
	assert.Equal(t, Int8, SmallestIntegralFor(-128, 127))
	assert.Equal(t, Int16, SmallestIntegralFor(0, 128))
	assert.Equal(t, Int32, SmallestIntegralFor(-40000, 40000))
	assert.Equal(t, Int64, SmallestIntegralFor(-1<<40, 1<<40))
}

func TestNewRangeType(t *testing.T) {
	r, err := NewRangeType(0, 120)
	require.NoError(t, err)
	assert.Equal(t, 121, r.Count())
	assert.Equal(t, Int8, r.Storage)

	_, err = NewRangeType(120, 0)
	assert.Error(t, err)
}

func TestRangeConstantValidation(t *testing.T) {
	r, err := NewRangeType(0, 120)
	require.NoError(t, err)

	c, err := r.MakeConstant("5")
	require.NoError(t, err)
	assert.Equal(t, 5, c.EnumOrdinal)

	_, err = r.MakeConstant("121")
	assert.Error(t, err)
}

func TestPartitionInterval(t *testing.T) {
	p := NewPartitionType([]float64{10, 20})
	assert.Equal(t, 3, p.Count())
	assert.Equal(t, 0, p.IntervalOf(5))
	assert.Equal(t, 1, p.IntervalOf(15))
	assert.Equal(t, 2, p.IntervalOf(25))
	assert.Equal(t, 1, p.IntervalOf(10)) // half-open: 10 falls in [10,20)
}

func TestClassificationConstant(t *testing.T) {
	c := NewClassificationType([]string{"M", "F"})
	assert.True(t, c.IsValidConstant("M"))
	assert.False(t, c.IsValidConstant("X"))

	cst, err := c.MakeConstant("F")
	require.NoError(t, err)
	assert.Equal(t, 1, cst.EnumOrdinal)

	_, err = c.MakeConstant("X")
	assert.Error(t, err)
}

func TestBoolEnumType(t *testing.T) {
	var b BoolEnumType
	cst, err := b.MakeConstant("true")
	require.NoError(t, err)
	assert.Equal(t, 1, cst.EnumOrdinal)
	assert.Equal(t, "1", b.FormatForStorage(cst))
}

func TestFundamentalBoolAndReal(t *testing.T) {
	cst, err := Bool.MakeConstant("true")
	require.NoError(t, err)
	assert.Equal(t, "1", Bool.FormatForStorage(cst))

	cst, err = Real.MakeConstant("3.5")
	require.NoError(t, err)
	assert.Equal(t, "3.5", Real.FormatForStorage(cst))

	_, err = Int8.MakeConstant("200")
	assert.Error(t, err)
}
