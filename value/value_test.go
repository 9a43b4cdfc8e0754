package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/value"
)

func TestAddIntPlusIntStaysInt(t *testing.T) {
	v, status, err := value.Add(int32(1), int32(2))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(3), v)
}

func TestAddIntPlusRealPromotesToReal(t *testing.T) {
	v, status, err := value.Add(int32(1), 2.5)
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, 3.5, v)
}

func TestAddBoolContributesZeroOrOne(t *testing.T) {
	v, status, err := value.Add(true, int32(1))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(2), v)
}

func TestDivByZeroIsRuntimeFailure(t *testing.T) {
	_, status, err := value.Div(int32(1), int32(0))
	assert.Equal(t, value.StatusFailed, status)
	assert.Error(t, err)
}

func TestModOnRealOperandIsRuntimeFailure(t *testing.T) {
	_, status, err := value.Mod(1.5, int32(2))
	assert.Equal(t, value.StatusFailed, status)
	assert.Error(t, err)
}

func TestModOnIntOperandsSucceeds(t *testing.T) {
	v, status, err := value.Mod(int32(7), int32(3))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(1), v)
}

func TestNullOnlyEqualsNull(t *testing.T) {
	eq, status, err := value.Equals(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.True(t, eq)

	eq, status, err = value.Equals(nil, int32(0))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.False(t, eq)
}

func TestSizeEqualityComparesNormalizedBytes(t *testing.T) {
	a := value.Size{KB: 1}
	b := value.Size{B: 1024}
	eq, status, err := value.Equals(a, b)
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.True(t, eq)
}

func TestCompareOrdersIntegers(t *testing.T) {
	cmp, status, err := value.Compare(int32(1), int32(2))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, -1, cmp)
}

func TestArithmeticOnNullIsUnimplemented(t *testing.T) {
	_, status, err := value.Add(nil, int32(1))
	require.NoError(t, err)
	assert.Equal(t, value.StatusUnimplemented, status)
}

func TestToBooleanFalsyPrimitives(t *testing.T) {
	assert.False(t, value.ToBoolean(nil))
	assert.False(t, value.ToBoolean(false))
	assert.False(t, value.ToBoolean(int32(0)))
	assert.True(t, value.ToBoolean(int32(1)))
}
