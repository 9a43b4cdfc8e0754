package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/value"
)

func TestListPushPopIndex(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	l := value.NewList(c, 0)
	require.NoError(t, l.Push(int32(1)))
	require.NoError(t, l.Push(int32(2)))

	v, status, err := l.GetIndex(int32(1))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, int32(2), v)

	popped, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, int32(2), popped)
	assert.Equal(t, 1, l.Len())
}

func TestListPushBeyondMaxLenFails(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	l := value.NewList(c, 1)
	require.NoError(t, l.Push(int32(1)))
	assert.Error(t, l.Push(int32(2)))
}

func TestListIterationYieldsIndexValuePairs(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	l := value.NewList(c, 0, int32(10), int32(20))
	it, err := l.NewIterator()
	require.NoError(t, err)

	k, v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, int32(0), k)
	assert.Equal(t, int32(10), v)

	k, v, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, int32(1), k)
	assert.Equal(t, int32(20), v)

	_, _, ok = it.Next()
	assert.False(t, ok)
}

func TestListUnsetIndexRemovesElement(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	l := value.NewList(c, 0, int32(1), int32(2), int32(3))
	status, err := l.Unset(value.UnsetIndex, int32(1))
	require.NoError(t, err)
	assert.Equal(t, value.StatusOK, status)
	assert.Equal(t, 2, l.Len())
	v, _, _ := l.GetIndex(int32(1))
	assert.Equal(t, int32(3), v)
}
