package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/value"
)

func TestDictSetGetRoundTrip(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	d := value.NewDict(c)
	d.Set("a", int32(1))
	d.Set("b", int32(2))

	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
	assert.Equal(t, 2, d.Len())
}

func TestDictOverwriteKeepsSingleEntry(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	d := value.NewDict(c)
	d.Set("a", int32(1))
	d.Set("a", int32(2))
	assert.Equal(t, 1, d.Len())
	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestDictDeleteTombstonesAndHidesKey(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	d := value.NewDict(c)
	d.Set("a", int32(1))
	require.True(t, d.Delete("a"))
	_, ok := d.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestDictIterationVisitsLiveEntriesInInsertionOrder(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	d := value.NewDict(c)
	d.Set("a", int32(1))
	d.Set("b", int32(2))
	d.Set("c", int32(3))
	d.Delete("b")

	it, err := d.NewIterator()
	require.NoError(t, err)

	var keys []string
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, k.(string))
	}
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestDictRehashPreservesEntriesAcrossGrowth(t *testing.T) {
	c := value.NewContextCollector(0.5, 16)
	d := value.NewDict(c)
	for i := 0; i < 100; i++ {
		d.Set(string(rune('a'+i%26))+string(rune(i)), int32(i))
	}
	assert.Equal(t, 100, d.Len())
}
