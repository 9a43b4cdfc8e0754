package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/zone"
)

type node struct {
	name string
	val  int
}

func TestAllocGrowsAcrossSegments(t *testing.T) {
	z := zone.New[node]()
	var ptrs []*node
	for i := 0; i < 200; i++ {
		p := z.New(node{name: "n", val: i})
		ptrs = append(ptrs, p)
	}
	require.Equal(t, 200, z.Len())
	for i, p := range ptrs {
		assert.Equal(t, i, p.val)
	}
}

func TestResetDropsSegments(t *testing.T) {
	z := zone.New[node]()
	z.New(node{val: 1})
	z.New(node{val: 2})
	require.Equal(t, 2, z.Len())
	z.Reset()
	assert.Equal(t, 0, z.Len())
}

func TestAllocZeroesFreshNode(t *testing.T) {
	z := zone.New[node]()
	p := z.Alloc()
	assert.Equal(t, "", p.name)
	assert.Equal(t, 0, p.val)
}
