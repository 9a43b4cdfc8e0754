package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/value"
)

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	c := value.NewContextCollector(0.5, 4)
	reachable := value.NewDict(c)
	reachable.Set("k", int32(9))
	value.NewDict(c) // unreachable once the cycle runs, not passed as a root

	c.Collect([]value.Object{reachable})

	v, ok := reachable.Get("k")
	require.True(t, ok)
	assert.Equal(t, int32(9), v)
}

func TestHandleRootsSurviveCollection(t *testing.T) {
	c := value.NewContextCollector(0.5, 4)
	d := value.NewDict(c)
	d.Set("k", int32(1))

	h := value.NewHandle(c, 1, d)
	defer h.Release()

	c.Collect(nil)

	v, ok := d.Get("k")
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
}

func TestEngineCollectorNeverCollects(t *testing.T) {
	c := value.NewEngineCollector()
	value.NewString(c, "literal")
	assert.False(t, c.ShouldCollect())
	c.Collect(nil) // no-op, must not panic
}
