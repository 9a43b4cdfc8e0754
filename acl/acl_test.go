package acl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/acl"
	"github.com/hollow-vm/vclvm/value"
)

func TestContainsCIDR(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "10.0.0.0/8"}, "10.1.2.3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "10.0.0.0/8"}, "11.1.2.3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsExactAddress(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "192.168.1.1"}, "192.168.1.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "192.168.1.1"}, "192.168.1.2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsLocalhost(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "localhost"}, "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContainsIPv4Wildcard(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "10.0.*.1"}, "10.0.99.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "10.0.*.1"}, "10.0.99.2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsIPv4Range(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "10.0.[10-20].1"}, "10.0.15.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "10.0.[10-20].1"}, "10.0.25.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsIPv6CIDR(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "2001:db8::/32"}, "2001:db8::1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "2001:db8::/32"}, "2001:db9::1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsBracketedIPv6Literal(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "[::1]"}, "::1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "[2001:db8::]/32"}, "2001:db8::1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "10.0.[1-5].0"}, "10.0.3.0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContainsIPv6CondensedWildcard(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "2001:db8:[1-4]::*"}, "2001:db8:3::42")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "2001:db8:[1-4]::*"}, "2001:db8:5::42")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "2001:db8:[1-4]::*"}, "2001:db8:3:1::42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainsIPv6CondensedWildcardLeadingAndTrailing(t *testing.T) {
	e := acl.New()
	ok, err := e.Contains(value.AclPattern{Pattern: "1ABC:E:*::3"}, "1abc:e:ffff::3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "1ABC:[3C-4F]:*::"}, "1abc:40:1::0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Contains(value.AclPattern{Pattern: "1ABC:[3C-4F]:*::"}, "1abc:40:1::5")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCIDRRejectsUnsupportedNetmaskLength(t *testing.T) {
	e := acl.New()
	_, err := e.Contains(value.AclPattern{Pattern: "10.0.0.0/12"}, "10.0.0.1")
	assert.Error(t, err)

	_, err = e.Contains(value.AclPattern{Pattern: "2001:db8::/24"}, "2001:db8::1")
	assert.Error(t, err)

	ok, err := e.Contains(value.AclPattern{Pattern: "10.0.0.0/16"}, "10.0.5.5")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInvalidPatternReturnsError(t *testing.T) {
	e := acl.New()
	_, err := e.Contains(value.AclPattern{Pattern: "not-an-ip"}, "10.0.0.1")
	assert.Error(t, err)
}

func TestAclValueEndToEndWithNegation(t *testing.T) {
	collector := value.NewContextCollector(0.5, 16)
	a := value.NewAcl(collector, "internal", []value.AclPattern{
		{Pattern: "10.1.0.0/16", Negated: true},
		{Pattern: "10.0.0.0/8"},
	}, acl.New())

	ok, status, err := a.Contains("10.2.0.0")
	require.NoError(t, err)
	require.Equal(t, value.StatusOK, status)
	assert.True(t, ok)

	ok, status, err = a.Contains("10.1.0.5")
	require.NoError(t, err)
	require.Equal(t, value.StatusOK, status)
	assert.False(t, ok)
}
