package parser_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/parser"
)

func TestPrintJSONRendersGlobalDeclaration(t *testing.T) {
	stmts, p := parse(t, `
vcl 4.1;
global total = 10 + 5;
`)
	require.Empty(t, p.Errors())

	out, err := parser.PrintJSON(stmts)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "VclStmt", decoded[0]["type"])
	assert.Equal(t, "GlobalStmt", decoded[1]["type"])
	assert.Equal(t, "total", decoded[1]["name"])
}

func TestPrintTreeRendersSubAndForLoop(t *testing.T) {
	stmts, p := parse(t, `
sub vcl_recv() {
    declare xs = [1, 2, 3];
    for (v : xs) {
        set req.count += v;
    }
}
`)
	require.Empty(t, p.Errors())

	out := parser.PrintTree(stmts)
	assert.Contains(t, out, "sub vcl_recv()")
	assert.Contains(t, out, "declare xs")
	assert.Contains(t, out, "for v")
}

func TestPrintTreeHumanizesLargeIntegerLiteral(t *testing.T) {
	stmts, p := parse(t, `global big = 10000000;`)
	require.Empty(t, p.Errors())

	out := parser.PrintTree(stmts)
	assert.Contains(t, out, "10,000,000")
}
