package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pure-Company/powerkit"
)

func TestMap_Merge(t *testing.T) {
	first := writeFile(t, "first.yaml", "host: a\nport: 1\n")
	second := writeFile(t, "second.json", `{"host": "b", "debug": true, "empty": null}`)

	out, _, err := runCmd(t, "", "map", "merge", first, second)
	require.NoError(t, err)
	assert.Equal(t, "debug: true\nhost: a\nport: 1\n", out)

	out, _, err = runCmd(t, "", "-o", "json", "map", "merge", second, first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"b","debug":true,"port":1}`, out)
}

func TestMap_MergeStdin(t *testing.T) {
	out, _, err := runCmd(t, "k: v\n", "map", "merge", "-")
	require.NoError(t, err)
	assert.Equal(t, "k: v\n", out)
}

func TestMap_MergeErrors(t *testing.T) {
	good := writeFile(t, "good.yaml", "k: v\n")
	scalar := writeFile(t, "scalar.yaml", "42\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := runCmd(t, "", "map", "merge", good, scalar)
	assert.ErrorIs(t, err, powerkit.ErrInvalidArgument)

	_, _, err = runCmd(t, "", "map", "merge", missing)
	assert.Error(t, err)

	out, errOut, err := runCmd(t, "", "map", "merge", good, missing, scalar, "--merge-skip-errors")
	require.NoError(t, err)
	assert.Equal(t, "k: v\n", out)
	assert.Contains(t, errOut, "Skipping input")
}

func TestMap_EncodeDecode(t *testing.T) {
	doc := writeFile(t, "doc.yaml", "name: powerkit\ntags: [a, b]\nnested:\n  n: 1\n")
	bin := filepath.Join(t.TempDir(), "doc.pkm")

	_, errOut, err := runCmd(t, "", "map", "encode", doc, "--out", bin)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Encoded map")
	assert.Contains(t, errOut, "keys=3")

	out, _, err := runCmd(t, "", "-o", "json", "map", "decode", bin)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"powerkit","tags":["a","b"],"nested":{"n":1}}`, out)
}

func TestMap_EncodeStdoutDecodeStdin(t *testing.T) {
	doc := writeFile(t, "doc.yaml", "a: 1\n")

	encoded, _, err := runCmd(t, "", "map", "encode", doc)
	require.NoError(t, err)

	out, _, err := runCmd(t, encoded, "map", "decode", "-")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)
}

func TestMap_DecodeMalformed(t *testing.T) {
	_, _, err := runCmd(t, "not a map", "map", "decode", "-")
	assert.ErrorIs(t, err, powerkit.ErrDecode)
}
