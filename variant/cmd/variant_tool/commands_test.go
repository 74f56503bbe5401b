// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"name": "widget", "parts": [{"sku": "a-1", "qty": 2}, {"sku": "b-7"}], "ok": true}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(t *testing.T, cfg config) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &buf))
	return buf.String()
}

func TestCat(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[1, 2]`)
	b := writeFile(t, dir, "b.yaml", "x: y\n")

	out := runCmd(t, config{Cat: true, Files: []string{a, b}, To: "json"})
	assert.Equal(t, "[\n  1,\n  2\n]\n{\n  \"x\": \"y\"\n}\n", out)

	out = runCmd(t, config{Cat: true, Files: []string{b}, To: "yaml"})
	assert.Equal(t, "x: y\n", out)

	var buf bytes.Buffer
	err := run(context.Background(), config{Cat: true, Files: []string{a, filepath.Join(dir, "missing.json")}}, &buf)
	assert.Error(t, err)
	err = run(context.Background(), config{Cat: true, Files: []string{a}, To: "xml"}, &buf)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPackGetUnpack(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "doc.json", sampleJSON)
	packed := filepath.Join(dir, "doc.pvar")

	runCmd(t, config{Pack: true, In: in, Out: packed, Codec: "zstd", CompactInts: true, SortedKeys: true})

	for _, file := range []string{in, packed} {
		assert.Equal(t, "\"b-7\"\n", runCmd(t, config{Get: true, File: file, Path: "parts[1].sku"}), file)
		assert.Equal(t, "2\n", runCmd(t, config{Get: true, File: file, Path: "parts[0].qty"}), file)
		assert.Equal(t, "null\n", runCmd(t, config{Get: true, File: file, Path: "parts[9]"}), file)
	}

	out := runCmd(t, config{Unpack: true, In: packed, To: "json"})
	assert.JSONEq(t, sampleJSON, out)
	out = runCmd(t, config{Unpack: true, In: packed, To: "proto"})
	assert.JSONEq(t, sampleJSON, out)
	out = runCmd(t, config{Cat: true, Files: []string{packed}, To: "yaml"})
	assert.Contains(t, out, "name: widget\n")

	var buf bytes.Buffer
	err := run(context.Background(), config{Pack: true, In: in, Out: packed, Codec: "lzma"}, &buf)
	assert.Error(t, err)
	err = run(context.Background(), config{Unpack: true, In: in}, &buf)
	assert.Error(t, err)
	err = run(context.Background(), config{Get: true, File: in, Path: "parts["}, &buf)
	assert.Error(t, err)
}

func TestPackUnsupportedCodec(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "doc.json", sampleJSON)

	for _, name := range []string{"lzo", "lz4", "lzma"} {
		out := filepath.Join(dir, name+".pvar")
		var buf bytes.Buffer
		err := run(context.Background(), config{Pack: true, In: in, Out: out, Codec: name}, &buf)
		assert.Error(t, err, name)
		assert.NoFileExists(t, out, name)
	}
}

func TestCatCanceled(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[1, 2]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := run(ctx, config{Cat: true, Files: []string{a}}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "doc.json", sampleJSON)

	out := runCmd(t, config{Set: true, File: in, Path: "parts[1].qty", JSON: "5"})
	assert.JSONEq(t, `{"name": "widget", "parts": [{"sku": "a-1", "qty": 2}, {"sku": "b-7", "qty": 5}], "ok": true}`, out)

	// The file is untouched unless asked.
	data, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(data))

	assert.Empty(t, runCmd(t, config{Set: true, InPlace: true, File: in, Path: "name.first", JSON: `"w"`}))
	data, err = os.ReadFile(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": {"first": "w"}, "parts": [{"sku": "a-1", "qty": 2}, {"sku": "b-7"}], "ok": true}`, string(data))

	var buf bytes.Buffer
	err = run(context.Background(), config{Set: true, File: in, Path: "a", JSON: "not json"}, &buf)
	assert.Error(t, err)
	y := writeFile(t, dir, "doc.yml", "a: 1\n")
	err = run(context.Background(), config{Set: true, File: y, Path: "a", JSON: "2"}, &buf)
	assert.ErrorContains(t, err, "only supports JSON")
}

func TestTreeAndStat(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	dir := t.TempDir()
	in := writeFile(t, dir, "doc.json", sampleJSON)

	out := runCmd(t, config{Tree: true, File: in})
	for _, want := range []string{
		"doc.json (Map, 3)",
		`"parts" (List, 2)`,
		`[0] (Map, 2)`,
		`"sku": "b-7" (String)`,
		`"ok": true (Bool)`,
	} {
		assert.Contains(t, out, want)
	}

	out = runCmd(t, config{Stat: true, File: in})
	lines := strings.Split(out, "\n")
	assert.Contains(t, out, "max depth")
	assert.Contains(t, out, "variant SNAPPY")
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "String") {
			assert.Contains(t, line, "3")
		}
	}
}

func TestNoCommand(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, run(context.Background(), config{}, &buf))
}
