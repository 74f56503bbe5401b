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

package variant_test

import (
	"testing"

	"github.com/apache/variant-go/variant"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type segment struct {
	Key   string
	Index int
}

func segments(p variant.Path) []segment {
	out := make([]segment, len(p))
	for i, s := range p {
		out[i] = segment{Key: s.Key(), Index: s.Index()}
	}
	return out
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []segment
		str  string
	}{
		{"", []segment{}, ""},
		{"a", []segment{{"a", -1}}, "a"},
		{"a.b.c", []segment{{"a", -1}, {"b", -1}, {"c", -1}}, "a.b.c"},
		{"[0]", []segment{{"", 0}}, "[0]"},
		{"users[12].name", []segment{{"users", -1}, {"", 12}, {"name", -1}}, "users[12].name"},
		{"[1][2]", []segment{{"", 1}, {"", 2}}, "[1][2]"},
		{`["a.b"][0]`, []segment{{"a.b", -1}, {"", 0}}, `["a.b"][0]`},
		{`x["with \"quote\""]`, []segment{{"x", -1}, {`with "quote"`, -1}}, `x["with \"quote\""]`},
		{`[""]`, []segment{{"", -1}}, `[""]`},
		{`["plain"]`, []segment{{"plain", -1}}, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := variant.ParsePath(tt.in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, segments(p)); diff != "" {
				t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
			assert.Equal(t, tt.str, p.String())

			again, err := variant.ParsePath(p.String())
			require.NoError(t, err)
			assert.Equal(t, segments(p), segments(again))
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{
		".a", "a..b", "a.", "[", "[1", "[x]", "[-1]", `["open`, `["a"`, "a]", "]",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := variant.ParsePath(in)
			assert.ErrorIs(t, err, variant.ErrInvalidPath)
		})
	}

	assert.Panics(t, func() { variant.MustParsePath("[") })
}

func TestPathFromSegments(t *testing.T) {
	p := variant.Path{variant.Key("a b"), variant.Idx(3), variant.Key("c")}
	assert.Equal(t, `["a b"][3].c`, p.String())
	assert.True(t, p[0].IsKey())
	assert.False(t, p[1].IsKey())
	assert.Equal(t, 3, p[1].Index())
	assert.Equal(t, "", p[1].Key())
}
