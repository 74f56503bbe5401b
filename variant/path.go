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

package variant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("variant: invalid path")

// Segment is one step of a Path: either a List index or a Map key.
type Segment struct {
	key   string
	index int
	keyed bool
}

// Idx returns a Segment addressing the i-th element of a List.
func Idx(i int) Segment { return Segment{index: i} }

// Key returns a Segment addressing the entry k of a Map.
func Key(k string) Segment { return Segment{key: k, keyed: true} }

func (s Segment) IsKey() bool { return s.keyed }

// Index returns the list index of s, or -1 if s is a key.
func (s Segment) Index() int {
	if s.keyed {
		return -1
	}
	return s.index
}

// Key returns the map key of s, or "" if s is an index.
func (s Segment) Key() string { return s.key }

// Path is a sequence of segments leading from a root Value to a nested one.
type Path []Segment

// ParsePath parses the textual form of a Path. Keys are separated by dots,
// indexes are written in brackets, and keys that contain special characters are
// quoted inside brackets:
//
//	users[0].name
//	["key.with.dots"][2]
//	[3].tags
//
// The empty string is the empty Path.
func ParsePath(s string) (Path, error) {
	var p Path
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '[':
			seg, n, err := parseBracket(s[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %q at offset %d: %v", ErrInvalidPath, s, i, err)
			}
			p = append(p, seg)
			i += n
		case c == '.' && i > 0:
			i++
			n := identLen(s[i:])
			if n == 0 {
				return nil, fmt.Errorf("%w: %q: empty key at offset %d", ErrInvalidPath, s, i)
			}
			p = append(p, Key(s[i:i+n]))
			i += n
		case i == 0 && c != '.' && c != ']':
			n := identLen(s)
			p = append(p, Key(s[:n]))
			i += n
		default:
			return nil, fmt.Errorf("%w: %q: unexpected %q at offset %d", ErrInvalidPath, s, c, i)
		}
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error. It is meant for
// package level variables and tests.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func identLen(s string) int {
	n := strings.IndexAny(s, ".[]")
	if n < 0 {
		return len(s)
	}
	return n
}

// parseBracket parses a bracketed segment at the start of s and returns it with
// the number of bytes consumed.
func parseBracket(s string) (Segment, int, error) {
	if len(s) > 1 && s[1] == '"' {
		end := 2
		for ; end < len(s); end++ {
			if s[end] == '\\' {
				end++
				continue
			}
			if s[end] == '"' {
				break
			}
		}
		if end >= len(s) {
			return Segment{}, 0, errors.New("unterminated quoted key")
		}
		key, err := strconv.Unquote(s[1 : end+1])
		if err != nil {
			return Segment{}, 0, err
		}
		if end+1 >= len(s) || s[end+1] != ']' {
			return Segment{}, 0, errors.New("missing ']' after quoted key")
		}
		return Key(key), end + 2, nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Segment{}, 0, errors.New("missing ']'")
	}
	idx, err := strconv.Atoi(s[1:end])
	if err != nil || idx < 0 {
		return Segment{}, 0, fmt.Errorf("bad index %q", s[1:end])
	}
	return Idx(idx), end + 1, nil
}

// String formats p so that ParsePath(p.String()) returns an equal Path.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		switch {
		case !seg.keyed:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
		case isPlainKey(seg.key):
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(seg.key)
		default:
			sb.WriteByte('[')
			sb.WriteString(strconv.Quote(seg.key))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func isPlainKey(k string) bool {
	return k != "" && !strings.ContainsAny(k, ".[]\"\\ \t\r\n")
}
