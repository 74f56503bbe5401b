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
	"math"
	"strconv"
	"strings"
)

// AsBool converts v to a bool. Numbers are true when non-zero, strings when they
// start with a non-zero number. Null, List and Map are false.
func (v Value) AsBool() bool {
	switch v.kind {
	case Bool, Int32, Int64:
		return v.i != 0
	case Double:
		return v.f != 0
	case String:
		return parseDouble(v.s) != 0
	}
	return false
}

// AsInt32 converts v to an int32. Int64 values are narrowed with two's
// complement wrapping, doubles are truncated toward zero and clamped to the
// int32 range, and strings that do not parse or do not fit yield 0.
func (v Value) AsInt32() int32 {
	switch v.kind {
	case Double:
		n := truncate(v.f)
		switch {
		case n > math.MaxInt32:
			return math.MaxInt32
		case n < math.MinInt32:
			return math.MinInt32
		}
		return int32(n)
	case String:
		n := parseInt(v.s)
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0
		}
		return int32(n)
	}
	return int32(v.AsInt64())
}

// AsInt64 converts v to an int64. Doubles are truncated toward zero (NaN is 0,
// out of range values saturate). Strings are read from their leading number, so
// "12abc" is 12 and "3.5kg" is 3, and yield 0 when they do not start with one.
func (v Value) AsInt64() int64 {
	switch v.kind {
	case Bool, Int32, Int64:
		return v.i
	case Double:
		return truncate(v.f)
	case String:
		return parseInt(v.s)
	}
	return 0
}

// AsDouble converts v to a float64. Strings are read from their leading number,
// so "3.5kg" is 3.5, and yield 0 when they do not start with one.
func (v Value) AsDouble() float64 {
	switch v.kind {
	case Bool, Int32, Int64:
		return float64(v.i)
	case Double:
		return v.f
	case String:
		return parseDouble(v.s)
	}
	return 0
}

// AsString converts v to a string. Bools become "0" or "1", numbers their
// decimal text, and Null, List and Map the empty string.
func (v Value) AsString() string {
	switch v.kind {
	case Bool, Int32, Int64:
		return strconv.FormatInt(v.i, 10)
	case Double:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case String:
		return v.s
	}
	return ""
}

// AsList returns a copy of the children of a List, or an empty slice for every
// other kind.
func (v Value) AsList() []Value {
	if v.kind != List {
		return []Value{}
	}
	return v.list.slice()
}

// AsMap returns a copy of the entries of a Map, or an empty map for every other
// kind.
func (v Value) AsMap() map[string]Value {
	out := make(map[string]Value, v.Size())
	if v.kind == Map {
		v.obj.each(func(k string, x Value) bool {
			out[k] = x
			return true
		})
	}
	return out
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// parseInt reads the integer at the start of s. A fraction or exponent that
// follows the digits is applied and the result truncated toward zero. It
// returns 0 when s does not start with a number.
func parseInt(s string) int64 {
	num, integral := numericPrefix(s, false)
	if num == "" {
		return 0
	}
	if integral {
		if n, err := strconv.ParseInt(num, 10, 64); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(num, 64); err == nil {
		return truncate(f)
	}
	return 0
}

// parseDouble reads the number at the start of s, including the words inf,
// infinity and nan. It returns 0 when s does not start with a number or the
// number is out of range.
func parseDouble(s string) float64 {
	num, _ := numericPrefix(s, true)
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return f
}

// numericPrefix returns the longest prefix of s, after leading white space,
// that reads as a decimal number: an optional sign, digits with an optional
// fraction, then an optional exponent. Trailing text is ignored, so "12abc"
// yields "12". integral reports that the number has no fraction or exponent.
func numericPrefix(s string, words bool) (num string, integral bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if words {
		rest := strings.ToLower(s[i:])
		for _, w := range []string{"infinity", "inf", "nan"} {
			if strings.HasPrefix(rest, w) {
				return s[:i+len(w)], false
			}
		}
	}

	digits := countDigits(s[i:])
	i += digits
	integral = true
	if i < len(s) && s[i] == '.' {
		if frac := countDigits(s[i+1:]); digits+frac > 0 {
			i += 1 + frac
			digits += frac
			integral = false
		}
	}
	if digits == 0 {
		return "", false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if exp := countDigits(s[j:]); exp > 0 {
			i = j + exp
			integral = false
		}
	}
	return s[:i], integral
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && '0' <= s[n] && s[n] <= '9' {
		n++
	}
	return n
}
