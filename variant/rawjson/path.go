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

package rawjson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/variant-go/variant"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Get returns the member of doc found at p, decoding nothing else. Like
// variant.Value.Get it returns Null when a step is missing or lands on the
// wrong kind, and also when doc is not valid JSON.
func Get(doc []byte, p variant.Path) variant.Value {
	if !gjson.ValidBytes(doc) {
		return variant.Value{}
	}
	cur := gjson.ParseBytes(doc)
	for _, seg := range p {
		if !fits(cur, seg) {
			return variant.Value{}
		}
		if cur = child(cur, seg); !cur.Exists() {
			return variant.Value{}
		}
	}
	return variant.FromJSONTree(treeOf(cur))
}

// Set stores x at p in doc and returns the patched document. It follows the
// rules of variant.Value.SetPath: a level that is not the container kind the
// path needs is replaced by an empty one, arrays grow with nulls and a path
// with a negative index leaves doc unchanged. Members outside the path keep
// their original text.
func Set(doc []byte, p variant.Path, x variant.Value) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: cannot patch document", variant.ErrInvalidJSON)
	}
	for _, seg := range p {
		if !seg.IsKey() && seg.Index() < 0 {
			return doc, nil
		}
		if seg.IsKey() && seg.Key() == "" {
			// sjson cannot address empty keys.
			return setDecoded(doc, p, x)
		}
	}

	cur := gjson.ParseBytes(doc)
	for i, seg := range p {
		if !fits(cur, seg) {
			var sub variant.Value
			sub.SetPath(p[i:], x)
			return replace(doc, p[:i], sub)
		}
		if cur = child(cur, seg); !cur.Exists() {
			break
		}
	}
	return replace(doc, p, x)
}

func setDecoded(doc []byte, p variant.Path, x variant.Value) ([]byte, error) {
	tree, err := Codec{}.Parse(doc)
	if err != nil {
		return nil, err
	}
	v := variant.FromJSONTree(tree)
	v.SetPath(p, x)
	return Codec{}.Stringify(v.ToJSONTree())
}

// replace stores x at p, creating missing levels on the way.
func replace(doc []byte, p variant.Path, x variant.Value) ([]byte, error) {
	raw, err := Codec{}.Stringify(x.ToJSONTree())
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return raw, nil
	}
	return sjson.SetRawBytes(doc, setterPath(p), raw)
}

func setterPath(p variant.Path) string {
	elems := make([]string, len(p))
	for i, seg := range p {
		if seg.IsKey() {
			elems[i] = keyElem(seg.Key())
		} else {
			elems[i] = strconv.Itoa(seg.Index())
		}
	}
	return strings.Join(elems, ".")
}

func fits(r gjson.Result, seg variant.Segment) bool {
	if seg.IsKey() {
		return r.IsObject()
	}
	return r.IsArray()
}

// child returns the member of r selected by seg. r must be a container of the
// matching kind.
func child(r gjson.Result, seg variant.Segment) gjson.Result {
	if !seg.IsKey() {
		if seg.Index() < 0 {
			return gjson.Result{}
		}
		return r.Get(strconv.Itoa(seg.Index()))
	}
	var found gjson.Result
	r.ForEach(func(k, item gjson.Result) bool {
		if k.Str == seg.Key() {
			found = item
			return false
		}
		return true
	})
	return found
}
