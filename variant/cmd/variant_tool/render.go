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
	"fmt"
	"io"
	"strconv"

	"github.com/apache/variant-go/parquet/compress"
	"github.com/apache/variant-go/parquet/variants"
	"github.com/apache/variant-go/variant"
	"github.com/pterm/pterm"
)

// maxTreeChildren caps the children listed under one node of a tree.
const maxTreeChildren = 50

func renderTree(w io.Writer, name string, v variant.Value) error {
	out, err := pterm.DefaultTree.WithRoot(pterm.TreeNode{
		Children: []pterm.TreeNode{treeNode(name, v)},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func treeNode(label string, v variant.Value) pterm.TreeNode {
	switch v.Kind() {
	case variant.List:
		node := pterm.TreeNode{Text: fmt.Sprintf("%s (List, %d)", label, v.Size())}
		for i, item := range v.Elems() {
			if i == maxTreeChildren {
				node.Children = append(node.Children, pterm.TreeNode{
					Text: fmt.Sprintf("... %d more", v.Size()-i)})
				break
			}
			node.Children = append(node.Children, treeNode("["+strconv.Itoa(i)+"]", item))
		}
		return node
	case variant.Map:
		node := pterm.TreeNode{Text: fmt.Sprintf("%s (Map, %d)", label, v.Size())}
		n := 0
		for k, item := range v.Fields() {
			if n == maxTreeChildren {
				node.Children = append(node.Children, pterm.TreeNode{
					Text: fmt.Sprintf("... %d more", v.Size()-n)})
				break
			}
			node.Children = append(node.Children, treeNode(strconv.Quote(k), item))
			n++
		}
		return node
	}
	return pterm.TreeNode{Text: fmt.Sprintf("%s: %s (%s)", label, v.ToJSONString(), v.Kind())}
}

type stats struct {
	kinds    map[variant.Kind]int
	maxDepth int
}

func collectStats(v variant.Value, depth int, st *stats) {
	st.kinds[v.Kind()]++
	st.maxDepth = max(st.maxDepth, depth)
	switch v.Kind() {
	case variant.List:
		for _, item := range v.Elems() {
			collectStats(item, depth+1, st)
		}
	case variant.Map:
		for _, item := range v.Fields() {
			collectStats(item, depth+1, st)
		}
	}
}

var statCodecs = []compress.Compression{
	compress.Codecs.Uncompressed,
	compress.Codecs.Snappy,
	compress.Codecs.Gzip,
	compress.Codecs.Brotli,
	compress.Codecs.Zstd,
	compress.Codecs.Lz4Raw,
}

// renderStats prints the number of values of each kind and the size of v in
// each of the supported encodings.
func renderStats(w io.Writer, v variant.Value) error {
	st := stats{kinds: make(map[variant.Kind]int)}
	collectStats(v, 0, &st)

	data := pterm.TableData{{"kind", "count"}}
	for k := variant.Null; k <= variant.Map; k++ {
		data = append(data, []string{k.String(), fmt.Sprint(st.kinds[k])})
	}
	data = append(data, []string{"max depth", fmt.Sprint(st.maxDepth)})
	out, err := pterm.DefaultTable.WithRightAlignment(true).
		WithHasHeader(true).WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}

	text, err := v.ToJSON()
	if err != nil {
		return err
	}
	mv, err := variants.Marshal(v, variants.MarshalCompactInts)
	if err != nil {
		return err
	}
	data = pterm.TableData{
		{"encoding", "bytes"},
		{"json", fmt.Sprint(len(text))},
		{"variant metadata", fmt.Sprint(len(mv.Metadata))},
		{"variant value", fmt.Sprint(len(mv.Value))},
	}
	for _, c := range statCodecs {
		codec, err := compress.GetCodec(c)
		if err != nil {
			return err
		}
		raw := append(append(make([]byte, 0, mv.Size()), mv.Metadata...), mv.Value...)
		data = append(data, []string{"variant " + c.String(), fmt.Sprint(len(codec.Encode(nil, raw)))})
	}
	out, err = pterm.DefaultTable.WithRightAlignment(true).
		WithHasHeader(true).WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
