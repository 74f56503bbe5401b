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
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/pterm/pterm"
)

var version = ""
var usage = `Variant Tool (version ` + version + `)
Usage:
  variant_tool -h | --help
  variant_tool cat [-v] [--to=FMT] <files>...
  variant_tool get [-v] <file> <path>
  variant_tool set [-v] [--in-place] <file> <path> <json>
  variant_tool tree [-v] <file>
  variant_tool stat [-v] <file>
  variant_tool pack [-v] [--codec=CODEC] [--compact-ints] [--sorted-keys] <in> <out>
  variant_tool unpack [-v] [--to=FMT] <in>
Options:
  -h --help          Show this screen.
  -v                 Log debug messages to stderr.
  --to=FMT           Output format: json, yaml or proto [default: json].
  --codec=CODEC      Compression of packed files [default: snappy].
  --compact-ints     Store integers in the smallest width that holds them.
  --sorted-keys      Write a sorted key dictionary.
  --in-place         Write the patched document back to <file>.

Files ending in .yaml or .yml are read as YAML and files ending in .pvar as
packed binary variants; everything else is read as JSON.
`

type config struct {
	Help        bool     `docopt:"--help"`
	Cat         bool     `docopt:"cat"`
	Get         bool     `docopt:"get"`
	Set         bool     `docopt:"set"`
	Tree        bool     `docopt:"tree"`
	Stat        bool     `docopt:"stat"`
	Pack        bool     `docopt:"pack"`
	Unpack      bool     `docopt:"unpack"`
	Verbose     bool     `docopt:"-v"`
	To          string   `docopt:"--to"`
	Codec       string   `docopt:"--codec"`
	CompactInts bool     `docopt:"--compact-ints"`
	SortedKeys  bool     `docopt:"--sorted-keys"`
	InPlace     bool     `docopt:"--in-place"`
	Files       []string `docopt:"<files>"`
	File        string   `docopt:"<file>"`
	Path        string   `docopt:"<path>"`
	JSON        string   `docopt:"<json>"`
	In          string   `docopt:"<in>"`
	Out         string   `docopt:"<out>"`
}

func main() {
	opts, _ := docopt.ParseDoc(usage)
	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := pterm.DefaultLogger.WithWriter(os.Stderr)
	if cfg.Verbose {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}
	slog.SetDefault(slog.New(pterm.NewSlogHandler(logger)))

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		slog.Error("variant_tool failed", "error", err)
		os.Exit(1)
	}
}
