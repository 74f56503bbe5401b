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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/apache/variant-go/internal/json"
	"github.com/apache/variant-go/parquet/compress"
	"github.com/apache/variant-go/parquet/variants"
	"github.com/apache/variant-go/variant"
	"github.com/apache/variant-go/variant/pbconv"
	"github.com/apache/variant-go/variant/rawjson"
	"github.com/apache/variant-go/variant/yamlconv"
	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context, cfg config, w io.Writer) error {
	switch {
	case cfg.Cat:
		return cat(ctx, cfg.Files, cfg.To, w)
	case cfg.Get:
		return get(cfg.File, cfg.Path, w)
	case cfg.Set:
		return set(cfg.File, cfg.Path, cfg.JSON, cfg.InPlace, w)
	case cfg.Tree:
		v, err := readValue(cfg.File)
		if err != nil {
			return err
		}
		return renderTree(w, filepath.Base(cfg.File), v)
	case cfg.Stat:
		v, err := readValue(cfg.File)
		if err != nil {
			return err
		}
		return renderStats(w, v)
	case cfg.Pack:
		return pack(cfg, cfg.In, cfg.Out)
	case cfg.Unpack:
		v, err := readPacked(cfg.In)
		if err != nil {
			return err
		}
		return render(w, v, cfg.To)
	}
	return fmt.Errorf("no command given")
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
	formatPacked
)

func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".pvar":
		return formatPacked
	}
	return formatJSON
}

func readValue(path string) (variant.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return variant.Value{}, err
	}
	slog.Debug("read file", "path", path, "bytes", len(data))

	var v variant.Value
	switch formatOf(path) {
	case formatYAML:
		v, err = yamlconv.Unmarshal(data)
	case formatPacked:
		v, err = unpack(bytes.NewReader(data))
	default:
		v, err = variant.ParseJSON(data)
	}
	if err != nil {
		return variant.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// readPacked decodes a file written by pack, whatever its name.
func readPacked(path string) (variant.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return variant.Value{}, err
	}
	defer f.Close()
	v, err := unpack(f)
	if err != nil {
		return variant.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func unpack(r io.Reader) (variant.Value, error) {
	mv, err := variants.ReadFramed(r)
	if err != nil {
		return variant.Value{}, err
	}
	slog.Debug("read frame", "metadata_bytes", len(mv.Metadata), "value_bytes", len(mv.Value))
	return variants.Unmarshal(mv)
}

// render writes v to w in the named format.
func render(w io.Writer, v variant.Value, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "", "json":
		out, err = json.MarshalIndent(v.ToJSONTree(), "", "  ")
	case "yaml":
		out, err = yamlconv.Marshal(v)
	case "proto":
		out, err = pbconv.MarshalProtoJSON(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = w.Write(out)
	return err
}

// cat decodes every file concurrently and renders them in argument order.
func cat(ctx context.Context, files []string, format string, w io.Writer) error {
	values := make([]variant.Value, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		g.Go(func() error {
			// skip the remaining files once one has failed
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := readValue(f)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, v := range values {
		if err := render(w, v, format); err != nil {
			return err
		}
	}
	return nil
}

// get prints the member of file found at path. JSON and packed files are read
// without decoding the whole document.
func get(file, path string, w io.Writer) error {
	p, err := variant.ParsePath(path)
	if err != nil {
		return err
	}

	var v variant.Value
	switch formatOf(file) {
	case formatJSON:
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		v = rawjson.Get(data, p)
	case formatPacked:
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		mv, err := variants.ReadFramed(f)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if v, err = variants.Get(mv, p); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	default:
		doc, err := readValue(file)
		if err != nil {
			return err
		}
		v = doc.Get(p)
	}
	slog.Debug("get", "path", p.String(), "kind", v.Kind())
	return render(w, v, "json")
}

// set patches the JSON document in file, printing the result or writing it
// back to file.
func set(file, path, text string, inPlace bool, w io.Writer) error {
	if formatOf(file) != formatJSON {
		return fmt.Errorf("%s: set only supports JSON files", file)
	}
	p, err := variant.ParsePath(path)
	if err != nil {
		return err
	}
	x, err := variant.ParseJSON([]byte(text))
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	out, err := rawjson.Set(doc, p, x)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if inPlace {
		slog.Debug("writing patched document", "path", file, "bytes", len(out))
		return os.WriteFile(file, out, info.Mode().Perm())
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = w.Write(out)
	return err
}

func marshalOpts(cfg config) []variants.MarshalOpts {
	var opts []variants.MarshalOpts
	if cfg.CompactInts {
		opts = append(opts, variants.MarshalCompactInts)
	}
	if cfg.SortedKeys {
		opts = append(opts, variants.MarshalSortedKeys)
	}
	return opts
}

func pack(cfg config, in, out string) (err error) {
	codec, err := compress.ParseCompression(cfg.Codec)
	if err != nil {
		return err
	}
	// names such as LZO parse but have no codec
	if _, err := compress.GetCodec(codec); err != nil {
		return err
	}
	v, err := readValue(in)
	if err != nil {
		return err
	}
	mv, err := variants.Marshal(v, marshalOpts(cfg)...)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := variants.WriteFramed(f, mv, codec); err != nil {
		return err
	}
	slog.Debug("packed", "in", in, "out", out, "codec", codec,
		"metadata_bytes", len(mv.Metadata), "value_bytes", len(mv.Value))
	return nil
}
