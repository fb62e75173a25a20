// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📄 Format names a serialized dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatTOML Format = "toml"
)

// 🔌 Decoder turns serialized dataset bytes into entries, in file order.
type Decoder interface {
	// Format is the encoding this decoder understands
	Format() Format

	// Decode parses data. Missing required fields are left for the store to reject.
	Decode(ctx context.Context, data []byte) ([]Entry, error)

	// Extensions lists the file extensions (with dot) this decoder claims
	Extensions() []string
}

var (
	// 🗺️ decoders is the list of registered decoders
	decoders []Decoder
)

func init() {
	Register(&JSONDecoder{})
	Register(&YAMLDecoder{})
	Register(&HCLDecoder{})
	Register(&TOMLDecoder{})
}

// 📝 Register adds a decoder. A later registration for the same format wins.
func Register(d Decoder) {
	for i, existing := range decoders {
		if existing.Format() == d.Format() {
			decoders[i] = d
			return
		}
	}
	decoders = append(decoders, d)
}

// 🎯 DecoderFor returns the decoder registered for format.
func DecoderFor(format Format) (Decoder, error) {
	for _, d := range decoders {
		if d.Format() == format {
			return d, nil
		}
	}
	return nil, errors.Errorf("no decoder registered for format %q", format)
}

// 🔍 DetectFormat picks a format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, d := range decoders {
		for _, candidate := range d.Extensions() {
			if ext == candidate {
				return d.Format(), nil
			}
		}
	}
	return "", errors.Errorf("unsupported dataset extension %q", ext)
}

// Decode decodes data with the decoder registered for format.
func Decode(ctx context.Context, data []byte, format Format) ([]Entry, error) {
	d, err := DecoderFor(format)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, documentError(fmt.Sprintf("empty %s dataset", format), nil)
	}
	entries, err := d.Decode(ctx, data)
	if err != nil {
		if errors.Is(err, ErrDataFormat) {
			return nil, err
		}
		return nil, documentError(fmt.Sprintf("decoding %s", format), err)
	}
	return entries, nil
}

// 🔧 JSONDecoder reads a JSON array of records.
type JSONDecoder struct{}

func (d *JSONDecoder) Format() Format       { return FormatJSON }
func (d *JSONDecoder) Extensions() []string { return []string{".json"} }

func (d *JSONDecoder) Decode(ctx context.Context, data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return entries, nil
}

// 🔧 YAMLDecoder reads a YAML sequence of records.
type YAMLDecoder struct{}

func (d *YAMLDecoder) Format() Format       { return FormatYAML }
func (d *YAMLDecoder) Extensions() []string { return []string{".yaml", ".yml"} }

func (d *YAMLDecoder) Decode(ctx context.Context, data []byte) ([]Entry, error) {
	var entries []Entry
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&entries); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return entries, nil
}

// 🔧 HCLDecoder reads labelled entry blocks:
//
//	entry "happy" {
//	  kaomoji = "(^_^)"
//	  aliases = ["glad"]
//	  tags    = ["smile"]
//	}
type HCLDecoder struct{}

func (d *HCLDecoder) Format() Format       { return FormatHCL }
func (d *HCLDecoder) Extensions() []string { return []string{".hcl"} }

func (d *HCLDecoder) Decode(ctx context.Context, data []byte) ([]Entry, error) {
	type hclEntry struct {
		Keyword string   `hcl:"keyword,label"`
		Kaomoji string   `hcl:"kaomoji"`
		Aliases []string `hcl:"aliases,optional"`
		Tags    []string `hcl:"tags,optional"`
	}
	type hclDataset struct {
		Entries []hclEntry `hcl:"entry,block"`
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, "dataset.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclDataset
	diags = gohcl.DecodeBody(file.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	entries := make([]Entry, 0, len(raw.Entries))
	for _, e := range raw.Entries {
		entries = append(entries, Entry{
			Keyword: e.Keyword,
			Kaomoji: e.Kaomoji,
			Aliases: e.Aliases,
			Tags:    e.Tags,
		})
	}
	return entries, nil
}

// 🔧 TOMLDecoder reads an array of entry tables:
//
//	[[entry]]
//	keyword = "happy"
//	kaomoji = "(^_^)"
type TOMLDecoder struct{}

func (d *TOMLDecoder) Format() Format       { return FormatTOML }
func (d *TOMLDecoder) Extensions() []string { return []string{".toml"} }

func (d *TOMLDecoder) Decode(ctx context.Context, data []byte) ([]Entry, error) {
	var doc struct {
		Entries []Entry `toml:"entry"`
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	return doc.Entries, nil
}
