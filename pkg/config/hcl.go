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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Replace *struct {
			Strategy               string  `hcl:"strategy,optional"`
			KeepOriginalOnNotFound *bool   `hcl:"keep_original_on_not_found,optional"`
			MarkNotFound           bool    `hcl:"mark_not_found,optional"`
			Threshold              float64 `hcl:"threshold,optional"`
		} `hcl:"replace,block"`
		Dataset *struct {
			Files    []string `hcl:"files,optional"`
			Fallback string   `hcl:"fallback,optional"`
			Watch    bool     `hcl:"watch,optional"`
			Cache    string   `hcl:"cache,optional"`
			GitHub   *struct {
				Repo string `hcl:"repo"`
				Ref  string `hcl:"ref,optional"`
				Path string `hcl:"path"`
			} `hcl:"github,block"`
		} `hcl:"dataset,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if r := hclCfg.Replace; r != nil {
		cfg.Replace = ReplaceArgs{
			Strategy:               r.Strategy,
			KeepOriginalOnNotFound: r.KeepOriginalOnNotFound,
			MarkNotFound:           r.MarkNotFound,
			Threshold:              r.Threshold,
		}
	}
	if d := hclCfg.Dataset; d != nil {
		cfg.Dataset = DatasetArgs{
			Files:    d.Files,
			Fallback: d.Fallback,
			Watch:    d.Watch,
			Cache:    d.Cache,
		}
		if d.GitHub != nil {
			cfg.Dataset.GitHub = &GitHubArgs{
				Repo: d.GitHub.Repo,
				Ref:  d.GitHub.Ref,
				Path: d.GitHub.Path,
			}
		}
	}

	return cfg, nil
}
