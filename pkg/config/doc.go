// Package config loads the settings a kaomoji host uses to build its engine.
//
//	                  +-------------+
//	                  |   Config    |
//	                  | (Settings)  |
//	                  +------+------+
//	                         |
//	     +-------------+-----+-------+-------------+
//	     |             |             |             |
//	+----+----+   +----+----+   +----+----+   +----+----+
//	|  YAML   |   |  JSON   |   |   HCL   |   |  TOML   |
//	| Parser  |   | Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+   +---------+
//
// 🎯 Purpose:
// - Picks a parser from the file extension (.kaomojirc tries YAML, then HCL)
// - Validates values and fills in defaults
// - Converts the replace section into replace.Options
//
// 📝 Shape (YAML):
//
//	replace:
//	  strategy: best
//	  keep_original_on_not_found: false
//	  mark_not_found: true
//	  threshold: 0.4
//	dataset:
//	  files: ["data/**/*.json"]
//	  github:
//	    repo: walteh/kaomoji-data
//	    path: kaomoji.json
//	  fallback: builtin.yaml
//	  watch: true
//
// 🔍 Example:
//
//	cfg, err := config.Load(ctx, ".kaomojirc.yaml")
//	if err != nil {
//		return err
//	}
//	engine := replace.New(search.New(store), cfg.Options())
package config
