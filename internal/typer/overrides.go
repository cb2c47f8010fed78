package typer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// overrideSchema describes an override document: each key is a single
// character, each value either a raw spec ("KEY_8+altgr") or an object.
const overrideSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"minLength": 1, "maxLength": 1},
  "additionalProperties": {
    "oneOf": [
      {"type": "string", "minLength": 1},
      {
        "type": "object",
        "required": ["key"],
        "additionalProperties": false,
        "properties": {
          "key":   {"type": "string", "minLength": 1},
          "shift": {"type": "boolean"},
          "altgr": {"type": "boolean"},
          "ctrl":  {"type": "boolean"}
        }
      }
    ]
  }
}`

const overrideSchemaURL = "autotyper://override.schema.json"

var compiledOverrideSchema = mustCompileOverrideSchema()

func mustCompileOverrideSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(overrideSchemaURL, strings.NewReader(overrideSchema)); err != nil {
		panic(err)
	}
	s, err := compiler.Compile(overrideSchemaURL)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseOverrideJSON parses an inline JSON override object.
func ParseOverrideJSON(s string) (map[rune]string, error) {
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("override JSON: %w", err)}
	}
	return decodeOverrides(doc)
}

// LoadOverrideFile reads overrides from a .json, .yaml/.yml or .toml
// file.
func LoadOverrideFile(path string) (map[rune]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("override file: %w", err)}
	}

	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		var m map[string]any
		err = yaml.Unmarshal(data, &m)
		doc = m
	case ".toml":
		var tree *toml.Tree
		tree, err = toml.LoadBytes(data)
		if err == nil {
			doc = tree.ToMap()
		}
	default:
		return nil, Configf("override file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("override file %s: %w", path, err)}
	}
	if doc == nil {
		return map[rune]string{}, nil
	}

	// Normalize YAML/TOML values to the JSON data model before validation.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("override file %s: %w", path, err)}
	}
	doc = nil
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("override file %s: %w", path, err)}
	}
	return decodeOverrides(doc)
}

func decodeOverrides(doc any) (map[rune]string, error) {
	if err := compiledOverrideSchema.Validate(doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("invalid override document: %w", err)}
	}
	obj, _ := doc.(map[string]any)

	out := make(map[rune]string, len(obj))
	for k, v := range obj {
		runes := []rune(k)
		if len(runes) != 1 {
			return nil, Configf("override key %q must be a single character", k)
		}
		switch v := v.(type) {
		case string:
			out[runes[0]] = v
		case map[string]any:
			out[runes[0]] = specFromObject(v)
		}
	}
	return out, nil
}

// specFromObject renders {"key": "KEY_8", "altgr": true} in the raw
// grammar so that it goes through the same parser as string entries.
func specFromObject(o map[string]any) string {
	key, _ := o["key"].(string)
	parts := []string{key}
	var mods []string
	for _, m := range []string{"shift", "altgr", "ctrl"} {
		if on, _ := o[m].(bool); on {
			mods = append(mods, m)
		}
	}
	sort.Strings(mods)
	return strings.Join(append(parts, mods...), "+")
}
