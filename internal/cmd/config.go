package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/Alia5/autotyper/internal/configpaths"
	"github.com/Alia5/autotyper/internal/log"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit writes a configuration file holding every flag of the type
// command at its default value.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output string `help:"Destination file path (defaults to autotyper.<ext> in the current directory)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// Run generates the template via reflection of the command struct and tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	data, err := renderTemplate(format)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = configpaths.AppName + "." + configpaths.Ext(format)
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// renderTemplate lays keys out the way each loader looks them up. The
// JSON resolver wants snake_case flag names and splits "log.level" into
// nested objects. The YAML resolver prefixes a flag with its command
// name. The TOML resolver matches bare flag names and rejects any key
// that is not one.
func renderTemplate(format string) ([]byte, error) {
	logFlags := buildMapFromStruct(reflect.TypeOf(log.Config{}))
	typeFlags := buildMapFromStruct(reflect.TypeOf(Type{}))

	switch format {
	case "yaml":
		typ := map[string]any{}
		for k, v := range typeFlags {
			if f, ok := v.(float64); ok {
				v = yamlFloat(f)
			}
			typ[k] = v
		}
		root := map[string]any{"type": typ}
		for k, v := range logFlags {
			root[logPrefix+k] = v
		}
		return yaml.Marshal(root)
	case "toml":
		root := maps.Clone(typeFlags)
		for k, v := range logFlags {
			root[logPrefix+k] = v
		}
		return toml.Marshal(root)
	default:
		root := map[string]any{"log": logFlags}
		for k, v := range typeFlags {
			root[strings.ReplaceAll(k, "-", "_")] = v
		}
		return json.MarshalIndent(root, "", "  ")
	}
}

const logPrefix = "log."

// yamlFloat keeps whole numbers such as 5.0 decoding as floats; Kong's
// float mapper cannot take a YAML int.
type yamlFloat float64

func (f yamlFloat) MarshalYAML() (any, error) {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// flagName mirrors Kong's naming: an explicit name tag, else the field
// name in kebab case.
func flagName(f reflect.StructField) string {
	if n := f.Tag.Get("name"); n != "" {
		return n
	}
	var b strings.Builder
	runes := []rune(f.Name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := f.Tag.Get("prefix")
			name := strings.TrimSuffix(prefix, ".")
			sub := buildMapFromStruct(f.Type)
			if name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		key := flagName(f)
		def := f.Tag.Get("default")
		val := defaultValueForField(f.Type, def)
		if val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def // may be empty
	case reflect.Bool:
		if def == "" {
			return false
		}
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Float32, reflect.Float64:
		if def == "" {
			return 0
		}
		f, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return 0
		}
		return f
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
