package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Defaults prints a configuration file holding every send and receive
// setting at its default value.
type Defaults struct {
	Format string `help:"Output format: json, yaml or toml" enum:"json,yaml,toml" default:"yaml" short:"f"`
}

func (c *Defaults) Run() error {
	return writeDefaults(os.Stdout, c.Format)
}

func writeDefaults(w io.Writer, format string) error {
	m, err := defaultSettings()
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(m, "", "  ")
		out = append(out, '\n')
	case "toml":
		var tree *toml.Tree
		tree, err = toml.TreeFromMap(m)
		if err == nil {
			var s string
			s, err = tree.ToTomlString()
			out = []byte(s)
		}
	default:
		out, err = yaml.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("encode %s defaults: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}

// defaultSettings collects flag defaults keyed the way the configuration
// resolvers look flags up.
func defaultSettings() (map[string]any, error) {
	m := make(map[string]any)
	for _, t := range []reflect.Type{reflect.TypeOf((*Send)(nil)).Elem(), reflect.TypeOf((*Receive)(nil)).Elem()} {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if _, isArg := f.Tag.Lookup("arg"); isArg {
				continue
			}
			def, ok := f.Tag.Lookup("default")
			if !ok && f.Type.Kind() != reflect.Bool {
				continue
			}
			v, err := typedDefault(f.Type.Kind(), def)
			if err != nil {
				return nil, fmt.Errorf("default of %s.%s: %w", t.Name(), f.Name, err)
			}
			m[snakeCase(f.Name)] = v
		}
	}
	return m, nil
}

func typedDefault(k reflect.Kind, def string) (any, error) {
	switch k {
	case reflect.Bool:
		if def == "" {
			return false, nil
		}
		return strconv.ParseBool(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return strconv.ParseInt(def, 10, 64)
	default:
		// durations stay strings, kong parses them from config files as such
		return def, nil
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
