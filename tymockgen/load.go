package tymockgen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the file names FindConfig looks for, in order.
var ConfigNames = []string{"tymock.yaml", "tymock.yml", "tymock.json", "tymock.toml"}

var (
	validate        = newValidator()
	overrideDecoder = newOverrideDecoder()
	tomlKeys        = tagNames(reflect.TypeFor[Config](), "toml")
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// tagNames returns the names a struct's fields use under the given tag.
func tagNames(t reflect.Type, tag string) map[string]bool {
	names := make(map[string]bool)
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			names[name] = true
		}
	}
	return names
}

func newOverrideDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	return d
}

// FindConfig returns the first config file in dir named in ConfigNames,
// or "" if there is none.
func FindConfig(dir string) string {
	for _, name := range ConfigNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadConfig reads a config file. YAML and JSON files are decoded with
// yaml.v3, TOML files with BurntSushi/toml. Unknown keys are errors.
// Relative input paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Newf("%s: unknown key %q", path, undecoded[0].String())
		}
		// toml matches keys case-insensitively; config keys are exact.
		for _, key := range md.Keys() {
			if !tomlKeys[key[0]] {
				return nil, errors.Newf("%s: unknown key %q", path, key.String())
			}
		}
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported config format %q", ext),
			"use .yaml, .yml, .json or .toml",
		)
	}

	base := filepath.Dir(path)
	for i, in := range cfg.Inputs {
		if !filepath.IsAbs(in) {
			cfg.Inputs[i] = filepath.Join(base, in)
		}
	}
	if cfg.Dir == "" && len(cfg.Packages) > 0 {
		cfg.Dir = base
	}
	if cfg.OutDir != "" && !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(base, cfg.OutDir)
	}
	return cfg, nil
}

// ApplyOverrides sets config fields from key=value pairs, using the same
// names as config files. Repeating a list key appends to it.
//
//	ApplyOverrides(cfg, []string{"target=go", "packages=./api", "packages=./db"})
func ApplyOverrides(cfg *Config, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	values := make(map[string][]string)
	for _, o := range overrides {
		k, v, ok := strings.Cut(o, "=")
		if !ok || k == "" {
			return errors.Newf("invalid override %q (expected key=value)", o)
		}
		values[k] = append(values[k], v)
	}
	if err := overrideDecoder.Decode(cfg, values); err != nil {
		return errors.Wrap(err, "applying overrides")
	}
	return nil
}

// Validate checks the config after defaults have been applied.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.Wrap(err, "validating config")
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Field()+": "+formatValidationError(ve))
	}
	return errors.Newf("invalid config: %s", strings.Join(messages, "; "))
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_if":
		return fmt.Sprintf("required when %s", strings.Replace(ve.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
