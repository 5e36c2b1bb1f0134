// Package options holds the flags shared by the tymock commands and turns
// them into a generator config.
package options

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"

	"github.com/broady/tymock/tymockgen"
)

// Common are the flags every generating command accepts.
type Common struct {
	Config  string   `help:"Config file (default: tymock.yaml, .yml, .json or .toml in the current directory)." short:"c" type:"path"`
	Set     []string `help:"Override a config key, e.g. --set target=go. Repeatable." short:"s" sep:"none" placeholder:"KEY=VALUE"`
	Input   []string `help:"Declaration file to read. Repeatable." short:"i"`
	Package []string `help:"Go package pattern to analyze. Repeatable." short:"p"`
	Target  string   `help:"Emission target (typescript or go)." short:"t"`
	Verbose bool     `help:"Log debug output." short:"v"`
}

// Load builds the config from the config file found in dir (or the
// --config file), then applies flags in order: --input, --package,
// --target and --set.
func (c *Common) Load(dir string) (*tymockgen.Config, error) {
	path := c.Config
	if path == "" {
		path = tymockgen.FindConfig(dir)
	}

	cfg := &tymockgen.Config{}
	if path != "" {
		loaded, err := tymockgen.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(c.Input) > 0 {
		cfg.Inputs = c.Input
	}
	if len(c.Package) > 0 {
		cfg.Packages = c.Package
		if cfg.Dir == "" {
			cfg.Dir = dir
		}
	}
	if c.Target != "" {
		cfg.Target = c.Target
	}
	if err := tymockgen.ApplyOverrides(cfg, c.Set); err != nil {
		return nil, err
	}
	if cfg.Schema == nil && len(cfg.Inputs) == 0 && len(cfg.Packages) == 0 {
		return nil, errors.WithHint(
			errors.New("nothing to generate"),
			"add a tymock.yaml, or pass --input or --package",
		)
	}
	cfg.Logger = c.Logger(os.Stderr)
	return cfg, nil
}

// Logger returns the logger for w: text output on a terminal, JSON lines
// otherwise.
func (c *Common) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
