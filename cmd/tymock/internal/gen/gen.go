package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/cmd/tymock/internal/options"
	"github.com/broady/tymock/tymockgen"
	"github.com/broady/tymock/tymockgen/sink"
)

var stdout io.Writer = os.Stdout

type Cmd struct {
	options.Common `embed:""`

	Out    string `arg:"" optional:"" help:"Output directory for generated files (default: outDir from the config)." type:"path"`
	Watch  bool   `help:"Watch inputs for changes and regenerate." short:"w"`
	DryRun bool   `help:"Print the generated files instead of writing them." name:"dry-run" short:"n"`
}

func (c *Cmd) Run(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	result, err := generate(ctx, cfg, c.DryRun)
	if err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}
	return watch(ctx, cfg, watchPaths(cfg, c.configPath(), result), func() {
		if _, err := generate(ctx, cfg, c.DryRun); err != nil {
			cfg.Logger.Error("generate failed", "error", err)
		}
	})
}

func (c *Cmd) config() (*tymockgen.Config, error) {
	cfg, err := c.Load(".")
	if err != nil {
		return nil, err
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if !c.DryRun && cfg.OutDir == "" {
		return nil, errors.WithHint(
			errors.New("no output directory"),
			"pass one as an argument or set outDir in the config",
		)
	}
	return cfg, nil
}

func (c *Cmd) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	return tymockgen.FindConfig(".")
}

// generate runs one generation into a fresh sink and reports what changed.
func generate(ctx context.Context, cfg *tymockgen.Config, dryRun bool) (*tymockgen.GenerateResult, error) {
	var fs *sink.FilesystemSink
	if dryRun {
		cfg.Sink = sink.NewWriterSink(stdout)
	} else {
		fs = sink.NewFilesystemSink(cfg.OutDir)
		cfg.Sink = fs
	}
	result, err := tymockgen.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	unchanged := 0
	if fs != nil {
		for _, p := range fs.Written() {
			fmt.Fprintf(stdout, "wrote %s\n", filepath.Join(cfg.OutDir, filepath.FromSlash(p)))
		}
		unchanged = len(fs.Unchanged())
	}
	cfg.Logger.Info("generated",
		"files", len(result.Files),
		"unchanged", unchanged,
		"factories", result.FactoriesGenerated,
		"mocks", result.MocksGenerated,
		"warnings", len(result.Warnings))
	return result, nil
}
