package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/cmd/tymock/internal/options"
	"github.com/broady/tymock/tymockgen"
	"github.com/broady/tymock/tymockgen/sink"
)

var stdout io.Writer = os.Stdout

// ErrStale is returned when generated files are missing or out of date.
var ErrStale = errors.New("generated files are out of date")

type Cmd struct {
	options.Common `embed:""`

	Out  string `arg:"" optional:"" help:"Directory holding the generated files (default: outDir from the config)." type:"path"`
	JSON bool   `help:"Print the report as JSON."`
}

// Report is the result of a check.
type Report struct {
	Files     int      `json:"files"`
	Factories int      `json:"factories"`
	Mocks     int      `json:"mocks"`
	Warnings  []string `json:"warnings,omitempty"`
	Stale     []string `json:"stale,omitempty"`
}

func (c *Cmd) Run(ctx context.Context) error {
	cfg, err := c.Load(".")
	if err != nil {
		return err
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if cfg.OutDir == "" {
		return errors.WithHint(
			errors.New("no output directory to check"),
			"pass one as an argument or set outDir in the config",
		)
	}
	check := sink.NewCheckSink(cfg.OutDir)
	cfg.Sink = check

	result, err := tymockgen.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	report := Report{
		Files:     len(result.Files),
		Factories: result.FactoriesGenerated,
		Mocks:     result.MocksGenerated,
		Stale:     check.Stale(),
	}
	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(stdout, report)
	}
	if len(report.Stale) > 0 {
		return errors.WithHint(ErrStale, "run tymock gen to update them")
	}
	return nil
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "✓ %d files, %d factories, %d mocks\n", r.Files, r.Factories, r.Mocks)
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "! %s\n", warning)
	}
	if len(r.Stale) == 0 {
		fmt.Fprintln(w, "✓ All generated files up to date")
		return
	}
	for _, path := range r.Stale {
		fmt.Fprintf(w, "✗ %s is stale\n", path)
	}
}
