package preview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock"
	"github.com/broady/tymock/cmd/tymock/internal/options"
	"github.com/broady/tymock/middleware"
	"github.com/broady/tymock/tymockgen"
	"github.com/broady/tymock/tymockgen/interp"
)

var stdout io.Writer = os.Stdout

type Cmd struct {
	options.Common `embed:""`

	Mock  string `arg:"" optional:"" help:"Name of the mock to build. Lists the mocks when omitted."`
	Depth int    `help:"Levels of nested objects to expand." default:"3" short:"d"`
	Calls bool   `help:"Print how often each factory was called."`
}

func (c *Cmd) Run(ctx context.Context) error {
	cfg, err := c.Load(".")
	if err != nil {
		return err
	}
	cfg.OutDir = ""
	cfg.Sink = nil

	result, err := tymockgen.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	reg := tymock.NewRegistry().WithLogger(cfg.Logger)
	if c.Verbose {
		reg.WithInterceptor(middleware.LoggingInterceptor(cfg.Logger))
	}
	rec := middleware.NewRecorder()
	if c.Calls {
		reg.WithInterceptor(rec.Interceptor())
	}
	in := interp.New(reg).WithLogger(cfg.Logger)
	in.Load(result.Units...)

	if c.Mock == "" {
		for _, name := range in.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	v, err := in.Mock(c.Mock)
	if err != nil {
		return errors.WithHint(err, "run tymock preview without arguments to list the mocks")
	}
	out, err := tymock.MarshalSnapshot(v, c.Depth)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	fmt.Fprintln(stdout, string(out))
	if c.Calls {
		for _, key := range reg.Keys() {
			if n := rec.Count(key); n > 0 {
				fmt.Fprintf(stdout, "%s called %d times\n", key, n)
			}
		}
	}
	return nil
}
