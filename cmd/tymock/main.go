package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/cmd/tymock/internal/check"
	"github.com/broady/tymock/cmd/tymock/internal/gen"
	"github.com/broady/tymock/cmd/tymock/internal/preview"
)

type CLI struct {
	Version VersionCmd  `cmd:"" help:"Print version information."`
	Gen     gen.Cmd     `cmd:"" help:"Generate mock factory files."`
	Check   check.Cmd   `cmd:"" help:"Verify generated files are up to date without writing them."`
	Preview preview.Cmd `cmd:"" help:"Build a mock in-process and print it as JSON."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(readBuildInfo())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("tymock"),
		kong.Description("Generate mock factories from type declarations."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	kctx.FatalIfErrorf(err)
}
