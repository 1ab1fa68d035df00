package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type showCmd struct{}

func (*showCmd) Name() string             { return "show" }
func (*showCmd) Synopsis() string         { return "show a single trade" }
func (*showCmd) Usage() string            { return "show <id>\n" }
func (*showCmd) SetFlags(_ *flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := singleID(f, c.Name())
	if !ok {
		return subcommands.ExitUsageError
	}

	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	t, err := b.Get(ctx, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := printTrade(stdout, t); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
