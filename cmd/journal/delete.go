package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a trade" }
func (*deleteCmd) Usage() string {
	return `delete [-yes] <id>

  Removes the trade after asking for confirmation. -yes skips the question.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Delete without asking")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if !c.yes && !confirm(fmt.Sprintf("Delete %s bought on %s (%s)?", t.Code, t.BuyDate, t.ID)) {
		fmt.Fprintln(stdout, "Cancelled.")
		return subcommands.ExitSuccess
	}

	deleted, err := b.Delete(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting trade: %v\n", err)
		return subcommands.ExitFailure
	}
	if !deleted {
		fmt.Fprintf(stdout, "Trade %s was already gone.\n", id)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(stdout, "Deleted %s (%s)\n", t.Code, t.ID)
	return subcommands.ExitSuccess
}

// confirm asks a yes/no question on stdin. Anything but y or yes is a no,
// including a closed or failing stdin. An answer cut off by EOF still counts.
func confirm(question string) bool {
	fmt.Fprintf(stdout, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "Error reading answer: %v\n", err)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
