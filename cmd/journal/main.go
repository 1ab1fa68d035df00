// Command journal records and reviews stock trades from the terminal.
//
// It works on the locally configured store by default. With -server it
// talks to a running journal-server instead.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "./configs", "Path to the configuration directory")
	serverURL  = flag.String("server", "", "Base URL of a running journal server (local store when empty)")
)

// Overridden in tests.
var (
	stdout      io.Writer = os.Stdout
	stdin       io.Reader = os.Stdin
	openBackend           = openConfiguredBackend
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the journal subcommands to c.
func register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "trades")
	c.Register(&listCmd{}, "trades")
	c.Register(&showCmd{}, "trades")
	c.Register(&editCmd{}, "trades")
	c.Register(&closeCmd{}, "trades")
	c.Register(&deleteCmd{}, "trades")

	c.Register(&statsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&previewCmd{}, "reports")
}
