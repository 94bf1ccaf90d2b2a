package main

import (
	"flag"
	"os"

	"coinfolio/internal/cli"
)

func main() {
	flag.Usage = func() { cli.PrintHelp() }
	flag.Parse()

	// No subcommand opens the interactive tracker.
	os.Exit(cli.Run(flag.Args()))
}
