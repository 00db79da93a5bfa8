package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Export *ExportCommand
	Top    *TopCommand
	Status *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "histrank"
	parser.LongDescription = "Rank the URLs and domains you visit most, straight from a local browser history database."

	cmds := &commands{
		Export: &ExportCommand{globals: &globals, version: version},
		Top:    &TopCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("export", "Aggregate history into JSON reports", "Read each configured history database, aggregate visits per URL and per domain, and write a ranked JSON report.", cmds.Export)
	parser.AddCommand("top", "Print the top entries of a report", "Print the most visited entries from a previously written report.", cmds.Top)
	parser.AddCommand("status", "Show configuration and source health", "Show configuration, and whether each source database and report exists.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the histrank CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("histrank %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
