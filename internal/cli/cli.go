package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status   *StatusCommand
	Import   *ImportCommand
	Sessions *SessionsCommand
	Analyze  *AnalyzeCommand
	Prune    *PruneCommand
	Purge    *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "sessionlens"
	parser.LongDescription = "Local session boundary detection and behavioral analytics for captured browsing events."

	cmds := &commands{
		Status:   &StatusCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
		Sessions: &SessionsCommand{globals: &globals, version: version},
		Analyze:  &AnalyzeCommand{globals: &globals, version: version},
		Prune:    &PruneCommand{globals: &globals, version: version},
		Purge:    &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show database statistics", "Show database statistics: event and session counts, date range, top domains.", cmds.Status)
	parser.AddCommand("import", "Import a JSONL event batch", "Import a JSONL event batch file produced by the capture extension.", cmds.Import)
	parser.AddCommand("sessions", "Detect session boundaries", "Replay stored events through the boundary detector and list the detected sessions.", cmds.Sessions)
	parser.AddCommand("analyze", "Run behavioral analytics", "Run the analytics engine over stored events and print the requested report sections.", cmds.Analyze)
	parser.AddCommand("prune", "Apply retention pruning", "Delete events and sessions older than the retention period.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL SessionLens data", "Delete ALL SessionLens data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the SessionLens CLI using os.Args.
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
			fmt.Printf("sessionlens %s\n", version)
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
