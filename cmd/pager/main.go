package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"pager/misc"
	"pager/paginate"
	"pager/state"
)

const paginateHelp = `%s
SOURCE:
    page markup to paginate, one of:
        "[path]file.html" - single file
        "[path]directory" - every .html, .htm and .xhtml file under directory, in natural order
        "[path]archive.zip[path_in_archive]" - every page markup entry under path in archive

    Archive with absolute entry names or ".." components is rejected as a whole.

DESTINATION:
    directory for results, current one if absent. Output names come from
    output.file_name_format template, source directory structure is kept.

Pagination settings could be changed for a single run with --search and
--max-passes. With --dry-run documents are paginated and statistics logged,
nothing is written.
`

const dumpconfigHelp = `%s

DESTINATION:
    file to write configuration to, STDOUT if absent.

Without flags active configuration is written: defaults with values from
configuration file applied. --default writes embedded defaults with comments.
`

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "dynamic pagination engine for paged documents",
		Version:         fmt.Sprintf("%s (%s) : %s", misc.GetVersion(), runtime.Version(), misc.GetGitHash()),
		HideHelpCommand: true,
		Before:          beforeCommand,
		After:           afterCommand,
		OnUsageError:    usageError,
		ExitErrHandler:  logExitError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "collect logs, configuration and pagination dumps into report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:               "paginate",
				Usage:              "Reflows paged document(s) until every page fits",
				ArgsUsage:          "SOURCE [DESTINATION]",
				OnUsageError:       usageError,
				Action:             paginate.Run,
				Flags:              paginate.Flags(),
				CustomHelpTemplate: fmt.Sprintf(paginateHelp, cli.CommandHelpTemplate),
			},
			{
				Name:         "dumpconfig",
				Usage:        "Writes default or active configuration (YAML)",
				ArgsUsage:    "[DESTINATION]",
				OnUsageError: usageError,
				Action:       dumpConfig,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "write embedded default configuration"},
				},
				CustomHelpTemplate: fmt.Sprintf(dumpconfigHelp, cli.CommandHelpTemplate),
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err == nil {
		return
	}
	if !errLogged {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
	}
	os.Exit(1)
}
