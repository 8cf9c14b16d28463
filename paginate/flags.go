package paginate

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"pager/config"
)

// Flags returns command line flags of the paginate command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
		&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "paginate and report results without writing output files"},
		&cli.StringFlag{
			Name:  "search",
			Usage: "cut point search in overflowing paragraphs (" + strings.Join(config.SearchModeNames(), "|") + "), overrides configuration",
			Validator: func(s string) error {
				_, err := config.ParseSearchMode(s)
				return err
			},
		},
		&cli.IntFlag{
			Name:  "max-passes",
			Usage: "upper limit of passes per document, overrides configuration",
			Validator: func(n int) error {
				if n < 1 {
					return fmt.Errorf("max-passes must be positive, got %d", n)
				}
				return nil
			},
		},
	}
}

// applyFlags puts pagination settings given on the command line on top of
// configured ones.
func applyFlags(cmd *cli.Command, cfg *config.PaginationConfig) error {
	if cmd.IsSet("search") {
		mode, err := config.ParseSearchMode(cmd.String("search"))
		if err != nil {
			return fmt.Errorf("bad search mode: %w", err)
		}
		cfg.Search = mode
	}
	if cmd.IsSet("max-passes") {
		cfg.MaxPasses = cmd.Int("max-passes")
	}
	return nil
}
