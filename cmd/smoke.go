package main

import (
	"fmt"
	"io"

	"github.com/okian/radar/internal/smoketest"
	"github.com/okian/radar/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newSmokeCommand(logOut io.Writer) *cli.Command {
	defaults := smoketest.DefaultConfig()
	return &cli.Command{
		Name:  "smoke",
		Usage: "submit generated names to a running server and verify its leaderboards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: defaults.BaseURL, Usage: "base URL of the service"},
			&cli.IntFlag{Name: "names", Value: defaults.Names, Usage: "number of names to submit"},
			&cli.IntFlag{Name: "workers", Value: defaults.Workers, Usage: "concurrent submitters"},
			&cli.DurationFlag{Name: "timeout", Value: defaults.Timeout, Usage: "HTTP request timeout"},
			&cli.StringFlag{Name: "prefix", Value: defaults.Prefix, Usage: "prefix of generated names"},
			&cli.IntFlag{Name: "limit", Value: defaults.Limit, Usage: "rows fetched per leaderboard"},
			&cli.BoolFlag{Name: "verbose", Usage: "log every submission"},
		},
		Action: func(c *cli.Context) error {
			if err := logger.InitWith(logOut, logger.FormatText); err != nil {
				return err
			}
			report, err := smoketest.Run(c.Context, smoketest.Config{
				BaseURL: c.String("url"),
				Names:   c.Int("names"),
				Workers: c.Int("workers"),
				Timeout: c.Duration("timeout"),
				Prefix:  c.String("prefix"),
				Limit:   c.Int("limit"),
				Verbose: c.Bool("verbose"),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.App.Writer, "submitted %d, verified %d rows on %d boards in %s\n",
				report.Succeeded, report.EntriesVerified, report.BoardsChecked, report.Duration)
			return err
		},
	}
}
