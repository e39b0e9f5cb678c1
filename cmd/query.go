package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	app "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
	"github.com/urfave/cli/v2"
)

type scoreOutput struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

func newStatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "print the stats a name would receive",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("stats takes exactly one NAME argument, got %d", c.NArg())
			}
			set := stats.Generate(c.Args().First())
			return printScores(c.App.Writer, set, c.Bool("json"))
		},
	}
}

func printScores(w io.Writer, set stats.StatSet, asJSON bool) error {
	scores := set.Scores()
	if asJSON {
		out := make([]scoreOutput, len(scores))
		for i, s := range scores {
			out[i] = scoreOutput{Category: s.Category.String(), Value: s.Value}
		}
		return json.NewEncoder(w).Encode(out)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range scores {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", s.Category, s.Value)
	}
	return tw.Flush()
}

func newTopCommand(logOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "print the leaderboard for a category",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "category (default from config)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "rows to print (default from config)"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := prepare(c, logOut)
			if err != nil {
				return err
			}
			svc := app.New(serviceOptions(cfg, logger.Get())...)
			if err := svc.Start(c.Context); err != nil {
				return err
			}
			defer svc.Stop()

			category := c.String("category")
			if category == "" {
				category = svc.DefaultCategory().String()
			}
			entries, err := svc.Top(c.Context, category, c.Int("limit"))
			if err != nil {
				return err
			}

			if c.Bool("json") {
				if entries == nil {
					entries = []types.RankedEntry{}
				}
				return json.NewEncoder(c.App.Writer).Encode(entries)
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "RANK\tNAME\t%s\n", category)
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\n", e.Rank, e.Name, e.Value)
			}
			return tw.Flush()
		},
	}
}
