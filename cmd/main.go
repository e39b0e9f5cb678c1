package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/radar/internal/adapters/repository"
	app "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/config"
	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		// Use stderr directly; the logger may not be initialized yet
		_, _ = os.Stderr.WriteString("radar: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// newApp builds the command tree. out receives command output; logs go to
// logOut.
func newApp(out, logOut io.Writer) *cli.App {
	return &cli.App{
		Name:  "radar",
		Usage: "stat card generator with a per-category leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file (same as " + config.EnvConfigFile + ")",
			},
		},
		Writer:    out,
		ErrWriter: logOut,
		Action: func(c *cli.Context) error {
			return serveAction(c, logOut)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Action: func(c *cli.Context) error {
					return serveAction(c, logOut)
				},
			},
			newStatsCommand(),
			newTopCommand(logOut),
			newSmokeCommand(logOut),
		},
	}
}

// prepare loads configuration and initializes logging. A --config flag takes
// precedence over the environment.
func prepare(c *cli.Context, logOut io.Writer) (*config.Config, error) {
	if p := c.String("config"); p != "" {
		if err := os.Setenv(config.EnvConfigFile, p); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}

	// Load configuration (defaults -> optional file -> env -> PORT)
	cfg, err := config.Load(c.Context)
	if err != nil {
		return nil, err
	}

	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWith(logOut, format); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(c.Context, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config, log logger.Logger) []app.Option {
	return []app.Option{
		app.WithLogger(log),
		app.WithStoreBackend(repository.Backend(cfg.StoreBackend), cfg.LeaderboardPath()),
		app.WithUploadDir(cfg.UploadDir),
		app.WithChartDir(cfg.ChartDir),
		app.WithMaxUploadBytes(cfg.MaxUploadBytes),
		app.WithLeaderboardLimit(cfg.LeaderboardLimit),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithDefaultCategory(stats.Category(cfg.DefaultCategory)),
	}
}
