package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joyguard/joyguard/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "joyguard",
		Usage:   "telegram moderation daemon (keeps replies quiet)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "max-metadb-connections",
			EnvVars: []string{"MAX_METADB_CONNECTIONS"},
			Value:   40,
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the bot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "bot-token",
			Usage:    "telegram bot API token",
			Required: true,
			EnvVars:  []string{"BOT_TOKEN"},
		},
		&cli.Int64Flag{
			Name:    "admin-id",
			Usage:   "telegram user ID that receives support tickets (0 disables forwarding)",
			EnvVars: []string{"ADMIN_ID"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "sqlite://data/joyguard/joyguard.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for counters and lookup cache (optional; defaults to in-process)",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "vocab-file-json",
			Usage:   "file path of swear vocabulary to load (JSON array of strings)",
			EnvVars: []string{"JOYGUARD_VOCAB_FILE_JSON"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"JOYGUARD_METRICS_LISTEN"},
		},
		&cli.IntFlag{
			Name:    "username-fetch-rate-limit",
			Usage:   "max username lookup requests per second to telegram",
			Value:   10,
			EnvVars: []string{"JOYGUARD_USERNAME_FETCH_RATE_LIMIT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		db, err := cliutil.SetupDatabase(cctx.String("database-url"), cctx.Int("max-metadb-connections"))
		if err != nil {
			return err
		}

		srv, err := NewServer(
			db,
			Config{
				BotToken:               cctx.String("bot-token"),
				AdminID:                cctx.Int64("admin-id"),
				RedisURL:               cctx.String("redis-url"),
				VocabFileJSON:          cctx.String("vocab-file-json"),
				UsernameFetchRateLimit: cctx.Int("username-fetch-rate-limit"),
				Logger:                 logger,
			},
		)
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run moderation bot: %w", err)
		}
		return nil
	},
}
