package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alanbriolat/swarmkeeper/async"
	"github.com/alanbriolat/swarmkeeper/internal/session"
	"github.com/alanbriolat/swarmkeeper/internal/settings"
)

func main() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(ctx)
	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err = <-result:
	case <-ctx.Done():
		stop()
		err = <-result
	}
	if err != nil {
		logger.Fatal(err.Error())
	}
}

func newApp(ctx context.Context) *cli.App {
	return &cli.App{
		Name:  "swarmkeeper",
		Usage: "keep a set of transfer jobs running, with resumable state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "read defaults from YAML `FILE`",
			},
			&cli.StringFlag{
				Name:  "state",
				Value: session.DefaultConfig.StatePath,
				Usage: "session state `FILE`",
			},
			&cli.StringFlag{
				Name:  "resume-dir",
				Value: session.DefaultConfig.ResumeDir,
				Usage: "store resume data in `DIR`",
			},
			&cli.StringFlag{
				Name:  "job-dir",
				Value: session.DefaultConfig.JobDir,
				Usage: "read job files from `DIR`",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "session setting as `KEY=VALUE`, may be repeated",
			},
			&cli.StringFlag{
				Name:  "engine",
				Value: engineAnacrolix,
				Usage: "transfer engine, one of: " + engineAnacrolix + ", " + engineFake,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: session.DefaultConfig.PollInterval,
				Usage: "poll the engine every `DURATION`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "settings",
				Usage: "list the settings the engine understands",
				Action: func(c *cli.Context) error {
					options, err := loadOptions(c)
					if err != nil {
						return err
					}
					for _, d := range options.factory().SettingDescriptors() {
						fmt.Fprintf(c.App.Writer, "%-24s %s\n", d.Name, d.Type)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "validate settings without starting the engine",
				Flags: []cli.Flag{optFlag()},
				Action: func(c *cli.Context) error {
					options, err := loadOptions(c)
					if err != nil {
						return err
					}
					overrides, err := parsePairs(c.StringSlice("opt"))
					if err != nil {
						return err
					}
					registry := settings.NewRegistry(options.factory().SettingDescriptors())
					if err := registry.Validate(options.Settings); err != nil {
						return err
					}
					if err := settings.ValidateOverrides(overrides); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%d settings and %d overrides ok\n", len(options.Settings), len(overrides))
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "add jobs from files, URLs or magnet links",
				ArgsUsage: "SOURCE...",
				Flags: []cli.Flag{
					optFlag(),
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "show progress until every job finishes",
					},
				},
				Action: func(c *cli.Context) error {
					return addCommand(ctx, c)
				},
			},
			{
				Name:  "run",
				Usage: "run every job in the job directory until interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "add job files as they appear in the job directory",
					},
				},
				Action: func(c *cli.Context) error {
					return runCommand(ctx, c)
				},
			},
		},
		HideHelpCommand: true,
	}
}

func optFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "opt",
		Usage: "job override as `KEY=VALUE`, may be repeated",
	}
}
