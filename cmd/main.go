package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	sloglogrus "github.com/samber/slog-logrus/v2"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"
)

func main() {
	app := &cli.App{
		Name:        "rsample",
		Description: "Random sampling point generator for KML field boundaries",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug detail",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "log errors only, no progress bar",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			generateCommand,
			estimateCommand,
			serveCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setupLogging routes slog through logrus so every package shares one
// leveled output. The otel handlers join the fanout later if telemetry
// gets configured.
func setupLogging(ctx *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	level := logrus.InfoLevel
	switch {
	case ctx.Bool("quiet"):
		level = logrus.ErrorLevel
	case ctx.Bool("verbose"):
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	slog.SetDefault(slog.New(
		sloglogrus.Option{Level: slog.LevelDebug, Logger: logrus.StandardLogger()}.NewLogrusHandler(),
	))
	return nil
}
