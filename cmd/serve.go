package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/regs08/random-sampling-generator-from-kml/planquery"
	"github.com/regs08/random-sampling-generator-from-kml/server"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve a sampling plan to field devices",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "plan",
			Aliases:   []string{"p"},
			Usage:     "plan file written by generate",
			Required:  true,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "listen",
			Value: ":8080",
		},
		&cli.Float64Flag{
			Name:        "search-radius",
			Usage:       "nearest lookup radius in degrees",
			DefaultText: "0.01",
		},
	},
	Action: serve,
}

func serve(ctx *cli.Context) error {
	slog.Info("loading sampling plan", "path", ctx.String("plan"))

	var opts []planquery.Option
	if ctx.IsSet("search-radius") {
		opts = append(opts, planquery.WithSearchRadius(ctx.Float64("search-radius")))
	}

	index, err := planquery.LoadIndexFromFile(ctx.String("plan"), opts...)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return server.Run(runCtx, ctx.String("listen"), index)
}
