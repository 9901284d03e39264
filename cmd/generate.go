package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/regs08/random-sampling-generator-from-kml/exporter"
	"github.com/regs08/random-sampling-generator-from-kml/internal/stats"
	"github.com/regs08/random-sampling-generator-from-kml/internal/telemetry"
	"github.com/regs08/random-sampling-generator-from-kml/kmlparser"
	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
	"github.com/regs08/random-sampling-generator-from-kml/plansaver"
	"github.com/regs08/random-sampling-generator-from-kml/sampler"
)

var generateCommand = &cli.Command{
	Name:    "generate",
	Aliases: []string{"g"},
	Usage:   "generate random sample points for every parcel in the input files",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:      "input",
			Aliases:   []string{"i"},
			Usage:     "KML boundary file, repeatable",
			Required:  true,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "point table path",
			DefaultText: "sample_points.<format>",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "point table format, csv or geojson",
			Value: "csv",
		},
		&cli.IntFlag{
			Name:    "points",
			Aliases: []string{"n"},
			Usage:   "points per parcel",
			Value:   1,
		},
		&cli.Float64Flag{
			Name:  "min-distance",
			Usage: "minimum spacing between points in meters",
			Value: 5,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Aliases:     []string{"s"},
			Usage:       "base seed for reproducible plans",
			DefaultText: "random",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "only sample parcels matching field=value",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "sample name prefix",
			Value: exporter.DefaultPrefix,
		},
		&cli.StringSliceFlag{
			Name:  "metadata",
			Usage: "key=value column copied onto every point, repeatable",
		},
		&cli.StringFlag{
			Name:  "summary",
			Usage: "write a JSON run summary to this path",
		},
		&cli.StringFlag{
			Name:  "plan",
			Usage: "write a binary sampling plan for serve, a .zst suffix compresses it",
		},
		&cli.StringFlag{
			Name:  "stats",
			Usage: "write runtime resource stats JSON to this path",
		},
		&cli.StringFlag{
			Name:        "telemetry-endpoint",
			Usage:       "otlp http endpoint for run telemetry",
			DefaultText: "",
		},
	},
	Action: generate,
}

func generate(ctx *cli.Context) error {
	log := slog.Default()

	req := sampler.Request{
		Points:            ctx.Int("points"),
		MinDistanceMeters: ctx.Float64("min-distance"),
	}
	if ctx.IsSet("seed") {
		seed := ctx.Int64("seed")
		req.Seed = &seed
	}
	if err := req.Validate(); err != nil {
		return err
	}

	tel, err := telemetry.Setup(ctx.Context, "rsample", ctx.String("telemetry-endpoint"))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	if tel != nil {
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Flush(flushCtx); err != nil {
				log.Warn("flushing telemetry", "error", err)
			}
			tel.Shutdown(flushCtx)
		}()
	}

	var collector *stats.Collector
	if ctx.IsSet("stats") {
		collector, err = stats.NewCollector(time.Second)
		if err != nil {
			return fmt.Errorf("starting stats collector: %w", err)
		}
		collector.Start()
	}

	boundaries, err := kmlparser.LoadFiles(ctx.StringSlice("input"))
	if err != nil {
		return err
	}

	if filter := ctx.String("filter"); filter != "" {
		field, value, err := splitPair(filter)
		if err != nil {
			return fmt.Errorf("bad filter: %w", err)
		}
		boundaries = planmodel.FilterByAttribute(boundaries, field, value)
		if len(boundaries) == 0 {
			return fmt.Errorf("no parcels match filter %q", filter)
		}
		log.Info("filtered parcels", "filter", filter, "parcels", len(boundaries))
	}

	metadata, err := parseMetadata(ctx.StringSlice("metadata"))
	if err != nil {
		return err
	}

	opts := []sampler.Option{sampler.WithLogger(log)}
	var bar *pb.ProgressBar
	if !ctx.Bool("quiet") {
		bar = pb.Start64(int64(len(boundaries)))
		bar.Set("prefix", "sampling parcels")
		bar.SetRefreshRate(time.Second)
		if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
			bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }}` + "\n")
		}
		opts = append(opts, sampler.WithProgress(func(done, total int) {
			bar.SetCurrent(int64(done))
		}))
	}

	result, err := sampler.NewOrchestrator(opts...).Run(boundaries, req)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	plan := &planmodel.Plan{
		CreatedAt:         time.Now().UTC(),
		InputFiles:        ctx.StringSlice("input"),
		Prefix:            ctx.String("prefix"),
		Filter:            ctx.String("filter"),
		PointsPerParcel:   req.Points,
		MinDistanceMeters: req.MinDistanceMeters,
		BaseSeed:          result.BaseSeed,
		Metadata:          metadata,
		Boundaries:        boundaries,
		Outcomes:          result.Outcomes,
	}

	output := ctx.String("output")
	format := ctx.String("format")
	if output == "" {
		output = "sample_points." + format
	}
	switch format {
	case "csv":
		err = exporter.WriteCSVFile(output, plan)
	case "geojson":
		err = exporter.WriteGeoJSONFile(output, plan)
	default:
		return fmt.Errorf("unknown output format %q, want csv or geojson", format)
	}
	if err != nil {
		return fmt.Errorf("writing points to %s: %w", output, err)
	}
	log.Info("wrote sample points", "path", output)

	if path := ctx.String("summary"); path != "" {
		if err := exporter.WriteSummaryFile(path, plan); err != nil {
			return fmt.Errorf("writing summary to %s: %w", path, err)
		}
		log.Info("wrote run summary", "path", path)
	}

	if path := ctx.String("plan"); path != "" {
		if err := plansaver.SaveFile(path, plan); err != nil {
			return fmt.Errorf("writing plan to %s: %w", path, err)
		}
		log.Info("wrote sampling plan", "path", path)
	}

	if collector != nil {
		runStats := collector.Stop()
		runStats.LogSummary(log)
		if err := runStats.SaveToFile(ctx.String("stats")); err != nil {
			return err
		}
	}

	printRunSummary(plan)

	return nil
}

func printRunSummary(plan *planmodel.Plan) {
	summary := exporter.NewSummary(plan)
	fmt.Printf("Sampled %s parcel(s): %d complete, %d partial, %d skipped\n",
		humanize.Comma(int64(summary.Parcels)), summary.Complete, summary.Partial, summary.Skipped)
	fmt.Printf("Total points: %s (prefix %s, base seed %d)\n",
		humanize.Comma(int64(summary.TotalPoints)), summary.SamplePrefix, summary.BaseSeed)
}

// splitPair breaks a field=value argument, trimming both halves.
func splitPair(s string) (field, value string, err error) {
	field, value, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if !ok || field == "" {
		return "", "", fmt.Errorf("%q must look like field=value", s)
	}
	return field, value, nil
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("bad metadata: %w", err)
		}
		meta[key] = value
	}
	return meta, nil
}
