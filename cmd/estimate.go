package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/regs08/random-sampling-generator-from-kml/kmlparser"
	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
	"github.com/regs08/random-sampling-generator-from-kml/sampler"
)

var estimateCommand = &cli.Command{
	Name:  "estimate",
	Usage: "estimate how many spaced points each parcel can hold",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:      "input",
			Aliases:   []string{"i"},
			Usage:     "KML boundary file, repeatable",
			Required:  true,
			TakesFile: true,
		},
		&cli.Float64Flag{
			Name:  "min-distance",
			Usage: "minimum spacing between points in meters",
			Value: 5,
		},
		&cli.IntFlag{
			Name:        "points",
			Aliases:     []string{"n"},
			Usage:       "flag parcels that cannot hold this many points",
			DefaultText: "off",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "only estimate parcels matching field=value",
		},
		&cli.Int64Flag{
			Name:        "seed",
			Aliases:     []string{"s"},
			Usage:       "seed for the estimation fill",
			DefaultText: "random",
		},
	},
	Action: estimate,
}

func estimate(ctx *cli.Context) error {
	minDistance := ctx.Float64("min-distance")
	if minDistance <= 0 {
		return fmt.Errorf("min distance must be positive, got %v", minDistance)
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
	}

	seed := time.Now().UnixNano()
	if ctx.IsSet("seed") {
		seed = ctx.Int64("seed")
	}
	requested := ctx.Int("points")

	fmt.Printf("Capacity at %vm spacing:\n", minDistance)
	fmt.Printf("%4s  %-32s %10s\n", "IDX", "PARCEL", "CAPACITY")
	for i, b := range boundaries {
		name := b.Attrs.Name()
		if name == "" {
			name = "(unnamed)"
		}

		spacing, err := sampler.MetersToDegrees(minDistance, sampler.MeanLatitude(b.Ring))
		if err != nil {
			fmt.Printf("%4d  %-32s %10s  %v\n", b.Index, name, "-", err)
			continue
		}

		rng := rand.New(rand.NewSource(seed + int64(i)))
		capacity := sampler.EstimateCapacity(b.Ring, spacing, rng)

		note := ""
		if requested > 0 && capacity < requested {
			note = fmt.Sprintf("  holds fewer than the %d requested", requested)
		}
		fmt.Printf("%4d  %-32s %10s%s\n", b.Index, name, humanize.Comma(int64(capacity)), note)
	}

	return nil
}
