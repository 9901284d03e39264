// Package server exposes a finished sampling plan over HTTP for field
// devices: nearest-sample and parcel lookups, the full plan as GeoJSON
// and prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/regs08/random-sampling-generator-from-kml/exporter"
	"github.com/regs08/random-sampling-generator-from-kml/planquery"
)

const MaxBodySize = 1 * 1000 * 1000 // 1MB, lookups carry no payloads

var meter = otel.Meter("github.com/regs08/random-sampling-generator-from-kml/server")

// Run serves the index on address until ctx is canceled.
func Run(ctx context.Context, address string, index *planquery.Index) error {
	if err := setupTelemetry(ctx); err != nil {
		return fmt.Errorf("failed to initialize otel metrics: %w", err)
	}

	log := slog.Default()

	s, err := newServer(index)
	if err != nil {
		return err
	}

	r := router.New()
	r.GET("/plan/nearest/{lat}/{lon}", s.nearestHandler)
	r.GET("/plan/parcel/{lat}/{lon}", s.parcelHandler)
	r.GET("/plan/geojson", s.geoJSONHandler)
	r.Handle(http.MethodGet, "/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	srv := &fasthttp.Server{
		ReadTimeout:        time.Second,
		MaxRequestBodySize: MaxBodySize,
		Handler:            r.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", address, "points", index.Points())
		errCh <- srv.ListenAndServe(address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return srv.ShutdownWithContext(shutdownCtx)
}

type server struct {
	index       *planquery.Index
	geojsonBody []byte

	metricNearestCalls metric.Int64Counter
	metricParcelCalls  metric.Int64Counter
	metricLookupHits   metric.Int64Counter
}

func newServer(index *planquery.Index) (*server, error) {
	nearestCalls, err := meter.Int64Counter("nearest_lookup_total")
	if err != nil {
		return nil, err
	}
	parcelCalls, err := meter.Int64Counter("parcel_lookup_total")
	if err != nil {
		return nil, err
	}
	lookupHits, err := meter.Int64Counter("lookup_hit_total")
	if err != nil {
		return nil, err
	}

	// The plan is immutable once indexed, so the GeoJSON body is
	// rendered once.
	body, err := exporter.FeatureCollection(index.Plan()).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("rendering plan geojson: %w", err)
	}

	return &server{
		index:              index,
		geojsonBody:        body,
		metricNearestCalls: nearestCalls,
		metricParcelCalls:  parcelCalls,
		metricLookupHits:   lookupHits,
	}, nil
}

func coordinates(ctx *fasthttp.RequestCtx) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(ctx.UserValue("lat").(string), 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(ctx.UserValue("lon").(string), 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func (s *server) nearestHandler(ctx *fasthttp.RequestCtx) {
	s.metricNearestCalls.Add(ctx, 1)

	lat, lon, err := coordinates(ctx)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return
	}

	ref, ok := planquery.SampleRef{}, false
	if radiusArg := ctx.QueryArgs().Peek("radius"); len(radiusArg) > 0 {
		radius, err := strconv.ParseFloat(string(radiusArg), 64)
		if err != nil {
			ctx.Response.SetStatusCode(http.StatusBadRequest)
			return
		}
		ref, ok = s.index.NearestInRadius(lat, lon, radius)
	} else {
		ref, ok = s.index.Nearest(lat, lon)
	}
	if !ok {
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}
	s.metricLookupHits.Add(ctx, 1)

	writeJSON(ctx, ref)
}

func (s *server) parcelHandler(ctx *fasthttp.RequestCtx) {
	s.metricParcelCalls.Add(ctx, 1)

	lat, lon, err := coordinates(ctx)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return
	}

	info, ok := s.index.Parcel(lat, lon)
	if !ok {
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}
	s.metricLookupHits.Add(ctx, 1)

	writeJSON(ctx, info)
}

func (s *server) geoJSONHandler(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/geo+json")
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(s.geojsonBody)
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	out, err := json.Marshal(v)
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		ctx.Response.SetBodyString("failed to marshal response")
		return
	}

	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(out)
}
