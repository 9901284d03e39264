// Package exporter renders finished sampling plans as CSV, GeoJSON and
// summary reports for field work.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func metadataKeys(plan *planmodel.Plan) []string {
	keys := make([]string, 0, len(plan.Metadata))
	for k := range plan.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func planPrefix(plan *planmodel.Plan) string {
	return SamplePrefix(plan.Prefix, plan.Filter, plan.PointsPerParcel, plan.MinDistanceMeters)
}
