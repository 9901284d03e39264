package kmlparser

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// LoadFiles parses every path concurrently and flattens the results in
// path order. Boundary indexes are reassigned across the whole set so
// they stay unique. Returns an error when no file yields a usable
// polygon.
func LoadFiles(paths []string, opts ...Option) ([]planmodel.Boundary, error) {
	o := buildOptions(opts)

	perFile := make([][]planmodel.Boundary, len(paths))
	p := pool.New().WithErrors()
	for i, path := range paths {
		p.Go(func() error {
			bounds, err := ParseFile(path, opts...)
			if err != nil {
				return err
			}
			o.log.Info("parsed boundary file", "file", path, "parcels", len(bounds))
			perFile[i] = bounds
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var out []planmodel.Boundary
	for _, bounds := range perFile {
		out = append(out, bounds...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable polygons in %d file(s)", len(paths))
	}

	for i := range out {
		out[i].Index = i
	}
	return out, nil
}
