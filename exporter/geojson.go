package exporter

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// FeatureCollection renders every sample point as a GeoJSON point feature
// carrying the same fields as the CSV export, plus the parcel name when
// the source placemark had one.
func FeatureCollection(plan *planmodel.Plan) *geojson.FeatureCollection {
	prefix := planPrefix(plan)
	metaKeys := metadataKeys(plan)

	names := make(map[int]string, len(plan.Boundaries))
	for _, b := range plan.Boundaries {
		names[b.Index] = b.Attrs.Name()
	}

	fc := geojson.NewFeatureCollection()
	n := 0
	for _, out := range plan.Outcomes {
		for _, p := range out.Points {
			n++
			f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
			f.Properties["sample_name"] = SampleName(prefix, n)
			f.Properties["point_id"] = n
			f.Properties["parcel_index"] = p.Parcel
			f.Properties["parcel_point"] = p.Seq
			if name := names[p.Parcel]; name != "" {
				f.Properties["parcel_name"] = name
			}
			for _, k := range metaKeys {
				f.Properties["metadata_"+k] = plan.Metadata[k]
			}
			fc.Append(f)
		}
	}
	return fc
}

// WriteGeoJSON writes the plan as a GeoJSON feature collection.
func WriteGeoJSON(w io.Writer, plan *planmodel.Plan) error {
	data, err := FeatureCollection(plan).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteGeoJSONFile writes the plan as GeoJSON to path, creating missing
// parent directories.
func WriteGeoJSONFile(path string, plan *planmodel.Plan) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteGeoJSON(w, plan)
	})
}
