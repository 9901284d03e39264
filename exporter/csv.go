package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// WriteCSV writes one row per sample point in run order. Run metadata
// becomes metadata_<key> columns, sorted by key so the header is stable.
func WriteCSV(w io.Writer, plan *planmodel.Plan) error {
	prefix := planPrefix(plan)
	metaKeys := metadataKeys(plan)

	header := []string{"sample_name", "longitude", "latitude", "point_id", "parcel_index", "parcel_point"}
	for _, k := range metaKeys {
		header = append(header, "metadata_"+k)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	n := 0
	for _, out := range plan.Outcomes {
		for _, p := range out.Points {
			n++
			row := []string{
				SampleName(prefix, n),
				strconv.FormatFloat(p.Lon, 'f', -1, 64),
				strconv.FormatFloat(p.Lat, 'f', -1, 64),
				strconv.Itoa(n),
				strconv.Itoa(p.Parcel),
				strconv.Itoa(p.Seq),
			}
			for _, k := range metaKeys {
				row = append(row, plan.Metadata[k])
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the plan as CSV to path, creating missing parent
// directories.
func WriteCSVFile(path string, plan *planmodel.Plan) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, plan)
	})
}
