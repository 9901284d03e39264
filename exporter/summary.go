package exporter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

// ParcelSummary is the per-parcel accounting line of a run report.
type ParcelSummary struct {
	Parcel    int              `json:"parcel"`
	Name      string           `json:"name,omitempty"`
	Requested int              `json:"requested"`
	Achieved  int              `json:"achieved"`
	Status    planmodel.Status `json:"status"`
	Reason    planmodel.Reason `json:"reason,omitempty"`
}

// Summary reports what a run produced and under which parameters, so a
// shortfall is visible without replaying the plan.
type Summary struct {
	CreatedAt         time.Time       `json:"created_at"`
	InputFiles        []string        `json:"input_files"`
	Filter            string          `json:"filter,omitempty"`
	SamplePrefix      string          `json:"sample_prefix"`
	PointsPerParcel   int             `json:"points_per_parcel"`
	MinDistanceMeters float64         `json:"min_distance_meters"`
	BaseSeed          int64           `json:"base_seed"`
	Parcels           int             `json:"parcels"`
	TotalPoints       int             `json:"total_points"`
	Complete          int             `json:"complete"`
	Partial           int             `json:"partial"`
	Skipped           int             `json:"skipped"`
	Outcomes          []ParcelSummary `json:"outcomes"`
}

// NewSummary folds a plan into its report form.
func NewSummary(plan *planmodel.Plan) Summary {
	s := Summary{
		CreatedAt:         plan.CreatedAt,
		InputFiles:        plan.InputFiles,
		Filter:            plan.Filter,
		SamplePrefix:      planPrefix(plan),
		PointsPerParcel:   plan.PointsPerParcel,
		MinDistanceMeters: plan.MinDistanceMeters,
		BaseSeed:          plan.BaseSeed,
		Parcels:           len(plan.Outcomes),
		TotalPoints:       plan.TotalPoints(),
		Outcomes:          make([]ParcelSummary, 0, len(plan.Outcomes)),
	}

	names := make(map[int]string, len(plan.Boundaries))
	for _, b := range plan.Boundaries {
		names[b.Index] = b.Attrs.Name()
	}

	for _, out := range plan.Outcomes {
		switch out.Status {
		case planmodel.StatusComplete:
			s.Complete++
		case planmodel.StatusPartial:
			s.Partial++
		case planmodel.StatusSkipped:
			s.Skipped++
		}
		s.Outcomes = append(s.Outcomes, ParcelSummary{
			Parcel:    out.Parcel,
			Name:      names[out.Parcel],
			Requested: out.Requested,
			Achieved:  out.Achieved,
			Status:    out.Status,
			Reason:    out.Reason,
		})
	}
	return s
}

// WriteSummary writes the run report as indented JSON.
func WriteSummary(w io.Writer, plan *planmodel.Plan) error {
	data, err := json.MarshalIndent(NewSummary(plan), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteSummaryFile writes the run report to path, creating missing
// parent directories.
func WriteSummaryFile(path string, plan *planmodel.Plan) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteSummary(w, plan)
	})
}
