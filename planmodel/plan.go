package planmodel

import "time"

// Plan is the persisted product of a sampling run: the request echo, the
// sampled boundaries and their outcomes. Boundaries and Outcomes correspond
// positionally, Outcomes[i] reports the sampling of Boundaries[i].
type Plan struct {
	CreatedAt         time.Time         `json:"created_at"`
	InputFiles        []string          `json:"input_files,omitempty"`
	Prefix            string            `json:"prefix"`
	Filter            string            `json:"filter,omitempty"`
	PointsPerParcel   int               `json:"points_per_parcel"`
	MinDistanceMeters float64           `json:"min_distance_meters"`
	BaseSeed          int64             `json:"base_seed"`
	Metadata          map[string]string `json:"metadata,omitempty"`

	Boundaries []Boundary `json:"boundaries"`
	Outcomes   []Outcome  `json:"outcomes"`
}

// TotalPoints counts the accepted points across all outcomes.
func (p *Plan) TotalPoints() int {
	total := 0
	for _, o := range p.Outcomes {
		total += o.Achieved
	}
	return total
}

// Points flattens the accepted points in outcome order, the order sample
// names are assigned in.
func (p *Plan) Points() []SamplePoint {
	points := make([]SamplePoint, 0, p.TotalPoints())
	for _, o := range p.Outcomes {
		points = append(points, o.Points...)
	}
	return points
}
