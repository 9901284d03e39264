package planmodel

// Status classifies how sampling finished for one parcel.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusSkipped  Status = "skipped"
)

// Reason explains a partial or skipped outcome.
type Reason string

const (
	ReasonInvalidGeometry    Reason = "invalid_geometry"
	ReasonDegenerateLatitude Reason = "degenerate_latitude"
	ReasonBudgetExhausted    Reason = "budget_exhausted"
)

// SamplePoint is one accepted sampling location.
type SamplePoint struct {
	Lon    float64 `json:"longitude"`
	Lat    float64 `json:"latitude"`
	Seq    int     `json:"seq"`    // 1-based within the parcel
	Parcel int     `json:"parcel"` // Index of the owning boundary
}

// Outcome reports the sampling result for one parcel. A run produces
// exactly one outcome per input boundary, in input order, whatever the
// status mix.
type Outcome struct {
	Parcel    int           `json:"parcel"`
	Requested int           `json:"requested"`
	Achieved  int           `json:"achieved"`
	Status    Status        `json:"status"`
	Reason    Reason        `json:"reason,omitempty"`
	Points    []SamplePoint `json:"points,omitempty"`
}
