package planmodel

import (
	"strings"

	"github.com/paulmach/orb"
)

// Attributes holds the KML placemark attributes of a parcel: name,
// styleUrl, description and data_* entries from ExtendedData.
type Attributes map[string]string

func (a Attributes) Name() string {
	return a["name"]
}

// Boundary is a single parcel outline parsed from a KML file. Ring is
// closed, Index is the parcel's position in the loaded source set.
type Boundary struct {
	Index int        `json:"index"`
	Ring  orb.Ring   `json:"ring"`
	Attrs Attributes `json:"attributes,omitempty"`
}

// FilterByAttribute returns the boundaries whose attribute field contains
// value, compared case-insensitively. Order is preserved and Index keeps
// pointing at the source parcel.
func FilterByAttribute(boundaries []Boundary, field, value string) []Boundary {
	needle := strings.ToLower(value)

	matched := make([]Boundary, 0, len(boundaries))
	for _, b := range boundaries {
		if strings.Contains(strings.ToLower(b.Attrs[field]), needle) {
			matched = append(matched, b)
		}
	}
	return matched
}
