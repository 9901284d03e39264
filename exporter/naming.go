package exporter

import (
	"fmt"
	"strings"
)

// DefaultPrefix is used when a run does not name its own sample prefix.
const DefaultPrefix = "SAMPLE"

// SamplePrefix builds the descriptive prefix shared by every sample name
// of a run. The filter, point count and spacing are folded in so a stack
// of exported files stays tellable apart: "SAMPLE_NORTH_P5_D10M" reads as
// five points per parcel at ten meters in parcels filtered by name.
//
// Point count and spacing are skipped at their defaults (one point, five
// meters).
func SamplePrefix(base, filter string, points int, minDistanceMeters float64) string {
	if base == "" {
		base = DefaultPrefix
	}
	parts := []string{base}

	if filter != "" {
		field, value, found := strings.Cut(filter, "=")
		if !found {
			parts = append(parts, strings.ToUpper(filter))
		} else {
			field = strings.TrimSpace(field)
			value = strings.TrimSpace(value)
			switch field {
			case "description":
				parts = append(parts, strings.ToUpper(value))
			case "name":
				// First word keeps the prefix short.
				if words := strings.Fields(value); len(words) > 0 {
					parts = append(parts, strings.ToUpper(words[0]))
				} else {
					parts = append(parts, strings.ToUpper(value))
				}
			case "styleUrl":
				if i := strings.LastIndex(value, "#"); i >= 0 {
					parts = append(parts, strings.ToUpper(value[i+1:]))
				} else {
					parts = append(parts, strings.ToUpper(value))
				}
			default:
				parts = append(parts, strings.ToUpper(field)+"_"+strings.ToUpper(value))
			}
		}
	}

	if points != 1 {
		parts = append(parts, fmt.Sprintf("P%d", points))
	}
	if minDistanceMeters != 5.0 {
		parts = append(parts, fmt.Sprintf("D%dM", int(minDistanceMeters)))
	}

	return strings.Join(parts, "_")
}

// SampleName numbers a sample within its run. Numbering is global across
// parcels and 1-based.
func SampleName(prefix string, n int) string {
	return fmt.Sprintf("%s_%04d", prefix, n)
}
