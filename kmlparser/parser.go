// Package kmlparser extracts parcel boundaries from KML documents.
//
// Only the outer ring of each polygon is read. Placemarks may sit at any
// depth inside Document and Folder elements, and a placemark carrying a
// MultiGeometry yields one boundary per polygon, all sharing the
// placemark attributes.
package kmlparser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

type kmlPlacemark struct {
	Name          string       `xml:"name"`
	StyleURL      string       `xml:"styleUrl"`
	Description   string       `xml:"description"`
	ExtendedData  []kmlData    `xml:"ExtendedData>Data"`
	Polygon       *kmlPolygon  `xml:"Polygon"`
	MultiGeometry *kmlGeometry `xml:"MultiGeometry"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlGeometry struct {
	Polygons []kmlPolygon `xml:"Polygon"`
}

type kmlPolygon struct {
	Outer kmlRing `xml:"outerBoundaryIs>LinearRing"`
	// Some exporters skip outerBoundaryIs and put the ring right
	// under the polygon.
	Direct kmlRing `xml:"LinearRing"`
}

type kmlRing struct {
	Coordinates string `xml:"coordinates"`
}

func (p kmlPolygon) coordinates() string {
	if s := strings.TrimSpace(p.Outer.Coordinates); s != "" {
		return s
	}
	return strings.TrimSpace(p.Direct.Coordinates)
}

func (pm kmlPlacemark) polygons() []kmlPolygon {
	var out []kmlPolygon
	if pm.Polygon != nil {
		out = append(out, *pm.Polygon)
	}
	if pm.MultiGeometry != nil {
		out = append(out, pm.MultiGeometry.Polygons...)
	}
	return out
}

func (pm kmlPlacemark) attributes() planmodel.Attributes {
	attrs := planmodel.Attributes{}
	if v := strings.TrimSpace(pm.Name); v != "" {
		attrs["name"] = v
	}
	if v := strings.TrimSpace(pm.StyleURL); v != "" {
		attrs["styleUrl"] = strings.TrimLeft(v, "#")
	}
	if v := strings.TrimSpace(pm.Description); v != "" {
		attrs["description"] = v
	}
	for _, d := range pm.ExtendedData {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		attrs["data_"+name] = strings.TrimSpace(d.Value)
	}
	return attrs
}

// Parse reads a KML document and returns every usable parcel boundary in
// document order. Rings with unparseable coordinates or fewer than three
// vertices are dropped, not fatal.
func Parse(r io.Reader, opts ...Option) ([]planmodel.Boundary, error) {
	o := buildOptions(opts)
	dec := xml.NewDecoder(r)

	var out []planmodel.Boundary
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading kml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("decoding placemark: %w", err)
		}

		attrs := pm.attributes()
		for _, poly := range pm.polygons() {
			ring, err := parseRing(poly.coordinates())
			if err != nil {
				o.log.Warn("dropping unparseable ring", "parcel", attrs.Name(), "error", err)
				continue
			}
			if ring == nil {
				o.log.Debug("dropping ring with fewer than three vertices", "parcel", attrs.Name())
				continue
			}
			out = append(out, planmodel.Boundary{
				Index: len(out),
				Ring:  ring,
				Attrs: attrs,
			})
		}
	}
	return out, nil
}

// ParseFile opens path and parses it as KML.
func ParseFile(path string, opts ...Option) ([]planmodel.Boundary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	bounds, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return bounds, nil
}

// parseRing turns a KML coordinate string (lon,lat[,alt] triples split by
// whitespace) into a closed ring. Tokens without at least lon and lat are
// skipped. Returns nil for rings with fewer than three vertices.
func parseRing(raw string) (orb.Ring, error) {
	fields := strings.Fields(raw)
	ring := make(orb.Ring, 0, len(fields)+1)
	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad longitude %q: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad latitude %q: %w", parts[1], err)
		}
		ring = append(ring, orb.Point{lon, lat})
	}

	if len(ring) < 3 {
		return nil, nil
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring, nil
}
