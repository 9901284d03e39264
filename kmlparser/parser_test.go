package kmlparser_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/thejerf/slogassert"

	"github.com/regs08/random-sampling-generator-from-kml/kmlparser"
	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

const orchardKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name>North Field</name>
        <styleUrl>#poly-red</styleUrl>
        <description>winter wheat</description>
        <ExtendedData>
          <Data name="crop"><value>wheat</value></Data>
          <Data name="zone"><value>A3</value></Data>
        </ExtendedData>
        <Polygon>
          <outerBoundaryIs>
            <LinearRing>
              <coordinates>
                -120.5,46.1,0 -120.4,46.1,0 -120.4,46.2,0 -120.5,46.2,0 -120.5,46.1,0
              </coordinates>
            </LinearRing>
          </outerBoundaryIs>
        </Polygon>
      </Placemark>
      <Placemark>
        <name>South Field</name>
        <MultiGeometry>
          <Polygon>
            <outerBoundaryIs><LinearRing><coordinates>0,0 1,0 1,1 0,1 0,0</coordinates></LinearRing></outerBoundaryIs>
          </Polygon>
          <Polygon>
            <outerBoundaryIs><LinearRing><coordinates>2,2 3,2 3,3 2,3 2,2</coordinates></LinearRing></outerBoundaryIs>
          </Polygon>
        </MultiGeometry>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestParse(t *testing.T) {
	bounds, err := kmlparser.Parse(strings.NewReader(orchardKML))
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 3 {
		t.Fatalf("got %d boundaries, want 3", len(bounds))
	}

	north := bounds[0]
	wantAttrs := planmodel.Attributes{
		"name":        "North Field",
		"styleUrl":    "poly-red",
		"description": "winter wheat",
		"data_crop":   "wheat",
		"data_zone":   "A3",
	}
	if !reflect.DeepEqual(north.Attrs, wantAttrs) {
		t.Fatalf("attrs = %v, want %v", north.Attrs, wantAttrs)
	}

	wantRing := orb.Ring{
		{-120.5, 46.1}, {-120.4, 46.1}, {-120.4, 46.2}, {-120.5, 46.2}, {-120.5, 46.1},
	}
	if !reflect.DeepEqual(north.Ring, wantRing) {
		t.Fatalf("ring = %v, want %v", north.Ring, wantRing)
	}

	// MultiGeometry placemark contributes one boundary per polygon,
	// all sharing the placemark attributes.
	for i, b := range bounds[1:] {
		if b.Attrs.Name() != "South Field" {
			t.Fatalf("boundary %d name = %q", i+1, b.Attrs.Name())
		}
	}
	for i, b := range bounds {
		if b.Index != i {
			t.Fatalf("boundary %d has Index %d", i, b.Index)
		}
	}
}

func TestParseClosesOpenRing(t *testing.T) {
	kml := `<kml><Placemark><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>0,0 4,0 0,4</coordinates>
	</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`

	bounds, err := kmlparser.Parse(strings.NewReader(kml))
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 1 {
		t.Fatalf("got %d boundaries, want 1", len(bounds))
	}

	ring := bounds[0].Ring
	if len(ring) != 4 {
		t.Fatalf("ring has %d vertices, want 4 after closing", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Fatalf("ring not closed: %v != %v", ring[0], ring[len(ring)-1])
	}
}

func TestParseBareLinearRing(t *testing.T) {
	kml := `<kml><Placemark><Polygon><LinearRing>
		<coordinates>0,0 1,0 1,1 0,0</coordinates>
	</LinearRing></Polygon></Placemark></kml>`

	bounds, err := kmlparser.Parse(strings.NewReader(kml))
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 1 {
		t.Fatalf("got %d boundaries, want 1", len(bounds))
	}
}

func TestParseSkipsMalformedTokens(t *testing.T) {
	kml := `<kml><Placemark><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>junk 0,0 1,0 0 0,1</coordinates>
	</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`

	bounds, err := kmlparser.Parse(strings.NewReader(kml))
	if err != nil {
		t.Fatal(err)
	}

	want := orb.Ring{{0, 0}, {1, 0}, {0, 1}, {0, 0}}
	if !reflect.DeepEqual(bounds[0].Ring, want) {
		t.Fatalf("ring = %v, want %v", bounds[0].Ring, want)
	}
}

func TestParseDropsShortRing(t *testing.T) {
	kml := `<kml>
	<Placemark><name>stub</name><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>0,0 1,1</coordinates>
	</LinearRing></outerBoundaryIs></Polygon></Placemark>
	<Placemark><name>ok</name><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>0,0 1,0 0,1 0,0</coordinates>
	</LinearRing></outerBoundaryIs></Polygon></Placemark>
	</kml>`

	bounds, err := kmlparser.Parse(strings.NewReader(kml))
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 1 || bounds[0].Attrs.Name() != "ok" {
		t.Fatalf("boundaries = %+v, want only the valid parcel", bounds)
	}
}

func TestParseDropsUnparseableRing(t *testing.T) {
	handler := slogassert.New(t, slog.LevelWarn, nil)

	kml := `<kml>
	<Placemark><name>broken</name><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>a,b 1,0 0,1</coordinates>
	</LinearRing></outerBoundaryIs></Polygon></Placemark>
	</kml>`

	bounds, err := kmlparser.Parse(strings.NewReader(kml), kmlparser.WithLogger(slog.New(handler)))
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 0 {
		t.Fatalf("got %d boundaries, want 0", len(bounds))
	}

	handler.AssertMessage("dropping unparseable ring")
	handler.AssertEmpty()
}

func TestParseRejectsBrokenXML(t *testing.T) {
	if _, err := kmlparser.Parse(strings.NewReader(`<kml><Placemark>`)); err == nil {
		t.Fatal("expected an error for truncated xml")
	}
}

func writeTempKML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFiles(t *testing.T) {
	first := writeTempKML(t, "first.kml", orchardKML)
	second := writeTempKML(t, "second.kml", `<kml><Placemark><name>extra</name>
		<Polygon><outerBoundaryIs><LinearRing><coordinates>5,5 6,5 6,6 5,5</coordinates></LinearRing></outerBoundaryIs></Polygon>
	</Placemark></kml>`)

	bounds, err := kmlparser.LoadFiles([]string{first, second})
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 4 {
		t.Fatalf("got %d boundaries, want 4", len(bounds))
	}

	// Path order survives the concurrent parse, and indexes are
	// reassigned across the whole set.
	wantNames := []string{"North Field", "South Field", "South Field", "extra"}
	for i, b := range bounds {
		if b.Index != i {
			t.Fatalf("boundary %d has Index %d", i, b.Index)
		}
		if b.Attrs.Name() != wantNames[i] {
			t.Fatalf("boundary %d name = %q, want %q", i, b.Attrs.Name(), wantNames[i])
		}
	}
}

func TestLoadFilesNoPolygons(t *testing.T) {
	path := writeTempKML(t, "empty.kml", `<kml><Placemark><name>point only</name></Placemark></kml>`)

	_, err := kmlparser.LoadFiles([]string{path})
	if err == nil || !strings.Contains(err.Error(), "no usable polygons") {
		t.Fatalf("error = %v, want no usable polygons", err)
	}
}

func TestLoadFilesMissingFile(t *testing.T) {
	if _, err := kmlparser.LoadFiles([]string{"/does/not/exist.kml"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
