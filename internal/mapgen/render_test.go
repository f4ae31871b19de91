package mapgen

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"school_feedback_bot/internal/locations"
)

func testRenderer(t *testing.T, basePath string) (*Renderer, string) {
	t.Helper()
	cacheDir := t.TempDir()
	return NewRenderer(basePath, cacheDir, NewFontChain(nil)), cacheDir
}

func writeTestBaseMap(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.png")
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeArtifact(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("artifact is not a decodable JPEG: %v", err)
	}
	return img
}

func TestCanvasSizeFallsBackToPlaceholder(t *testing.T) {
	r, _ := testRenderer(t, filepath.Join(t.TempDir(), "missing.png"))
	w, h := r.CanvasSize()
	if w != placeholderW || h != placeholderH {
		t.Errorf("missing base map: got %dx%d, want %dx%d", w, h, placeholderW, placeholderH)
	}
}

func TestCanvasSizeReadsBaseMap(t *testing.T) {
	base := writeTestBaseMap(t, 640, 480)
	r, _ := testRenderer(t, base)
	w, h := r.CanvasSize()
	if w != 640 || h != 480 {
		t.Errorf("got %dx%d, want 640x480", w, h)
	}
}

func TestRenderWithNoReportsProducesCleanArtifact(t *testing.T) {
	r, cacheDir := testRenderer(t, filepath.Join(t.TempDir(), "missing.png"))

	path, err := r.Render(map[int]Tally{}, map[int]locations.Coordinate{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(path, cacheDir) {
		t.Errorf("artifact %s not in cache dir %s", path, cacheDir)
	}
	if !strings.HasSuffix(filepath.Base(path), ".jpg") {
		t.Errorf("artifact must be a jpg, got %s", path)
	}

	img := decodeArtifact(t, path)
	b := img.Bounds()
	if b.Dx() != placeholderW || b.Dy() != placeholderH {
		t.Errorf("placeholder artifact size: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderDrawsMarkers(t *testing.T) {
	base := writeTestBaseMap(t, 400, 300)
	r, _ := testRenderer(t, base)

	tallies := map[int]Tally{
		1: {Complaints: 2, Suggestions: 1},
		2: {},
	}
	coords := map[int]locations.Coordinate{
		1: {LocationID: 1, X: 200, Y: 150},
		2: {LocationID: 2, X: 100, Y: 100},
	}

	path, err := r.Render(tallies, coords)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	decodeArtifact(t, path)
}

func TestRenderToleratesOutOfBoundsCoordinates(t *testing.T) {
	base := writeTestBaseMap(t, 400, 300)
	r, _ := testRenderer(t, base)

	tallies := map[int]Tally{
		1: {Complaints: 5},
		2: {Suggestions: 3},
	}
	coords := map[int]locations.Coordinate{
		1: {LocationID: 1, X: -999, Y: -999},
		2: {LocationID: 2, X: 9999, Y: 9999},
	}

	path, err := r.Render(tallies, coords)
	if err != nil {
		t.Fatalf("out-of-bounds coordinates must not abort the render: %v", err)
	}
	decodeArtifact(t, path)
}

func TestRenderSkipsLocationsWithoutCoordinates(t *testing.T) {
	r, _ := testRenderer(t, filepath.Join(t.TempDir(), "missing.png"))
	path, err := r.Render(map[int]Tally{7: {Complaints: 1}}, map[int]locations.Coordinate{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	decodeArtifact(t, path)
}

func TestRenderArtifactNamesAreUnique(t *testing.T) {
	r, _ := testRenderer(t, filepath.Join(t.TempDir(), "missing.png"))

	first, err := r.Render(map[int]Tally{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(map[int]Tally{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("consecutive renders produced the same artifact path %s", first)
	}
}

func TestMarkerFontSize(t *testing.T) {
	tests := []struct {
		w, h int
		want float64
	}{
		{1280, 800, 25},
		{100, 100, 16},
		{4000, 4000, 40},
	}
	for _, tt := range tests {
		if got := markerFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("markerFontSize(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestClampPoint(t *testing.T) {
	tests := []struct {
		in   image.Point
		want image.Point
	}{
		{image.Pt(-50, -50), image.Pt(24, 24)},
		{image.Pt(5000, 5000), image.Pt(1256, 776)},
		{image.Pt(640, 400), image.Pt(640, 400)},
	}
	for _, tt := range tests {
		if got := clampPoint(tt.in, 1280, 800, markerInset); got != tt.want {
			t.Errorf("clampPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
