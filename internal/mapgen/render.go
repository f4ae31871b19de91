package mapgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"school_feedback_bot/internal/locations"
	"school_feedback_bot/internal/utils"
)

const (
	// Placeholder canvas dimensions used when no base map is
	// configured or the configured one cannot be decoded.
	placeholderW = 1280
	placeholderH = 800

	// markerInset keeps configured coordinates inside the canvas even
	// when operators set them outside it. Independent of the label
	// clamping in compose.go.
	markerInset = 24

	artifactQuality = 85
)

var placeholderBackground = color.NRGBA{0xE9, 0xEC, 0xEF, 0xFF}

// RenderFailure means no artifact could be produced at all. Partial
// maps (some markers skipped) do not produce it.
type RenderFailure struct {
	Err error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("map render failed: %v", e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

// Renderer turns aggregates plus coordinates into annotated map
// artifacts in the cache directory.
type Renderer struct {
	basePath string
	cacheDir string
	fonts    *FontChain
	now      func() time.Time
}

func NewRenderer(basePath, cacheDir string, fonts *FontChain) *Renderer {
	return &Renderer{
		basePath: basePath,
		cacheDir: cacheDir,
		fonts:    fonts,
		now:      time.Now,
	}
}

// CanvasSize returns the dimensions markers will be laid out on:
// the base map's if it is readable, the placeholder's otherwise.
func (r *Renderer) CanvasSize() (int, int) {
	f, err := os.Open(r.basePath)
	if err != nil {
		return placeholderW, placeholderH
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return placeholderW, placeholderH
	}
	return cfg.Width, cfg.Height
}

// Render draws one marker per location with a non-zero tally and
// writes a uniquely named JPEG artifact. A failure on a single marker
// is logged and that marker skipped; only a missing canvas or a failed
// write aborts the render.
func (r *Renderer) Render(tallies map[int]Tally, coords map[int]locations.Coordinate) (string, error) {
	canvas := r.loadCanvas()
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	face := r.fonts.Face(markerFontSize(w, h))

	for id, tally := range tallies {
		if tally.Complaints == 0 && tally.Suggestions == 0 {
			continue
		}
		coord, ok := coords[id]
		if !ok {
			continue
		}
		if err := r.drawMarker(canvas, tally, coord, face); err != nil {
			log.WithError(err).Warnf("skipping marker for location %d", id)
		}
	}

	return r.saveArtifact(canvas)
}

// loadCanvas decodes the base map into an alpha-capable working image,
// or synthesizes the captioned placeholder when the base is unusable.
func (r *Renderer) loadCanvas() *image.NRGBA {
	f, err := os.Open(r.basePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("could not open base map %s", r.basePath)
		}
		return r.placeholderCanvas()
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		log.WithError(err).Warnf("could not decode base map %s", r.basePath)
		return r.placeholderCanvas()
	}

	b := src.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
	return canvas
}

func (r *Renderer) placeholderCanvas() *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, placeholderW, placeholderH))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: placeholderBackground}, image.Point{}, draw.Src)

	caption := "School map placeholder - configure BASE_MAP_PATH to show the real floor plan"
	face := r.fonts.Face(20)
	cw, _ := measureText(face, caption)
	drawString(canvas, caption, image.Pt((placeholderW-cw)/2, 40), color.NRGBA{0x49, 0x50, 0x57, 0xFF}, face)
	return canvas
}

func (r *Renderer) drawMarker(canvas *image.NRGBA, tally Tally, coord locations.Coordinate, face font.Face) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("marker draw panicked: %v", rec)
		}
	}()

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	center := clampPoint(image.Pt(coord.X, coord.Y), w, h, markerInset)

	label := ComposeLabel(tally, center, w, h, face)
	if label == nil {
		return nil
	}

	// Background first, then text in segment order, so no segment is
	// ever occluded by a later rectangle.
	draw.Draw(canvas, label.Rect, &image.Uniform{C: labelBackground}, image.Point{}, draw.Over)
	ascent := textAscent(face)
	for _, seg := range label.Segments {
		dot := image.Pt(seg.Center.X-seg.Width/2, seg.Center.Y-seg.Height/2+ascent)
		drawString(canvas, seg.Text, dot, seg.Color, face)
	}
	return nil
}

func (r *Renderer) saveArtifact(canvas *image.NRGBA) (string, error) {
	// The annotation layer draws with alpha; the persisted artifact is
	// opaque JPEG.
	b := canvas.Bounds()
	final := image.NewRGBA(b)
	draw.Draw(final, b, canvas, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, final, &jpeg.Options{Quality: artifactQuality}); err != nil {
		return "", &RenderFailure{Err: err}
	}

	path := filepath.Join(r.cacheDir, fmt.Sprintf("map_%d.jpg", r.now().UnixNano()))
	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", &RenderFailure{Err: err}
	}
	return path, nil
}

func markerFontSize(w, h int) float64 {
	min := w
	if h < min {
		min = h
	}
	size := float64(min) / 32
	if size < 16 {
		size = 16
	}
	if size > 40 {
		size = 40
	}
	return size
}

func clampPoint(p image.Point, w, h, inset int) image.Point {
	maxX := w - inset
	maxY := h - inset
	if p.X < inset {
		p.X = inset
	}
	if p.X > maxX {
		p.X = maxX
	}
	if p.Y < inset {
		p.Y = inset
	}
	if p.Y > maxY {
		p.Y = maxY
	}
	return p
}

func drawString(dst draw.Image, text string, dot image.Point, c color.NRGBA, face font.Face) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
}
