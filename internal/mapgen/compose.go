package mapgen

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/font"
)

// Marker label colors.
var (
	ComplaintColor  = color.NRGBA{0xDC, 0x35, 0x45, 0xFF}
	SuggestionColor = color.NRGBA{0x28, 0xA7, 0x45, 0xFF}
	SeparatorColor  = color.NRGBA{0xF0, 0xF0, 0xF0, 0xFF}

	labelBackground = color.NRGBA{0x21, 0x25, 0x29, 0xC8}
)

const (
	// Separator between the two numbers of a dual-value label.
	labelSeparator = "/"

	// clampMargin is how close to the canvas edge a label rectangle
	// may sit.
	clampMargin = 8

	// paddingFloor keeps labels legible on tiny canvases.
	paddingFloor = 4

	// Fallback metrics used when no usable face is available:
	// character count times an average glyph width.
	fallbackAdvance = 7
	fallbackHeight  = 13
	fallbackAscent  = 10
)

// Segment is one run of text in a label: a number or the separator.
// Center is the point the text is anchored on.
type Segment struct {
	Text   string
	Color  color.NRGBA
	Center image.Point
	Width  int
	Height int
}

// Label is the composed geometry for one marker: a background
// rectangle plus one or two colored numbers, drawn in segment order.
type Label struct {
	Rect     image.Rectangle
	Segments []Segment
}

// Tally is the aggregate pair a marker displays.
type Tally struct {
	Complaints  int
	Suggestions int
}

// ComposeLabel lays out the label for one marker. It returns nil when
// both counts are zero (the marker is skipped entirely). The label is
// centered on center and then translated the minimal amount needed to
// keep its rectangle at least clampMargin pixels inside the canvas.
// Composition is pure: no state, same inputs, same label.
func ComposeLabel(t Tally, center image.Point, canvasW, canvasH int, face font.Face) *Label {
	var parts []Segment
	switch {
	case t.Complaints > 0 && t.Suggestions > 0:
		parts = []Segment{
			{Text: strconv.Itoa(t.Complaints), Color: ComplaintColor},
			{Text: labelSeparator, Color: SeparatorColor},
			{Text: strconv.Itoa(t.Suggestions), Color: SuggestionColor},
		}
	case t.Complaints > 0:
		parts = []Segment{{Text: strconv.Itoa(t.Complaints), Color: ComplaintColor}}
	case t.Suggestions > 0:
		parts = []Segment{{Text: strconv.Itoa(t.Suggestions), Color: SuggestionColor}}
	default:
		return nil
	}

	totalWidth := 0
	maxHeight := 0
	for i := range parts {
		w, h := measureText(face, parts[i].Text)
		parts[i].Width = w
		parts[i].Height = h
		totalWidth += w
		if h > maxHeight {
			maxHeight = h
		}
	}

	// Lay segments out left to right around the requested center.
	x := center.X - totalWidth/2
	for i := range parts {
		parts[i].Center = image.Pt(x+parts[i].Width/2, center.Y)
		x += parts[i].Width
	}

	pad := labelPadding(canvasW, canvasH)
	rect := image.Rect(
		center.X-totalWidth/2-pad,
		center.Y-maxHeight/2-pad,
		center.X+(totalWidth+1)/2+pad,
		center.Y+(maxHeight+1)/2+pad,
	)

	dx, dy := clampOffset(rect, canvasW, canvasH)
	rect = rect.Add(image.Pt(dx, dy))
	for i := range parts {
		parts[i].Center = parts[i].Center.Add(image.Pt(dx, dy))
	}

	return &Label{Rect: rect, Segments: parts}
}

// labelPadding scales with the canvas but never drops below the floor.
func labelPadding(w, h int) int {
	min := w
	if h < min {
		min = h
	}
	pad := min / 100
	if pad < paddingFloor {
		pad = paddingFloor
	}
	return pad
}

// clampOffset computes the translation bringing rect back inside the
// canvas margins. Each axis is handled independently; translation
// preserves the rectangle's extent, so it can never invert.
func clampOffset(rect image.Rectangle, canvasW, canvasH int) (dx, dy int) {
	mx, my := clampMargin, clampMargin
	if canvasW <= 2*mx {
		mx = 0
	}
	if canvasH <= 2*my {
		my = 0
	}

	if rect.Max.X > canvasW-mx {
		dx = canvasW - mx - rect.Max.X
	}
	if rect.Min.X+dx < mx {
		dx = mx - rect.Min.X
	}
	if rect.Max.Y > canvasH-my {
		dy = canvasH - my - rect.Max.Y
	}
	if rect.Min.Y+dy < my {
		dy = my - rect.Min.Y
	}
	return dx, dy
}

// measureText measures one segment. A nil or unusable face falls back
// to an estimate from the character count and an average glyph width.
func measureText(face font.Face, text string) (w, h int) {
	if face == nil {
		return len([]rune(text)) * fallbackAdvance, fallbackHeight
	}
	w = font.MeasureString(face, text).Ceil()
	h = face.Metrics().Height.Ceil()
	if w <= 0 || h <= 0 {
		return len([]rune(text)) * fallbackAdvance, fallbackHeight
	}
	return w, h
}

// textAscent is the baseline offset used when drawing a segment.
func textAscent(face font.Face) int {
	if face == nil {
		return fallbackAscent
	}
	if a := face.Metrics().Ascent.Ceil(); a > 0 {
		return a
	}
	return fallbackAscent
}
