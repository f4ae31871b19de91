package mapgen

import (
	"os"
	"sync"

	"github.com/apex/log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource yields a font face at a given size, or nil when it cannot.
type FontSource interface {
	Face(size float64) font.Face
}

// FontChain tries its sources in order and falls back to the built-in
// bitmap face, so Face never returns nil.
type FontChain struct {
	sources []FontSource
}

// NewFontChain builds the ranked provider list: operator-supplied TTF
// files first, then the embedded Go Regular face, then the fixed-size
// bitmap face as a last resort.
func NewFontChain(ttfPaths []string) *FontChain {
	var sources []FontSource
	for _, path := range ttfPaths {
		sources = append(sources, &fileFontSource{path: path})
	}
	sources = append(sources, newEmbeddedFontSource())
	return &FontChain{sources: sources}
}

// Face returns a usable face at size.
func (c *FontChain) Face(size float64) font.Face {
	for _, src := range c.sources {
		if face := src.Face(size); face != nil {
			return face
		}
	}
	return basicfont.Face7x13
}

// fileFontSource parses a TTF/OTF file once and caches faces per size.
type fileFontSource struct {
	path  string
	once  sync.Once
	fnt   *opentype.Font
	err   error
	mu    sync.Mutex
	faces map[float64]font.Face
}

func (s *fileFontSource) Face(size float64) font.Face {
	s.once.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = err
			return
		}
		s.fnt, s.err = opentype.Parse(data)
		if s.err != nil {
			log.WithError(s.err).Warnf("could not parse font %s", s.path)
		}
	})
	if s.err != nil || s.fnt == nil {
		return nil
	}
	return cachedFace(&s.mu, &s.faces, s.fnt, size)
}

// embeddedFontSource serves faces from the bundled Go Regular font.
type embeddedFontSource struct {
	once  sync.Once
	fnt   *opentype.Font
	err   error
	mu    sync.Mutex
	faces map[float64]font.Face
}

func newEmbeddedFontSource() *embeddedFontSource {
	return &embeddedFontSource{}
}

func (s *embeddedFontSource) Face(size float64) font.Face {
	s.once.Do(func() {
		s.fnt, s.err = opentype.Parse(goregular.TTF)
	})
	if s.err != nil || s.fnt == nil {
		return nil
	}
	return cachedFace(&s.mu, &s.faces, s.fnt, size)
}

func cachedFace(mu *sync.Mutex, faces *map[float64]font.Face, fnt *opentype.Font, size float64) font.Face {
	mu.Lock()
	defer mu.Unlock()
	if *faces == nil {
		*faces = make(map[float64]font.Face)
	}
	if face, ok := (*faces)[size]; ok {
		return face
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	(*faces)[size] = face
	return face
}
