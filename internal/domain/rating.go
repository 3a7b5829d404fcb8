package domain

import "math"

// Glyph is one star marker of a rating.
type Glyph string

const (
	GlyphFull  Glyph = "full"
	GlyphHalf  Glyph = "half"
	GlyphEmpty Glyph = "empty"
)

// MaxStars is the number of markers in every rating.
const MaxStars = 5

// Stars renders a 0..5 score as exactly five glyphs: floor(score) full stars,
// one half star when the fractional part is at least 0.5, then empty stars.
// Scores outside [0,5] are clamped and NaN counts as 0.
func Stars(score float64) []Glyph {
	switch {
	case math.IsNaN(score) || score < 0:
		score = 0
	case score > MaxStars:
		score = MaxStars
	}

	full := int(math.Floor(score))
	half := score-math.Floor(score) >= 0.5

	glyphs := make([]Glyph, 0, MaxStars)
	for i := 0; i < full; i++ {
		glyphs = append(glyphs, GlyphFull)
	}
	if half {
		glyphs = append(glyphs, GlyphHalf)
	}
	for len(glyphs) < MaxStars {
		glyphs = append(glyphs, GlyphEmpty)
	}
	return glyphs
}

// IconClass returns the icon-font classes for the glyph.
func (g Glyph) IconClass() string {
	switch g {
	case GlyphFull:
		return "fa-solid fa-star"
	case GlyphHalf:
		return "fa-solid fa-star-half-stroke"
	default:
		return "fa-regular fa-star"
	}
}
