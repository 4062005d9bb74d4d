package raster

import (
	"math"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shapedLine is one shaped run of text with its pixel metrics.
type shapedLine struct {
	glyphs  []shaping.Glyph
	width   int
	ascent  int
	descent int
}

// shapeLine shapes text at the given pixel size. The script is detected
// from the runes so Burmese (and other complex scripts) get full
// reordering and mark placement.
func shapeLine(face *gofont.Face, text string, sizePx float64) shapedLine {
	runes := []rune(text)
	shaper := &shaping.HarfbuzzShaper{}

	script := DetectScript(runes)
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      face,
		Size:      fixed.Int26_6(math.Round(sizePx * 64)),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	out := shaper.Shape(in)

	return shapedLine{
		glyphs:  out.Glyphs,
		width:   out.Advance.Ceil(),
		ascent:  out.GlyphBounds.Ascent.Ceil(),
		descent: (-out.GlyphBounds.Descent).Ceil(),
	}
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript returns the dominant script of the runes, defaulting to
// Latin. Ties keep the earlier winner.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Myanmar, r):
		return language.Myanmar
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Khmer, r):
		return language.Khmer
	case unicode.Is(unicode.Lao, r):
		return language.Lao
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Bengali, r):
		return language.Bengali
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Han, r):
		return language.Han
	}
	return language.Unknown
}
