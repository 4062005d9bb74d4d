package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves a color spec: either an SVG 1.1 color name ("red",
// "darkblue") or a hex form ("#f00", "#ff0000").
func ParseColor(spec string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrBadColor)
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadColor, spec)
}

func parseHex(s string) (color.Color, error) {
	hex := s[1:]
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, err = hexChannels(hex, 1)
		r, g, b = r*17, g*17, b*17
	case 6:
		r, g, b, err = hexChannels(hex, 2)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

func hexChannels(hex string, width int) (r, g, b uint64, err error) {
	if r, err = strconv.ParseUint(hex[0:width], 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(hex[width:2*width], 16, 8); err != nil {
		return
	}
	b, err = strconv.ParseUint(hex[2*width:3*width], 16, 8)
	return
}
