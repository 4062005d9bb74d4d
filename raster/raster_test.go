package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-text/typesetting/language"

	"github.com/wudi/annotkit/observability"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect language.Script
	}{
		{"Latin", "Hello World", language.Latin},
		{"Myanmar", "မင်္ဂလာပါ", language.Myanmar},
		{"Thai", "สวัสดี", language.Thai},
		{"Khmer", "សួស្តី", language.Khmer},
		{"Cyrillic", "Привет мир", language.Cyrillic},
		{"Mixed Latin/Myanmar (Myanmar dominant)", "ok မင်္ဂလာပါ", language.Myanmar},
		{"Empty falls back to Latin", "", language.Latin},
		{"Digits fall back to Latin", "12345", language.Latin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectScript([]rune(tc.input))
			if got != tc.expect {
				t.Errorf("Expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		spec string
		want color.Color
	}{
		{"red", color.RGBA{0xff, 0, 0, 0xff}},
		{"RED", color.RGBA{0xff, 0, 0, 0xff}},
		{"#ff0000", color.NRGBA{0xff, 0, 0, 0xff}},
		{"#f00", color.NRGBA{0xff, 0, 0, 0xff}},
	} {
		got, err := ParseColor(tc.spec)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.spec, err)
		}
		gr, gg, gb, ga := got.RGBA()
		wr, wg, wb, wa := tc.want.RGBA()
		if gr != wr || gg != wg || gb != wb || ga != wa {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.spec, got, tc.want)
		}
	}

	for _, bad := range []string{"", "notacolor", "#12", "#xyzxyz"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseColor(%q): expected ErrBadColor, got %v", bad, err)
		}
	}
}

func TestRotateExpandGrowsCanvas(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 40))
	got := RotateExpand(src, 90)
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 100 {
		t.Errorf("90 degree rotation: got %v, want 40x100", got.Bounds())
	}

	got = RotateExpand(src, 45)
	if got.Bounds().Dx() <= 100 || got.Bounds().Dy() <= 40 {
		t.Errorf("45 degree rotation should expand both dimensions, got %v", got.Bounds())
	}
}

func TestRotateExpandOrientation(t *testing.T) {
	// A marker block near the top-left corner; 90 degrees counterclockwise
	// on screen sends (x, y) to (y, height-x).
	src := image.NewNRGBA(image.Rect(0, 0, 100, 40))
	for x := 8; x < 12; x++ {
		for y := 3; y < 7; y++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	got := RotateExpand(src, 90)
	if c := got.NRGBAAt(5, 90); c.R < 200 || c.A < 200 {
		t.Errorf("marker not found at rotated position, got %v", c)
	}
	if c := got.NRGBAAt(10, 5); c.A > 50 {
		t.Errorf("marker left at original position: %v", c)
	}
}

func TestLoadImageDownsamples(t *testing.T) {
	path := writePNG(t, 2000, 1000)
	r := New()

	img, err := r.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 500 || img.Bounds().Dy() != 250 {
		t.Errorf("expected 500x250 after downsample, got %v", img.Bounds())
	}

	full, err := r.LoadImageFull(path)
	if err != nil {
		t.Fatalf("LoadImageFull: %v", err)
	}
	if full.Bounds().Dx() != 2000 || full.Bounds().Dy() != 1000 {
		t.Errorf("full load must not downsample, got %v", full.Bounds())
	}
}

func TestLoadImageKeepsSmallSources(t *testing.T) {
	path := writePNG(t, 120, 80)
	img, err := New().LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Errorf("small image should be untouched, got %v", img.Bounds())
	}
}

func TestLoadImageErrors(t *testing.T) {
	r := New()
	if _, err := r.LoadImage(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, ErrImageLoad) {
		t.Errorf("missing file: expected ErrImageLoad, got %v", err)
	}

	corrupt := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadImage(corrupt); !errors.Is(err, ErrImageLoad) {
		t.Errorf("corrupt file: expected ErrImageLoad, got %v", err)
	}
}

func TestResampleClampsToOnePixel(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	got := New().Resample(src, 0, -3)
	if got.Bounds().Dx() != 1 || got.Bounds().Dy() != 1 {
		t.Errorf("expected 1x1, got %v", got.Bounds())
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	src.SetNRGBA(2, 2, color.NRGBA{R: 200, G: 10, B: 30, A: 255})

	data, err := New().EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("expected 8x4, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestFaceMissing(t *testing.T) {
	if _, err := New().Face(filepath.Join(t.TempDir(), "nope.ttf")); !errors.Is(err, ErrFontLoad) {
		t.Errorf("expected ErrFontLoad, got %v", err)
	}
}

func TestRenderText(t *testing.T) {
	fontPath := findTestFont(t)
	r := New()

	img, err := r.RenderText(TextSpec{
		Text:     "hello",
		FontPath: fontPath,
		FontSize: 12,
		Scale:    1.0,
		Color:    "red",
	})
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if img.Bounds().Dx() <= 20 || img.Bounds().Dy() <= 20 {
		t.Errorf("rendered text smaller than its padding: %v", img.Bounds())
	}

	again, err := r.RenderText(TextSpec{
		Text:     "hello",
		FontPath: fontPath,
		FontSize: 12,
		Scale:    1.0,
		Color:    "red",
	})
	if err != nil {
		t.Fatalf("second RenderText: %v", err)
	}
	if !samePixels(img, again) {
		t.Error("rendering the same spec twice must be pixel-identical")
	}

	doubled, err := r.RenderText(TextSpec{
		Text:     "hello",
		FontPath: fontPath,
		FontSize: 12,
		Scale:    2.0,
		Color:    "red",
	})
	if err != nil {
		t.Fatalf("scaled RenderText: %v", err)
	}
	if doubled.Bounds().Dx() <= img.Bounds().Dx() {
		t.Errorf("scale 2.0 should widen output: %v vs %v", doubled.Bounds(), img.Bounds())
	}
}

func TestShapeMyanmar(t *testing.T) {
	fontPath := findMyanmarFont(t)
	r := New()

	face, err := r.Face(fontPath)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	line := shapeLine(face, "မင်္ဂလာပါ", 24)
	if len(line.glyphs) == 0 {
		t.Fatal("Myanmar text shaped to zero glyphs")
	}
	if line.width <= 0 || line.ascent+line.descent <= 0 {
		t.Errorf("degenerate metrics: width=%d ascent=%d descent=%d", line.width, line.ascent, line.descent)
	}

	img, err := r.RenderText(TextSpec{
		Text:     "မင်္ဂလာပါ",
		FontPath: fontPath,
		FontSize: 24,
		Scale:    1.0,
		Color:    "black",
	})
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if img.Bounds().Dx() <= 20 || img.Bounds().Dy() <= 20 {
		t.Errorf("rendered Myanmar text smaller than its padding: %v", img.Bounds())
	}
}

func TestRenderTextLogsDuration(t *testing.T) {
	fontPath := findTestFont(t)
	var buf bytes.Buffer
	r := New(WithLogger(observability.NewTextLogger(&buf)))

	if _, err := r.RenderText(TextSpec{Text: "hi", FontPath: fontPath, FontSize: 12, Scale: 1, Color: "red"}); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(buf.String(), observability.MetricRenderTime) {
		t.Errorf("render duration metric missing from log: %q", buf.String())
	}
}

func TestRenderTextEmpty(t *testing.T) {
	r := New()
	if _, err := r.RenderText(TextSpec{Text: "", FontPath: "x.ttf", FontSize: 12, Scale: 1, Color: "red"}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	path := filepath.Join(t.TempDir(), "src.png")
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

func findTestFont(t *testing.T) string {
	t.Helper()
	candidates := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/Library/Fonts/Arial.ttf",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	t.Skip("no system TTF found for shaping test")
	return ""
}

func findMyanmarFont(t *testing.T) string {
	t.Helper()
	candidates := []string{
		"pyidaungsu.ttf",
		"/usr/share/fonts/truetype/padauk/Padauk-Regular.ttf",
		"/usr/share/fonts/truetype/padauk/Padauk.ttf",
		"/usr/share/fonts/padauk/Padauk-Regular.ttf",
		"/usr/share/fonts/TTF/Padauk-Regular.ttf",
		"/usr/share/fonts/truetype/noto/NotoSansMyanmar-Regular.ttf",
		"/usr/share/fonts/opentype/noto/NotoSansMyanmar-Regular.ttf",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	t.Skip("no Myanmar-capable font found for shaping test")
	return ""
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
