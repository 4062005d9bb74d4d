package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// LoadImage decodes an image file and eagerly downsamples it if either
// dimension exceeds the configured bound, preserving aspect ratio. The
// downsample is permanent for the returned buffer; the file on disk is
// untouched and can be re-read with LoadImageFull for export.
func (r *Renderer) LoadImage(path string) (*image.NRGBA, error) {
	img, err := r.LoadImageFull(path)
	if err != nil {
		return nil, err
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= r.maxImageDim && h <= r.maxImageDim {
		return img, nil
	}

	factor := float64(r.maxImageDim) / float64(w)
	if h > w {
		factor = float64(r.maxImageDim) / float64(h)
	}
	return r.Resample(img, int(float64(w)*factor), int(float64(h)*factor)), nil
}

// LoadImageFull decodes an image file at full resolution.
func (r *Renderer) LoadImageFull(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageLoad, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageLoad, path, err)
	}
	return toNRGBA(src), nil
}

// Resample scales src to exactly w x h with a high-quality filter.
func (r *Renderer) Resample(src *image.NRGBA, w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodePNG returns the PNG encoding of img, ready for backend insertion.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
