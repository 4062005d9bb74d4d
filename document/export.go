package document

import (
	"fmt"
	"time"

	"github.com/wudi/annotkit/annot"
	"github.com/wudi/annotkit/coords"
	"github.com/wudi/annotkit/observability"
)

// ExportPDF composites every annotation into the document at native PDF
// scale and writes the result. Text is re-rendered at scale 1.0 and its
// interactive rendering restored afterward, so the on-screen state is
// untouched by a save. Image annotations are re-read from their source
// files for full fidelity.
//
// Insertions accumulate in the backend's working document; exporting the
// same session twice needs a backend that snapshots per save (see
// Backend).
func (s *Session) ExportPDF(path string) error {
	start := time.Now()
	pages := 0
	for page := 0; page < s.annots.PageCount(); page++ {
		seq := s.annots.Page(page)
		if len(seq) == 0 {
			continue
		}
		pages++
		for _, a := range seq {
			if err := s.exportAnnotation(page, a); err != nil {
				return fmt.Errorf("%w: page %d: %v", ErrExport, page, err)
			}
		}
	}
	if err := s.backend.Save(path); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	s.logger.Info("document exported",
		observability.String("path", path),
		observability.Int(observability.MetricExportPages, pages),
		observability.Float64(observability.MetricExportTime, time.Since(start).Seconds()))
	return nil
}

func (s *Session) exportAnnotation(page int, a annot.Annotation) error {
	switch a := a.(type) {
	case *annot.Image:
		return s.exportImage(page, a)
	default:
		return s.exportRaster(page, a)
	}
}

// exportRaster renders an annotation at scale 1.0, inserts the PNG at its
// PDF-space rectangle, then restores the interactive rendering.
func (s *Session) exportRaster(page int, a annot.Annotation) error {
	if err := a.RenderAtScale(1.0); err != nil {
		return err
	}
	data, err := s.rend.EncodePNG(a.Image())
	if err != nil {
		return err
	}
	x, y := a.PDFOrigin()
	_, _, w, h := a.ScreenRect() // native pixels at scale 1.0
	rect := coords.Rect{X0: x, Y0: y, X1: x + float64(w), Y1: y + float64(h)}

	if err := s.backend.InsertImage(page, rect, data); err != nil {
		return err
	}
	return a.RenderAtScale(s.zoom)
}

// exportImage re-reads the original file so export fidelity is not
// limited by the load-time downsample.
func (s *Session) exportImage(page int, a *annot.Image) error {
	full, err := s.rend.LoadImageFull(a.Path())
	if err != nil {
		return err
	}
	w, h := a.PDFSize()
	resized := s.rend.Resample(full, int(w), int(h))
	data, err := s.rend.EncodePNG(resized)
	if err != nil {
		return err
	}
	x, y := a.PDFOrigin()
	rect := coords.Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
	return s.backend.InsertImage(page, rect, data)
}
