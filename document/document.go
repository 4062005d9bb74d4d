// Package document ties a loaded PDF, its annotation store and the view
// state (current page, zoom, selection) into one session. The PDF
// rasterizer/writer itself sits behind the Backend interface; the session
// owns everything above it.
package document

import (
	"errors"
	"fmt"
	"image"

	"github.com/wudi/annotkit/annot"
	"github.com/wudi/annotkit/coords"
	"github.com/wudi/annotkit/observability"
	"github.com/wudi/annotkit/store"
)

var (
	// ErrDocumentLoad reports a corrupt or unreadable source PDF. Backend
	// constructors wrap their failures with it.
	ErrDocumentLoad = errors.New("document load failed")
	// ErrExport reports a failure writing the output PDF.
	ErrExport = errors.New("export failed")
	// ErrNoSelection reports an edit operation with no suitable annotation
	// selected.
	ErrNoSelection = errors.New("no text annotation selected")
)

// Backend is the collaborator surface consumed from the PDF library:
// rasterize pages for display, composite raster overlays, write the
// result. Implementations are synchronous and assumed correct.
//
// InsertImage mutates the backend's working document, so one backend
// instance supports one export. Implementations that allow repeated
// saves must apply insertions to a copy of the pristine document, the
// way a viewer saves a duplicate rather than its open file.
type Backend interface {
	PageCount() int
	RenderPage(index int, scale float64) (*image.NRGBA, error)
	InsertImage(index int, rect coords.Rect, png []byte) error
	Save(path string) error
}

// DefaultZoom is the initial display scale factor.
const DefaultZoom = 2.0

// ThumbnailScale is the rasterization scale for page thumbnails.
const ThumbnailScale = 0.15

// Session is the single-threaded controller for one open document. All
// mutation and rendering happens synchronously on the caller's event
// goroutine; the session holds no locks and shares nothing.
type Session struct {
	backend Backend
	rend    annot.Renderer
	annots  *store.PageStore
	logger  observability.Logger
	page    int
	zoom    float64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default is NopLogger.
func WithLogger(l observability.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithZoom sets the initial scale factor.
func WithZoom(zoom float64) Option {
	return func(s *Session) {
		if zoom > 0 {
			s.zoom = zoom
		}
	}
}

// NewSession builds a session over an opened backend, with one empty
// annotation sequence per page. The previous session's store (if any) is
// simply dropped by the caller; nothing is shared between documents.
func NewSession(backend Backend, rend annot.Renderer, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		rend:    rend,
		annots:  store.NewPageStore(backend.PageCount()),
		logger:  observability.NopLogger{},
		zoom:    DefaultZoom,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("document loaded", observability.Int(observability.MetricPageCount, backend.PageCount()))
	return s
}

// Annotations exposes the page store.
func (s *Session) Annotations() *store.PageStore { return s.annots }

func (s *Session) PageCount() int   { return s.backend.PageCount() }
func (s *Session) CurrentPage() int { return s.page }
func (s *Session) Zoom() float64    { return s.zoom }

// GoToPage switches the visible page; out-of-range indices are ignored.
// Selection is not per-page: it survives page switches until something
// else is selected or deleted.
func (s *Session) GoToPage(index int) {
	if index >= 0 && index < s.backend.PageCount() {
		s.page = index
	}
}

func (s *Session) NextPage() { s.GoToPage(s.page + 1) }
func (s *Session) PrevPage() { s.GoToPage(s.page - 1) }

// Thumbnail renders one page small, for a navigation strip. Annotations
// are not composited onto thumbnails.
func (s *Session) Thumbnail(page int) (*image.NRGBA, error) {
	if page < 0 || page >= s.backend.PageCount() {
		return nil, fmt.Errorf("thumbnail page %d out of range", page)
	}
	return s.backend.RenderPage(page, ThumbnailScale)
}

func (s *Session) ZoomIn()  { s.zoom *= 1.2 }
func (s *Session) ZoomOut() { s.zoom /= 1.2 }

// AddTextAt creates a text annotation centered on a screen-space click
// point. The config's X/Y are ignored; position comes from the point.
// Nothing is added on failure.
func (s *Session) AddTextAt(cfg annot.TextConfig, pt image.Point) (*annot.Text, error) {
	txt, err := annot.NewText(s.rend, cfg)
	if err != nil {
		return nil, err
	}
	// The construction render at scale 1.0 gives the native size used
	// for centering.
	_, _, nw, nh := txt.ScreenRect()
	txt.MoveTo(
		coords.ToPDF(pt.X, s.zoom)-float64(nw)/2,
		coords.ToPDF(pt.Y, s.zoom)-float64(nh)/2,
	)
	if err := txt.RenderAtScale(s.zoom); err != nil {
		return nil, err
	}
	s.annots.Add(s.page, txt)
	return txt, nil
}

// AddImageAt creates an image annotation centered on a screen-space click
// point at its natural (possibly downsampled) size.
func (s *Session) AddImageAt(path string, pt image.Point) (*annot.Image, error) {
	img, err := annot.NewImage(s.rend, annot.ImageConfig{Path: path})
	if err != nil {
		return nil, err
	}
	pw, ph := img.PDFSize()
	img.MoveTo(
		coords.ToPDF(pt.X, s.zoom)-pw/2,
		coords.ToPDF(pt.Y, s.zoom)-ph/2,
	)
	if err := img.RenderAtScale(s.zoom); err != nil {
		return nil, err
	}
	s.annots.Add(s.page, img)
	return img, nil
}

// selectedText returns the selection as a text annotation, or
// ErrNoSelection when nothing (or an image) is selected.
func (s *Session) selectedText() (*annot.Text, error) {
	txt, ok := s.annots.Selected().(*annot.Text)
	if !ok {
		return nil, ErrNoSelection
	}
	return txt, nil
}

// EditSelectedText replaces the selected text annotation's content and
// re-renders it at the session zoom.
func (s *Session) EditSelectedText(text string) error {
	txt, err := s.selectedText()
	if err != nil {
		return err
	}
	return txt.SetText(text)
}

// SetSelectedColor changes the selected text annotation's color.
func (s *Session) SetSelectedColor(color string) error {
	txt, err := s.selectedText()
	if err != nil {
		return err
	}
	return txt.SetColor(color)
}

// SetSelectedFontSize changes the selected text annotation's point size.
func (s *Session) SetSelectedFontSize(size int) error {
	txt, err := s.selectedText()
	if err != nil {
		return err
	}
	return txt.SetFontSize(size)
}

// SetSelectedRotation changes the selected text annotation's rotation.
func (s *Session) SetSelectedRotation(degrees int) error {
	txt, err := s.selectedText()
	if err != nil {
		return err
	}
	return txt.SetRotation(degrees)
}

// DeleteSelected removes the selected annotation from the current page.
// With nothing selected it is a no-op.
func (s *Session) DeleteSelected() {
	s.annots.Remove(s.page, s.annots.Selected())
}

// CurrentRecords returns the current page's annotations in serializable
// form.
func (s *Session) CurrentRecords() []annot.Record {
	return s.annots.Export(s.page)
}

// ApplyTemplates instantiates template records onto the current page at
// the session zoom. A failing record is reported and skipped; the rest of
// the batch still applies.
func (s *Session) ApplyTemplates(records []annot.Record) (int, []error) {
	var errs []error
	applied := 0
	for i, rec := range records {
		a, err := annot.FromRecord(s.rend, rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if err := a.RenderAtScale(s.zoom); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		s.annots.Add(s.page, a)
		applied++
	}
	s.logger.Info("templates applied",
		observability.Int(observability.MetricTemplateCount, applied),
		observability.Int("failed", len(errs)))
	return applied, errs
}
