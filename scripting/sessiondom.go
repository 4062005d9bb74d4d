package scripting

import (
	"image"

	"github.com/wudi/annotkit/annot"
	"github.com/wudi/annotkit/document"
)

// sessionDOM adapts a document session to the scripting surface.
type sessionDOM struct {
	session *document.Session
	alert   func(string)
}

// NewSessionDOM wraps a session for script access. The alert callback may
// be nil, in which case alerts are dropped.
func NewSessionDOM(s *document.Session, alert func(string)) SessionDOM {
	return &sessionDOM{session: s, alert: alert}
}

func (d *sessionDOM) PageCount() int     { return d.session.PageCount() }
func (d *sessionDOM) CurrentPage() int   { return d.session.CurrentPage() }
func (d *sessionDOM) GoToPage(index int) { d.session.GoToPage(index) }

func (d *sessionDOM) AddText(cfg annot.TextConfig, x, y int) error {
	_, err := d.session.AddTextAt(cfg, image.Pt(x, y))
	return err
}

func (d *sessionDOM) AddImage(path string, x, y int) error {
	_, err := d.session.AddImageAt(path, image.Pt(x, y))
	return err
}

func (d *sessionDOM) ApplyRecords(records []annot.Record) int {
	applied, _ := d.session.ApplyTemplates(records)
	return applied
}

func (d *sessionDOM) Records() []annot.Record {
	return d.session.CurrentRecords()
}

func (d *sessionDOM) Alert(message string) {
	if d.alert != nil {
		d.alert(message)
	}
}
