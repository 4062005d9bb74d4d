package scripting

import (
	"context"

	"github.com/wudi/annotkit/annot"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the open session.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM registers the session object model with the engine.
	RegisterDOM(dom SessionDOM) error
}

// SessionDOM exposes the annotation session to the scripting engine.
// It provides a safe, controlled API for scripts to drive the document:
// navigation, placement and template batches, but no raw file access.
type SessionDOM interface {
	// PageCount returns the number of pages in the open document.
	PageCount() int

	// CurrentPage returns the visible page index (0-based).
	CurrentPage() int

	// GoToPage switches the visible page; out-of-range indices are ignored.
	GoToPage(index int)

	// AddText places a text annotation centered on a screen point.
	AddText(cfg annot.TextConfig, x, y int) error

	// AddImage places an image annotation centered on a screen point.
	AddImage(path string, x, y int) error

	// ApplyRecords instantiates template records onto the current page
	// and returns how many applied.
	ApplyRecords(records []annot.Record) int

	// Records returns the current page's annotations in serializable form.
	Records() []annot.Record

	// Alert shows an alert dialog (if supported by the viewer/runner).
	Alert(message string)
}
