// Package store keeps the per-page annotation sequences for one loaded
// document. Insertion order is z-order: later annotations draw on top and
// are hit-tested first. The store also tracks the single selected
// annotation; at most one is selected across the whole document.
package store

import (
	"image"

	"github.com/wudi/annotkit/annot"
)

// PageStore maps zero-based page indices to ordered annotation sequences.
// It is created when a document loads and discarded wholesale when a new
// document replaces it.
type PageStore struct {
	pages    [][]annot.Annotation
	selected annot.Annotation
}

// NewPageStore returns a store with one empty sequence per page.
func NewPageStore(pageCount int) *PageStore {
	if pageCount < 0 {
		pageCount = 0
	}
	return &PageStore{pages: make([][]annot.Annotation, pageCount)}
}

// PageCount returns the number of page sequences.
func (s *PageStore) PageCount() int { return len(s.pages) }

// Len returns the number of annotations on a page, zero for out-of-range
// indices.
func (s *PageStore) Len(page int) int {
	if !s.valid(page) {
		return 0
	}
	return len(s.pages[page])
}

// Page returns the page's annotations in z-order. The returned slice is
// the store's own; callers must not mutate it.
func (s *PageStore) Page(page int) []annot.Annotation {
	if !s.valid(page) {
		return nil
	}
	return s.pages[page]
}

// Add appends an annotation to the top of a page's z-order. Out-of-range
// pages are a no-op.
func (s *PageStore) Add(page int, a annot.Annotation) {
	if !s.valid(page) || a == nil {
		return
	}
	s.pages[page] = append(s.pages[page], a)
}

// Remove deletes an annotation from a page by identity. Unknown pages or
// annotations are a silent no-op. Removing the selection clears it.
func (s *PageStore) Remove(page int, a annot.Annotation) {
	if !s.valid(page) {
		return
	}
	seq := s.pages[page]
	for i, cur := range seq {
		if cur == a {
			s.pages[page] = append(seq[:i], seq[i+1:]...)
			if s.selected == a {
				a.SetSelected(false)
				s.selected = nil
			}
			return
		}
	}
}

// HitTest returns the topmost annotation containing the point, scanning
// the page in reverse insertion order, or nil.
func (s *PageStore) HitTest(page int, p image.Point) annot.Annotation {
	if !s.valid(page) {
		return nil
	}
	seq := s.pages[page]
	for i := len(seq) - 1; i >= 0; i-- {
		if seq[i].ContainsPoint(p) {
			return seq[i]
		}
	}
	return nil
}

// Select makes a the sole selected annotation, deselecting any previous
// one first. Passing nil clears the selection.
func (s *PageStore) Select(a annot.Annotation) {
	if s.selected != nil {
		s.selected.SetSelected(false)
	}
	s.selected = a
	if a != nil {
		a.SetSelected(true)
	}
}

// Selected returns the current selection, or nil.
func (s *PageStore) Selected() annot.Annotation { return s.selected }

// Export returns the ordered records for a page, for template saving and
// status queries.
func (s *PageStore) Export(page int) []annot.Record {
	if !s.valid(page) {
		return nil
	}
	records := make([]annot.Record, 0, len(s.pages[page]))
	for _, a := range s.pages[page] {
		records = append(records, a.Record())
	}
	return records
}

func (s *PageStore) valid(page int) bool {
	return page >= 0 && page < len(s.pages)
}
