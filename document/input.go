package document

import (
	"image"

	"github.com/wudi/annotkit/annot"
)

// Tool is the active pointer mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolText
	ToolImage
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolText:
		return "text"
	case ToolImage:
		return "image"
	default:
		return "unknown"
	}
}

// Pointer is the explicit input state machine for the select/drag/resize
// interactions. It owns no annotation state of its own; everything lives
// in the session it was built for.
type Pointer struct {
	session  *Session
	tool     Tool
	dragging bool
	resizing bool
	last     image.Point

	// place is invoked for a press with the text or image tool; the
	// frontend collects content (text properties, a file path) and calls
	// back into the session. After placement the tool reverts to select.
	place func(Tool, image.Point)
}

// NewPointer returns a pointer handler in select mode.
func NewPointer(s *Session) *Pointer {
	return &Pointer{session: s}
}

func (p *Pointer) Tool() Tool        { return p.tool }
func (p *Pointer) SetTool(tool Tool) { p.tool = tool }

// OnPlace registers the placement callback for the text and image tools.
func (p *Pointer) OnPlace(fn func(Tool, image.Point)) { p.place = fn }

// Press handles a primary-button press at a screen point.
func (p *Pointer) Press(pt image.Point) {
	switch p.tool {
	case ToolSelect:
		p.pressSelect(pt)
	case ToolText, ToolImage:
		if p.place != nil {
			p.place(p.tool, pt)
		}
		p.tool = ToolSelect
	}
}

func (p *Pointer) pressSelect(pt image.Point) {
	annots := p.session.Annotations()

	// A press on the selected image's resize handle starts a resize
	// without changing the selection.
	if img, ok := annots.Selected().(*annot.Image); ok && img.OnResizeHandle(pt) {
		p.resizing = true
		p.last = pt
		return
	}

	hit := annots.HitTest(p.session.CurrentPage(), pt)
	annots.Select(hit)
	if hit != nil {
		p.dragging = true
		p.last = pt
	}
}

// Move handles pointer motion while pressed (or hovering; motion without
// an active drag or resize is ignored).
func (p *Pointer) Move(pt image.Point) {
	annots := p.session.Annotations()
	selected := annots.Selected()

	switch {
	case p.dragging && selected != nil:
		selected.Move(pt.X-p.last.X, pt.Y-p.last.Y)
		p.last = pt
	case p.resizing:
		if img, ok := selected.(*annot.Image); ok {
			x, y, _, _ := img.ScreenRect()
			img.Resize(pt.X-x, pt.Y-y)
		}
	}
}

// Release ends any drag or resize in progress.
func (p *Pointer) Release() {
	p.dragging = false
	p.resizing = false
	p.last = image.Point{}
}
