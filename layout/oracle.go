// Package layout is the measurement side of pagination: it knows how tall
// rendered page content is and how tall any block would be if rendered on
// its own.
package layout

import (
	"errors"

	"pager/model"
)

var (
	ErrMissingTarget = errors.New("page is not rendered")
	ErrSurfaceBusy   = errors.New("measurement surface already holds a clone")
	ErrSurfaceEmpty  = errors.New("measurement surface holds nothing")
)

// Metrics describes rendered content container of a page.
type Metrics struct {
	// ScrollHeight is height of everything inside container.
	ScrollHeight float64
	// ClientHeight is height of the container box.
	ClientHeight float64
	// PlaceholderHeight is rendered height of the trailing placeholder, it
	// takes all space left after real blocks.
	PlaceholderHeight float64
}

// Overflowing reports that content does not fit: there is no room left for
// placeholder and content is taller than the box.
func (m Metrics) Overflowing() bool {
	return m.PlaceholderHeight <= 0 && m.ScrollHeight > m.ClientHeight
}

// OverflowHeight is how much content exceeds the box.
func (m Metrics) OverflowHeight() float64 {
	return max(0, m.ScrollHeight-m.ClientHeight)
}

// Slack is free space below the last block.
func (m Metrics) Slack() float64 {
	return max(0, m.PlaceholderHeight)
}

// Oracle renders document pages and measures them. All methods are
// synchronous, whatever oracle does internally is invisible to the caller.
type Oracle interface {
	// Render lays out document and rebuilds page handle table.
	Render(doc *model.Node) error
	// Page returns handle of the rendered page.
	Page(num int) (PageHandle, error)
	// Overflow measures content container of the rendered page.
	Overflow(num int) (Metrics, error)
	// MeasureClone returns height block would have if rendered alone in a
	// container of the given width.
	MeasureClone(block *model.Node, widthHint float64) (float64, error)
}
