package layout

import (
	"fmt"

	"pager/model"
)

// Box is size of page content container.
type Box struct {
	Width  float64
	Height float64
}

// PageHandle points to rendered page.
type PageHandle struct {
	Num   int
	Index int
	// Pos is document position right before the page.
	Pos int
	// ContentPos is position of the first content block.
	ContentPos int
	Box        Box
	// Blocks keeps rendered heights of content blocks, placeholder
	// excluded.
	Blocks []float64
}

// Used is total height of rendered blocks.
func (h PageHandle) Used() float64 {
	var sum float64
	for _, b := range h.Blocks {
		sum += b
	}
	return sum
}

// Handles is page table filled once per render, indexed by page number.
type Handles struct {
	pages []PageHandle
	index map[int]int
}

// NewHandles builds table for the document, every page gets the same box.
// Block heights are left for the renderer to fill.
func NewHandles(doc *model.Node, box Box) *Handles {
	h := &Handles{index: make(map[int]int, model.PageCount(doc))}
	for p := range model.Pages(doc) {
		h.index[p.Num()] = len(h.pages)
		h.pages = append(h.pages, PageHandle{
			Num:        p.Num(),
			Index:      p.Index,
			Pos:        p.Pos,
			ContentPos: p.ContentStart(),
			Box:        box,
		})
	}
	return h
}

func (h *Handles) Len() int {
	if h == nil {
		return 0
	}
	return len(h.pages)
}

// Get returns handle of the page with given number.
func (h *Handles) Get(num int) (PageHandle, error) {
	if h == nil {
		return PageHandle{}, fmt.Errorf("page %d: %w", num, ErrMissingTarget)
	}
	i, ok := h.index[num]
	if !ok {
		return PageHandle{}, fmt.Errorf("page %d: %w", num, ErrMissingTarget)
	}
	return h.pages[i], nil
}

func (h *Handles) set(num int, blocks []float64) {
	if i, ok := h.index[num]; ok {
		h.pages[i].Blocks = blocks
	}
}
