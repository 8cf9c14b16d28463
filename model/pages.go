package model

import (
	"errors"
	"iter"
)

var ErrNoPage = errors.New("page not found")

// PageRef is a page together with its place in the document.
type PageRef struct {
	Node  *Node
	Index int
	// Pos is position right before the page.
	Pos int
}

func (p PageRef) Num() int { return p.Node.Num() }

func (p PageRef) Header() *Node  { return p.Node.Child(0) }
func (p PageRef) Content() *Node { return p.Node.Child(1) }
func (p PageRef) Footer() *Node  { return p.Node.Child(2) }

// End is position right after the page.
func (p PageRef) End() int { return p.Pos + p.Node.Size() }

// ContentStart is position of the first block inside content part.
func (p PageRef) ContentStart() int {
	return p.Pos + 1 + p.Header().Size() + 1
}

// PlaceholderPos is position right before the placeholder.
func (p PageRef) PlaceholderPos() int {
	return p.ContentStart() + p.Content().ContentSize() - 1
}

// Blocks returns content blocks, placeholder excluded.
func (p PageRef) Blocks() []BlockRef {
	var (
		out   []BlockRef
		start = p.ContentStart()
	)
	for off, n := range p.Content().Content().All() {
		if n.kind == NodeKindPlaceholder {
			break
		}
		out = append(out, BlockRef{Node: n, Index: len(out), Pos: start + off})
	}
	return out
}

// Empty reports whether page content holds nothing but placeholder.
func (p PageRef) Empty() bool {
	return p.Content().ChildCount() <= 1
}

// FirstBlock returns first real content block.
func (p PageRef) FirstBlock() (BlockRef, bool) {
	if p.Empty() {
		return BlockRef{}, false
	}
	return BlockRef{Node: p.Content().Child(0), Pos: p.ContentStart()}, true
}

// LastBlock returns last real content block.
func (p PageRef) LastBlock() (BlockRef, bool) {
	if p.Empty() {
		return BlockRef{}, false
	}
	c := p.Content()
	n := c.Child(c.ChildCount() - 2)
	return BlockRef{Node: n, Index: c.ChildCount() - 2, Pos: p.PlaceholderPos() - n.Size()}, true
}

// BlockRef is content block with the position right before it.
type BlockRef struct {
	Node  *Node
	Index int
	Pos   int
}

// Start is position where block content starts.
func (b BlockRef) Start() int { return b.Pos + 1 }

// End is position where block content ends.
func (b BlockRef) End() int { return b.Pos + 1 + b.Node.ContentSize() }

// After is position right after the block.
func (b BlockRef) After() int { return b.Pos + b.Node.Size() }

// Pages iterates over document pages in order.
func Pages(doc *Node) iter.Seq[PageRef] {
	return func(yield func(PageRef) bool) {
		i := 0
		for pos, n := range doc.content.All() {
			if !yield(PageRef{Node: n, Index: i, Pos: pos}) {
				return
			}
			i++
		}
	}
}

func PageCount(doc *Node) int { return doc.ChildCount() }

// FindPage looks up page by number. Pages are normally numbered by their
// index so this is checked first.
func FindPage(doc *Node, num int) (PageRef, bool) {
	if i := num - 1; i >= 0 && i < doc.ChildCount() && doc.Child(i).Num() == num {
		pos := 0
		for j := range i {
			pos += doc.Child(j).Size()
		}
		return PageRef{Node: doc.Child(i), Index: i, Pos: pos}, true
	}
	for p := range Pages(doc) {
		if p.Num() == num {
			return p, true
		}
	}
	return PageRef{}, false
}

// PageAt returns number of the page containing position, 0 when position
// is between pages or does not exist.
func PageAt(doc *Node, pos int) int {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return 0
	}
	return rp.PageNum()
}

// Textblocks iterates over all textblocks inside page content parts with
// the positions right before them.
func Textblocks(doc *Node) iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		for p := range Pages(doc) {
			for _, b := range p.Blocks() {
				if b.Node.IsTextblock() && !yield(b.Pos, b.Node) {
					return
				}
			}
		}
	}
}
