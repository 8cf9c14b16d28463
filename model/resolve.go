package model

import (
	"fmt"
)

type pathEntry struct {
	node  *Node
	index int
	start int
}

// ResolvedPos is a position together with the chain of ancestors it lives in.
type ResolvedPos struct {
	Pos          int
	ParentOffset int
	path         []pathEntry
}

// Resolve locates position in the document.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.content.size {
		return nil, fmt.Errorf("position %d out of range [0, %d]: %w", pos, n.content.size, ErrOutOfRange)
	}
	var (
		path   []pathEntry
		start  int
		offset = pos
		node   = n
	)
	for {
		idx, at := node.content.findIndex(offset)
		rem := offset - at
		path = append(path, pathEntry{node: node, index: idx, start: start})
		if rem == 0 {
			break
		}
		child := node.content.Child(idx)
		if child.IsLeaf() {
			break
		}
		node = child
		offset = rem - 1
		start += at + 1
	}
	return &ResolvedPos{Pos: pos, ParentOffset: offset, path: path}, nil
}

// Depth is number of ancestors above the parent, document itself is depth 0.
func (r *ResolvedPos) Depth() int { return len(r.path) - 1 }

// Node returns ancestor at depth d.
func (r *ResolvedPos) Node(d int) *Node { return r.path[d].node }

// Index returns index of the child at depth d the position points into.
func (r *ResolvedPos) Index(d int) int { return r.path[d].index }

// Start returns position where content of the ancestor at depth d starts.
func (r *ResolvedPos) Start(d int) int { return r.path[d].start }

// End returns position where content of the ancestor at depth d ends.
func (r *ResolvedPos) End(d int) int {
	return r.path[d].start + r.path[d].node.ContentSize()
}

// Before returns position right before ancestor at depth d (d > 0).
func (r *ResolvedPos) Before(d int) int { return r.Start(d) - 1 }

// After returns position right after ancestor at depth d (d > 0).
func (r *ResolvedPos) After(d int) int { return r.End(d) + 1 }

func (r *ResolvedPos) Parent() *Node { return r.path[len(r.path)-1].node }

// NodeAfter returns node directly after position if any. Inside text this
// is the remainder of the text node.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	idx, at := parent.content.findIndex(r.ParentOffset)
	if idx >= parent.content.Len() {
		return nil
	}
	child := parent.content.Child(idx)
	if d := r.ParentOffset - at; d > 0 {
		return child.cutText(d, child.runes)
	}
	return child
}

// PageNum returns number of the page position is in, 0 when position lies
// between pages.
func (r *ResolvedPos) PageNum() int {
	if r.Depth() < 1 {
		return 0
	}
	return r.Node(1).Num()
}

// InContent reports whether position is inside page content part.
func (r *ResolvedPos) InContent() bool {
	return r.Depth() >= 2 && r.Node(2).kind == NodeKindContent
}

// InTextblock reports whether position is valid cursor position.
func (r *ResolvedPos) InTextblock() bool {
	return r.Parent().IsTextblock()
}
