package model

import (
	"iter"
	"slices"
)

// Fragment is an immutable sequence of sibling nodes.
type Fragment struct {
	nodes []*Node
	size  int
}

// NewFragment builds fragment normalizing inline content: empty text nodes
// are dropped, adjacent text nodes with identical marks are joined.
func NewFragment(nodes ...*Node) Fragment {
	var (
		out  = make([]*Node, 0, len(nodes))
		size int
	)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.kind == NodeKindText {
			if n.runes == 0 {
				continue
			}
			if last := len(out) - 1; last >= 0 && out[last].kind == NodeKindText && slices.Equal(out[last].marks, n.marks) {
				joined := &Node{kind: NodeKindText, text: out[last].text + n.text, runes: out[last].runes + n.runes, marks: n.marks}
				out[last] = joined
				size += n.runes
				continue
			}
		}
		out = append(out, n)
		size += n.Size()
	}
	return Fragment{nodes: out, size: size}
}

func (f Fragment) Size() int { return f.size }
func (f Fragment) Len() int  { return len(f.nodes) }

func (f Fragment) Child(i int) *Node { return f.nodes[i] }

// All iterates over children together with their offsets in the fragment.
func (f Fragment) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		pos := 0
		for _, n := range f.nodes {
			if !yield(pos, n) {
				return
			}
			pos += n.Size()
		}
	}
}

func (f Fragment) Nodes() []*Node { return slices.Clone(f.nodes) }

// Append returns fragment with other's nodes following f's.
func (f Fragment) Append(other Fragment) Fragment {
	if other.Len() == 0 {
		return f
	}
	if f.Len() == 0 {
		return other
	}
	return NewFragment(append(slices.Clone(f.nodes), other.nodes...)...)
}

// Cut returns part of the fragment between from and to. Nodes crossing the
// boundaries are cut as well.
func (f Fragment) Cut(from, to int) Fragment {
	from, to = max(0, from), min(f.size, to)
	if from == 0 && to == f.size {
		return f
	}
	var out []*Node
	for pos, child := range f.All() {
		if pos >= to {
			break
		}
		end := pos + child.Size()
		if end <= from {
			continue
		}
		switch {
		case child.kind == NodeKindText:
			child = child.cutText(from-pos, to-pos)
		case pos < from || end > to:
			child = child.Cut(from-pos-1, to-pos-1)
		}
		out = append(out, child)
	}
	return NewFragment(out...)
}

// ReplaceChild returns fragment with i-th node replaced.
func (f Fragment) ReplaceChild(i int, n *Node) Fragment {
	nodes := slices.Clone(f.nodes)
	nodes[i] = n
	return NewFragment(nodes...)
}

// findIndex returns index of the child at or containing pos together with
// offset of that child. Positions at fragment end give (Len(), size).
func (f Fragment) findIndex(pos int) (int, int) {
	if pos == 0 {
		return 0, 0
	}
	if pos == f.size {
		return len(f.nodes), f.size
	}
	for i, cur := 0, 0; i < len(f.nodes); i++ {
		end := cur + f.nodes[i].Size()
		if end > pos {
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

func (f Fragment) Eq(o Fragment) bool {
	if f.size != o.size || len(f.nodes) != len(o.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Eq(o.nodes[i]) {
			return false
		}
	}
	return true
}
