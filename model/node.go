// Package model is the immutable paged document tree: nodes addressed by flat
// integer positions, steps changing the tree and mappings carrying positions
// from old tree to the new one.
//
// Document shape is fixed:
//
//	doc -> page+ (num)
//	page -> header, content, footer
//	header, footer -> (paragraph | heading)*
//	content -> (paragraph | heading)* placeholder
//	paragraph, heading -> text*
//
// Text node occupies one position per rune, placeholder is an atom taking a
// single position, every other node takes two positions (open and close) plus
// its content.
package model

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Attrs keeps typed node attributes. Only fields relevant to node kind are
// meaningful: Num for pages, Level for headings, ID for paragraphs.
type Attrs struct {
	Num   int
	Level int
	ID    uuid.NullUUID
}

// Node is a single immutable document node. Never modify node in place, use
// With* methods which return copies.
type Node struct {
	kind    NodeKind
	attrs   Attrs
	content Fragment
	text    string
	runes   int
	marks   []string
}

// Text creates text node. Marks are opaque to pagination and only have to
// match for two adjacent text nodes to be joined.
func Text(s string, marks ...string) *Node {
	m := slices.Clone(marks)
	slices.Sort(m)
	return &Node{kind: NodeKindText, text: s, runes: utf8.RuneCountInString(s), marks: slices.Compact(m)}
}

// Paragraph creates paragraph. Identity is optional - pass uuid.NullUUID{} for
// paragraph without one.
func Paragraph(id uuid.NullUUID, inline ...*Node) *Node {
	return &Node{kind: NodeKindParagraph, attrs: Attrs{ID: id}, content: NewFragment(inline...)}
}

// Heading creates heading of the given level.
func Heading(level int, inline ...*Node) *Node {
	return &Node{kind: NodeKindHeading, attrs: Attrs{Level: level}, content: NewFragment(inline...)}
}

// Placeholder creates content terminating sentinel.
func Placeholder() *Node {
	return &Node{kind: NodeKindPlaceholder}
}

func Header(blocks ...*Node) *Node {
	return &Node{kind: NodeKindHeader, content: NewFragment(blocks...)}
}

func Footer(blocks ...*Node) *Node {
	return &Node{kind: NodeKindFooter, content: NewFragment(blocks...)}
}

// Content creates page content part. Placeholder is appended when blocks do
// not end with one.
func Content(blocks ...*Node) *Node {
	if len(blocks) == 0 || blocks[len(blocks)-1].kind != NodeKindPlaceholder {
		blocks = append(slices.Clone(blocks), Placeholder())
	}
	return &Node{kind: NodeKindContent, content: NewFragment(blocks...)}
}

func Page(num int, header, content, footer *Node) *Node {
	return &Node{kind: NodeKindPage, attrs: Attrs{Num: num}, content: NewFragment(header, content, footer)}
}

func Doc(pages ...*Node) *Node {
	return &Node{kind: NodeKindDoc, content: NewFragment(pages...)}
}

// NewNode creates node of arbitrary kind. It exists for loaders and tests
// which need to build documents not passing validation.
func NewNode(kind NodeKind, attrs Attrs, children ...*Node) *Node {
	return &Node{kind: kind, attrs: attrs, content: NewFragment(children...)}
}

func (n *Node) Kind() NodeKind { return n.kind }
func (n *Node) Attrs() Attrs   { return n.attrs }
func (n *Node) Num() int       { return n.attrs.Num }
func (n *Node) Level() int     { return n.attrs.Level }

// ID returns paragraph identity, Valid is false when there is none.
func (n *Node) ID() uuid.NullUUID { return n.attrs.ID }

func (n *Node) Marks() []string { return slices.Clone(n.marks) }

func (n *Node) Content() Fragment { return n.content }

func (n *Node) ChildCount() int { return n.content.Len() }

func (n *Node) Child(i int) *Node { return n.content.Child(i) }

func (n *Node) FirstChild() *Node {
	if n.content.Len() == 0 {
		return nil
	}
	return n.content.Child(0)
}

func (n *Node) LastChild() *Node {
	if n.content.Len() == 0 {
		return nil
	}
	return n.content.Child(n.content.Len() - 1)
}

func (n *Node) IsText() bool { return n.kind == NodeKindText }

// IsTextblock reports whether node directly holds inline content.
func (n *Node) IsTextblock() bool {
	return n.kind == NodeKindParagraph || n.kind == NodeKindHeading
}

func (n *Node) IsLeaf() bool {
	return n.kind == NodeKindText || n.kind == NodeKindPlaceholder
}

// Size is number of positions node occupies in its parent.
func (n *Node) Size() int {
	switch n.kind {
	case NodeKindText:
		return n.runes
	case NodeKindPlaceholder:
		return 1
	default:
		return n.content.size + 2
	}
}

// ContentSize is number of positions inside the node.
func (n *Node) ContentSize() int {
	if n.IsLeaf() {
		return 0
	}
	return n.content.size
}

// TextContent returns node text, for containers text of all descendants
// concatenated.
func (n *Node) TextContent() string {
	if n.kind == NodeKindText {
		return n.text
	}
	var sb strings.Builder
	for _, c := range n.content.nodes {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// WithContent returns copy of the node with content replaced.
func (n *Node) WithContent(f Fragment) *Node {
	c := *n
	c.content = f
	return &c
}

// WithAttrs returns copy of the node with attributes replaced.
func (n *Node) WithAttrs(a Attrs) *Node {
	c := *n
	c.attrs = a
	return &c
}

// WithID returns copy of the node with identity replaced.
func (n *Node) WithID(id uuid.NullUUID) *Node {
	a := n.attrs
	a.ID = id
	return n.WithAttrs(a)
}

// WithNum returns copy of the node with page number replaced.
func (n *Node) WithNum(num int) *Node {
	a := n.attrs
	a.Num = num
	return n.WithAttrs(a)
}

// Cut returns node with content limited to [from, to) range of its inner
// positions. For text nodes positions are rune offsets.
func (n *Node) Cut(from, to int) *Node {
	if n.kind == NodeKindText {
		return n.cutText(from, to)
	}
	if n.IsLeaf() {
		return n
	}
	return n.WithContent(n.content.Cut(from, to))
}

func (n *Node) cutText(from, to int) *Node {
	from, to = max(0, from), min(n.runes, to)
	if from == 0 && to == n.runes {
		return n
	}
	if from >= to {
		return &Node{kind: NodeKindText, marks: n.marks}
	}
	r := []rune(n.text)
	s := string(r[from:to])
	return &Node{kind: NodeKindText, text: s, runes: to - from, marks: n.marks}
}

func (n *Node) sameMarkup(o *Node) bool {
	return n.kind == o.kind && n.attrs == o.attrs && slices.Equal(n.marks, o.marks)
}

// Eq reports structural equality of two subtrees.
func (n *Node) Eq(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || !n.sameMarkup(o) {
		return false
	}
	if n.kind == NodeKindText {
		return n.text == o.text
	}
	return n.content.Eq(o.content)
}
