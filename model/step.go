package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrOutOfRange   = errors.New("position out of range")
	ErrSpansParents = errors.New("range does not share a single parent")
	ErrSchema       = errors.New("content not allowed here")
	ErrNoNode       = errors.New("no node at position")
)

// Step is a single atomic document change.
type Step interface {
	// Apply returns changed document, original is left untouched.
	Apply(doc *Node) (*Node, error)
	// Map describes how positions shift because of the step.
	Map() StepMap
}

// ReplaceStep replaces positions [From, To) with Slice. Both ends must have
// the same parent node: text inside one textblock, blocks inside one part or
// pages inside the document.
type ReplaceStep struct {
	From, To int
	Slice    Fragment
}

func (s ReplaceStep) Map() StepMap {
	return StepMap{Start: s.From, OldSize: s.To - s.From, NewSize: s.Slice.Size()}
}

func (s ReplaceStep) Apply(doc *Node) (*Node, error) {
	if s.From > s.To {
		return nil, fmt.Errorf("replace %d-%d: %w", s.From, s.To, ErrOutOfRange)
	}
	rf, err := doc.Resolve(s.From)
	if err != nil {
		return nil, err
	}
	rt, err := doc.Resolve(s.To)
	if err != nil {
		return nil, err
	}
	if rf.Depth() != rt.Depth() || rf.Start(rf.Depth()) != rt.Start(rt.Depth()) || rf.Parent() != rt.Parent() {
		return nil, fmt.Errorf("replace %d-%d: %w", s.From, s.To, ErrSpansParents)
	}
	parent := rf.Parent()
	for _, n := range s.Slice.nodes {
		if !allowedChild(parent.kind, n.kind) {
			return nil, fmt.Errorf("%s inside %s: %w", n.kind, parent.kind, ErrSchema)
		}
	}
	content := parent.content.Cut(0, rf.ParentOffset).Append(s.Slice).Append(parent.content.Cut(rt.ParentOffset, parent.content.size))
	return rebuild(rf, rf.Depth(), parent.WithContent(content)), nil
}

// AttrKey names attribute changed by SetAttrStep.
type AttrKey int

const (
	AttrNum AttrKey = iota
	AttrLevel
	AttrID
)

// SetAttrStep changes a single attribute of the node directly after Pos.
type SetAttrStep struct {
	Pos   int
	Key   AttrKey
	Value any
}

func (s SetAttrStep) Map() StepMap { return StepMap{Start: s.Pos} }

func (s SetAttrStep) Apply(doc *Node) (*Node, error) {
	rp, err := doc.Resolve(s.Pos)
	if err != nil {
		return nil, err
	}
	node := rp.NodeAfter()
	if node == nil || node.IsText() {
		return nil, fmt.Errorf("set attribute at %d: %w", s.Pos, ErrNoNode)
	}
	a := node.attrs
	switch s.Key {
	case AttrNum:
		v, ok := s.Value.(int)
		if !ok || node.kind != NodeKindPage {
			return nil, fmt.Errorf("page number %v on %s: %w", s.Value, node.kind, ErrSchema)
		}
		a.Num = v
	case AttrLevel:
		v, ok := s.Value.(int)
		if !ok || node.kind != NodeKindHeading {
			return nil, fmt.Errorf("level %v on %s: %w", s.Value, node.kind, ErrSchema)
		}
		a.Level = v
	case AttrID:
		v, ok := s.Value.(uuid.NullUUID)
		if !ok || node.kind != NodeKindParagraph {
			return nil, fmt.Errorf("identity %v on %s: %w", s.Value, node.kind, ErrSchema)
		}
		a.ID = v
	default:
		return nil, fmt.Errorf("unknown attribute %d: %w", s.Key, ErrSchema)
	}
	parent := rp.Parent()
	content := parent.content.ReplaceChild(rp.Index(rp.Depth()), node.WithAttrs(a))
	return rebuild(rp, rp.Depth(), parent.WithContent(content)), nil
}

// rebuild replaces node at depth with n and recreates all its ancestors.
func rebuild(rp *ResolvedPos, depth int, n *Node) *Node {
	for d := depth - 1; d >= 0; d-- {
		parent := rp.Node(d)
		n = parent.WithContent(parent.content.ReplaceChild(rp.Index(d), n))
	}
	return n
}

func allowedChild(parent, child NodeKind) bool {
	switch parent {
	case NodeKindDoc:
		return child == NodeKindPage
	case NodeKindPage:
		return child == NodeKindHeader || child == NodeKindContent || child == NodeKindFooter
	case NodeKindHeader, NodeKindFooter:
		return child == NodeKindParagraph || child == NodeKindHeading
	case NodeKindContent:
		return child == NodeKindParagraph || child == NodeKindHeading || child == NodeKindPlaceholder
	case NodeKindParagraph, NodeKindHeading:
		return child == NodeKindText
	}
	return false
}
