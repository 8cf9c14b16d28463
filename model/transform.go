package model

import (
	"fmt"
)

// Meta is out-of-band information travelling with transform.
type Meta struct {
	Origin Origin
	// Page is number of the page corrective pass targeted, 0 when transform
	// does not come from pagination.
	Page int
	// Finished tells that this pass fully resolved Page.
	Finished bool
	// NoHistory keeps transform out of the undo history.
	NoHistory bool
	// IgnoreSchedule prevents transform from triggering pagination.
	IgnoreSchedule bool
	// Composing is set for transforms dispatched in the middle of composed
	// input.
	Composing bool
	// Bypass explicitly disables pagination for this transform.
	Bypass bool
}

// Transform accumulates steps applied to a document one by one.
type Transform struct {
	Meta Meta

	before  *Node
	doc     *Node
	steps   []Step
	docs    []*Node
	mapping Mapping
	sel     *Selection
}

func NewTransform(doc *Node) *Transform {
	return &Transform{before: doc, doc: doc}
}

// Before returns document transform started with.
func (t *Transform) Before() *Node { return t.before }

// Doc returns current document.
func (t *Transform) Doc() *Node { return t.doc }

func (t *Transform) Steps() []Step { return t.steps }

// DocAt returns document as it was before step i.
func (t *Transform) DocAt(i int) *Node { return t.docs[i] }

func (t *Transform) Mapping() *Mapping { return &t.mapping }

func (t *Transform) DocChanged() bool { return len(t.steps) > 0 }

// Step applies step to the current document.
func (t *Transform) Step(s Step) error {
	doc, err := s.Apply(t.doc)
	if err != nil {
		return err
	}
	t.docs = append(t.docs, t.doc)
	t.steps = append(t.steps, s)
	t.mapping.Append(s.Map())
	t.doc = doc
	return nil
}

func (t *Transform) Replace(from, to int, f Fragment) error {
	if from == to && f.Size() == 0 {
		return nil
	}
	return t.Step(ReplaceStep{From: from, To: to, Slice: f})
}

func (t *Transform) Delete(from, to int) error {
	return t.Replace(from, to, Fragment{})
}

func (t *Transform) Insert(pos int, nodes ...*Node) error {
	return t.Replace(pos, pos, NewFragment(nodes...))
}

func (t *Transform) SetAttr(pos int, key AttrKey, value any) error {
	return t.Step(SetAttrStep{Pos: pos, Key: key, Value: value})
}

// SetSelection records selection explicitly computed by the transform
// author. Without it selection is mapped through the steps.
func (t *Transform) SetSelection(sel Selection) {
	t.sel = &sel
}

// Selection returns explicitly set selection if any.
func (t *Transform) Selection() (Selection, bool) {
	if t.sel == nil {
		return Selection{}, false
	}
	return *t.sel, true
}

// Apply applies steps in order returning resulting document and mapping from
// positions in doc to positions in it.
func Apply(doc *Node, steps ...Step) (*Node, *Mapping, error) {
	tr := NewTransform(doc)
	for i, s := range steps {
		if err := tr.Step(s); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return tr.Doc(), tr.Mapping(), nil
}
