package editor

import (
	"fmt"

	"pager/model"
)

// caret is a cursor position together with the textblock and page holding
// it.
type caret struct {
	page  model.PageRef
	block model.BlockRef
	off   int
}

func (c caret) atStart() bool { return c.off == 0 }
func (c caret) atEnd() bool   { return c.off == c.block.Node.ContentSize() }

func caretAt(doc *model.Node, pos int) (caret, error) {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return caret{}, fmt.Errorf("cursor %d: %w: %w", pos, ErrInvalidSelection, err)
	}
	if !rp.InTextblock() || !rp.InContent() {
		return caret{}, fmt.Errorf("cursor %d: %w", pos, ErrInvalidSelection)
	}
	page, ok := model.FindPage(doc, rp.PageNum())
	if !ok {
		return caret{}, fmt.Errorf("cursor %d: %w", pos, model.ErrNoPage)
	}
	d := rp.Depth()
	return caret{
		page:  page,
		block: model.BlockRef{Node: rp.Node(d), Index: rp.Index(d - 1), Pos: rp.Before(d)},
		off:   rp.ParentOffset,
	}, nil
}

func (s *Session) edit() *model.Transform {
	tr := model.NewTransform(s.doc)
	tr.Meta.Origin = model.OriginUser
	return tr
}

// InsertText replaces selection with text.
func (s *Session) InsertText(text string) error {
	tr := s.edit()
	pos, err := deleteSelection(tr, s.sel)
	if err != nil {
		return err
	}
	if text != "" {
		if err := tr.Insert(pos, model.Text(text)); err != nil {
			return fmt.Errorf("unable to insert text: %w", err)
		}
	}
	tr.SetSelection(model.Cursor(pos + len([]rune(text))))
	return s.Dispatch(tr)
}

// DeleteRange removes content between two cursor positions, the textblocks
// they are in are joined.
func (s *Session) DeleteRange(from, to int) error {
	tr := s.edit()
	pos, err := deleteSelection(tr, model.Selection{Anchor: from, Head: to})
	if err != nil {
		return err
	}
	tr.SetSelection(model.Cursor(pos))
	return s.Dispatch(tr)
}

// DeleteBackward removes selection or character before the cursor. At the
// start of a textblock it joins the block with the preceding one, possibly
// on the previous page.
func (s *Session) DeleteBackward() error {
	if !s.sel.Empty() {
		return s.DeleteRange(s.sel.From(), s.sel.To())
	}
	c, err := caretAt(s.doc, s.sel.Head)
	if err != nil {
		return err
	}
	if !c.atStart() {
		return s.DeleteRange(s.sel.Head-1, s.sel.Head)
	}
	prev, ok := previousTextblock(s.doc, c)
	if !ok {
		return nil
	}
	if continued(prev, c.block) {
		// paragraph split by pagination, remove its last character
		if prev.Node.ContentSize() == 0 {
			return nil
		}
		return s.DeleteRange(prev.End()-1, prev.End())
	}
	return s.DeleteRange(prev.End(), s.sel.Head)
}

// DeleteForward removes selection or character after the cursor. At the
// end of a textblock it joins the following block into it. Nothing happens
// at the end of a page followed by an empty one.
func (s *Session) DeleteForward() error {
	if !s.sel.Empty() {
		return s.DeleteRange(s.sel.From(), s.sel.To())
	}
	c, err := caretAt(s.doc, s.sel.Head)
	if err != nil {
		return err
	}
	if !c.atEnd() {
		return s.DeleteRange(s.sel.Head, s.sel.Head+1)
	}
	next, ok := nextTextblock(s.doc, c)
	if !ok {
		return nil
	}
	if continued(c.block, next) {
		if next.Node.ContentSize() == 0 {
			return nil
		}
		return s.DeleteRange(next.Start(), next.Start()+1)
	}
	tr := s.edit()
	if _, err := deleteSelection(tr, model.Selection{Anchor: s.sel.Head, Head: next.Start()}); err != nil {
		return err
	}
	// cursor stays where it was
	tr.SetSelection(s.sel)
	return s.Dispatch(tr)
}

// SplitBlock splits textblock at the cursor. Both halves keep attributes of
// the original block.
func (s *Session) SplitBlock() error {
	tr := s.edit()
	pos, err := deleteSelection(tr, s.sel)
	if err != nil {
		return err
	}
	c, err := caretAt(tr.Doc(), pos)
	if err != nil {
		return err
	}
	b := c.block.Node
	head, tail := b.Cut(0, c.off), b.Cut(c.off, b.ContentSize())
	if err := tr.Replace(c.block.Pos, c.block.After(), model.NewFragment(head, tail)); err != nil {
		return fmt.Errorf("unable to split block: %w", err)
	}
	tr.SetSelection(model.Cursor(c.block.Pos + head.Size() + 1))
	return s.Dispatch(tr)
}

// BeginComposition marks start of composed input. Until it ends edits do
// not trigger pagination and pending passes abort.
func (s *Session) BeginComposition() {
	s.composing = true
}

// EndComposition finishes composed input and schedules passes for the page
// the cursor is on and every page whose pass was aborted meanwhile.
func (s *Session) EndComposition() {
	if !s.composing {
		return
	}
	s.composing = false
	s.sched.Resume(model.PageCount(s.doc), model.PageAt(s.doc, s.sel.Anchor))
}

func (s *Session) Composing() bool { return s.composing }

func continued(a, b model.BlockRef) bool {
	return a.Node.Kind() == model.NodeKindParagraph && b.Node.Kind() == model.NodeKindParagraph &&
		a.Node.ID().Valid && a.Node.ID() == b.Node.ID()
}

func previousTextblock(doc *model.Node, c caret) (model.BlockRef, bool) {
	blocks := c.page.Blocks()
	for i := c.block.Index - 1; i >= 0; i-- {
		if blocks[i].Node.IsTextblock() {
			return blocks[i], true
		}
	}
	for num := c.page.Num() - 1; num > 0; num-- {
		p, ok := model.FindPage(doc, num)
		if !ok {
			break
		}
		if last, ok := p.LastBlock(); ok {
			return last, last.Node.IsTextblock()
		}
	}
	return model.BlockRef{}, false
}

// nextTextblock looks for the block following the cursor block. Crossing
// page boundary is only allowed into a page which has content.
func nextTextblock(doc *model.Node, c caret) (model.BlockRef, bool) {
	blocks := c.page.Blocks()
	if i := c.block.Index + 1; i < len(blocks) {
		return blocks[i], blocks[i].Node.IsTextblock()
	}
	p, ok := model.FindPage(doc, c.page.Num()+1)
	if !ok {
		return model.BlockRef{}, false
	}
	first, ok := p.FirstBlock()
	if !ok {
		return model.BlockRef{}, false
	}
	return first, first.Node.IsTextblock()
}

// deleteSelection removes selected content, textblocks at both ends are
// joined into the first one. Pages left between are removed and remaining
// pages renumbered. Returns cursor position after deletion.
func deleteSelection(tr *model.Transform, sel model.Selection) (int, error) {
	from, to := sel.From(), sel.To()
	a, err := caretAt(tr.Doc(), from)
	if err != nil {
		return 0, err
	}
	if from == to {
		return from, nil
	}
	b, err := caretAt(tr.Doc(), to)
	if err != nil {
		return 0, err
	}
	if a.block.Pos == b.block.Pos {
		if err := tr.Delete(from, to); err != nil {
			return 0, fmt.Errorf("unable to delete %d-%d: %w", from, to, err)
		}
		return from, nil
	}

	// later positions first, earlier ones stay valid
	var steps [][2]int
	if a.page.Index == b.page.Index {
		steps = append(steps, [2]int{a.block.Pos, b.block.After()})
	} else {
		steps = append(steps, [2]int{b.page.ContentStart(), b.block.After()})
		if b.page.Index-a.page.Index > 1 {
			steps = append(steps, [2]int{a.page.End(), b.page.Pos})
		}
		last, _ := a.page.LastBlock()
		steps = append(steps, [2]int{a.block.Pos, last.After()})
	}
	for _, st := range steps {
		if err := tr.Delete(st[0], st[1]); err != nil {
			return 0, fmt.Errorf("unable to delete %d-%d: %w", st[0], st[1], err)
		}
	}
	head := a.block.Node.Cut(0, a.off)
	tail := b.block.Node.Cut(b.off, b.block.Node.ContentSize())
	joined := head.WithContent(head.Content().Append(tail.Content()))
	if err := tr.Insert(a.block.Pos, joined); err != nil {
		return 0, fmt.Errorf("unable to join blocks: %w", err)
	}
	if err := renumber(tr); err != nil {
		return 0, err
	}
	return from, nil
}

func renumber(tr *model.Transform) error {
	for p := range model.Pages(tr.Doc()) {
		if p.Num() == p.Index+1 {
			continue
		}
		if err := tr.SetAttr(p.Pos, model.AttrNum, p.Index+1); err != nil {
			return fmt.Errorf("unable to renumber page %d: %w", p.Num(), err)
		}
	}
	return nil
}
