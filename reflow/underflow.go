package reflow

import (
	"go.uber.org/zap"

	"pager/layout"
	"pager/model"
)

// underflow pulls leading content of the next page into free space of this
// one. Block is pulled only when at least its smallest piece fits, the rest
// is pushed back by the next overflow pass.
func (p *pass) underflow(m layout.Metrics) (*Result, error) {
	next, ok := model.FindPage(p.doc, p.num+1)
	if !ok {
		if p.num > 1 && p.page.Empty() {
			return p.dropPage(p.page, true)
		}
		p.log.Debug("Last page")
		return p.settled(), nil
	}
	if next.Empty() {
		return p.dropPage(next, false)
	}

	first, _ := next.FirstBlock()
	last, hasLast := p.page.LastBlock()
	merge := hasLast && continuation(last.Node, first.Node)

	delta, err := p.growth(first.Node, last.Node, merge)
	if err != nil {
		return nil, err
	}
	if slack := m.Slack(); delta > slack {
		if p.page.Empty() {
			// empty page between pages is useless, page taking its number
			// has to be checked again
			return p.dropPage(p.page, false)
		}
		p.log.Debug("Nothing fits", zap.Float64("slack", slack), zap.Float64("needed", delta))
		return p.settled(), nil
	}

	tr := p.transform(false)
	if err := tr.Delete(first.Pos, first.After()); err != nil {
		return nil, err
	}
	moved := relocation{from: first.Start(), to: first.End(), set: true, inclusive: true}
	if merge {
		if err := tr.Replace(last.End(), last.End(), first.Node.Content()); err != nil {
			return nil, err
		}
		moved.target = last.End()
	} else {
		if err := tr.Insert(p.page.PlaceholderPos(), first.Node); err != nil {
			return nil, err
		}
		moved.target = p.page.PlaceholderPos() + 1
	}
	p.log.Debug("Pulled", zap.Bool("merged", merge), zap.Float64("slack", m.Slack()), zap.Float64("needed", delta))
	return p.result(tr, false, moved), nil
}

// growth is height page gains when smallest piece of block is pulled: first
// rune of a paragraph, whole block otherwise.
func (p *pass) growth(block, last *model.Node, merge bool) (float64, error) {
	piece := block
	if block.Kind() == model.NodeKindParagraph && block.ContentSize() > 0 {
		piece = block.Cut(0, 1)
	}
	if !merge {
		return p.measure(piece)
	}
	before, err := p.measure(last)
	if err != nil {
		return 0, err
	}
	after, err := p.measure(last.WithContent(last.Content().Append(piece.Content())))
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// dropPage removes empty page, pages after it are renumbered to keep
// numbering contiguous.
func (p *pass) dropPage(page model.PageRef, finished bool) (*Result, error) {
	tr := p.transform(finished)
	if err := tr.Delete(page.Pos, page.End()); err != nil {
		return nil, err
	}
	var later []model.PageRef
	for ref := range model.Pages(tr.Doc()) {
		if ref.Index >= page.Index && ref.Num() != ref.Index+1 {
			later = append(later, ref)
		}
	}
	for _, ref := range later {
		if err := tr.SetAttr(ref.Pos, model.AttrNum, ref.Index+1); err != nil {
			return nil, err
		}
	}
	p.log.Debug("Empty page removed", zap.Int("removed", page.Num()), zap.Int("renumbered", len(later)))
	return p.result(tr, finished, relocation{}), nil
}
