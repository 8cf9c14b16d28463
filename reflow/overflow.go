package reflow

import (
	"fmt"

	"go.uber.org/zap"

	"pager/identity"
	"pager/layout"
	"pager/model"
)

// overflow pushes trailing content of the page to the next one. Last
// paragraph is cut at the point where what stays fits, anything else is
// moved whole.
func (p *pass) overflow(m layout.Metrics) (*Result, error) {
	blocks := p.page.Blocks()
	if len(blocks) == 0 {
		return nil, fmt.Errorf("page %d overflows without content: %w", p.num, ErrMissingTarget)
	}
	last := blocks[len(blocks)-1]
	block := last.Node
	size := block.ContentSize()

	if block.Kind() != model.NodeKindParagraph {
		if len(blocks) == 1 {
			p.log.Debug("Single block does not fit", zap.Stringer("kind", block.Kind()))
			return p.settled(), fmt.Errorf("page %d %s: %w", p.num, block.Kind(), ErrUnsplittable)
		}
		return p.push(last, 0, false)
	}

	overflow := m.OverflowHeight()
	cloned, err := p.measure(block)
	if err != nil {
		return nil, err
	}
	target := cloned - overflow
	deleteCount, err := cutPoint(p.ctx, p.opts.Search, size, target, func(keep int) (float64, error) {
		return p.measure(block.Cut(0, keep))
	})
	if err != nil {
		return nil, err
	}
	keep := size - deleteCount
	if keep == 0 && len(blocks) == 1 {
		p.log.Debug("Paragraph does not fit even partially", zap.Float64("target", target))
		return p.settled(), fmt.Errorf("page %d paragraph: %w", p.num, ErrUnsplittable)
	}
	finished := cloned > overflow
	p.log.Debug("Overflow",
		zap.Float64("overflow", overflow),
		zap.Float64("cloned", cloned),
		zap.Int("keep", keep),
		zap.Int("delete", deleteCount),
		zap.Bool("finished", finished))
	return p.push(last, keep, finished)
}

// push removes everything after keep positions of the block content and
// puts it at the start of the next page, creating page when necessary.
func (p *pass) push(last model.BlockRef, keep int, finished bool) (*Result, error) {
	var (
		tr        = p.transform(finished)
		block     = last.Node
		remainder = block
		moved     = relocation{from: last.Start() + keep, to: last.End(), set: true, inclusive: keep == 0}
	)
	if keep == 0 {
		if err := tr.Delete(last.Pos, last.After()); err != nil {
			return nil, err
		}
	} else {
		remainder = block.Cut(keep, block.ContentSize())
		if !block.ID().Valid {
			id, err := identity.New()
			if err != nil {
				return nil, err
			}
			if err := tr.SetAttr(last.Pos, model.AttrID, id); err != nil {
				return nil, err
			}
			remainder = remainder.WithID(id)
		}
		if err := tr.Delete(last.Start()+keep, last.End()); err != nil {
			return nil, err
		}
	}

	next, ok := model.FindPage(tr.Doc(), p.num+1)
	if !ok {
		cur, ok := model.FindPage(tr.Doc(), p.num)
		if !ok {
			return nil, fmt.Errorf("page %d: %w", p.num, ErrMissingTarget)
		}
		page := model.Page(p.num+1, cur.Header(), model.Content(remainder), cur.Footer())
		if err := tr.Insert(cur.End(), page); err != nil {
			return nil, err
		}
		created, _ := model.FindPage(tr.Doc(), p.num+1)
		moved.target = created.ContentStart() + 1
		p.log.Debug("Page created", zap.Int("new", p.num+1))
		return p.result(tr, finished, moved), nil
	}

	if first, ok := next.FirstBlock(); ok && continuation(remainder, first.Node) {
		if err := tr.Replace(first.Start(), first.Start(), remainder.Content()); err != nil {
			return nil, err
		}
		moved.target = first.Start()
		return p.result(tr, finished, moved), nil
	}
	if err := tr.Insert(next.ContentStart(), remainder); err != nil {
		return nil, err
	}
	moved.target = next.ContentStart() + 1
	return p.result(tr, finished, moved), nil
}

// continuation reports whether b continues paragraph a.
func continuation(a, b *model.Node) bool {
	return a.Kind() == model.NodeKindParagraph && b.Kind() == model.NodeKindParagraph &&
		a.ID().Valid && a.ID() == b.ID()
}
