// Package reflow moves content between neighbouring pages until every page
// is filled but not overflowing. Single call performs single corrective
// pass for single page, passes are driven by the scheduler.
package reflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pager/config"
	"pager/layout"
	"pager/model"
)

var (
	ErrMissingTarget = errors.New("pagination target not found")
	ErrUnsplittable  = errors.New("overflowing content cannot be split")
)

type Options struct {
	Search config.SearchMode
	Log    *zap.Logger
}

// Result of a single pass.
type Result struct {
	// Transform is nil when page needs no correction.
	Transform *model.Transform
	// Selection is selection in the resulting document.
	Selection model.Selection
	// Finished is set when page is known to be settled after this pass.
	Finished bool
}

type pass struct {
	ctx    context.Context
	doc    *model.Node
	sel    model.Selection
	oracle layout.Oracle
	num    int
	page   model.PageRef
	handle layout.PageHandle
	opts   Options
	log    *zap.Logger
}

// Reflow performs corrective pass for the page. Oracle must have rendered
// doc. Selection is carried through produced transform.
func Reflow(ctx context.Context, doc *model.Node, sel model.Selection, oracle layout.Oracle, pageNum int, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	p := &pass{
		ctx:    ctx,
		doc:    doc,
		sel:    sel,
		oracle: oracle,
		num:    pageNum,
		opts:   opts,
		log:    log.Named("reflow").With(zap.Int("page", pageNum)),
	}

	var ok bool
	if p.page, ok = model.FindPage(doc, pageNum); !ok {
		return nil, fmt.Errorf("page %d: %w", pageNum, ErrMissingTarget)
	}
	handle, err := oracle.Page(pageNum)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w: %w", pageNum, ErrMissingTarget, err)
	}
	if handle.Pos != p.page.Pos || handle.ContentPos != p.page.ContentStart() {
		return nil, fmt.Errorf("page %d rendered from another document: %w", pageNum, ErrMissingTarget)
	}
	p.handle = handle

	m, err := oracle.Overflow(pageNum)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w: %w", pageNum, ErrMissingTarget, err)
	}
	switch {
	case m.Overflowing():
		return p.overflow(m)
	case m.Slack() > 0:
		return p.underflow(m)
	}
	p.log.Debug("Page is full")
	return p.settled(), nil
}

func (p *pass) settled() *Result {
	return &Result{Selection: p.sel, Finished: true}
}

func (p *pass) transform(finished bool) *model.Transform {
	tr := model.NewTransform(p.doc)
	tr.Meta = model.Meta{Origin: model.OriginReflow, Page: p.num, Finished: finished, NoHistory: true}
	return tr
}

func (p *pass) measure(block *model.Node) (float64, error) {
	h, err := p.oracle.MeasureClone(block, p.handle.Box.Width)
	if err != nil {
		return 0, fmt.Errorf("measure on page %d: %w", p.num, err)
	}
	return h, nil
}

// result finalizes transform: selection either relocated into moved content
// or mapped through all steps.
func (p *pass) result(tr *model.Transform, finished bool, moved relocation) *Result {
	sel := model.Selection{
		Anchor: moved.apply(p.sel.Anchor, tr),
		Head:   moved.apply(p.sel.Head, tr),
	}
	sel = sel.Near(tr.Doc())
	tr.SetSelection(sel)
	return &Result{Transform: tr, Selection: sel, Finished: finished}
}

// relocation describes content range of the source document which ended up
// at another place in the resulting document. Range start belongs to it only
// when whole block was moved.
type relocation struct {
	from, to  int
	target    int
	inclusive bool
	set       bool
}

// apply returns position in the resulting document. Positions inside moved
// range keep their offset, others are mapped.
func (r relocation) apply(pos int, tr *model.Transform) int {
	if r.set && pos <= r.to && (pos > r.from || r.inclusive && pos == r.from) {
		return r.target + pos - r.from
	}
	return tr.Mapping().Map(pos, 1)
}
