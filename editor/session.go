// Package editor holds everything belonging to a single editing view: the
// document, selection, layout oracle, pagination scheduler and undo history.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pager/config"
	"pager/identity"
	"pager/layout"
	"pager/model"
	"pager/reflow"
	"pager/schedule"
)

var (
	ErrInvalidSelection = errors.New("selection is not inside page content")
	ErrStaleTransform   = errors.New("transform built for another document version")
)

// Session is the explicit owner of per-view state. It is not safe for
// concurrent use.
type Session struct {
	cfg     *config.PaginationConfig
	log     *zap.Logger
	oracle  layout.Oracle
	sched   *schedule.Scheduler
	history *History

	doc       *model.Node
	sel       model.Selection
	composing bool
}

// New creates session for the document and schedules pagination of every
// page.
func New(doc *model.Node, oracle layout.Oracle, cfg *config.PaginationConfig, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		cfg:     cfg,
		log:     log.Named("editor"),
		oracle:  oracle,
		sched:   schedule.New(cfg, log),
		history: NewHistory(cfg.HistoryDepth),
	}
	if err := s.load(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(doc *model.Node) error {
	if err := model.Validate(doc); err != nil {
		return fmt.Errorf("unable to load document: %w", err)
	}
	if err := s.oracle.Render(doc); err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}
	s.doc = doc
	s.sel = model.Cursor(model.Near(doc, 0, 1))
	s.composing = false

	count := model.PageCount(doc)
	s.sched.Tracker().Begin(count)
	for num := 1; num <= count; num++ {
		s.sched.Enqueue(num, schedule.TaskKindUser)
	}
	s.log.Debug("Document loaded", zap.Int("pages", count))
	return nil
}

// Reset replaces document. Queued passes for the previous one are dropped
// and history is forgotten.
func (s *Session) Reset(doc *model.Node) error {
	s.sched.Reset()
	s.history.Clear()
	return s.load(doc)
}

func (s *Session) Doc() *model.Node           { return s.doc }
func (s *Session) Selection() model.Selection { return s.sel }
func (s *Session) History() *History          { return s.history }
func (s *Session) Scheduler() *schedule.Scheduler {
	return s.sched
}

// Dispatch applies transform built against the current document.
func (s *Session) Dispatch(tr *model.Transform) error {
	if tr.Before() != s.doc {
		return ErrStaleTransform
	}
	if !tr.DocChanged() {
		if sel, ok := tr.Selection(); ok {
			return s.SetSelection(sel)
		}
		return nil
	}
	if tr.Meta.Origin == model.OriginUser && s.composing {
		tr.Meta.Composing = true
	}

	before := s.sel
	after, ok := tr.Selection()
	if !ok {
		after = before.Map(tr.Mapping())
	}
	after = after.Near(tr.Doc())

	if tr.Meta.Origin == model.OriginUser && !tr.Meta.NoHistory {
		s.history.Record(s.doc, before)
	}
	s.doc, s.sel = tr.Doc(), after
	if err := s.oracle.Render(s.doc); err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}
	s.sched.Observe(tr, before, after)
	return nil
}

// SetSelection moves selection, both ends must be inside page content
// textblocks.
func (s *Session) SetSelection(sel model.Selection) error {
	if !sel.Valid(s.doc) {
		return fmt.Errorf("selection %d-%d: %w", sel.Anchor, sel.Head, ErrInvalidSelection)
	}
	s.sel = sel
	return nil
}

// RunTask performs pagination pass for a page, it implements
// schedule.Runner.
func (s *Session) RunTask(ctx context.Context, task schedule.Task) (schedule.Outcome, error) {
	log := s.log.With(zap.Stringer("task", task))
	if task.Generation != s.sched.Generation() {
		log.Debug("Task from previous document aborted")
		return schedule.Outcome{Aborted: true}, nil
	}
	if s.composing {
		log.Debug("Task aborted during composition")
		return schedule.Outcome{Aborted: true}, nil
	}

	if task.Kind == schedule.TaskKindUser {
		tr, err := identity.Dedup(s.doc, task.Page, log)
		switch {
		case errors.Is(err, model.ErrNoPage):
			log.Debug("Page is gone", zap.Error(err))
			return schedule.Outcome{Aborted: true}, nil
		case err != nil:
			return schedule.Outcome{}, err
		case tr != nil:
			// identities do not change layout, pass goes on with the result
			if err := s.Dispatch(tr); err != nil {
				return schedule.Outcome{}, err
			}
		}
	}

	res, err := reflow.Reflow(ctx, s.doc, s.sel, s.oracle, task.Page, reflow.Options{Search: s.cfg.Search, Log: log})
	switch {
	case errors.Is(err, reflow.ErrMissingTarget):
		log.Debug("Pagination target missing", zap.Error(err))
		return schedule.Outcome{Aborted: true}, nil
	case errors.Is(err, reflow.ErrUnsplittable):
		log.Debug("Page left overflowing", zap.Error(err))
		return schedule.Outcome{}, nil
	case err != nil:
		return schedule.Outcome{}, err
	}
	if res.Transform == nil {
		return schedule.Outcome{}, nil
	}
	if err := s.Dispatch(res.Transform); err != nil {
		return schedule.Outcome{}, err
	}
	return schedule.Outcome{Changed: true}, nil
}

// Paginate runs queued passes until document settles.
func (s *Session) Paginate(ctx context.Context) (int, error) {
	return s.sched.Drain(ctx, s)
}

// Idle runs passes for a single idle slice.
func (s *Session) Idle(ctx context.Context) (int, error) {
	return s.sched.RunIdle(ctx, s, time.Now().Add(s.cfg.IdleSlice))
}

// Converged reports whether there is no pagination work left.
func (s *Session) Converged() bool {
	return s.sched.Pending() == 0 && s.sched.Tracker().Converged()
}

func (s *Session) Stats() schedule.Stats {
	return s.sched.Tracker().Stats()
}

// Undo restores document before the last user edit.
func (s *Session) Undo() (bool, error) {
	return s.travel(s.history.undoTo)
}

// Redo reapplies last undone edit.
func (s *Session) Redo() (bool, error) {
	return s.travel(s.history.redoTo)
}

func (s *Session) travel(next func(snapshot) (snapshot, bool)) (bool, error) {
	snap, ok := next(snapshot{doc: s.doc, sel: s.sel})
	if !ok {
		return false, nil
	}
	tr := model.NewTransform(s.doc)
	tr.Meta = model.Meta{Origin: model.OriginHistory, NoHistory: true}
	if err := tr.Replace(0, s.doc.ContentSize(), snap.doc.Content()); err != nil {
		return false, fmt.Errorf("unable to restore document: %w", err)
	}
	tr.SetSelection(snap.sel)
	if err := s.Dispatch(tr); err != nil {
		return false, err
	}
	return true, nil
}
