// Package schedule drives pagination: it decides which pages have to be
// checked after a document change and runs checks one at a time in idle
// slices.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"pager/config"
	"pager/model"
)

var (
	ErrReentrant = errors.New("pagination task started from inside another task")
	ErrBudget    = errors.New("pagination pass budget exhausted")
)

// Outcome is what a task did to its page.
type Outcome struct {
	// Changed is set when task dispatched transform.
	Changed bool
	// Aborted is set when task could not look at its page, page stays
	// pending until next edit.
	Aborted bool
}

// Runner performs single pagination pass.
type Runner interface {
	RunTask(ctx context.Context, task Task) (Outcome, error)
}

// RunnerFunc adapts function to Runner.
type RunnerFunc func(ctx context.Context, task Task) (Outcome, error)

func (f RunnerFunc) RunTask(ctx context.Context, task Task) (Outcome, error) {
	return f(ctx, task)
}

// Scheduler owns pagination work queue and cycle tracking. It is not safe
// for concurrent use, everything happens on the thread owning the document.
type Scheduler struct {
	cfg     *config.PaginationConfig
	log     *zap.Logger
	queue   Queue
	tracker *Tracker

	generation uint64
	running    bool
}

func New(cfg *config.PaginationConfig, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{cfg: cfg, log: log.Named("schedule"), tracker: NewTracker()}
}

func (s *Scheduler) Tracker() *Tracker { return s.tracker }

func (s *Scheduler) Generation() uint64 { return s.generation }

// Pending returns number of queued tasks.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Reset drops all queued work, tasks created before it are stale.
func (s *Scheduler) Reset() {
	s.generation++
	s.queue.Clear()
	s.tracker.Reset()
	s.log.Debug("Reset", zap.Uint64("generation", s.generation))
}

// Enqueue schedules pass for the page.
func (s *Scheduler) Enqueue(page int, kind TaskKind) {
	if page <= 0 {
		return
	}
	s.tracker.Pending(page)
	s.queue.Push(Task{Page: page, Kind: kind, Generation: s.generation})
}

// Resume schedules passes for every page left pending by aborted tasks or
// by edits which did not schedule anything, plus the extra pages given.
func (s *Scheduler) Resume(count int, pages ...int) {
	if s.tracker.Active() {
		s.tracker.Resize(count)
	} else {
		s.tracker.Begin(count)
	}
	pages = append(s.tracker.Unsettled(), pages...)
	slices.Sort(pages)
	for _, num := range slices.Compact(pages) {
		s.Enqueue(num, TaskKindUser)
	}
}

// Observe inspects dispatched transform and schedules passes for pages it
// touched. Before and after are selections around the transform.
func (s *Scheduler) Observe(tr *model.Transform, before, after model.Selection) {
	if tr == nil || !tr.DocChanged() {
		return
	}
	meta := tr.Meta
	if meta.IgnoreSchedule || meta.Bypass {
		return
	}
	switch meta.Origin {
	case model.OriginReflow:
		s.tracker.countTransform()
		s.tracker.Resize(model.PageCount(tr.Doc()))
		pages := touchedPages(tr)
		if !meta.Finished {
			pages = append(pages, meta.Page)
		}
		slices.Sort(pages)
		for _, num := range slices.Compact(pages) {
			if meta.Finished && num == meta.Page {
				continue
			}
			s.Enqueue(num, TaskKindReflow)
		}
		if meta.Finished {
			s.tracker.Settled(meta.Page)
		}
	case model.OriginHistory, model.OriginLoad:
		s.tracker.Begin(model.PageCount(tr.Doc()))
		for num := 1; num <= model.PageCount(tr.Doc()); num++ {
			s.Enqueue(num, TaskKindUser)
		}
	default:
		if !s.tracker.Active() {
			s.tracker.Begin(model.PageCount(tr.Before()))
		}
		count := model.PageCount(tr.Doc())
		s.tracker.Resize(count)
		pages := touchedPages(tr)
		// edit may have removed the page anchor was on
		if num := model.PageAt(tr.Before(), before.Anchor); num <= count {
			pages = append(pages, num)
		}
		pages = append(pages, model.PageAt(tr.Doc(), after.Anchor))
		slices.Sort(pages)
		for _, num := range slices.Compact(pages) {
			if meta.Composing {
				// nothing runs while composing, Resume picks pages up
				s.tracker.Pending(num)
				continue
			}
			s.Enqueue(num, TaskKindUser)
		}
	}
}

// touchedPages resolves every step range to page numbers in the resulting
// document. A page whose first block was touched brings in the previous
// page which may be able to pull that block now. Positions between pages
// bring in pages on both sides.
func touchedPages(tr *model.Transform) []int {
	var (
		doc   = tr.Doc()
		maps  = tr.Mapping()
		pages []int
	)
	for i, st := range tr.Steps() {
		sm := st.Map()
		rest := maps.Slice(i + 1)
		points := []int{sm.Start, sm.Start + sm.NewSize}
		if sm.NewSize > 0 {
			points = append(points, sm.Start+1)
		}
		for _, pos := range points {
			pages = append(pages, pagesAt(doc, rest.Map(pos, -1))...)
		}
	}
	return pages
}

func pagesAt(doc *model.Node, pos int) []int {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return nil
	}
	if rp.Depth() == 0 {
		var out []int
		idx := rp.Index(0)
		if idx > 0 {
			out = append(out, doc.Child(idx-1).Num())
		}
		if idx < doc.ChildCount() {
			out = append(out, doc.Child(idx).Num())
		}
		return out
	}
	num := rp.PageNum()
	p, ok := model.FindPage(doc, num)
	if !ok {
		return nil
	}
	if first, ok := p.FirstBlock(); (!ok || pos <= first.After()) && num > 1 {
		return []int{num - 1, num}
	}
	return []int{num}
}

// Step runs single queued task. It returns false when queue is empty.
func (s *Scheduler) Step(ctx context.Context, r Runner) (bool, error) {
	if s.running {
		return false, ErrReentrant
	}
	task, ok := s.queue.Pop()
	if !ok {
		if s.tracker.Active() {
			s.tracker.End()
			s.log.Debug("Cycle finished", zap.Any("stats", s.tracker.Stats()))
		}
		return false, nil
	}
	if task.Generation != s.generation {
		s.log.Debug("Stale task dropped", zap.Stringer("task", task))
		return true, nil
	}

	s.running = true
	defer func() { s.running = false }()

	s.tracker.countPass()
	out, err := r.RunTask(ctx, task)
	if err != nil {
		return true, fmt.Errorf("task %s: %w", task, err)
	}
	if !out.Changed && !out.Aborted {
		s.tracker.Settled(task.Page)
	}
	return true, nil
}

// RunIdle runs tasks until deadline passes or queue empties, at least one
// task is always run. It returns number of tasks run.
func (s *Scheduler) RunIdle(ctx context.Context, r Runner, deadline time.Time) (int, error) {
	n := 0
	for {
		ran, err := s.Step(ctx, r)
		if ran {
			n++
		}
		if err != nil || !ran || !time.Now().Before(deadline) {
			return n, err
		}
	}
}

// Drain runs queued tasks one by one until queue is empty. Number of passes
// is limited by configuration.
func (s *Scheduler) Drain(ctx context.Context, r Runner) (int, error) {
	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return passes, err
		}
		if passes >= s.cfg.MaxPasses {
			s.log.Warn("Pagination did not settle", zap.Int("passes", passes), zap.Int("queued", s.queue.Len()))
			return passes, fmt.Errorf("%d passes: %w", passes, ErrBudget)
		}
		ran, err := s.Step(ctx, r)
		if err != nil {
			return passes, err
		}
		if !ran {
			return passes, nil
		}
		passes++
	}
}
