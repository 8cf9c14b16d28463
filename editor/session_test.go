package editor

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"pager/config"
	"pager/identity"
	"pager/layout"
	"pager/model"
	"pager/schedule"
)

// ten cells per line, five lines per page
var smallLayout = config.LayoutConfig{
	ContentHeight: 100,
	ContentWidth:  80,
	CharWidth:     8,
	LineHeight:    20,
	HeadingScale:  1.5,
}

// hundred cells per line, hundred lines per page
var largeLayout = config.LayoutConfig{
	ContentHeight: 2000,
	ContentWidth:  800,
	CharWidth:     8,
	LineHeight:    20,
	HeadingScale:  1.5,
}

func para(text string) *model.Node {
	return model.Paragraph(uuid.NullUUID{}, model.Text(text))
}

func page(num int, blocks ...*model.Node) *model.Node {
	return model.Page(num, model.Header(), model.Content(blocks...), model.Footer())
}

type fixture struct {
	t      *testing.T
	oracle *layout.Monospace
	s      *Session
}

func newFixture(t *testing.T, lc config.LayoutConfig, doc *model.Node) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	cfg := &config.PaginationConfig{
		Search:       config.SearchModeBisect,
		MaxPasses:    10000,
		IdleSlice:    time.Millisecond,
		HistoryDepth: 10,
	}
	oracle := layout.NewMonospace(&lc, log)
	s, err := New(doc, oracle, cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{t: t, oracle: oracle, s: s}
}

func (f *fixture) paginate() {
	f.t.Helper()
	if _, err := f.s.Paginate(context.Background()); err != nil {
		f.t.Fatal(err)
	}
	if !f.s.Converged() {
		f.t.Fatalf("not converged: %+v", f.s.Stats())
	}
	f.check()
}

// check verifies properties every settled document has.
func (f *fixture) check() {
	f.t.Helper()
	doc := f.s.Doc()
	if err := model.Validate(doc); err != nil {
		f.t.Fatalf("invalid document: %v\n%s", err, doc)
	}
	if err := model.CheckIdentities(doc); err != nil {
		f.t.Fatalf("identities: %v\n%s", err, doc)
	}
	if !f.s.Selection().Valid(doc) {
		f.t.Fatalf("selection %+v is not valid", f.s.Selection())
	}
	for p := range model.Pages(doc) {
		m, err := f.oracle.Overflow(p.Num())
		if err != nil {
			f.t.Fatal(err)
		}
		if m.Overflowing() && len(p.Blocks()) > 1 {
			f.t.Errorf("page %d overflows by %v", p.Num(), m.OverflowHeight())
		}
		if p.Index > 0 && p.Empty() {
			f.t.Errorf("page %d is empty", p.Num())
		}
	}
}

// rerun checks every page of settled document again, nothing may change.
func (f *fixture) rerun() {
	f.t.Helper()
	doc, before := f.s.Doc(), f.s.Stats().Transforms
	sched := f.s.Scheduler()
	sched.Tracker().Begin(model.PageCount(doc))
	for num := 1; num <= model.PageCount(doc); num++ {
		sched.Enqueue(num, schedule.TaskKindUser)
	}
	f.paginate()
	if n := f.s.Stats().Transforms - before; n != 0 || f.s.Doc() != doc {
		f.t.Fatalf("settled document changed by %d transforms\n%s\nbecame\n%s", n, doc, f.s.Doc())
	}
}

func (f *fixture) page(num int) model.PageRef {
	f.t.Helper()
	p, ok := model.FindPage(f.s.Doc(), num)
	if !ok {
		f.t.Fatalf("no page %d", num)
	}
	return p
}

func (f *fixture) texts(num int) []string {
	f.t.Helper()
	var out []string
	for _, b := range f.page(num).Blocks() {
		out = append(out, b.Node.TextContent())
	}
	return out
}

func (f *fixture) cursor(pos int) {
	f.t.Helper()
	if err := f.s.SetSelection(model.Cursor(pos)); err != nil {
		f.t.Fatal(err)
	}
}

func equal(a, b []string) bool {
	return strings.Join(a, "|") == strings.Join(b, "|")
}

// longParagraph settles short paragraph followed by a long one which does not
// fit on the first page.
func longParagraph(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, largeLayout, model.Doc(page(1, para("hello"), para(strings.Repeat("a", 10000)))))
	f.paginate()
	return f
}

func TestLongParagraphSplitsAcrossPages(t *testing.T) {
	f := longParagraph(t)
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Fatalf("%d pages\n%s", n, f.s.Doc())
	}
	if got := f.texts(1); !equal(got, []string{"hello", strings.Repeat("a", 9900)}) {
		t.Errorf("page 1 has %d blocks", len(got))
	}
	if got := f.texts(2); !equal(got, []string{strings.Repeat("a", 100)}) {
		t.Errorf("page 2 has %d blocks", len(got))
	}
	last, _ := f.page(1).LastBlock()
	first, _ := f.page(2).FirstBlock()
	if !last.Node.ID().Valid || last.Node.ID() != first.Node.ID() {
		t.Errorf("identities %v and %v", last.Node.ID(), first.Node.ID())
	}
	m, err := f.oracle.Overflow(1)
	if err != nil {
		t.Fatal(err)
	}
	if m.PlaceholderHeight != 0 {
		t.Errorf("placeholder height %v", m.PlaceholderHeight)
	}
}

func TestShortenedParagraphPulledBack(t *testing.T) {
	f := longParagraph(t)
	long := f.page(1).Blocks()[1]
	if err := f.s.DeleteRange(long.Start(), long.Start()+200); err != nil {
		t.Fatal(err)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 1 {
		t.Fatalf("%d pages\n%s", n, f.s.Doc())
	}
	if got := f.texts(1); !equal(got, []string{"hello", strings.Repeat("a", 9800)}) {
		t.Errorf("page 1 has %d blocks", len(got))
	}
}

func TestEditAtPageBoundary(t *testing.T) {
	t.Run("split", func(t *testing.T) {
		f := longParagraph(t)
		first, _ := f.page(2).FirstBlock()
		id := first.Node.ID()
		f.cursor(first.Start())
		if err := f.s.SplitBlock(); err != nil {
			t.Fatal(err)
		}
		f.paginate()
		blocks := f.page(2).Blocks()
		if len(blocks) != 2 {
			t.Fatalf("page 2 has %d blocks\n%s", len(blocks), f.s.Doc())
		}
		if blocks[0].Node.ID() != id {
			t.Errorf("continuation lost identity")
		}
		if got := blocks[1].Node.ID(); !got.Valid || got == id {
			t.Errorf("split off paragraph identity %v", got)
		}
	})
	t.Run("insert", func(t *testing.T) {
		f := longParagraph(t)
		last, _ := f.page(1).LastBlock()
		f.cursor(last.End())
		if err := f.s.InsertText("b"); err != nil {
			t.Fatal(err)
		}
		f.paginate()
		if n := model.PageCount(f.s.Doc()); n != 2 {
			t.Fatalf("%d pages", n)
		}
		if got := f.texts(2); !equal(got, []string{"b" + strings.Repeat("a", 100)}) {
			t.Errorf("page 2 %d blocks", len(got))
		}
		if got := model.PageAt(f.s.Doc(), f.s.Selection().Head); got != 2 {
			t.Errorf("cursor on page %d", got)
		}
	})
}

func TestDeleteForwardAtPageEnd(t *testing.T) {
	t.Run("empty next page", func(t *testing.T) {
		f := newFixture(t, smallLayout, model.Doc(page(1, para("abc")), page(2)))
		f.cursor(8)
		doc := f.s.Doc()
		if err := f.s.DeleteForward(); err != nil {
			t.Fatal(err)
		}
		if f.s.Doc() != doc {
			t.Errorf("document changed\n%s", f.s.Doc())
		}
		f.paginate()
		if n := model.PageCount(f.s.Doc()); n != 1 {
			t.Errorf("%d pages", n)
		}
	})
	t.Run("last page", func(t *testing.T) {
		f := newFixture(t, smallLayout, model.Doc(page(1, para("abc"))))
		f.cursor(8)
		doc := f.s.Doc()
		if err := f.s.DeleteForward(); err != nil {
			t.Fatal(err)
		}
		if f.s.Doc() != doc {
			t.Error("document changed")
		}
	})
	t.Run("join next page", func(t *testing.T) {
		f := newFixture(t, smallLayout, model.Doc(page(1, para("abc")), page(2, para("def"))))
		f.cursor(8)
		if err := f.s.DeleteForward(); err != nil {
			t.Fatal(err)
		}
		if got := f.texts(1); !equal(got, []string{"abcdef"}) {
			t.Errorf("page 1 %q", got)
		}
		if sel := f.s.Selection(); sel != model.Cursor(8) {
			t.Errorf("selection %+v", sel)
		}
		f.paginate()
		if n := model.PageCount(f.s.Doc()); n != 1 {
			t.Errorf("%d pages", n)
		}
	})
}

func TestDeleteBackward(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(page(1, para("abc"), para("def"))))
	// second paragraph starts at 10
	f.cursor(10)
	if err := f.s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := f.texts(1); !equal(got, []string{"abcdef"}) {
		t.Errorf("joined %q", got)
	}
	if err := f.s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := f.texts(1); !equal(got, []string{"abdef"}) {
		t.Errorf("after delete %q", got)
	}
	if sel := f.s.Selection(); sel != model.Cursor(7) {
		t.Errorf("selection %+v", sel)
	}
	f.cursor(5)
	doc := f.s.Doc()
	if err := f.s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if f.s.Doc() != doc {
		t.Error("delete at document start changed it")
	}
}

func TestDeleteRangeAcrossPages(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(
		page(1, para("abc")),
		page(2, para("def")),
		page(3, para("ghi"), para("jkl")),
	))
	// from "a|bc" to "g|hi"
	p3, _ := model.FindPage(f.s.Doc(), 3)
	to := p3.Blocks()[0].Start() + 1
	if err := f.s.DeleteRange(6, to); err != nil {
		t.Fatal(err)
	}
	if err := model.Validate(f.s.Doc()); err != nil {
		t.Fatalf("%v\n%s", err, f.s.Doc())
	}
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Fatalf("%d pages", n)
	}
	if got := f.texts(1); !equal(got, []string{"ahi"}) {
		t.Errorf("page 1 %q", got)
	}
	if got := f.texts(2); !equal(got, []string{"jkl"}) {
		t.Errorf("page 2 %q", got)
	}
	if sel := f.s.Selection(); sel != model.Cursor(6) {
		t.Errorf("selection %+v", sel)
	}
	f.paginate()
}

func TestSplitBlockCopiesIdentity(t *testing.T) {
	id := identity.FromString("p")
	f := newFixture(t, smallLayout, model.Doc(page(1, model.Paragraph(id, model.Text("abc")))))
	f.paginate()
	f.cursor(6)
	f.s.BeginComposition()
	if err := f.s.SplitBlock(); err != nil {
		t.Fatal(err)
	}
	if got := f.texts(1); !equal(got, []string{"a", "bc"}) {
		t.Fatalf("split %q", got)
	}
	blocks := f.page(1).Blocks()
	if blocks[0].Node.Attrs() != blocks[1].Node.Attrs() {
		t.Error("halves have different attributes")
	}
	if sel := f.s.Selection(); sel != model.Cursor(blocks[1].Start()) {
		t.Errorf("selection %+v", sel)
	}
	f.s.EndComposition()
	f.paginate()
	blocks = f.page(1).Blocks()
	if blocks[0].Node.ID() == blocks[1].Node.ID() {
		t.Error("identity still shared")
	}
}

func TestComposition(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(page(1, para("abc"))))
	f.paginate()
	f.cursor(8)
	f.s.BeginComposition()
	for range 7 {
		if err := f.s.InsertText("defghij"); err != nil {
			t.Fatal(err)
		}
	}
	if n := f.s.Scheduler().Pending(); n != 0 {
		t.Errorf("%d passes scheduled during composition", n)
	}
	if n := model.PageCount(f.s.Doc()); n != 1 {
		t.Errorf("%d pages during composition", n)
	}
	f.s.EndComposition()
	if n := f.s.Scheduler().Pending(); n != 1 {
		t.Errorf("%d passes scheduled after composition", n)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Errorf("%d pages", n)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	text := strings.Repeat("a", 50)
	f := newFixture(t, smallLayout, model.Doc(page(1, para(text))))
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 1 {
		t.Fatalf("%d pages", n)
	}
	settled := f.s.Doc()

	f.cursor(5 + 50)
	if err := f.s.InsertText("x"); err != nil {
		t.Fatal(err)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Fatalf("edit gave %d pages", n)
	}

	ok, err := f.s.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	f.paginate()
	if !f.s.Doc().Eq(settled) {
		t.Errorf("undo result\n%s", f.s.Doc())
	}
	if got := f.texts(1); !equal(got, []string{text}) {
		t.Errorf("page 1 %q", got)
	}

	ok, err = f.s.Redo()
	if err != nil || !ok {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Errorf("redo gave %d pages", n)
	}
	if ok, _ := f.s.Redo(); ok {
		t.Error("nothing left to redo")
	}
}

func TestIdempotent(t *testing.T) {
	f := longParagraph(t)
	n, err := f.s.Paginate(context.Background())
	if err != nil || n != 0 {
		t.Errorf("settled document ran %d passes: %v", n, err)
	}
	f.rerun()
}

func TestConvergence(t *testing.T) {
	words := []string{"lorem ", "ipsum ", "dolor ", "sit ", "amet "}
	for name, doc := range map[string]*model.Node{
		"paragraphs": model.Doc(page(1, para("lorem ipsum"), para("dolor sit amet"))),
		"headings": model.Doc(page(1,
			model.Heading(1, model.Text("lorem")),
			para("ipsum dolor"),
			model.Heading(2, model.Text("sit amet")),
			para("lorem"),
		)),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, smallLayout, doc)
			f.paginate()
			rnd := rand.New(rand.NewPCG(1, 2))
			for i := range 80 {
				var cursors []int
				for pos, n := range model.Textblocks(f.s.Doc()) {
					for off := 0; off <= n.ContentSize(); off++ {
						cursors = append(cursors, pos+1+off)
					}
				}
				f.cursor(cursors[rnd.IntN(len(cursors))])
				var err error
				switch op := rnd.IntN(10); {
				case op < 5:
					err = f.s.InsertText(words[rnd.IntN(len(words))])
				case op < 7:
					err = f.s.SplitBlock()
				case op < 9:
					err = f.s.DeleteBackward()
				default:
					err = f.s.DeleteForward()
				}
				if err != nil {
					t.Fatalf("edit %d: %v", i, err)
				}
				f.paginate()
				f.rerun()
			}
			if st := f.s.Stats(); st.Cycles == 0 || st.Passes == 0 {
				t.Errorf("stats %+v", st)
			}
		})
	}
}

// Shrinking block at the top of a page may let it move to the previous one.
func TestEditOnFirstBlockRefillsPreviousPage(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(
		page(1, para(strings.Repeat("a", 30))),
		page(2, model.Heading(1, model.Text("bbbbbbb")), para("d")),
	))
	f.paginate()
	if got := f.texts(2); !equal(got, []string{"bbbbbbb", "d"}) {
		t.Fatalf("page 2 %q\n%s", got, f.s.Doc())
	}
	first, _ := f.page(2).FirstBlock()
	f.cursor(first.End())
	if err := f.s.DeleteRange(first.Start()+3, first.End()); err != nil {
		t.Fatal(err)
	}
	f.paginate()
	if got := f.texts(1); !equal(got, []string{strings.Repeat("a", 30), "bbb"}) {
		t.Errorf("page 1 %q\n%s", got, f.s.Doc())
	}
	if got := f.texts(2); !equal(got, []string{"d"}) {
		t.Errorf("page 2 %q", got)
	}
	f.rerun()
}

func TestJoinEmptiesMiddlePage(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(
		page(1, model.Heading(1, model.Text(strings.Repeat("T", 40)))),
		page(2, model.Heading(1, model.Text("x"))),
		page(3, model.Heading(1, model.Text(strings.Repeat("U", 40)))),
	))
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 3 {
		t.Fatalf("%d pages\n%s", n, f.s.Doc())
	}
	first, _ := f.page(1).FirstBlock()
	f.cursor(first.End())
	if err := f.s.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if !f.page(2).Empty() {
		t.Fatalf("page 2 kept content\n%s", f.s.Doc())
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Fatalf("%d pages\n%s", n, f.s.Doc())
	}
	if got := f.texts(1); !equal(got, []string{strings.Repeat("T", 40) + "x"}) {
		t.Errorf("page 1 %q", got)
	}
	if got := f.texts(2); !equal(got, []string{strings.Repeat("U", 40)}) {
		t.Errorf("page 2 %q", got)
	}
	f.rerun()
}

func TestCompositionResumesAbortedPasses(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(
		page(1, para(strings.Repeat("a", 50))),
		page(2, para(strings.Repeat("z", 200))),
	))
	f.cursor(6)
	f.s.BeginComposition()
	if _, err := f.s.Paginate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.s.Converged() {
		t.Fatal("aborted passes reported as converged")
	}
	if got := f.s.Scheduler().Tracker().Unsettled(); len(got) != 2 {
		t.Errorf("unsettled pages %v", got)
	}
	f.s.EndComposition()
	if n := f.s.Scheduler().Pending(); n != 2 {
		t.Errorf("%d passes scheduled after composition", n)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 5 {
		t.Errorf("%d pages\n%s", n, f.s.Doc())
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(page(1, para("abc"))))
	gen := f.s.Scheduler().Generation()
	stale := model.NewTransform(f.s.Doc())
	if err := stale.Insert(5, model.Text("x")); err != nil {
		t.Fatal(err)
	}
	doc := model.Doc(page(1, para(strings.Repeat("b", 60))))
	if err := f.s.Reset(doc); err != nil {
		t.Fatal(err)
	}
	if f.s.Scheduler().Generation() == gen {
		t.Error("generation not bumped")
	}
	if err := f.s.Dispatch(stale); !errors.Is(err, ErrStaleTransform) {
		t.Errorf("Dispatch() = %v", err)
	}
	f.paginate()
	if n := model.PageCount(f.s.Doc()); n != 2 {
		t.Errorf("%d pages", n)
	}
	if err := f.s.Reset(model.Doc()); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("Reset(empty) = %v", err)
	}
}

func TestIdle(t *testing.T) {
	f := newFixture(t, smallLayout, model.Doc(page(1, para(strings.Repeat("c", 120)))))
	for range 100 {
		if f.s.Converged() {
			break
		}
		if _, err := f.s.Idle(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if !f.s.Converged() {
		t.Fatal("idle slices did not settle document")
	}
	f.check()
}
