package reflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"pager/config"
	"pager/identity"
	"pager/layout"
	"pager/model"
)

// ten cells per line, five lines per page
var testLayout = config.LayoutConfig{
	ContentHeight: 100,
	ContentWidth:  80,
	CharWidth:     8,
	LineHeight:    20,
	HeadingScale:  1.5,
}

var idA = identity.FromString("a")

func para(id uuid.NullUUID, text string) *model.Node {
	return model.Paragraph(id, model.Text(text))
}

func page(num int, blocks ...*model.Node) *model.Node {
	return model.Page(num, model.Header(), model.Content(blocks...), model.Footer())
}

type fixture struct {
	t      *testing.T
	oracle *layout.Monospace
	opts   Options
}

func newFixture(t *testing.T, mode config.SearchMode) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	return &fixture{t: t, oracle: layout.NewMonospace(&testLayout, log), opts: Options{Search: mode, Log: log}}
}

func (f *fixture) reflow(doc *model.Node, sel model.Selection, num int) (*Result, error) {
	f.t.Helper()
	if err := f.oracle.Render(doc); err != nil {
		f.t.Fatal(err)
	}
	return Reflow(context.Background(), doc, sel, f.oracle, num, f.opts)
}

// settle runs passes over all pages until none of them changes document.
func (f *fixture) settle(doc *model.Node) *model.Node {
	f.t.Helper()
	for range 1000 {
		changed := false
		for num := 1; num <= model.PageCount(doc); num++ {
			res, err := f.reflow(doc, model.Cursor(5), num)
			if err != nil && !errors.Is(err, ErrUnsplittable) {
				f.t.Fatalf("page %d: %v", num, err)
			}
			if res != nil && res.Transform != nil {
				doc = res.Transform.Doc()
				changed = true
				break
			}
		}
		if !changed {
			return doc
		}
	}
	f.t.Fatal("document does not settle")
	return nil
}

func blockTexts(doc *model.Node, num int) []string {
	p, ok := model.FindPage(doc, num)
	if !ok {
		return nil
	}
	var out []string
	for _, b := range p.Blocks() {
		out = append(out, b.Node.TextContent())
	}
	return out
}

func TestCutPoint(t *testing.T) {
	for _, mode := range config.SearchModeNames() {
		t.Run(mode, func(t *testing.T) {
			m, err := config.ParseSearchMode(mode)
			if err != nil {
				t.Fatal(err)
			}
			tests := []struct {
				name   string
				n      int
				target float64
				want   int
			}{
				{"fits after six", 10, 4, 6},
				{"one is enough", 10, 9, 1},
				{"nothing fits", 10, -1, 10},
				{"empty", 0, 5, 0},
			}
			for _, tt := range tests {
				got, err := cutPoint(context.Background(), m, tt.n, tt.target, func(keep int) (float64, error) {
					return float64(keep), nil
				})
				if err != nil {
					t.Fatal(err)
				}
				if got != tt.want {
					t.Errorf("%s: cutPoint = %d, want %d", tt.name, got, tt.want)
				}
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cutPoint(ctx, config.SearchModeBisect, 10, 4, func(int) (float64, error) { return 0, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled search: %v", err)
	}
}

func TestFullPageIsSettled(t *testing.T) {
	f := newFixture(t, config.SearchModeBisect)
	doc := model.Doc(page(1, para(uuid.NullUUID{}, strings.Repeat("a", 50))))
	res, err := f.reflow(doc, model.Cursor(5), 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Transform != nil || !res.Finished || res.Selection != model.Cursor(5) {
		t.Errorf("result = %+v", res)
	}
}

func TestOverflowCreatesPage(t *testing.T) {
	for _, mode := range []config.SearchMode{config.SearchModeLinear, config.SearchModeBisect} {
		t.Run(mode.String(), func(t *testing.T) {
			f := newFixture(t, mode)
			doc := model.Doc(page(1, para(uuid.NullUUID{}, strings.Repeat("a", 60))))
			p1, _ := model.FindPage(doc, 1)
			last, _ := p1.LastBlock()

			res, err := f.reflow(doc, model.Cursor(last.End()), 1)
			if err != nil {
				t.Fatal(err)
			}
			tr := res.Transform
			if tr == nil {
				t.Fatal("no transform")
			}
			if tr.Meta.Origin != model.OriginReflow || !tr.Meta.NoHistory || tr.Meta.Page != 1 || !tr.Meta.Finished || !res.Finished {
				t.Errorf("meta = %+v", tr.Meta)
			}
			out := tr.Doc()
			if err := model.Validate(out); err != nil {
				t.Fatal(err)
			}
			if got := blockTexts(out, 1); len(got) != 1 || len(got[0]) != 50 {
				t.Errorf("page 1 = %q", got)
			}
			if got := blockTexts(out, 2); len(got) != 1 || len(got[0]) != 10 {
				t.Errorf("page 2 = %q", got)
			}
			n1, n2 := mustFirst(t, out, 1), mustFirst(t, out, 2)
			if !n1.ID().Valid || n1.ID() != n2.ID() {
				t.Errorf("identities %v %v", n1.ID(), n2.ID())
			}
			if err := model.CheckIdentities(out); err != nil {
				t.Error(err)
			}

			rp, err := out.Resolve(res.Selection.Head)
			if err != nil {
				t.Fatal(err)
			}
			if rp.PageNum() != 2 || rp.ParentOffset != 10 || !rp.InTextblock() {
				t.Errorf("cursor on page %d offset %d", rp.PageNum(), rp.ParentOffset)
			}

			// pushed page is settled now
			res, err = f.reflow(out, res.Selection, 1)
			if err != nil || res.Transform != nil {
				t.Errorf("second pass: %v %+v", err, res)
			}
		})
	}
}

func mustFirst(t *testing.T, doc *model.Node, num int) *model.Node {
	t.Helper()
	p, ok := model.FindPage(doc, num)
	if !ok {
		t.Fatalf("no page %d", num)
	}
	b, ok := p.FirstBlock()
	if !ok {
		t.Fatalf("page %d is empty", num)
	}
	return b.Node
}

func TestOverflowMergesContinuation(t *testing.T) {
	f := newFixture(t, config.SearchModeBisect)
	doc := model.Doc(
		page(1, para(idA, strings.Repeat("a", 60))),
		page(2, para(idA, "bbb"), para(uuid.NullUUID{}, "next")),
	)
	res, err := f.reflow(doc, model.Cursor(5), 1)
	if err != nil {
		t.Fatal(err)
	}
	out := res.Transform.Doc()
	want := []string{strings.Repeat("a", 10) + "bbb", "next"}
	if got := blockTexts(out, 2); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("page 2 = %q", got)
	}
	if res.Selection != model.Cursor(5) {
		t.Errorf("selection moved to %+v", res.Selection)
	}
}

func TestOverflowMovesHeading(t *testing.T) {
	f := newFixture(t, config.SearchModeBisect)
	doc := model.Doc(
		page(1, para(uuid.NullUUID{}, strings.Repeat("a", 40)), model.Heading(1, model.Text("ab"))),
		page(2, para(uuid.NullUUID{}, "next")),
	)
	res, err := f.reflow(doc, model.Cursor(5), 1)
	if err != nil {
		t.Fatal(err)
	}
	out := res.Transform.Doc()
	if got := blockTexts(out, 2); len(got) != 2 || got[0] != "ab" {
		t.Errorf("page 2 = %q", got)
	}
	if h := mustFirst(t, out, 2); h.Kind() != model.NodeKindHeading || h.ID().Valid {
		t.Errorf("moved block = %s %v", h.Kind(), h.ID())
	}
}

func TestOverflowUnsplittable(t *testing.T) {
	f := newFixture(t, config.SearchModeBisect)
	doc := model.Doc(page(1, model.Heading(1, model.Text(strings.Repeat("h", 60)))))
	res, err := f.reflow(doc, model.Cursor(5), 1)
	if !errors.Is(err, ErrUnsplittable) {
		t.Fatalf("error = %v", err)
	}
	if res == nil || res.Transform != nil || !res.Finished {
		t.Errorf("result = %+v", res)
	}
}

func TestUnderflow(t *testing.T) {
	t.Run("merge pulls continuation", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(
			page(1, para(idA, strings.Repeat("a", 30))),
			page(2, para(idA, strings.Repeat("b", 30))),
		)
		p2, _ := model.FindPage(doc, 2)
		first, _ := p2.FirstBlock()
		res, err := f.reflow(doc, model.Cursor(first.Start()+3), 1)
		if err != nil {
			t.Fatal(err)
		}
		if res.Transform == nil || res.Finished {
			t.Fatalf("result = %+v", res)
		}
		out := res.Transform.Doc()
		if got := blockTexts(out, 1); len(got) != 1 || got[0] != strings.Repeat("a", 30)+strings.Repeat("b", 30) {
			t.Errorf("page 1 = %q", got)
		}
		if p, _ := model.FindPage(out, 2); !p.Empty() {
			t.Error("page 2 is not empty")
		}
		rp, _ := out.Resolve(res.Selection.Head)
		if rp.PageNum() != 1 || rp.ParentOffset != 33 {
			t.Errorf("cursor on page %d offset %d", rp.PageNum(), rp.ParentOffset)
		}
	})
	t.Run("sibling pulled when it fits", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(
			page(1, para(uuid.NullUUID{}, strings.Repeat("a", 40))),
			page(2, para(idA, "c"), para(uuid.NullUUID{}, "d")),
		)
		res, err := f.reflow(doc, model.Cursor(5), 1)
		if err != nil || res.Transform == nil {
			t.Fatalf("result %+v, %v", res, err)
		}
		if got := blockTexts(res.Transform.Doc(), 1); len(got) != 2 || got[1] != "c" {
			t.Errorf("page 1 = %q", got)
		}
	})
	t.Run("nothing fits", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(
			page(1, para(uuid.NullUUID{}, strings.Repeat("a", 40))),
			page(2, model.Heading(1, model.Text("ab"))),
		)
		res, err := f.reflow(doc, model.Cursor(5), 1)
		if err != nil || res.Transform != nil || !res.Finished {
			t.Errorf("result %+v, %v", res, err)
		}
	})
	t.Run("empty next page removed", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(
			page(1, para(uuid.NullUUID{}, "a")),
			page(2),
			page(3, model.Heading(1, model.Text(strings.Repeat("h", 60)))),
		)
		res, err := f.reflow(doc, model.Cursor(5), 1)
		if err != nil || res.Transform == nil {
			t.Fatalf("result %+v, %v", res, err)
		}
		out := res.Transform.Doc()
		if model.PageCount(out) != 2 {
			t.Fatalf("pages = %d", model.PageCount(out))
		}
		if err := model.Validate(out); err != nil {
			t.Errorf("numbering: %v", err)
		}
	})
	t.Run("trailing empty page removes itself", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(page(1, para(uuid.NullUUID{}, "a")), page(2))
		p2, _ := model.FindPage(doc, 2)
		res, err := f.reflow(doc, model.Cursor(p2.ContentStart()), 2)
		if err != nil || res.Transform == nil || !res.Finished {
			t.Fatalf("result %+v, %v", res, err)
		}
		out := res.Transform.Doc()
		if model.PageCount(out) != 1 || !res.Selection.Valid(out) {
			t.Errorf("pages %d, selection %+v", model.PageCount(out), res.Selection)
		}
	})
	t.Run("empty page before block that never fits removes itself", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		doc := model.Doc(
			page(1, para(uuid.NullUUID{}, "a")),
			page(2),
			page(3, model.Heading(1, model.Text(strings.Repeat("h", 60)))),
		)
		res, err := f.reflow(doc, model.Cursor(5), 2)
		if err != nil || res.Transform == nil {
			t.Fatalf("result %+v, %v", res, err)
		}
		if res.Finished {
			t.Error("page taking the number must be checked again")
		}
		out := res.Transform.Doc()
		if model.PageCount(out) != 2 {
			t.Fatalf("pages = %d", model.PageCount(out))
		}
		if err := model.Validate(out); err != nil {
			t.Errorf("numbering: %v", err)
		}
		if h := mustFirst(t, out, 2); h.Kind() != model.NodeKindHeading {
			t.Errorf("page 2 starts with %s", h.Kind())
		}
	})
	t.Run("single empty page stays", func(t *testing.T) {
		f := newFixture(t, config.SearchModeBisect)
		res, err := f.reflow(model.Doc(page(1)), model.Cursor(4), 1)
		if err != nil || res.Transform != nil {
			t.Errorf("result %+v, %v", res, err)
		}
	})
}

func TestMissingTarget(t *testing.T) {
	f := newFixture(t, config.SearchModeBisect)
	doc := model.Doc(page(1, para(uuid.NullUUID{}, "a")))
	if _, err := f.reflow(doc, model.Cursor(5), 3); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("missing page: %v", err)
	}

	// handle table rendered for different document
	other := model.Doc(page(1, model.Heading(1), para(uuid.NullUUID{}, "a")), page(2, para(uuid.NullUUID{}, "b")))
	if err := f.oracle.Render(other); err != nil {
		t.Fatal(err)
	}
	stale := model.Doc(page(1, para(uuid.NullUUID{}, "a")), page(2, para(uuid.NullUUID{}, "b")))
	if _, err := Reflow(context.Background(), stale, model.Cursor(5), f.oracle, 2, f.opts); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("stale handles: %v", err)
	}
}

func TestSettles(t *testing.T) {
	for _, mode := range []config.SearchMode{config.SearchModeLinear, config.SearchModeBisect} {
		t.Run(mode.String(), func(t *testing.T) {
			f := newFixture(t, mode)
			long := strings.Repeat("lorem ipsum dolor sit amet ", 20)
			doc := f.settle(model.Doc(page(1,
				para(uuid.NullUUID{}, "short"),
				para(uuid.NullUUID{}, long),
				model.Heading(2, model.Text("tail")),
			)))
			if err := model.Validate(doc); err != nil {
				t.Fatal(err)
			}
			if err := model.CheckIdentities(doc); err != nil {
				t.Error(err)
			}
			var text strings.Builder
			for num := 1; num <= model.PageCount(doc); num++ {
				if err := f.oracle.Render(doc); err != nil {
					t.Fatal(err)
				}
				m, err := f.oracle.Overflow(num)
				if err != nil {
					t.Fatal(err)
				}
				if m.Overflowing() {
					t.Errorf("page %d overflows: %+v", num, m)
				}
				for _, s := range blockTexts(doc, num) {
					text.WriteString(s)
				}
			}
			if got, want := text.String(), "short"+long+"tail"; got != want {
				t.Errorf("text lost:\n got %q\nwant %q", got, want)
			}
		})
	}
}
