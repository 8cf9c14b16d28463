package layout

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"go.uber.org/zap"

	"pager/config"
	"pager/model"
)

// Monospace lays text out in fixed width cells: words are wrapped at
// container width and words longer than a line are broken. It is used
// whenever real renderer is not available.
type Monospace struct {
	cfg     *config.LayoutConfig
	log     *zap.Logger
	surface *Surface
	handles *Handles
	// heights of rendered blocks, nodes are immutable so pointer identifies
	// content
	heights map[heightKey]float64
}

type heightKey struct {
	block *model.Node
	width float64
}

func NewMonospace(cfg *config.LayoutConfig, log *zap.Logger) *Monospace {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Monospace{cfg: cfg, log: log.Named("layout")}
	m.surface = NewSurface(m.blockHeight)
	return m
}

func (m *Monospace) box() Box {
	return Box{Width: m.cfg.ContentWidth, Height: m.cfg.ContentHeight}
}

func (m *Monospace) Render(doc *model.Node) error {
	if doc == nil {
		return fmt.Errorf("render: %w", ErrMissingTarget)
	}
	box := m.box()
	h := NewHandles(doc, box)
	// only blocks of the current document are kept
	cache, measured := make(map[heightKey]float64, len(m.heights)), 0
	for p := range model.Pages(doc) {
		blocks := p.Blocks()
		heights := make([]float64, 0, len(blocks))
		for _, b := range blocks {
			key := heightKey{block: b.Node, width: box.Width}
			height, ok := m.heights[key]
			if !ok {
				height = m.blockHeight(b.Node, box.Width)
				measured++
			}
			cache[key] = height
			heights = append(heights, height)
		}
		h.set(p.Num(), heights)
	}
	m.handles, m.heights = h, cache
	m.log.Debug("Rendered", zap.Int("pages", h.Len()), zap.Int("measured", measured))
	return nil
}

func (m *Monospace) Page(num int) (PageHandle, error) {
	return m.handles.Get(num)
}

func (m *Monospace) Overflow(num int) (Metrics, error) {
	h, err := m.handles.Get(num)
	if err != nil {
		return Metrics{}, err
	}
	used := h.Used()
	return Metrics{
		ScrollHeight:      max(used, h.Box.Height),
		ClientHeight:      h.Box.Height,
		PlaceholderHeight: max(0, h.Box.Height-used),
	}, nil
}

func (m *Monospace) MeasureClone(block *model.Node, widthHint float64) (float64, error) {
	if widthHint <= 0 {
		widthHint = m.cfg.ContentWidth
	}
	if err := m.surface.Attach(block, widthHint); err != nil {
		return 0, err
	}
	defer m.surface.Detach()
	return m.surface.Height()
}

// Lines returns number of lines text takes when wrapped at cols cells.
// Words are separated by runs of white space, words wider than a line
// start on a fresh line and are broken at cols cells.
func Lines(text string, cols int) int {
	cols = max(1, cols)
	lines, used := 1, 0
	for _, word := range strings.Fields(text) {
		w := ansi.PrintableRuneWidth(word)
		if used > 0 && used+1+w <= cols {
			used += 1 + w
			continue
		}
		if used > 0 {
			lines++
		}
		extra := (w - 1) / cols
		lines += extra
		used = w - extra*cols
	}
	return lines
}

func (m *Monospace) scale(block *model.Node) float64 {
	if block.Kind() != model.NodeKindHeading {
		return 1
	}
	level := min(max(block.Level(), 1), 6)
	return 1 + (m.cfg.HeadingScale-1)*float64(7-level)/6
}

func (m *Monospace) blockHeight(block *model.Node, width float64) float64 {
	scale := m.scale(block)
	cols := int(width / (m.cfg.CharWidth * scale))
	lines := Lines(block.TextContent(), cols)
	return float64(lines)*m.cfg.LineHeight*scale + m.cfg.BlockSpacing
}
