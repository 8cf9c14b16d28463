package layout

import (
	"pager/model"
)

// Measurer renders a single block in a container of given width.
type Measurer func(block *model.Node, width float64) float64

// Surface is offscreen container holding at most one cloned block at a time.
// Clone has to be detached before the next one is attached.
type Surface struct {
	measure Measurer
	clone   *model.Node
	width   float64
}

func NewSurface(measure Measurer) *Surface {
	return &Surface{measure: measure}
}

func (s *Surface) Attach(clone *model.Node, width float64) error {
	if s.clone != nil {
		return ErrSurfaceBusy
	}
	s.clone, s.width = clone, width
	return nil
}

// Height measures attached clone.
func (s *Surface) Height() (float64, error) {
	if s.clone == nil {
		return 0, ErrSurfaceEmpty
	}
	return s.measure(s.clone, s.width), nil
}

func (s *Surface) Detach() {
	s.clone, s.width = nil, 0
}

func (s *Surface) Mounted() bool {
	return s.clone != nil
}
