package model

// StepMap describes position shift caused by a single step: OldSize
// positions starting at Start were replaced by NewSize positions.
type StepMap struct {
	Start   int
	OldSize int
	NewSize int
}

// MapResult is mapped position together with a flag telling whether the
// original position was inside the replaced range.
type MapResult struct {
	Pos     int
	Deleted bool
}

// Map maps a single position. Assoc decides which side position sticks to
// when content is inserted right at it: negative keeps it before inserted
// content, otherwise it moves after.
func (m StepMap) Map(pos, assoc int) MapResult {
	end := m.Start + m.OldSize
	switch {
	case pos < m.Start:
		return MapResult{Pos: pos}
	case pos > end:
		return MapResult{Pos: pos + m.NewSize - m.OldSize}
	case m.OldSize == 0 && m.NewSize == 0:
		return MapResult{Pos: pos}
	}
	side := assoc
	if m.OldSize > 0 {
		switch pos {
		case m.Start:
			side = -1
		case end:
			side = 1
		}
	}
	res := MapResult{Pos: m.Start, Deleted: pos > m.Start && pos < end}
	if side >= 0 {
		res.Pos += m.NewSize
	}
	return res
}

// Mapping is ordered sequence of step maps, mapping positions from the
// document before first step to the document after the last one.
type Mapping struct {
	maps []StepMap
}

func (m *Mapping) Append(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// AppendMapping adds all maps of other after maps of m.
func (m *Mapping) AppendMapping(other *Mapping) {
	if other == nil {
		return
	}
	m.maps = append(m.maps, other.maps...)
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.maps)
}

func (m *Mapping) Maps() []StepMap {
	if m == nil {
		return nil
	}
	return m.maps
}

// Slice returns mapping of steps starting with from.
func (m *Mapping) Slice(from int) *Mapping {
	if m == nil || from >= len(m.maps) {
		return &Mapping{}
	}
	return &Mapping{maps: m.maps[from:]}
}

// Map maps position through all steps.
func (m *Mapping) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps position through all steps, Deleted is set when any of the
// steps removed content around the position.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	res := MapResult{Pos: pos}
	if m == nil {
		return res
	}
	for _, sm := range m.maps {
		r := sm.Map(res.Pos, assoc)
		res.Pos = r.Pos
		res.Deleted = res.Deleted || r.Deleted
	}
	return res
}
