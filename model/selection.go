package model

// Selection is text selection, Anchor stays put while Head moves. Collapsed
// selection is a cursor.
type Selection struct {
	Anchor int
	Head   int
}

func Cursor(pos int) Selection { return Selection{Anchor: pos, Head: pos} }

func (s Selection) Empty() bool { return s.Anchor == s.Head }

func (s Selection) From() int { return min(s.Anchor, s.Head) }
func (s Selection) To() int   { return max(s.Anchor, s.Head) }

// Map carries selection through mapping. Positions stick to content inserted
// right at them the way typed text does.
func (s Selection) Map(m *Mapping) Selection {
	return Selection{Anchor: m.Map(s.Anchor, 1), Head: m.Map(s.Head, 1)}
}

// Valid reports whether both ends resolve to positions inside textblocks of
// page content.
func (s Selection) Valid(doc *Node) bool {
	return validCursor(doc, s.Anchor) && validCursor(doc, s.Head)
}

// Near returns selection with both ends moved to the closest valid positions.
func (s Selection) Near(doc *Node) Selection {
	return Selection{Anchor: Near(doc, s.Anchor, 1), Head: Near(doc, s.Head, 1)}
}

func validCursor(doc *Node, pos int) bool {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return false
	}
	return rp.InTextblock() && rp.InContent()
}

// Near finds cursor position closest to pos. Ties are resolved towards bias
// direction. Document without any textblock gives start of the first page
// content.
func Near(doc *Node, pos, bias int) int {
	if validCursor(doc, pos) {
		return pos
	}
	best, dist := -1, 0
	for at, n := range Textblocks(doc) {
		start, end := at+1, at+1+n.ContentSize()
		var (
			cand int
			d    int
		)
		switch {
		case pos < start:
			cand, d = start, start-pos
		case pos > end:
			cand, d = end, pos-end
		default:
			return pos
		}
		if best < 0 || d < dist || (d == dist && bias >= 0) {
			best, dist = cand, d
		}
		if pos < start {
			break
		}
	}
	if best < 0 {
		if p, ok := FindPage(doc, 1); ok {
			return p.ContentStart()
		}
		return 0
	}
	return best
}
