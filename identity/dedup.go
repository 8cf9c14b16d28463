package identity

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pager/model"
)

// Dedup makes identities of paragraphs on the page unique across document.
// For every identity owned by several paragraphs one occurrence on the page
// stays canonical and the rest get fresh identities:
//
//   - when the next page starts with the identity the last occurrence on the
//     page keeps it, it is continued there;
//   - when previous page ends with the identity and page starts with it the
//     first occurrence keeps it;
//   - when both happen first occurrence keeps it and the chain continued
//     on the next page moves to a fresh identity with the last occurrence;
//   - otherwise last occurrence keeps it.
//
// Occurrences on other pages, which are not a continuation, make all
// occurrences on the page lose the identity unless the page continues
// paragraph from or into its neighbour. Paragraphs without identity are
// left alone. Returns nil transform when there is nothing to fix.
func Dedup(doc *model.Node, pageNum int, log *zap.Logger) (*model.Transform, error) {
	if log == nil {
		log = zap.NewNop()
	}
	page, ok := model.FindPage(doc, pageNum)
	if !ok {
		return nil, fmt.Errorf("dedup page %d: %w", pageNum, model.ErrNoPage)
	}

	blocks := page.Blocks()
	local := make(map[uuid.UUID][]int)
	var order []uuid.UUID
	for i, b := range blocks {
		id := b.Node.ID()
		if !id.Valid {
			continue
		}
		if _, seen := local[id.UUID]; !seen {
			order = append(order, id.UUID)
		}
		local[id.UUID] = append(local[id.UUID], i)
	}
	if len(order) == 0 {
		return nil, nil
	}

	all := model.Identities(doc)
	tr := model.NewTransform(doc)
	tr.Meta = model.Meta{Origin: model.OriginDedup, Page: pageNum, IgnoreSchedule: true, NoHistory: true}

	for _, id := range order {
		idx := local[id]
		occ := all[id]
		lo, hi := -1, -1
		for i, o := range occ {
			if o.Page == pageNum {
				if lo < 0 {
					lo = i
				}
				hi = i
			}
		}
		start, end := lo, hi
		for end+1 < len(occ) && continues(occ[end], occ[end+1]) {
			end++
		}
		for start > 0 && continues(occ[start-1], occ[start]) {
			start--
		}
		var (
			toNext   = end > hi
			fromPrev = start < lo
			foreign  = end-start+1 < len(occ)
		)
		if len(idx) == 1 && !foreign {
			continue
		}

		first, last := idx[0], idx[len(idx)-1]
		keep, carry := last, false
		switch {
		case fromPrev && toNext && len(idx) > 1:
			// both chains survive, following one under new identity
			keep, carry = first, true
		case foreign && !toNext && !fromPrev:
			keep = -1
		case toNext && last == len(blocks)-1:
		case fromPrev && first == 0:
			keep = first
		}
		for _, i := range idx {
			if i == keep {
				continue
			}
			fresh, err := New()
			if err != nil {
				return nil, err
			}
			if err := tr.SetAttr(blocks[i].Pos, model.AttrID, fresh); err != nil {
				return nil, fmt.Errorf("dedup page %d: %w", pageNum, err)
			}
			if carry && i == last {
				for _, o := range occ[hi+1 : end+1] {
					if err := tr.SetAttr(o.Pos, model.AttrID, fresh); err != nil {
						return nil, fmt.Errorf("dedup page %d: %w", o.Page, err)
					}
				}
			}
			log.Debug("Identity reassigned",
				zap.Int("page", pageNum),
				zap.Stringer("old", id),
				zap.Stringer("new", fresh.UUID))
		}
	}
	if !tr.DocChanged() {
		return nil, nil
	}
	return tr, nil
}

// continues reports whether b is continuation of a paragraph ending page
// holding a.
func continues(a, b model.Occurrence) bool {
	return b.Page == a.Page+1 && a.Last && b.First
}
