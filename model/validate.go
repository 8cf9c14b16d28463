package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var (
	ErrInvalid     = errors.New("invalid document")
	ErrDuplicateID = errors.New("duplicate paragraph identity")
)

// Validate checks document shape and page numbering, all problems found are
// reported together.
func Validate(doc *Node) (err error) {
	if doc == nil {
		return fmt.Errorf("nil document: %w", ErrInvalid)
	}
	if doc.kind != NodeKindDoc {
		return fmt.Errorf("root is %s: %w", doc.kind, ErrInvalid)
	}
	if doc.ChildCount() == 0 {
		return fmt.Errorf("document has no pages: %w", ErrInvalid)
	}
	for i, page := range doc.content.nodes {
		err = multierr.Append(err, validatePage(i+1, page))
	}
	return err
}

func validatePage(want int, page *Node) (err error) {
	if page.kind != NodeKindPage {
		return fmt.Errorf("child %d is %s: %w", want, page.kind, ErrInvalid)
	}
	if page.Num() != want {
		err = multierr.Append(err, fmt.Errorf("page %d numbered %d: %w", want, page.Num(), ErrInvalid))
	}
	parts := []NodeKind{NodeKindHeader, NodeKindContent, NodeKindFooter}
	if page.ChildCount() != len(parts) {
		return multierr.Append(err, fmt.Errorf("page %d has %d parts: %w", want, page.ChildCount(), ErrInvalid))
	}
	for i, k := range parts {
		part := page.Child(i)
		if part.kind != k {
			err = multierr.Append(err, fmt.Errorf("page %d part %d is %s, expected %s: %w", want, i, part.kind, k, ErrInvalid))
			continue
		}
		err = multierr.Append(err, validatePart(want, part))
	}
	return err
}

func validatePart(num int, part *Node) (err error) {
	last := part.ChildCount() - 1
	for i, b := range part.content.nodes {
		switch {
		case b.kind == NodeKindPlaceholder && part.kind == NodeKindContent:
			if i != last {
				err = multierr.Append(err, fmt.Errorf("page %d placeholder at %d is not last: %w", num, i, ErrInvalid))
			}
			continue
		case !allowedChild(part.kind, b.kind):
			err = multierr.Append(err, fmt.Errorf("page %d %s holds %s: %w", num, part.kind, b.kind, ErrInvalid))
			continue
		case b.kind == NodeKindHeading && (b.Level() < 1 || b.Level() > 6):
			err = multierr.Append(err, fmt.Errorf("page %d heading level %d: %w", num, b.Level(), ErrInvalid))
		}
		for _, c := range b.content.nodes {
			if !allowedChild(b.kind, c.kind) {
				err = multierr.Append(err, fmt.Errorf("page %d %s holds %s: %w", num, b.kind, c.kind, ErrInvalid))
			}
		}
	}
	if part.kind == NodeKindContent && (last < 0 || part.Child(last).kind != NodeKindPlaceholder) {
		err = multierr.Append(err, fmt.Errorf("page %d content does not end with placeholder: %w", num, ErrInvalid))
	}
	return err
}

// Occurrence is a paragraph owning identity.
type Occurrence struct {
	Page  int
	Pos   int
	First bool
	Last  bool
}

// Identities returns all occurrences of every paragraph identity in document
// order.
func Identities(doc *Node) map[uuid.UUID][]Occurrence {
	ids := make(map[uuid.UUID][]Occurrence)
	for p := range Pages(doc) {
		blocks := p.Blocks()
		for i, b := range blocks {
			if id := b.Node.ID(); id.Valid {
				ids[id.UUID] = append(ids[id.UUID], Occurrence{Page: p.Num(), Pos: b.Pos, First: i == 0, Last: i == len(blocks)-1})
			}
		}
	}
	return ids
}

// CheckIdentities reports identities owned by more than one paragraph. A
// paragraph continued on the following page is a single owner: it ends one
// page and starts the next one.
func CheckIdentities(doc *Node) (err error) {
	for id, occ := range Identities(doc) {
		for i := 1; i < len(occ); i++ {
			prev, cur := occ[i-1], occ[i]
			if cur.Page == prev.Page+1 && prev.Last && cur.First {
				continue
			}
			err = multierr.Append(err, fmt.Errorf("%s at %d and %d: %w", id, prev.Pos, cur.Pos, ErrDuplicateID))
		}
	}
	return err
}
