package editor

import (
	"pager/model"
)

type snapshot struct {
	doc *model.Node
	sel model.Selection
}

// History keeps snapshots of documents user edits were applied to. Documents
// are persistent so snapshot costs a pointer.
type History struct {
	depth int
	undo  []snapshot
	redo  []snapshot
}

// NewHistory creates history keeping at most depth edits, 0 disables it.
func NewHistory(depth int) *History {
	return &History{depth: depth}
}

// Record remembers state before user edit, redo branch is dropped.
func (h *History) Record(doc *model.Node, sel model.Selection) {
	if h.depth <= 0 {
		return
	}
	h.undo = append(h.undo, snapshot{doc: doc, sel: sel})
	if over := len(h.undo) - h.depth; over > 0 {
		h.undo = append(h.undo[:0], h.undo[over:]...)
	}
	h.redo = nil
}

func (h *History) undoTo(cur snapshot) (snapshot, bool) {
	return move(&h.undo, &h.redo, cur)
}

func (h *History) redoTo(cur snapshot) (snapshot, bool) {
	return move(&h.redo, &h.undo, cur)
}

func move(from, to *[]snapshot, cur snapshot) (snapshot, bool) {
	if len(*from) == 0 {
		return snapshot{}, false
	}
	last := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, cur)
	return last, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}
