package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"pager/utils/debug"
)

const debugTextLimit = 48

// String returns human readable dump of the subtree.
func (n *Node) String() string {
	tw := debug.NewTreeWriter()
	n.dump(tw, 0)
	if n.kind == NodeKindDoc {
		dumpIdentities(tw, n)
	}
	return tw.String()
}

func (n *Node) dump(tw *debug.TreeWriter, depth int) {
	switch n.kind {
	case NodeKindText:
		label := "text"
		if len(n.marks) > 0 {
			label = fmt.Sprintf("text [%s]", strings.Join(n.marks, ","))
		}
		tw.TextBlock(depth, label, n.text, debugTextLimit)
		return
	case NodeKindPage:
		tw.Line(depth, "page %d (size %d)", n.Num(), n.Size())
	case NodeKindHeading:
		tw.Line(depth, "heading h%d", n.Level())
	case NodeKindParagraph:
		if n.attrs.ID.Valid {
			tw.Line(depth, "paragraph %s", n.attrs.ID.UUID)
		} else {
			tw.Line(depth, "paragraph")
		}
	default:
		tw.Line(depth, "%s", n.kind)
	}
	for _, c := range n.content.nodes {
		c.dump(tw, depth+1)
	}
}

func dumpIdentities(tw *debug.TreeWriter, doc *Node) {
	ids := Identities(doc)
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	pages := make(map[string][]int, len(ids))
	for id, occ := range ids {
		k := id.String()
		keys = append(keys, k)
		for _, o := range occ {
			pages[k] = append(pages[k], o.Page)
		}
	}
	sort.Sort(natural.StringSlice(keys))
	tw.Line(0, "identities")
	for _, k := range keys {
		tw.Line(1, "%s: pages %v", k, pages[k])
	}
}
