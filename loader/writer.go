package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/beevik/etree"

	"pager/model"
)

var markTags = map[string]string{
	"em":     "em",
	"strong": "strong",
	"code":   "code",
}

type pendingBlock struct {
	el   *etree.Element
	node *model.Node
}

// Write produces page markup for the document. Indent is number of spaces
// used for block structure, 0 produces compact output. Inline content is
// never indented.
func Write(w io.Writer, doc *model.Node, indent int) error {
	out := etree.NewDocument()
	out.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}

	var blocks []pendingBlock
	for p := range model.Pages(doc) {
		page := out.CreateElement("div")
		page.CreateAttr("class", classPage)
		page.CreateAttr("num", strconv.Itoa(p.Num()))
		for _, part := range []struct {
			class string
			node  *model.Node
		}{
			{classHeader, p.Header()},
			{classContent, p.Content()},
			{classFooter, p.Footer()},
		} {
			el := page.CreateElement("div")
			el.CreateAttr("class", part.class)
			for _, b := range part.node.Content().All() {
				if b.Kind() == model.NodeKindPlaceholder {
					continue
				}
				blocks = append(blocks, pendingBlock{el: blockElement(el, b), node: b})
			}
		}
	}
	if indent > 0 {
		out.Indent(indent)
	}
	// after indentation so mixed content stays as it is
	for _, b := range blocks {
		writeInline(b.el, b.node)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write page markup: %w", err)
	}
	return nil
}

// WriteFile writes document markup to file.
func WriteFile(path string, doc *model.Node, indent int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create destination: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close destination: %w", cerr)
		}
	}()
	return Write(f, doc, indent)
}

func blockElement(parent *etree.Element, b *model.Node) *etree.Element {
	if b.Kind() == model.NodeKindHeading {
		return parent.CreateElement("h" + strconv.Itoa(b.Level()))
	}
	el := parent.CreateElement("p")
	if id := b.ID(); id.Valid {
		el.CreateAttr("id", id.UUID.String())
	}
	return el
}

func writeInline(el *etree.Element, block *model.Node) {
	for _, t := range block.Content().All() {
		target := el
		for _, m := range t.Marks() {
			if tag, ok := markTags[m]; ok {
				target = target.CreateElement(tag)
			}
		}
		target.CreateText(t.TextContent())
	}
}
