// Package loader reads and writes paged documents as HTML page markup:
//
//	<div class="page" num="1">
//	  <div class="page_header">...</div>
//	  <div class="page_content"><h3>...</h3><p id="...">...</p></div>
//	  <div class="page_footer">...</div>
//	</div>
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"pager/identity"
	"pager/model"
)

var ErrNoContent = errors.New("no page content found")

const (
	classPage        = "page"
	classHeader      = "page_header"
	classContent     = "page_content"
	classFooter      = "page_footer"
	classPlaceholder = "placeholder"
)

// most common named references, markup often comes from HTML editors
var entities = map[string]string{
	"nbsp":   "\u00a0",
	"shy":    "\u00ad",
	"ndash":  "–",
	"mdash":  "—",
	"hellip": "…",
	"laquo":  "«",
	"raquo":  "»",
	"ldquo":  "“",
	"rdquo":  "”",
	"lsquo":  "‘",
	"rsquo":  "’",
	"copy":   "©",
}

var inlineMarks = map[string]string{
	"em":     "em",
	"i":      "em",
	"strong": "strong",
	"b":      "strong",
	"code":   "code",
}

// ReadFile loads document from file.
func ReadFile(path string, log *zap.Logger) (*model.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source: %w", err)
	}
	defer f.Close()
	return Read(f, log)
}

// Read parses page markup. Blocks found outside of pages all go to the
// first page, pages are renumbered in document order.
func Read(r io.Reader, log *zap.Logger) (*model.Node, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("loader")

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        entities,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read page markup: %w", err)
	}

	var pages []*etree.Element
	collect(&doc.Element, func(el *etree.Element) bool {
		if hasClass(el, classPage) {
			pages = append(pages, el)
			return false
		}
		return true
	})

	var out []*model.Node
	if len(pages) == 0 {
		blocks := readBlocks(&doc.Element, log)
		if len(blocks) == 0 {
			return nil, ErrNoContent
		}
		log.Debug("No pages, using single page", zap.Int("blocks", len(blocks)))
		out = append(out, model.Page(1, model.Header(), model.Content(blocks...), model.Footer()))
	}
	for i, el := range pages {
		num := i + 1
		if attr := el.SelectAttrValue("num", ""); attr != strconv.Itoa(num) {
			log.Debug("Page renumbered", zap.String("num", attr), zap.Int("new", num))
		}
		out = append(out, readPage(el, num, log))
	}

	result := model.Doc(out...)
	if err := model.Validate(result); err != nil {
		return nil, fmt.Errorf("unable to load page markup: %w", err)
	}
	return result, nil
}

func readPage(el *etree.Element, num int, log *zap.Logger) *model.Node {
	var header, content, footer []*model.Node
	for _, part := range el.ChildElements() {
		switch {
		case hasClass(part, classHeader):
			header = append(header, readBlocks(part, log)...)
		case hasClass(part, classFooter):
			footer = append(footer, readBlocks(part, log)...)
		case hasClass(part, classContent):
			content = append(content, readBlocks(part, log)...)
		default:
			// stray blocks belong to content
			content = append(content, readBlocks(wrap(part), log)...)
		}
	}
	return model.Page(num, model.Header(header...), model.Content(content...), model.Footer(footer...))
}

// wrap returns element whose only child is el.
func wrap(el *etree.Element) *etree.Element {
	w := etree.NewElement("div")
	w.AddChild(el.Copy())
	return w
}

// readBlocks returns textblocks found under el in document order.
func readBlocks(el *etree.Element, log *zap.Logger) []*model.Node {
	var blocks []*model.Node
	collect(el, func(child *etree.Element) bool {
		if hasClass(child, classPlaceholder) {
			return false
		}
		tag := strings.ToLower(child.Tag)
		if level, ok := headingLevel(tag); ok {
			blocks = append(blocks, model.Heading(level, readInline(child)...))
			return false
		}
		if tag == "p" {
			id := identity.FromString(child.SelectAttrValue("id", ""))
			blocks = append(blocks, model.Paragraph(id, readInline(child)...))
			return false
		}
		if tag == "img" {
			log.Warn("Images are not supported, ignoring", zap.String("src", child.SelectAttrValue("src", "")))
			return false
		}
		return true
	})
	return blocks
}

// collect walks elements under el calling visit, children are only visited
// when it returns true.
func collect(el *etree.Element, visit func(*etree.Element) bool) {
	for _, child := range el.ChildElements() {
		if visit(child) {
			collect(child, visit)
		}
	}
}

func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0, false
	}
	return int(tag[1] - '0'), true
}

func hasClass(el *etree.Element, class string) bool {
	return slices.Contains(strings.Fields(el.SelectAttrValue("class", "")), class)
}

type segment struct {
	text  string
	marks []string
}

func readInline(el *etree.Element) []*model.Node {
	var segs []segment
	var walk func(el *etree.Element, marks []string)
	walk = func(el *etree.Element, marks []string) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				segs = append(segs, segment{text: t.Data, marks: marks})
			case *etree.Element:
				inner := marks
				if m, ok := inlineMarks[strings.ToLower(t.Tag)]; ok && !slices.Contains(marks, m) {
					inner = append(slices.Clone(marks), m)
					slices.Sort(inner)
				}
				walk(t, inner)
			}
		}
	}
	walk(el, nil)

	nodes := make([]*model.Node, 0, len(segs))
	for i, s := range segs {
		text := collapse(s.text, i == 0, i == len(segs)-1)
		if text == "" {
			continue
		}
		nodes = append(nodes, model.Text(norm.NFC.String(text), s.marks...))
	}
	return nodes
}

// collapse replaces whitespace runs containing line breaks, which come from
// markup formatting, with a single space. Such runs are dropped at block
// edges.
func collapse(s string, first, last bool) string {
	var (
		sb    strings.Builder
		start = -1
	)
	flush := func(end int, edge bool) {
		run := s[start:end]
		start = -1
		switch {
		case !strings.ContainsAny(run, "\r\n"):
			sb.WriteString(run)
		case !edge:
			sb.WriteByte(' ')
		}
	}
	for i, c := range s {
		if isMarkupSpace(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i, first && start == 0)
		}
		sb.WriteRune(c)
	}
	if start >= 0 {
		flush(len(s), last || first && start == 0)
	}
	return sb.String()
}

func isMarkupSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
