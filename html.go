package bdoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// OriginalMarkupsSet is the annotation set name that receives annotations
// reconstructed from markup, distinct from any later analysis sets.
const OriginalMarkupsSet = "Original markups"

// blockTags lists the tags that force a line break before their content and
// after it, so the flattened text keeps its visual structure.
var blockTags = map[string]bool{
	"pre": true, "br": true, "p": true, "div": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "address": true, "article": true, "aside": true,
	"blockquote": true, "del": true, "figure": true, "figcaption": true,
	"footer": true, "header": true, "hr": true, "ins": true, "main": true,
	"nav": true, "section": true, "summary": true, "input": true,
	"legend": true, "option": true, "textarea": true, "bdi": true,
	"bdo": true, "center": true, "code": true, "dfn": true, "menu": true,
	"dir": true, "caption": true,
}

type markupEventKind int

const (
	eventStart markupEventKind = iota
	eventEnd
)

// markupEvent records one open or close of an element at a text offset.
type markupEvent struct {
	kind     markupEventKind
	id       int
	offset   int
	anntype  string
	features map[string]any
}

// markupBuilder is the accumulator threaded through one conversion call:
// the output text, the running code point offset, the element id counter
// and the ordered event list. Scratch state, discarded after the flat
// annotation list is produced.
type markupBuilder struct {
	text   strings.Builder
	offset int
	nextID int
	events []markupEvent
}

// appendText appends literal content and advances the offset by its code
// point length.
func (b *markupBuilder) appendText(s string) {
	b.text.WriteString(s)
	b.offset += utf8.RuneCountInString(s)
}

// breakLine inserts a single newline before or after a block-level tag,
// unless the buffer is empty or already newline-terminated.
func (b *markupBuilder) breakLine(tag string) {
	if !blockTags[tag] {
		return
	}
	if b.text.Len() == 0 || strings.HasSuffix(b.text.String(), "\n") {
		return
	}
	b.text.WriteByte('\n')
	b.offset++
}

// walkItem is one frame of the iterative tree walk. exit frames close an
// element after all its children have been visited.
type walkItem struct {
	node *html.Node
	exit bool
	id   int
}

// walkMarkup traverses the parsed tree depth-first with an explicit stack,
// recording start/end events against the shared builder.
func walkMarkup(ctx context.Context, b *markupBuilder, root *html.Node) {
	pushChildren := func(stack []walkItem, n *html.Node) []walkItem {
		// Reversed so the leftmost child is popped first.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, walkItem{node: c})
		}
		return stack
	}

	stack := []walkItem{{node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.exit {
			b.breakLine(it.node.Data)
			b.events = append(b.events, markupEvent{kind: eventEnd, id: it.id, offset: b.offset})
			continue
		}

		n := it.node
		switch n.Type {
		case html.TextNode:
			b.appendText(n.Data)
		case html.ElementNode:
			b.breakLine(n.Data)
			id := b.nextID
			b.nextID++
			b.events = append(b.events, markupEvent{
				kind:     eventStart,
				id:       id,
				offset:   b.offset,
				anntype:  n.Data,
				features: attrFeatures(n.Attr),
			})
			stack = append(stack, walkItem{node: n, exit: true, id: id})
			stack = pushChildren(stack, n)
		case html.DocumentNode:
			stack = pushChildren(stack, n)
		default:
			emitNodeSkipped(ctx, nodeKindName(n.Type))
		}
	}
}

// attrFeatures maps element attributes to a feature map. Elements without
// attributes get an empty map, mirroring how attribute dictionaries travel
// through the dictionary representation.
func attrFeatures(attrs []html.Attribute) map[string]any {
	features := make(map[string]any, len(attrs))
	for _, a := range attrs {
		features[a.Key] = a.Val
	}
	return features
}

func nodeKindName(t html.NodeType) string {
	switch t {
	case html.CommentNode:
		return "comment"
	case html.DoctypeNode:
		return "doctype"
	case html.RawNode:
		return "raw"
	case html.ErrorNode:
		return "error"
	default:
		return fmt.Sprintf("node(%d)", int(t))
	}
}

// markupToDocument converts a parsed markup tree into a document whose
// "Original markups" set reconstructs the element nesting via offsets.
func markupToDocument(ctx context.Context, root *html.Node) (*Document, error) {
	b := &markupBuilder{}
	walkMarkup(ctx, b, root)

	// Pair starts and ends by id into in-progress annotation records.
	type pending struct {
		anntype  string
		features map[string]any
		start    int
		end      int
		hasEnd   bool
	}
	byID := make(map[int]*pending)
	nstart, nend := 0, 0
	for _, ev := range b.events {
		switch ev.kind {
		case eventStart:
			nstart++
			byID[ev.id] = &pending{
				anntype:  ev.anntype,
				features: ev.features,
				start:    ev.offset,
			}
		case eventEnd:
			nend++
			p, ok := byID[ev.id]
			if !ok {
				return nil, newStreamError(ErrInvariantViolation,
					fmt.Sprintf("end event for unknown element id %d", ev.id), nil)
			}
			p.end = ev.offset
			p.hasEnd = true
		}
	}
	if nstart != nend {
		return nil, newStreamError(ErrInvariantViolation,
			fmt.Sprintf("%d start events but %d end events", nstart, nend), nil)
	}

	doc := NewDocument(b.text.String())
	set := doc.AnnSet(OriginalMarkupsSet)
	for id := 0; id < nstart; id++ {
		p, ok := byID[id]
		if !ok || !p.hasEnd {
			return nil, newStreamError(ErrInvariantViolation,
				fmt.Sprintf("element id %d has no paired events", id), nil)
		}
		set.Add(p.start, p.end, p.anntype, p.features)
	}
	return doc, nil
}

// loadHTML parses HTML-like markup and reconstructs a flat annotation set
// from the element nesting.
func loadHTML(ctx context.Context, src *source, o *options) (*Document, error) {
	data, err := src.readAll(o.gzip)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, newStreamError(ErrCorruptStream, "parsing markup", err)
	}
	return markupToDocument(ctx, root)
}
