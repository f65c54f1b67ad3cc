// Package chunker splits long HTML or plain text into size-bounded segments
// that can be translated independently and joined back in order.
package chunker

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Chunk is one translatable segment. Text is a balanced fragment of at most
// the requested size; the elements it was cut out of are kept aside so Join
// can re-open them once around consecutive chunks.
type Chunk struct {
	Text     string
	wrappers []wrapper
}

type wrapper struct {
	id    int
	open  string
	close string
}

// Split cuts markup into chunks whose Text holds at most maxChars runes.
// Markup is parsed as a body fragment, so implicitly closed elements get real
// boundaries. Sibling nodes are packed together; an element that does not fit
// is opened up and its children are split the same way. A text node that does
// not fit is cut at sentence or whitespace boundaries. Script and style
// elements are emitted whole. Wrapper tags do not count towards maxChars.
//
// Input that fits is returned unchanged. Otherwise Join returns the markup as
// rendered by x/net/html.
func Split(markup string, maxChars int) []Chunk {
	if markup == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(markup) <= maxChars {
		return []Chunk{{Text: markup}}
	}
	if !strings.Contains(markup, "<") {
		return TextChunks(markup, maxChars)
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return TextChunks(markup, maxChars)
	}

	s := &splitter{max: maxChars}
	s.split(nodes, nil)
	return s.chunks
}

// TextChunks wraps SplitText so plain text fields share the Chunk pipeline.
func TextChunks(text string, maxChars int) []Chunk {
	parts := SplitText(text, maxChars)
	if len(parts) == 0 {
		return nil
	}
	out := make([]Chunk, len(parts))
	for i, part := range parts {
		out[i] = Chunk{Text: part}
	}
	return out
}

// Join reassembles chunks produced by Split or TextChunks, possibly with
// their Text replaced by a translation.
func Join(chunks []Chunk) string {
	var (
		b    strings.Builder
		open []wrapper
	)
	for _, chunk := range chunks {
		shared := 0
		for shared < len(open) && shared < len(chunk.wrappers) && open[shared].id == chunk.wrappers[shared].id {
			shared++
		}
		for i := len(open) - 1; i >= shared; i-- {
			b.WriteString(open[i].close)
		}
		for _, w := range chunk.wrappers[shared:] {
			b.WriteString(w.open)
		}
		open = chunk.wrappers
		b.WriteString(chunk.Text)
	}
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString(open[i].close)
	}
	return b.String()
}

type splitter struct {
	max    int
	nextID int
	chunks []Chunk
}

func (s *splitter) emit(text string, wrappers []wrapper) {
	s.chunks = append(s.chunks, Chunk{Text: text, wrappers: wrappers})
}

func (s *splitter) split(nodes []*html.Node, wrappers []wrapper) {
	var (
		current strings.Builder
		size    int
	)
	flush := func() {
		if current.Len() > 0 {
			s.emit(current.String(), wrappers)
			current.Reset()
			size = 0
		}
	}

	for _, n := range nodes {
		raw := render(n)
		nodeSize := utf8.RuneCountInString(raw)
		if nodeSize <= s.max {
			if size+nodeSize > s.max {
				flush()
			}
			current.WriteString(raw)
			size += nodeSize
			continue
		}

		flush()
		if n.Type == html.TextNode {
			for _, part := range SplitText(raw, s.max) {
				s.emit(part, wrappers)
			}
			continue
		}
		open, closeTag, ok := tags(n)
		if !ok {
			s.emit(raw, wrappers)
			continue
		}
		s.nextID++
		inner := append(slices.Clip(wrappers), wrapper{id: s.nextID, open: open, close: closeTag})
		s.split(children(n), inner)
	}
	flush()
}

// tags returns the open and close tags of an element that can be opened up.
func tags(n *html.Node) (string, string, bool) {
	if n.Type != html.ElementNode || n.FirstChild == nil {
		return "", "", false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Textarea, atom.Title:
		return "", "", false
	}
	shell := render(&html.Node{
		Type:      html.ElementNode,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
		Attr:      n.Attr,
	})
	closeTag := "</" + n.Data + ">"
	if !strings.HasSuffix(shell, closeTag) {
		return "", "", false
	}
	return strings.TrimSuffix(shell, closeTag), closeTag, true
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func render(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}
