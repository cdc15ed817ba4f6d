package research

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Converter turns a result body into markdown.
type Converter interface {
	Convert(body string) string
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(body string) string

// Convert calls f(body).
func (f ConverterFunc) Convert(body string) string {
	return f(body)
}

// HTMLConverter converts HTML fragments to markdown by walking the parsed
// node tree. Text without markup, markdown included, keeps its lines; only
// whitespace within a line is collapsed.
type HTMLConverter struct{}

// Convert implements Converter.
func (HTMLConverter) Convert(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return strings.TrimSpace(body)
	}

	if text, ok := textOnly(doc); ok {
		return plainText(text)
	}

	w := &mdWriter{}
	w.walk(doc)
	return normalize(w.sb.String())
}

// textOnly returns the concatenated text of doc when the parser found no
// markup besides the html, head and body elements it implies.
func textOnly(doc *html.Node) (string, bool) {
	var sb strings.Builder
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Html, atom.Head, atom.Body:
			default:
				return false
			}
		case html.DocumentNode:
		default:
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	if !visit(doc) {
		return "", false
	}
	return sb.String(), true
}

// plainText keeps the line structure of text, collapsing whitespace within
// each line only.
func plainText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(collapseSpace(line))
	}
	return normalize(strings.Join(lines, "\n"))
}

// mdWriter accumulates markdown while walking an HTML tree.
type mdWriter struct {
	sb        strings.Builder
	listDepth int
	inPre     bool
}

func (w *mdWriter) last() byte {
	s := w.sb.String()
	if len(s) == 0 {
		return '\n'
	}
	return s[len(s)-1]
}

func (w *mdWriter) write(s string) {
	w.sb.WriteString(s)
}

// newline ends the current line if it has content.
func (w *mdWriter) newline() {
	if w.last() != '\n' {
		w.sb.WriteByte('\n')
	}
}

// block separates block-level elements with one blank line.
func (w *mdWriter) block() {
	s := w.sb.String()
	if len(s) == 0 {
		return
	}
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		w.sb.WriteByte('\n')
	default:
		w.sb.WriteString("\n\n")
	}
}

func (w *mdWriter) text(s string) {
	if w.inPre {
		w.write(s)
		return
	}
	collapsed := collapseSpace(s)
	if collapsed == "" {
		return
	}
	if collapsed[0] == ' ' {
		if l := w.last(); l == '\n' || l == ' ' {
			collapsed = collapsed[1:]
		}
	}
	w.write(collapsed)
}

// inline renders the children of n into a separate buffer so the caller can
// wrap them in markdown delimiters.
func (w *mdWriter) inline(n *html.Node) string {
	sub := &mdWriter{listDepth: w.listDepth, inPre: w.inPre}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sub.walk(c)
	}
	return strings.TrimSpace(collapseSpace(sub.sb.String()))
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *mdWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.DocumentNode:
		w.children(n)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Head, atom.Template, atom.Iframe, atom.Svg:
		return

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.block()
		w.write(strings.Repeat("#", level) + " ")
		w.write(w.inline(n))
		w.block()

	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Main, atom.Aside, atom.Nav, atom.Figure, atom.Table, atom.Blockquote:
		if w.listDepth > 0 {
			w.newline()
			w.children(n)
			return
		}
		w.block()
		if n.DataAtom == atom.Blockquote {
			if inner := w.inline(n); inner != "" {
				w.write("> " + inner)
			}
		} else {
			w.children(n)
		}
		w.block()

	case atom.Tr:
		w.newline()
		w.children(n)
		w.newline()

	case atom.Td, atom.Th:
		if w.last() != '\n' {
			w.write(" | ")
		}
		w.write(w.inline(n))

	case atom.Br:
		w.newline()

	case atom.Hr:
		w.block()
		w.write("---")
		w.block()

	case atom.Ul, atom.Ol:
		if w.listDepth == 0 {
			w.block()
		} else {
			w.newline()
		}
		w.listDepth++
		index := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom != atom.Li {
				continue
			}
			index++
			marker := "- "
			if n.DataAtom == atom.Ol {
				marker = strconv.Itoa(index) + ". "
			}
			w.newline()
			w.write(strings.Repeat("  ", w.listDepth-1) + marker)
			w.children(c)
			w.newline()
		}
		w.listDepth--
		if w.listDepth == 0 {
			w.block()
		}

	case atom.A:
		inner := w.inline(n)
		href := attr(n, "href")
		switch {
		case inner == "":
		case href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:"):
			w.text(inner)
		default:
			w.writeInline("[" + inner + "](" + href + ")")
		}

	case atom.Strong, atom.B:
		if inner := w.inline(n); inner != "" {
			w.writeInline("**" + inner + "**")
		}

	case atom.Em, atom.I:
		if inner := w.inline(n); inner != "" {
			w.writeInline("_" + inner + "_")
		}

	case atom.Code:
		if w.inPre {
			w.children(n)
			return
		}
		if inner := w.inline(n); inner != "" {
			w.writeInline("`" + inner + "`")
		}

	case atom.Pre:
		w.block()
		w.write("```\n")
		w.inPre = true
		w.children(n)
		w.inPre = false
		w.newline()
		w.write("```")
		w.block()

	case atom.Img:
		if alt := strings.TrimSpace(attr(n, "alt")); alt != "" {
			w.writeInline("![" + alt + "](" + attr(n, "src") + ")")
		}

	default:
		w.children(n)
	}
}

// writeInline writes an inline token, adding a separating space when the
// previous text ended in a word character.
func (w *mdWriter) writeInline(s string) {
	if l := w.last(); l != '\n' && l != ' ' && l != '(' && l != '"' {
		w.write(" ")
	}
	w.write(s)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\u00a0':
			if !space {
				sb.WriteByte(' ')
				space = true
			}
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}

// normalize trims trailing spaces per line and limits blank lines to one.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
