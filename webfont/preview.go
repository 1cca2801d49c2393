package webfont

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/npillmayer/fontpress/core"
)

const sampleText = "The quick brown fox jumps over the lazy dog 0123456789"

func elem(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Preview writes a specimen page for a packaged family: it links the
// family's stylesheet and shows a sample line per variant, so a packaging
// run can be inspected in a browser.
func Preview(w io.Writer, wf *Webfont, cssHref string) error {
	rows := make([]*html.Node, 0, len(wf.Variants)+1)
	rows = append(rows, elem(atom.H1, nil, text(wf.Name)))
	for _, v := range wf.Variants {
		label := fmt.Sprintf("%s %d %s", wf.Name, v.Weight, v.Style)
		rows = append(rows,
			elem(atom.P, []html.Attribute{
				attr("class", "specimen"),
				attr("style", fmt.Sprintf("font-weight:%d;font-style:%s", v.Weight, v.Style)),
			},
				elem(atom.Span, []html.Attribute{attr("class", "label")}, text(label)),
				text(" "+sampleText),
			))
	}
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(elem(atom.Html, []html.Attribute{attr("lang", "en")},
		elem(atom.Head, nil,
			elem(atom.Meta, []html.Attribute{attr("charset", "utf-8")}),
			elem(atom.Title, nil, text(wf.Name+" specimen")),
			elem(atom.Link, []html.Attribute{
				attr("rel", "stylesheet"),
				attr("href", cssHref),
			}),
			elem(atom.Style, nil, text(
				fmt.Sprintf("body{font-family:%q}p.specimen{font-size:18px}span.label{font-size:12px;color:#888}", wf.Name))),
		),
		elem(atom.Body, nil, rows...),
	))
	if err := html.Render(w, doc); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot render preview page")
	}
	return nil
}
