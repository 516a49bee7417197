package proptree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/benji-bou/annocfg/core/convert"
)

var ErrNoElement = errors.New("no element to parse")

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Parse builds a tree from el. A document node is accepted and its root element
// used. Malformed colors abort the parse. Unresolved object references skip
// their leaf and are returned joined with the otherwise complete tree so the
// caller can decide whether to keep it.
func Parse(el *xmlquery.Node, conv *convert.Registry) (*Node, error) {
	n := New("", conv)
	if err := n.FromXML(el); err != nil {
		if isFatal(err) {
			return nil, err
		}
		return n, err
	}
	return n, nil
}

// Decode parses the first element of an XML document.
func Decode(r io.Reader, conv *convert.Registry) (*Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return Parse(doc, conv)
}

func ParseString(s string, conv *convert.Registry) (*Node, error) {
	return Decode(strings.NewReader(s), conv)
}

func isFatal(err error) bool {
	return err != nil && (errors.Is(err, convert.ErrFormat) || !errors.Is(err, convert.ErrLookup))
}

// FromXML loads el into n, appending to whatever n already holds.
func (n *Node) FromXML(el *xmlquery.Node) error {
	if el != nil && el.Type == xmlquery.DocumentNode {
		el = firstElement(el)
	}
	if el == nil || el.Type != xmlquery.ElementNode {
		return ErrNoElement
	}
	n.Tag = el.Data
	var lookupErrs []error
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		var err error
		if firstElement(child) == nil {
			err = n.Set(child.Data, child.InnerText(), false)
		} else {
			err = n.AddChild(child.Data).FromXML(child)
		}
		switch {
		case err == nil:
		case isFatal(err):
			return err
		default:
			slog.Warn("skipping unresolved object reference", "node", n.Tag, "tag", child.Data, "error", err)
			lookupErrs = append(lookupErrs, err)
		}
	}
	return errors.Join(lookupErrs...)
}

func firstElement(parent *xmlquery.Node) *xmlquery.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// Serialize renders n as a detached XML element.
func Serialize(n *Node) (*xmlquery.Node, error) {
	el := newElement(n.Tag, "")
	if err := n.ToXML(el); err != nil {
		return nil, err
	}
	return el, nil
}

// ToXML appends n's content to target: ConfigType first, then leaves and
// non-deleted children in the order they were added.
func (n *Node) ToXML(target *xmlquery.Node) error {
	if n.ConfigType != "" {
		xmlquery.AddChild(target, newElement(ConfigTypeTag, n.ConfigType))
	}
	for _, e := range n.entries() {
		if e.leaf != nil {
			text, err := n.conv.Encode(e.leaf.Value)
			if err != nil {
				return fmt.Errorf("encode %s/%s: %w", n.Tag, e.leaf.Tag, err)
			}
			xmlquery.AddChild(target, newElement(e.leaf.Tag, text))
			continue
		}
		sub := newElement(e.child.Tag, "")
		xmlquery.AddChild(target, sub)
		if err := e.child.ToXML(sub); err != nil {
			return err
		}
	}
	return nil
}

func newElement(tag, text string) *xmlquery.Node {
	el := &xmlquery.Node{Type: xmlquery.ElementNode, Data: tag}
	if text != "" {
		xmlquery.AddChild(el, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
	return el
}

// Encode writes n as XML. With indent, nested elements go on their own
// tab-indented lines the way the game's own files are laid out.
func Encode(w io.Writer, n *Node, indent bool) error {
	el, err := Serialize(n)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := writeElement(bw, el, 0, indent); err != nil {
		return err
	}
	if indent {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func MarshalString(n *Node, indent bool) (string, error) {
	sb := &strings.Builder{}
	if err := Encode(sb, n, indent); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeElement(w *bufio.Writer, el *xmlquery.Node, depth int, indent bool) error {
	pad := ""
	if indent {
		pad = strings.Repeat("\t", depth)
	}
	w.WriteString(pad + "<" + el.Data + ">")
	if firstElement(el) == nil {
		textEscaper.WriteString(w, el.InnerText())
		_, err := w.WriteString("</" + el.Data + ">")
		return err
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if indent {
			w.WriteByte('\n')
		}
		if err := writeElement(w, c, depth+1, indent); err != nil {
			return err
		}
	}
	if indent {
		w.WriteString("\n" + pad)
	}
	_, err := w.WriteString("</" + el.Data + ">")
	return err
}

// Query evaluates an XPath expression against the serialized tree and returns
// the inner text of every match.
func Query(n *Node, expr string) ([]string, error) {
	el, err := Serialize(n)
	if err != nil {
		return nil, err
	}
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	xmlquery.AddChild(doc, el)
	matches, err := xmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, m.InnerText())
	}
	return res, nil
}
