// =============================================================================
// SEPA Batch Generator - XML Tree Module
// =============================================================================
//
// This module provides the mutable element tree the document builder works
// on. The template document is structurally authoritative: the output is the
// template with leaf text replaced and the transaction block cloned once per
// record. The tree therefore keeps everything the parser saw that matters on
// the way back out (attribute order, namespace declarations, the whitespace
// between elements) instead of forcing the document through a struct schema.
//
// Like the ElementTree model, character data is split between Text (before
// the first child) and Tail (after the element's own end tag), which is how
// the template's indentation survives cloning and re-insertion.
//
// The serializer never emits self-closing tags: empty elements are written
// as <Tag></Tag> because receiving systems reject the <Tag/> shorthand.
//
// =============================================================================

package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// =============================================================================
// TREE TYPES
// =============================================================================

// Element is one node of a parsed document.
//
// Name.Space carries the namespace URI as resolved by the decoder. Attrs are
// kept in document order and include the namespace declarations themselves
// (xmlns / xmlns:prefix), which the serializer uses to rebuild prefixes.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Element
	Text     string
	Tail     string
}

// Document is a parsed XML file: the root element plus the declaration that
// preceded it, if any.
type Document struct {
	// Decl is the raw XML declaration ("<?xml ...?>"), empty when the
	// source had none. It is written back verbatim.
	Decl string
	Root *Element
}

// NotFoundError reports a lookup path that resolved to no element.
type NotFoundError struct {
	Namespace string
	Path      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("xmltree: no element %q in namespace %q", e.Path, e.Namespace)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse reads an XML document into a tree. Comments, directives and
// processing instructions other than the leading XML declaration are
// dropped; character data outside the root element is ignored.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name}
			if len(t.Attr) > 0 {
				el.Attrs = make([]xml.Attr, len(t.Attr))
				copy(el.Attrs, t.Attr)
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("xmltree: multiple root elements")
				}
				doc.Root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if n := len(cur.Children); n > 0 {
				cur.Children[n-1].Tail += string(t)
			} else {
				cur.Text += string(t)
			}

		case xml.ProcInst:
			if t.Target == "xml" && doc.Root == nil {
				doc.Decl = "<?xml " + string(t.Inst) + "?>"
			}
		}
	}

	if doc.Root == nil {
		return nil, fmt.Errorf("xmltree: document has no root element")
	}
	return doc, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// Find resolves a slash-separated path of local names, all qualified by the
// given namespace URI. The first segment matches any descendant of e; each
// following segment must be a direct child. The first full match in document
// order wins. A failed lookup returns a *NotFoundError naming the path.
func (e *Element) Find(ns, path string) (*Element, error) {
	segs := strings.Split(path, "/")
	var found *Element
	e.eachDescendant(func(cand *Element) bool {
		if cand.Name.Space != ns || cand.Name.Local != segs[0] {
			return false
		}
		if m := resolveChildPath(cand, ns, segs[1:]); m != nil {
			found = m
			return true
		}
		return false
	})
	if found == nil {
		return nil, &NotFoundError{Namespace: ns, Path: path}
	}
	return found, nil
}

// FindAll returns every descendant of e with the given namespace and local
// name, in document order.
func (e *Element) FindAll(ns, local string) []*Element {
	var out []*Element
	e.eachDescendant(func(cand *Element) bool {
		if cand.Name.Space == ns && cand.Name.Local == local {
			out = append(out, cand)
		}
		return false
	})
	return out
}

// resolveChildPath walks the remaining path segments through direct
// children, backtracking across same-named siblings.
func resolveChildPath(el *Element, ns string, segs []string) *Element {
	if len(segs) == 0 {
		return el
	}
	for _, c := range el.Children {
		if c.Name.Space != ns || c.Name.Local != segs[0] {
			continue
		}
		if m := resolveChildPath(c, ns, segs[1:]); m != nil {
			return m
		}
	}
	return nil
}

// eachDescendant visits every element strictly below e in document order
// until fn returns true.
func (e *Element) eachDescendant(fn func(*Element) bool) bool {
	for _, c := range e.Children {
		if fn(c) {
			return true
		}
		if c.eachDescendant(fn) {
			return true
		}
	}
	return false
}

// =============================================================================
// MUTATION
// =============================================================================

// Clone returns a deep copy of e. The copy shares no attribute slices or
// child nodes with the original, so mutating one side never shows through
// on the other.
func (e *Element) Clone() *Element {
	c := &Element{Name: e.Name, Text: e.Text, Tail: e.Tail}
	if len(e.Attrs) > 0 {
		c.Attrs = make([]xml.Attr, len(e.Attrs))
		copy(c.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		c.Children = make([]*Element, len(e.Children))
		for i, ch := range e.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the whole document.
func (d *Document) Clone() *Document {
	return &Document{Decl: d.Decl, Root: d.Root.Clone()}
}

// Remove detaches child from e's direct children. It reports whether the
// child was present.
func (e *Element) Remove(child *Element) bool {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds child as e's last direct child.
func (e *Element) Append(child *Element) {
	e.Children = append(e.Children, child)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize writes the document to w, declaration first when present. Empty
// elements are always rendered with separate open and close tags.
func (d *Document) Serialize(w io.Writer) error {
	var buf bytes.Buffer
	if d.Decl != "" {
		buf.WriteString(d.Decl)
		buf.WriteByte('\n')
	}
	if err := writeElement(&buf, d.Root, nil); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// writeElement renders e and its subtree. scope maps namespace URIs to the
// prefixes declared for them ("" for the default namespace).
func writeElement(buf *bytes.Buffer, e *Element, scope map[string]string) error {
	scope = extendScope(scope, e.Attrs)

	name, err := qualifyElement(e.Name, scope)
	if err != nil {
		return err
	}

	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range e.Attrs {
		aname, err := qualifyAttr(a.Name, scope)
		if err != nil {
			return err
		}
		buf.WriteByte(' ')
		buf.WriteString(aname)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')

	buf.WriteString(escapeText(e.Text))
	for _, c := range e.Children {
		if err := writeElement(buf, c, scope); err != nil {
			return err
		}
	}

	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
	buf.WriteString(escapeText(e.Tail))
	return nil
}

// extendScope layers the namespace declarations found in attrs over the
// inherited scope. The inherited map is never modified.
func extendScope(scope map[string]string, attrs []xml.Attr) map[string]string {
	var extended map[string]string
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		default:
			continue
		}
		if extended == nil {
			extended = make(map[string]string, len(scope)+2)
			for k, v := range scope {
				extended[k] = v
			}
		}
		extended[a.Value] = prefix
	}
	if extended == nil {
		return scope
	}
	return extended
}

func qualifyElement(n xml.Name, scope map[string]string) (string, error) {
	if n.Space == "" {
		return n.Local, nil
	}
	prefix, ok := scope[n.Space]
	if !ok {
		return "", fmt.Errorf("xmltree: element %s uses undeclared namespace %q", n.Local, n.Space)
	}
	if prefix == "" {
		return n.Local, nil
	}
	return prefix + ":" + n.Local, nil
}

func qualifyAttr(n xml.Name, scope map[string]string) (string, error) {
	switch {
	case n.Space == "" && n.Local == "xmlns":
		return "xmlns", nil
	case n.Space == "xmlns":
		return "xmlns:" + n.Local, nil
	case n.Space == "":
		return n.Local, nil
	case n.Space == "xml":
		return "xml:" + n.Local, nil
	}
	// Attributes never take the default namespace; they need a real prefix.
	prefix, ok := scope[n.Space]
	if !ok || prefix == "" {
		return "", fmt.Errorf("xmltree: attribute %s uses namespace %q with no prefix in scope", n.Local, n.Space)
	}
	return prefix + ":" + n.Local, nil
}

// escapeText escapes character data.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes an attribute value for a double-quoted attribute.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
