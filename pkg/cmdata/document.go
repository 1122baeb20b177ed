package cmdata

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rangen-network/rangen/pkg/util"
)

// DefaultDecl is the XML declaration emitted when the parsed input carried none.
const DefaultDecl = `<?xml version="1.0" encoding="UTF-8"?>`

// Document is an ordered tree of managed objects parsed from one
// configuration file. The root element's tag and attributes are preserved, as
// are the input's indentation unit and per-object attribute order, so vendor
// envelopes (cmData, raml, ...) survive a parse/serialize cycle byte for byte.
type Document struct {
	Decl     string // XML declaration line, verbatim
	RootTag  string
	RootAttr []Attr

	Objects []*ManagedObject // top-level managed objects, document order

	indent string // one indentation level as found in the input
	index  map[string]*ManagedObject
}

// Parse reads configuration document bytes into a Document. It fails with
// MalformedDocumentError on input that is not well-formed or does not follow
// the managed-object structure, and with DNCollisionError when two managed
// objects share a distinguished name.
func Parse(data []byte) (*Document, error) {
	doc := &Document{
		Decl:   DefaultDecl,
		indent: detectIndent(data),
		index:  make(map[string]*ManagedObject),
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xml.StartElement
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" {
				doc.Decl = "<?xml " + string(t.Inst) + "?>"
			}
		case xml.StartElement:
			se := t.Copy()
			root = &se
		}
		if root != nil {
			break
		}
	}
	if root == nil {
		return nil, &util.MalformedDocumentError{Reason: "no root element"}
	}

	doc.RootTag = root.Name.Local
	for _, a := range root.Attr {
		doc.RootAttr = append(doc.RootAttr, Attr{Name: attrName(a.Name), Value: a.Value})
	}

	if err := doc.parseChildren(dec, root.Name, nil); err != nil {
		return nil, err
	}

	// Consume trailing tokens so malformed tails are still reported.
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
	}
	return doc, nil
}

// parseChildren reads managed objects until the end tag of the enclosing
// element. parent is nil at the document root.
func (d *Document) parseChildren(dec *xml.Decoder, end xml.Name, parent *ManagedObject) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			mo, err := d.parseObject(dec, t)
			if err != nil {
				return err
			}
			mo.parent = parent
			if parent != nil {
				parent.Children = append(parent.Children, mo)
			} else {
				d.Objects = append(d.Objects, mo)
			}
		case xml.EndElement:
			if t.Name == end {
				return nil
			}
			return &util.MalformedDocumentError{Reason: "unexpected closing tag " + t.Name.Local}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return &util.MalformedDocumentError{Reason: "unexpected text outside managed object"}
			}
		}
	}
}

// parseObject reads one managed-object element. Any element carrying a
// distName attribute is treated as a managed object regardless of its tag, so
// vendor-specific vocabularies are tolerated.
func (d *Document) parseObject(dec *xml.Decoder, start xml.StartElement) (*ManagedObject, error) {
	mo := &ManagedObject{Tag: start.Name.Local}
	for _, a := range start.Attr {
		name := attrName(a.Name)
		mo.attrOrder = append(mo.attrOrder, name)
		switch name {
		case "class":
			mo.Class = a.Value
		case "distName":
			mo.DN = a.Value
		default:
			mo.Extra = append(mo.Extra, Attr{Name: name, Value: a.Value})
		}
	}
	if mo.DN == "" {
		return nil, &util.MalformedDocumentError{Reason: "element <" + start.Name.Local + "> has no distName attribute"}
	}
	if _, dup := d.index[mo.DN]; dup {
		return nil, &util.DNCollisionError{DN: mo.DN}
	}
	d.index[mo.DN] = mo

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParam(dec, t)
				if err != nil {
					return nil, err
				}
				mo.Params = append(mo.Params, p)
			case "list":
				l, err := parseList(dec, t)
				if err != nil {
					return nil, err
				}
				mo.Lists = append(mo.Lists, l)
			default:
				child, err := d.parseObject(dec, t)
				if err != nil {
					return nil, err
				}
				child.parent = mo
				mo.Children = append(mo.Children, child)
			}
		case xml.EndElement:
			return mo, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, &util.MalformedDocumentError{Reason: "unexpected text in managed object " + mo.DN}
			}
		}
	}
}

func parseParam(dec *xml.Decoder, start xml.StartElement) (Param, error) {
	p := Param{Name: xmlAttr(start, "name")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return p, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.CharData:
			p.Value += string(t)
		case xml.EndElement:
			return p, nil
		case xml.StartElement:
			return p, &util.MalformedDocumentError{Reason: "unexpected element <" + t.Name.Local + "> inside parameter " + p.Name}
		}
	}
}

func parseList(dec *xml.Decoder, start xml.StartElement) (List, error) {
	l := List{Name: xmlAttr(start, "name")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return l, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "item" {
				return l, &util.MalformedDocumentError{Reason: "unexpected element <" + t.Name.Local + "> inside list " + l.Name}
			}
			item, err := parseItem(dec)
			if err != nil {
				return l, err
			}
			l.Items = append(l.Items, item)
		case xml.EndElement:
			return l, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return l, &util.MalformedDocumentError{Reason: "unexpected text inside list " + l.Name}
			}
		}
	}
}

func parseItem(dec *xml.Decoder) (Item, error) {
	var item Item
	for {
		tok, err := dec.Token()
		if err != nil {
			return item, &util.MalformedDocumentError{Reason: "not well-formed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				return item, &util.MalformedDocumentError{Reason: "unexpected element <" + t.Name.Local + "> inside list item"}
			}
			p, err := parseParam(dec, t)
			if err != nil {
				return item, err
			}
			item.Params = append(item.Params, p)
		case xml.EndElement:
			return item, nil
		}
	}
}

// detectIndent returns the leading whitespace of the first indented element
// line, which for a nested document is one indentation level. Falls back to
// two spaces for flat or single-line input.
func detectIndent(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == len(line) || len(trimmed) == 0 || trimmed[0] != '<' {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return "  "
}

func attrName(n xml.Name) string {
	if n.Space != "" && !strings.Contains(n.Space, "/") && !strings.Contains(n.Space, ".") {
		return n.Space + ":" + n.Local
	}
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return n.Local
}

func xmlAttr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// FindByDN resolves a distinguished name to its managed object.
func (d *Document) FindByDN(dn string) (*ManagedObject, bool) {
	mo, ok := d.index[dn]
	return mo, ok
}

// FindByClass returns every managed object of the given class in document order.
func (d *Document) FindByClass(class string) []*ManagedObject {
	var out []*ManagedObject
	d.Walk(func(mo *ManagedObject) {
		if mo.Class == class {
			out = append(out, mo)
		}
	})
	return out
}

// FindByClassSuffix returns managed objects whose class ends with the given
// suffix, tolerating namespace-qualified class names like
// "com.nokia.srbts.nrbts:NRBTS".
func (d *Document) FindByClassSuffix(suffix string) []*ManagedObject {
	var out []*ManagedObject
	d.Walk(func(mo *ManagedObject) {
		if strings.HasSuffix(mo.Class, suffix) {
			out = append(out, mo)
		}
	})
	return out
}

// Walk visits every managed object in document order.
func (d *Document) Walk(fn func(*ManagedObject)) {
	for _, mo := range d.Objects {
		mo.Walk(fn)
	}
}

// Len returns the number of managed objects in the document.
func (d *Document) Len() int {
	return len(d.index)
}

// InsertChild appends node as the last child of the object addressed by
// parentDN. It fails with DNNotFoundError when parentDN does not resolve and
// with DNCollisionError when the node or any descendant would duplicate an
// existing distinguished name. The node must be detached; ownership moves to
// the document.
func (d *Document) InsertChild(parentDN string, node *ManagedObject) error {
	parent, ok := d.index[parentDN]
	if !ok {
		return &util.DNNotFoundError{DN: parentDN}
	}
	if err := d.checkNew(node); err != nil {
		return err
	}
	node.parent = parent
	parent.Children = append(parent.Children, node)
	d.indexSubtree(node)
	return nil
}

// InsertTopLevel appends node as the last top-level managed object, with the
// same collision semantics as InsertChild.
func (d *Document) InsertTopLevel(node *ManagedObject) error {
	if err := d.checkNew(node); err != nil {
		return err
	}
	node.parent = nil
	d.Objects = append(d.Objects, node)
	d.indexSubtree(node)
	return nil
}

// Remove detaches the subtree addressed by dn from the document and returns
// it. Every descendant distinguished name is released for reuse.
func (d *Document) Remove(dn string) (*ManagedObject, error) {
	mo, ok := d.index[dn]
	if !ok {
		return nil, &util.DNNotFoundError{DN: dn}
	}
	if mo.parent != nil {
		mo.parent.Children = removeNode(mo.parent.Children, mo)
	} else {
		d.Objects = removeNode(d.Objects, mo)
	}
	mo.Walk(func(n *ManagedObject) { delete(d.index, n.DN) })
	mo.parent = nil
	return mo, nil
}

func removeNode(nodes []*ManagedObject, target *ManagedObject) []*ManagedObject {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// checkNew rejects an insertion when any DN in the subtree already exists in
// the document or occurs more than once within the subtree itself.
func (d *Document) checkNew(node *ManagedObject) error {
	seen := make(map[string]bool)
	var collision error
	node.Walk(func(n *ManagedObject) {
		if collision != nil {
			return
		}
		if _, exists := d.index[n.DN]; exists || seen[n.DN] {
			collision = &util.DNCollisionError{DN: n.DN}
			return
		}
		seen[n.DN] = true
	})
	return collision
}

func (d *Document) indexSubtree(node *ManagedObject) {
	node.Walk(func(n *ManagedObject) { d.index[n.DN] = n })
}

// RewriteDNs applies fn to every distinguished name in the document and
// re-keys the address index. It fails with DNCollisionError when the rewrite
// maps two objects onto the same name, leaving the document unchanged.
func (d *Document) RewriteDNs(fn func(string) string) error {
	next := make(map[string]*ManagedObject, len(d.index))
	var collision error
	d.Walk(func(mo *ManagedObject) {
		if collision != nil {
			return
		}
		dn := fn(mo.DN)
		if _, dup := next[dn]; dup {
			collision = &util.DNCollisionError{DN: dn}
			return
		}
		next[dn] = mo
	})
	if collision != nil {
		return collision
	}
	for dn, mo := range next {
		mo.DN = dn
	}
	d.index = next
	return nil
}

// Copy returns a deep copy of the document sharing no state with the original.
func (d *Document) Copy() *Document {
	c := &Document{
		Decl:    d.Decl,
		RootTag: d.RootTag,
		indent:  d.indent,
		index:   make(map[string]*ManagedObject, len(d.index)),
	}
	if len(d.RootAttr) > 0 {
		c.RootAttr = append([]Attr(nil), d.RootAttr...)
	}
	for _, mo := range d.Objects {
		cc := mo.Copy()
		c.Objects = append(c.Objects, cc)
		c.indexSubtree(cc)
	}
	return c
}
