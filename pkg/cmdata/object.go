// Package cmdata models vendor configuration-management XML as an ordered,
// addressable tree of managed objects. Managed objects are identified by a
// hierarchical distinguished name (unique within one document) and typed by a
// class name; attributes, parameters and indentation keep their document form
// so a parse/serialize cycle without mutation is byte-identical.
package cmdata

import "strings"

// Param is a named scalar parameter of a managed object.
type Param struct {
	Name  string
	Value string
}

// Item is one entry of a list parameter.
type Item struct {
	Params []Param
}

// List is a named list parameter holding ordered items.
type List struct {
	Name  string
	Items []Item
}

// Attr is a preserved XML attribute other than class/distName.
type Attr struct {
	Name  string
	Value string
}

// ManagedObject is one node of a configuration document: a named, typed
// configuration entity together with its parameters and child objects.
// Children are owned exclusively by their parent.
type ManagedObject struct {
	Tag   string // element tag, usually "managedObject"
	Class string
	DN    string
	Extra []Attr // remaining attributes in document order (version, operation, ...)

	Params   []Param
	Lists    []List
	Children []*ManagedObject

	attrOrder []string // attribute names as found in the input, nil when built in code
	parent    *ManagedObject
}

// Parent returns the owning managed object, or nil for a top-level object or
// a detached subtree.
func (mo *ManagedObject) Parent() *ManagedObject {
	return mo.parent
}

// Param returns the value of the named scalar parameter.
func (mo *ManagedObject) Param(name string) (string, bool) {
	for _, p := range mo.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// SetParam updates the named parameter in place, or appends it when absent.
func (mo *ManagedObject) SetParam(name, value string) {
	for i, p := range mo.Params {
		if p.Name == name {
			mo.Params[i].Value = value
			return
		}
	}
	mo.Params = append(mo.Params, Param{Name: name, Value: value})
}

// List returns the named list parameter.
func (mo *ManagedObject) List(name string) (*List, bool) {
	for i := range mo.Lists {
		if mo.Lists[i].Name == name {
			return &mo.Lists[i], true
		}
	}
	return nil, false
}

// Copy returns a deep copy of the subtree rooted at mo. The copy is fully
// detached: it shares no node, slice, or parent reference with the original,
// so mutating it never affects the document it came from.
func (mo *ManagedObject) Copy() *ManagedObject {
	c := &ManagedObject{
		Tag:   mo.Tag,
		Class: mo.Class,
		DN:    mo.DN,
	}
	if len(mo.Extra) > 0 {
		c.Extra = append([]Attr(nil), mo.Extra...)
	}
	if len(mo.attrOrder) > 0 {
		c.attrOrder = append([]string(nil), mo.attrOrder...)
	}
	if len(mo.Params) > 0 {
		c.Params = append([]Param(nil), mo.Params...)
	}
	if len(mo.Lists) > 0 {
		c.Lists = make([]List, len(mo.Lists))
		for i, l := range mo.Lists {
			cl := List{Name: l.Name}
			for _, it := range l.Items {
				cl.Items = append(cl.Items, Item{Params: append([]Param(nil), it.Params...)})
			}
			c.Lists[i] = cl
		}
	}
	for _, child := range mo.Children {
		cc := child.Copy()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// Walk visits mo and every descendant in document order.
func (mo *ManagedObject) Walk(fn func(*ManagedObject)) {
	fn(mo)
	for _, child := range mo.Children {
		child.Walk(fn)
	}
}

// SplitDN splits a distinguished name into its path segments.
func SplitDN(dn string) []string {
	return strings.Split(dn, "/")
}

// JoinDN joins path segments back into a distinguished name.
func JoinDN(segments []string) string {
	return strings.Join(segments, "/")
}

// ParentDN returns the distinguished name with its last segment removed, or
// the empty string for a single-segment name.
func ParentDN(dn string) string {
	i := strings.LastIndex(dn, "/")
	if i < 0 {
		return ""
	}
	return dn[:i]
}

// LastSegment returns the final path segment of a distinguished name.
func LastSegment(dn string) string {
	i := strings.LastIndex(dn, "/")
	return dn[i+1:]
}

// SegmentSuffix parses the decimal digits at the end of a DN segment
// (e.g. "NRCELL-12" yields 12). The second return is false when the segment
// carries no trailing number.
func SegmentSuffix(segment string) (int, bool) {
	i := len(segment)
	for i > 0 && segment[i-1] >= '0' && segment[i-1] <= '9' {
		i--
	}
	if i == len(segment) {
		return 0, false
	}
	n := 0
	for _, c := range segment[i:] {
		n = n*10 + int(c-'0')
	}
	return n, true
}

// SegmentBase returns a DN segment with any trailing decimal suffix removed,
// including a single separating dash ("NRCELL-12" yields "NRCELL").
func SegmentBase(segment string) string {
	i := len(segment)
	for i > 0 && segment[i-1] >= '0' && segment[i-1] <= '9' {
		i--
	}
	base := segment[:i]
	return strings.TrimSuffix(base, "-")
}
