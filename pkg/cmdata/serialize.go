package cmdata

import (
	"bytes"
	"encoding/xml"
)

// Serialize renders the document as configuration XML. Parsed objects keep
// their original attribute order and the document keeps the indentation unit
// found in the input, so a parse/serialize cycle without mutation is
// byte-identical. Objects built in code are written canonically: class before
// distName, then the remaining attributes.
func (d *Document) Serialize() []byte {
	unit := d.indent
	if unit == "" {
		unit = "  "
	}

	var buf bytes.Buffer
	buf.WriteString(d.Decl)
	buf.WriteByte('\n')

	buf.WriteByte('<')
	buf.WriteString(d.RootTag)
	for _, a := range d.RootAttr {
		writeAttr(&buf, a.Name, a.Value)
	}
	buf.WriteString(">\n")
	for _, mo := range d.Objects {
		writeObject(&buf, mo, unit, 1)
	}
	buf.WriteString("</" + d.RootTag + ">\n")
	return buf.Bytes()
}

func writeObject(buf *bytes.Buffer, mo *ManagedObject, unit string, depth int) {
	indent(buf, unit, depth)
	buf.WriteByte('<')
	buf.WriteString(mo.Tag)
	writeObjectAttrs(buf, mo)
	buf.WriteString(">\n")

	for _, p := range mo.Params {
		writeParam(buf, p, unit, depth+1)
	}
	for _, l := range mo.Lists {
		indent(buf, unit, depth+1)
		buf.WriteString(`<list name="`)
		escape(buf, l.Name)
		buf.WriteString("\">\n")
		for _, item := range l.Items {
			indent(buf, unit, depth+2)
			buf.WriteString("<item>\n")
			for _, p := range item.Params {
				writeParam(buf, p, unit, depth+3)
			}
			indent(buf, unit, depth+2)
			buf.WriteString("</item>\n")
		}
		indent(buf, unit, depth+1)
		buf.WriteString("</list>\n")
	}
	for _, child := range mo.Children {
		writeObject(buf, child, unit, depth+1)
	}

	indent(buf, unit, depth)
	buf.WriteString("</" + mo.Tag + ">\n")
}

// writeObjectAttrs emits the object's attributes, replaying the parsed order
// when one was recorded. Attributes added after parsing, or class/distName on
// objects built in code, follow in canonical order.
func writeObjectAttrs(buf *bytes.Buffer, mo *ManagedObject) {
	wroteClass, wroteDN := false, false
	used := make([]bool, len(mo.Extra))
	for _, name := range mo.attrOrder {
		switch name {
		case "class":
			if mo.Class != "" {
				writeAttr(buf, "class", mo.Class)
			}
			wroteClass = true
		case "distName":
			writeAttr(buf, "distName", mo.DN)
			wroteDN = true
		default:
			for i, a := range mo.Extra {
				if !used[i] && a.Name == name {
					writeAttr(buf, a.Name, a.Value)
					used[i] = true
					break
				}
			}
		}
	}
	if !wroteClass && mo.Class != "" {
		writeAttr(buf, "class", mo.Class)
	}
	if !wroteDN {
		writeAttr(buf, "distName", mo.DN)
	}
	for i, a := range mo.Extra {
		if !used[i] {
			writeAttr(buf, a.Name, a.Value)
		}
	}
}

func writeParam(buf *bytes.Buffer, p Param, unit string, depth int) {
	indent(buf, unit, depth)
	buf.WriteString(`<p name="`)
	escape(buf, p.Name)
	buf.WriteString(`">`)
	escape(buf, p.Value)
	buf.WriteString("</p>\n")
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	escape(buf, value)
	buf.WriteByte('"')
}

func indent(buf *bytes.Buffer, unit string, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(unit)
	}
}

func escape(buf *bytes.Buffer, s string) {
	xml.EscapeText(buf, []byte(s)) //nolint:errcheck // bytes.Buffer never errors
}
