package bim

import (
	"fmt"
	"strings"
)

// Element is one model object visited by a traversal.
type Element struct {
	ID         ElementID
	UniqueID   string
	Class      string // host class name, e.g. "Wall" or "FamilyInstance"
	Name       string
	Category   *Category // nil for uncategorized elements
	Family     string
	Symbol     string
	TypeID     ElementID
	Parameters []Parameter
	Geometry   []Geometry

	doc *Document
}

// Document returns the document owning the element.
func (e *Element) Document() *Document {
	return e.doc
}

// Type returns the element type, or nil.
func (e *Element) Type() *ElementType {
	if e.doc == nil || !e.TypeID.Valid() {
		return nil
	}
	return e.doc.Type(e.TypeID)
}

// CategoryName returns the category name or "".
func (e *Element) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}

// Description identifies the element for humans:
// class, category, family and symbol names, then "<id name>".
func (e *Element) Description() string {
	if e == nil {
		return "<null>"
	}

	var b strings.Builder
	class := e.Class
	if class == "" {
		class = "Element"
	}
	b.WriteString(class)
	b.WriteByte(' ')

	if e.Category != nil {
		b.WriteString(e.Category.Name)
		b.WriteByte(' ')
	}
	if e.Family != "" {
		b.WriteString(e.Family)
		b.WriteByte(' ')
	}
	// For most family instances the element name is the symbol name.
	if e.Family != "" && e.Symbol != "" && e.Symbol != e.Name {
		b.WriteString(e.Symbol)
		b.WriteByte(' ')
	}

	fmt.Fprintf(&b, "<%d %s>", e.ID, e.Name)
	return b.String()
}
