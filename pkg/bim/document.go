package bim

import "fmt"

// Document is a building model, or a linked model inside one.
type Document struct {
	Title      string
	PathName   string
	Unit       Unit
	ActiveView View
	Views      []View
	Categories []*Category
	Materials  []*Material
	Types      []*ElementType
	Elements   []*Element // traversal order
	Links      []*LinkNode

	elements   map[ElementID]*Element
	materials  map[ElementID]*Material
	types      map[ElementID]*ElementType
	categories map[string]*Category
}

// NewDocument returns an empty document in feet.
func NewDocument(title string) *Document {
	return &Document{
		Title:      title,
		Unit:       UnitFeet,
		elements:   make(map[ElementID]*Element),
		materials:  make(map[ElementID]*Material),
		types:      make(map[ElementID]*ElementType),
		categories: make(map[string]*Category),
	}
}

// Element looks up an element by id.
func (d *Document) Element(id ElementID) *Element {
	return d.elements[id]
}

// Material looks up a material by id.
func (d *Document) Material(id ElementID) *Material {
	return d.materials[id]
}

// Type looks up an element type by id.
func (d *Document) Type(id ElementID) *ElementType {
	return d.types[id]
}

// Category looks up a category by name.
func (d *Document) Category(name string) *Category {
	return d.categories[name]
}

// AddCategory registers a category. Names must be unique.
func (d *Document) AddCategory(c *Category) (*Category, error) {
	if _, ok := d.categories[c.Name]; ok {
		return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidScene, c.Name)
	}
	d.categories[c.Name] = c
	d.Categories = append(d.Categories, c)
	return c, nil
}

// AddMaterial registers a material. Ids must be unique.
func (d *Document) AddMaterial(m *Material) (*Material, error) {
	if _, ok := d.materials[m.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate material id %d", ErrInvalidScene, m.ID)
	}
	d.materials[m.ID] = m
	d.Materials = append(d.Materials, m)
	return m, nil
}

// AddType registers an element type. Ids must be unique.
func (d *Document) AddType(t *ElementType) (*ElementType, error) {
	if _, ok := d.types[t.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate type id %d", ErrInvalidScene, t.ID)
	}
	d.types[t.ID] = t
	d.Types = append(d.Types, t)
	return t, nil
}

// AddElement registers an element and adopts it into the document.
// Ids must be unique.
func (d *Document) AddElement(e *Element) (*Element, error) {
	if _, ok := d.elements[e.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate element id %d", ErrInvalidScene, e.ID)
	}
	e.doc = d
	d.elements[e.ID] = e
	d.Elements = append(d.Elements, e)
	return e, nil
}

// AddLink appends a linked document placement.
func (d *Document) AddLink(l *LinkNode) {
	d.Links = append(d.Links, l)
}

// Stats summarizes a document and its links.
type Stats struct {
	Elements   int
	Categories int
	Materials  int
	Types      int
	Views      int
	Links      int
	Facets     int
}

// Stats counts document contents, recursing into linked documents.
func (d *Document) Stats() Stats {
	s := Stats{
		Elements:   len(d.Elements),
		Categories: len(d.Categories),
		Materials:  len(d.Materials),
		Types:      len(d.Types),
		Views:      len(d.Views),
		Links:      len(d.Links),
	}
	for _, e := range d.Elements {
		s.Facets += countFacets(e.Geometry)
	}
	for _, l := range d.Links {
		if l.Document == nil {
			continue
		}
		ls := l.Document.Stats()
		s.Elements += ls.Elements
		s.Categories += ls.Categories
		s.Materials += ls.Materials
		s.Types += ls.Types
		s.Views += ls.Views
		s.Links += ls.Links
		s.Facets += ls.Facets
	}
	return s
}

func countFacets(items []Geometry) int {
	n := 0
	for _, g := range items {
		if g.Mesh != nil {
			n += len(g.Mesh.Facets)
		}
		if g.Instance != nil {
			n += countFacets(g.Instance.Geometry)
		}
	}
	return n
}
