package export

import (
	"fmt"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// materialDraft is everything accumulated for one material of the current
// element.
type materialDraft struct {
	object   *threejs.Object
	geometry *threejs.Geometry
	vertices *VertexPool
}

// elementState is the accumulation state of the element being visited.
// A nil *elementState means no element is open.
type elementState struct {
	element *bim.Element
	doc     *bim.Document
	key     string
	node    *threejs.Object

	drafts *orderedMap[*materialDraft]
	active *materialDraft
}

// ElementKey disambiguates elements of linked documents created from the
// same template by appending the document title to the unique id.
func ElementKey(e *bim.Element, doc *bim.Document) string {
	return e.UniqueID + "_" + doc.Title
}

func newElementState(e *bim.Element, doc *bim.Document) *elementState {
	key := ElementKey(e, doc)
	return &elementState{
		element: e,
		doc:     doc,
		key:     key,
		node: &threejs.Object{
			UUID:   key,
			Name:   e.Description(),
			Type:   threejs.ObjectElement,
			Matrix: math.Identity().RowMajor(),
		},
		drafts: newOrderedMap[*materialDraft](),
	}
}

// geometryKey names the geometry of one element/material pair.
func (s *elementState) geometryKey(materialKey string) string {
	return s.key + "-" + materialKey
}

// activate makes materialKey the active material, creating its drafts on
// first use. Repeated calls with the same key are no-ops.
func (s *elementState) activate(materialKey string) (created bool) {
	if d, ok := s.drafts.Get(materialKey); ok {
		s.active = d
		return false
	}

	key := s.geometryKey(materialKey)
	d := &materialDraft{
		object: &threejs.Object{
			UUID:     key,
			Name:     s.node.Name,
			Type:     threejs.ObjectMesh,
			Matrix:   math.Identity().RowMajor(),
			Geometry: key,
			Material: materialKey,
		},
		geometry: threejs.NewGeometry(key),
		vertices: NewVertexPool(),
	}
	s.drafts.Set(materialKey, d)
	s.active = d
	return true
}

// addPolymesh appends mesh triangles to the active material. Points are
// transformed by t and quantized by q. The mesh is validated first, so a
// rejected batch leaves no partial state.
func (s *elementState) addPolymesh(mesh *bim.Polymesh, t math.Mat4, q Quantizer) (int, error) {
	if s.active == nil {
		return 0, ErrNoActiveMaterial
	}
	n := len(mesh.Points)
	for i, f := range mesh.Facets {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return 0, fmt.Errorf("%w: facet %d index %d, %d points", ErrFacetOutOfRange, i, idx, n)
			}
		}
	}

	points := make([]Point3, n)
	for i, p := range mesh.Points {
		points[i] = q.Quantize(t.TransformPoint(p))
	}

	d := s.active
	for _, f := range mesh.Facets {
		a := d.vertices.Add(points[f[0]])
		b := d.vertices.Add(points[f[1]])
		c := d.vertices.Add(points[f[2]])
		d.geometry.AddTriangle(a, b, c)
	}
	return len(mesh.Facets), nil
}

// flush moves every non-empty material draft into the registry and hangs
// its mesh under the element node. It returns the number of vertices
// written.
func (s *elementState) flush(geometries *GeometryRegistry, vertexScale float64) int {
	vertices := 0
	s.node.Children = make([]*threejs.Object, 0, s.drafts.Len())
	for _, d := range s.drafts.Values() {
		if d.geometry.TriangleCount() == 0 {
			continue
		}
		d.geometry.Data.Vertices = d.vertices.Flatten(vertexScale)
		vertices += d.vertices.Len()

		key := geometries.Add(d.geometry)
		d.object.UUID = key
		d.object.Geometry = key
		s.node.Children = append(s.node.Children, d.object)
	}
	return vertices
}

// GeometryRegistry holds frozen geometries in insertion order. Keys are
// kept unique: a recurring key gets a numeric suffix instead of replacing
// the earlier geometry.
type GeometryRegistry struct {
	geometries *orderedMap[*threejs.Geometry]
}

// NewGeometryRegistry returns an empty registry.
func NewGeometryRegistry() *GeometryRegistry {
	return &GeometryRegistry{geometries: newOrderedMap[*threejs.Geometry]()}
}

// Add stores g and returns the key it was stored under.
func (r *GeometryRegistry) Add(g *threejs.Geometry) string {
	key := g.UUID
	for n := 2; r.geometries.Has(key); n++ {
		key = fmt.Sprintf("%s-%d", g.UUID, n)
	}
	g.UUID = key
	r.geometries.Set(key, g)
	return key
}

// Len returns the number of geometries.
func (r *GeometryRegistry) Len() int {
	return r.geometries.Len()
}

// List returns the geometries in insertion order.
func (r *GeometryRegistry) List() []*threejs.Geometry {
	return r.geometries.Values()
}
