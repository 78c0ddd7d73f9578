package bim

import (
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/encoding"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

// Scene file errors.
var (
	ErrInvalidScene = errors.New("invalid scene")
	ErrLinkCycle    = errors.New("link cycle")
)

// Scene files are YAML documents. Linked documents are either inline under
// "document" or referenced by a "path" relative to the linking file.
type sceneFile struct {
	Title      string         `yaml:"title"`
	Path       string         `yaml:"path"`
	Units      string         `yaml:"units"`
	ActiveView viewFile       `yaml:"active_view"`
	Views      []viewFile     `yaml:"views"`
	Categories []categoryFile `yaml:"categories"`
	Materials  []materialFile `yaml:"materials"`
	Types      []typeFile     `yaml:"types"`
	Elements   []elementFile  `yaml:"elements"`
	Links      []linkFile     `yaml:"links"`
}

type viewFile struct {
	ID          int64      `yaml:"id"`
	UniqueID    string     `yaml:"unique_id"`
	Name        string     `yaml:"name"`
	Perspective bool       `yaml:"perspective"`
	Template    bool       `yaml:"template"`
	Eye         [3]float64 `yaml:"eye"`
	Forward     [3]float64 `yaml:"forward"`
}

type categoryFile struct {
	Name     string `yaml:"name"`
	Material *int64 `yaml:"material"`
}

type materialFile struct {
	ID           int64    `yaml:"id"`
	UniqueID     string   `yaml:"unique_id"`
	Name         string   `yaml:"name"`
	Color        [3]uint8 `yaml:"color"`
	Transparency int      `yaml:"transparency"`
}

type parameterFile struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type typeFile struct {
	ID         int64           `yaml:"id"`
	Name       string          `yaml:"name"`
	Parameters []parameterFile `yaml:"parameters"`
}

type elementFile struct {
	ID         int64           `yaml:"id"`
	UniqueID   string          `yaml:"unique_id"`
	Class      string          `yaml:"class"`
	Name       string          `yaml:"name"`
	Category   string          `yaml:"category"`
	Family     string          `yaml:"family"`
	Symbol     string          `yaml:"symbol"`
	Type       *int64          `yaml:"type"`
	Parameters []parameterFile `yaml:"parameters"`
	Geometry   []geometryFile  `yaml:"geometry"`
}

type geometryFile struct {
	Material     *int64        `yaml:"material"`
	Color        [3]uint8      `yaml:"color"`
	Transparency float64       `yaml:"transparency"`
	Points       [][3]float64  `yaml:"points"`
	Facets       [][3]int      `yaml:"facets"`
	Instance     *instanceFile `yaml:"instance"`
}

type instanceFile struct {
	Symbol    int64          `yaml:"symbol"`
	Transform transformFile  `yaml:"transform"`
	Geometry  []geometryFile `yaml:"geometry"`
}

type transformFile struct {
	Origin *[3]float64 `yaml:"origin"`
	BasisX *[3]float64 `yaml:"basis_x"`
	BasisY *[3]float64 `yaml:"basis_y"`
	BasisZ *[3]float64 `yaml:"basis_z"`

	RotationZ float64 `yaml:"rotation_z"` // degrees, applied before the basis
}

type linkFile struct {
	Name      string        `yaml:"name"`
	Path      string        `yaml:"path"`
	Transform transformFile `yaml:"transform"`
	Document  *sceneFile    `yaml:"document"`
}

// Load reads a scene file in the given charset ("" = UTF-8), resolving
// linked scene files relative to it.
func Load(path string, charset string) (*Document, error) {
	l := &loader{charset: charset}
	return l.loadFile(path)
}

// Parse parses a UTF-8 scene. Links must be inline.
func Parse(data []byte) (*Document, error) {
	l := &loader{}
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return l.build(&f, "")
}

type loader struct {
	charset string
	active  []string // absolute paths of files being loaded, for cycle detection
}

func (l *loader) loadFile(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	for _, p := range l.active {
		if p == abs {
			return nil, fmt.Errorf("%w: %s", ErrLinkCycle, path)
		}
	}
	l.active = append(l.active, abs)
	defer func() { l.active = l.active[:len(l.active)-1] }()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := encoding.ToUTF8(raw, l.charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScene, path, err)
	}
	if f.Path == "" {
		f.Path = path
	}
	doc, err := l.build(&f, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (l *loader) build(f *sceneFile, dir string) (*Document, error) {
	doc := NewDocument(f.Title)
	doc.PathName = f.Path
	if f.Units != "" {
		doc.Unit = Unit(f.Units)
	}
	if _, ok := doc.Unit.Millimetres(); !ok {
		return nil, fmt.Errorf("%w: unknown units %q", ErrInvalidScene, f.Units)
	}
	if doc.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidScene)
	}

	doc.ActiveView = f.ActiveView.toView()
	for _, v := range f.Views {
		doc.Views = append(doc.Views, v.toView())
	}

	for _, mf := range f.Materials {
		m := &Material{
			ID:           ElementID(mf.ID),
			UniqueID:     mf.UniqueID,
			Name:         mf.Name,
			Color:        Color{mf.Color[0], mf.Color[1], mf.Color[2]},
			Transparency: mf.Transparency,
		}
		if m.UniqueID == "" {
			return nil, fmt.Errorf("%w: material %d has no unique_id", ErrInvalidScene, mf.ID)
		}
		if m.Transparency < 0 || m.Transparency > 100 {
			return nil, fmt.Errorf("%w: material %d transparency %d outside [0,100]", ErrInvalidScene, mf.ID, m.Transparency)
		}
		if _, err := doc.AddMaterial(m); err != nil {
			return nil, err
		}
	}

	for _, cf := range f.Categories {
		c := &Category{Name: cf.Name, Material: InvalidElementID}
		if cf.Material != nil {
			c.Material = ElementID(*cf.Material)
			if doc.Material(c.Material) == nil {
				return nil, fmt.Errorf("%w: category %q references unknown material %d", ErrInvalidScene, cf.Name, *cf.Material)
			}
		}
		if _, err := doc.AddCategory(c); err != nil {
			return nil, err
		}
	}

	for _, tf := range f.Types {
		t := &ElementType{ID: ElementID(tf.ID), Name: tf.Name, Parameters: toParameters(tf.Parameters)}
		if _, err := doc.AddType(t); err != nil {
			return nil, err
		}
	}

	for i := range f.Elements {
		e, err := l.buildElement(doc, &f.Elements[i])
		if err != nil {
			return nil, err
		}
		if _, err := doc.AddElement(e); err != nil {
			return nil, err
		}
	}

	for _, lf := range f.Links {
		link, err := l.buildLink(lf, dir)
		if err != nil {
			return nil, err
		}
		doc.AddLink(link)
	}

	return doc, nil
}

func (l *loader) buildElement(doc *Document, ef *elementFile) (*Element, error) {
	e := &Element{
		ID:         ElementID(ef.ID),
		UniqueID:   ef.UniqueID,
		Class:      ef.Class,
		Name:       ef.Name,
		Family:     ef.Family,
		Symbol:     ef.Symbol,
		TypeID:     InvalidElementID,
		Parameters: toParameters(ef.Parameters),
	}
	if e.UniqueID == "" {
		return nil, fmt.Errorf("%w: element %d has no unique_id", ErrInvalidScene, ef.ID)
	}
	if ef.Category != "" {
		e.Category = doc.Category(ef.Category)
		if e.Category == nil {
			return nil, fmt.Errorf("%w: element %d references unknown category %q", ErrInvalidScene, ef.ID, ef.Category)
		}
	}
	if ef.Type != nil {
		e.TypeID = ElementID(*ef.Type)
		if doc.Type(e.TypeID) == nil {
			return nil, fmt.Errorf("%w: element %d references unknown type %d", ErrInvalidScene, ef.ID, *ef.Type)
		}
	}

	geometry, err := buildGeometry(doc, ef.Geometry)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", ef.ID, err)
	}
	e.Geometry = geometry
	return e, nil
}

func buildGeometry(doc *Document, items []geometryFile) ([]Geometry, error) {
	out := make([]Geometry, 0, len(items))
	for i, gf := range items {
		if gf.Instance != nil {
			children, err := buildGeometry(doc, gf.Instance.Geometry)
			if err != nil {
				return nil, err
			}
			out = append(out, Geometry{Instance: &Instance{
				Node: InstanceNode{
					SymbolID:  ElementID(gf.Instance.Symbol),
					Transform: gf.Instance.Transform.toMat4(),
				},
				Geometry: children,
			}})
			continue
		}

		g := Geometry{
			Material: MaterialNode{
				MaterialID:   InvalidElementID,
				Color:        Color{gf.Color[0], gf.Color[1], gf.Color[2]},
				Transparency: gf.Transparency,
			},
			Mesh: &Polymesh{Facets: gf.Facets},
		}
		if gf.Material != nil {
			g.Material.MaterialID = ElementID(*gf.Material)
			if doc.Material(g.Material.MaterialID) == nil {
				return nil, fmt.Errorf("%w: geometry %d references unknown material %d", ErrInvalidScene, i, *gf.Material)
			}
		}
		if gf.Transparency < 0 || gf.Transparency > 1 {
			return nil, fmt.Errorf("%w: geometry %d transparency %g outside [0,1]", ErrInvalidScene, i, gf.Transparency)
		}
		for _, p := range gf.Points {
			g.Mesh.Points = append(g.Mesh.Points, math.V3(p))
		}
		for _, f := range gf.Facets {
			for _, idx := range f {
				if idx < 0 || idx >= len(gf.Points) {
					return nil, fmt.Errorf("%w: geometry %d facet index %d out of range [0,%d)", ErrInvalidScene, i, idx, len(gf.Points))
				}
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (l *loader) buildLink(lf linkFile, dir string) (*LinkNode, error) {
	link := &LinkNode{Name: lf.Name, Transform: lf.Transform.toMat4()}

	switch {
	case lf.Document != nil:
		doc, err := l.build(lf.Document, dir)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", lf.Name, err)
		}
		link.Document = doc
	case lf.Path != "":
		if dir == "" {
			return nil, fmt.Errorf("%w: link %q uses a path but the scene was not loaded from a file", ErrInvalidScene, lf.Name)
		}
		path := lf.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		doc, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", lf.Name, err)
		}
		link.Document = doc
	default:
		return nil, fmt.Errorf("%w: link %q has neither document nor path", ErrInvalidScene, lf.Name)
	}
	if link.Name == "" {
		link.Name = link.Document.Title
	}
	return link, nil
}

func (v viewFile) toView() View {
	return View{
		ID:          ElementID(v.ID),
		UniqueID:    v.UniqueID,
		Name:        v.Name,
		Perspective: v.Perspective,
		Template:    v.Template,
		Eye:         math.V3(v.Eye),
		Forward:     math.V3(v.Forward),
	}
}

func (t transformFile) toMat4() math.Mat4 {
	origin := math.Vec3{}
	bx, by, bz := math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}
	if t.Origin != nil {
		origin = math.V3(*t.Origin)
	}
	if t.BasisX != nil {
		bx = math.V3(*t.BasisX)
	}
	if t.BasisY != nil {
		by = math.V3(*t.BasisY)
	}
	if t.BasisZ != nil {
		bz = math.V3(*t.BasisZ)
	}
	m := math.FromBasis(origin, bx, by, bz)
	if t.RotationZ != 0 {
		m = m.Mul(math.RotateZ(t.RotationZ * gomath.Pi / 180))
	}
	return m
}

func toParameters(in []parameterFile) []Parameter {
	if len(in) == 0 {
		return nil
	}
	out := make([]Parameter, len(in))
	for i, p := range in {
		out[i] = Parameter{Name: p.Name, Value: p.Value}
	}
	return out
}
