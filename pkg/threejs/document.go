// Package threejs defines the three.js JSON object scene format (version
// 4.3 "Object" documents with legacy "Geometry" buffers) and serializes it.
package threejs

// Format constants.
const (
	MetadataType     = "Object"
	MetadataVersion  = 4.3
	DefaultGenerator = "Spectacles.RevitExporter Revit Spectacles exporter"

	GeometryType = "Geometry"
	MaterialType = "MeshLambertMaterial"

	// FaceTriangle tags a plain indexed triangle with no per-face material,
	// UV or normal indices.
	FaceTriangle = 0

	ShadingFlat = 1
)

// Object node types.
const (
	ObjectScene   = "Scene"
	ObjectMesh    = "Mesh"
	ObjectElement = "RevitElement"
)

// Document is a complete three.js object scene.
type Document struct {
	Metadata   Metadata    `json:"metadata"`
	Object     *Object     `json:"object"`
	Geometries []*Geometry `json:"geometries"`
	Materials  []*Material `json:"materials"`
}

// Metadata identifies the format.
type Metadata struct {
	Type      string  `json:"type"`
	Version   float64 `json:"version"`
	Generator string  `json:"generator"`
}

// NewMetadata returns metadata for the supported format version.
func NewMetadata(generator string) Metadata {
	if generator == "" {
		generator = DefaultGenerator
	}
	return Metadata{Type: MetadataType, Version: MetadataVersion, Generator: generator}
}

// Object is a scene graph node. Only mesh leaves reference a geometry and
// a material.
type Object struct {
	UUID     string            `json:"uuid"`
	Name     string            `json:"name,omitempty"`
	Type     string            `json:"type"`
	Matrix   []float64         `json:"matrix"`
	Children []*Object         `json:"children,omitempty"`
	Geometry string            `json:"geometry,omitempty"`
	Material string            `json:"material,omitempty"`
	UserData map[string]string `json:"userData,omitempty"`
}

// Geometry is an indexed triangle buffer.
type Geometry struct {
	UUID string       `json:"uuid"`
	Type string       `json:"type"`
	Data GeometryData `json:"data"`
}

// GeometryData holds flat vertex triples and tagged face records.
// Normals and UVs are always present, possibly empty.
type GeometryData struct {
	Vertices      []float64 `json:"vertices"`
	Normals       []float64 `json:"normals"`
	UVs           []float64 `json:"uvs"`
	Faces         []int     `json:"faces"`
	Scale         float64   `json:"scale"`
	Visible       bool      `json:"visible"`
	CastShadow    bool      `json:"castShadow"`
	ReceiveShadow bool      `json:"receiveShadow"`
	DoubleSided   bool      `json:"doubleSided"`
}

// NewGeometry returns an empty geometry with the conventional flags.
func NewGeometry(uuid string) *Geometry {
	return &Geometry{
		UUID: uuid,
		Type: GeometryType,
		Data: GeometryData{
			Vertices:      []float64{},
			Normals:       []float64{},
			UVs:           []float64{},
			Faces:         []int{},
			Scale:         1.0,
			Visible:       true,
			CastShadow:    true,
			ReceiveShadow: false,
			DoubleSided:   true,
		},
	}
}

// AddTriangle appends a triangle face record.
func (g *Geometry) AddTriangle(a, b, c int) {
	g.Data.Faces = append(g.Data.Faces, FaceTriangle, a, b, c)
}

// TriangleCount returns the number of face records.
func (g *Geometry) TriangleCount() int {
	return len(g.Data.Faces) / 4
}

// Material is a Lambert material.
type Material struct {
	UUID        string  `json:"uuid"`
	Name        string  `json:"name,omitempty"`
	Type        string  `json:"type"`
	Color       int     `json:"color"`
	Ambient     int     `json:"ambient"`
	Emissive    int     `json:"emissive"`
	Opacity     float64 `json:"opacity"`
	Transparent bool    `json:"transparent"`
	Wireframe   bool    `json:"wireframe"`
	Shading     int     `json:"shading"`
}

// NewMaterial returns a flat shaded Lambert material.
func NewMaterial(uuid, name string, color int, opacity float64) *Material {
	return &Material{
		UUID:        uuid,
		Name:        name,
		Type:        MaterialType,
		Color:       color,
		Ambient:     color,
		Emissive:    0,
		Opacity:     opacity,
		Transparent: opacity < 1,
		Wireframe:   false,
		Shading:     ShadingFlat,
	}
}
