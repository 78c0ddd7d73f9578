package export

import (
	"strings"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// Root user data keys.
const (
	UserDataViews  = "views"
	UserDataLayers = "layers"
)

// Camera is one saved perspective view: name, eye position and view
// direction, already formatted.
type Camera struct {
	Name     string
	Position string
	Target   string
}

// sceneBuilder owns the registries of one export and assembles the final
// document.
type sceneBuilder struct {
	root       *threejs.Object
	materials  *MaterialRegistry
	geometries *GeometryRegistry
	elements   *orderedMap[*threejs.Object]
	layers     []string
	layerSet   map[string]struct{}
}

func newSceneBuilder(doc *bim.Document, modelScale float64) *sceneBuilder {
	return &sceneBuilder{
		root: &threejs.Object{
			UUID:   doc.ActiveView.UniqueID,
			Name:   "BIM " + doc.Title,
			Type:   threejs.ObjectScene,
			Matrix: math.Scale(modelScale, modelScale, modelScale).RowMajor(),
		},
		materials:  NewMaterialRegistry(),
		geometries: NewGeometryRegistry(),
		elements:   newOrderedMap[*threejs.Object](),
		layerSet:   make(map[string]struct{}),
	}
}

// addLayer records a category name once, in first-seen order.
func (b *sceneBuilder) addLayer(name string) {
	if _, ok := b.layerSet[name]; ok {
		return
	}
	b.layerSet[name] = struct{}{}
	b.layers = append(b.layers, name)
}

// addElement registers a finished element node. A recurring key replaces
// the earlier node in place.
func (b *sceneBuilder) addElement(key string, node *threejs.Object) {
	b.elements.Set(key, node)
}

func (b *sceneBuilder) hasElement(key string) bool {
	return b.elements.Has(key)
}

func (b *sceneBuilder) finish(cameras []Camera, generator string) *threejs.Document {
	b.root.Children = b.elements.Values()

	userData := make(map[string]string)
	if len(cameras) > 0 {
		userData[UserDataViews] = CameraString(cameras)
	}
	if len(b.layers) > 0 {
		userData[UserDataLayers] = strings.Join(b.layers, ",")
	}
	if len(userData) > 0 {
		b.root.UserData = userData
	}

	return &threejs.Document{
		Metadata:   threejs.NewMetadata(generator),
		Object:     b.root,
		Geometries: b.geometries.List(),
		Materials:  b.materials.List(),
	}
}

// CameraString interleaves name, position and target of every camera into
// one comma-separated string.
func CameraString(cameras []Camera) string {
	parts := make([]string, 0, 3*len(cameras))
	for _, c := range cameras {
		parts = append(parts, c.Name, c.Position, c.Target)
	}
	return strings.Join(parts, ",")
}
