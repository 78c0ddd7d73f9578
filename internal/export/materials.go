package export

import (
	"fmt"
	gomath "math"
	"strconv"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// MaterialRegistry holds one material record per identity key, in the order
// the keys were first seen.
type MaterialRegistry struct {
	records *orderedMap[*threejs.Material]
}

// NewMaterialRegistry returns an empty registry.
func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{records: newOrderedMap[*threejs.Material]()}
}

// Ensure registers the record built by factory unless key is known.
// It reports whether a record was created.
func (r *MaterialRegistry) Ensure(key string, factory func() *threejs.Material) bool {
	if r.records.Has(key) {
		return false
	}
	m := factory()
	m.UUID = key
	r.records.Set(key, m)
	return true
}

// Get returns the record for key.
func (r *MaterialRegistry) Get(key string) (*threejs.Material, bool) {
	return r.records.Get(key)
}

// Len returns the number of records.
func (r *MaterialRegistry) Len() int {
	return r.records.Len()
}

// List returns the records in insertion order.
func (r *MaterialRegistry) List() []*threejs.Material {
	return r.records.Values()
}

// ElementMaterialKey is the identity of a document material.
func ElementMaterialKey(m *bim.Material) string {
	return m.UniqueID
}

// AdHocMaterialKey synthesizes an identity for geometry that carries only
// a color and a transparency in [0,1], so equal looks share one record.
func AdHocMaterialKey(c bim.Color, transparency float64) string {
	return fmt.Sprintf("MaterialNode_%d_%s", c.Int(), RealString(transparency*100))
}

// NewElementMaterial builds the record for a document material, whose
// transparency is a percentage.
func NewElementMaterial(m *bim.Material) *threejs.Material {
	return threejs.NewMaterial(ElementMaterialKey(m), m.Name, m.Color.Int(), OpacityFromPercent(m.Transparency))
}

// NewAdHocMaterial builds the record for an unnamed color/transparency pair.
func NewAdHocMaterial(c bim.Color, transparency float64) *threejs.Material {
	return threejs.NewMaterial(AdHocMaterialKey(c, transparency), "", c.Int(), OpacityFromFraction(transparency))
}

// OpacityFromPercent converts a transparency in [0,100].
func OpacityFromPercent(transparency int) float64 {
	return 0.01 * float64(100-transparency)
}

// OpacityFromFraction converts a transparency in [0,1].
func OpacityFromFraction(transparency float64) float64 {
	return 1 - transparency
}

// RealString formats a at most two decimals, without trailing zeros.
func RealString(a float64) string {
	r := gomath.Round(a*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
