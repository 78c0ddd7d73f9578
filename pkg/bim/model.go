// Package bim models the building document a BIM host traverses during a
// custom export: documents, categorized elements, materials, element types,
// views and linked documents, plus the node payloads handed to export
// callbacks.
package bim

import (
	"fmt"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

// Action is a callback's answer to a begin notification.
type Action int

// Traversal actions.
const (
	Proceed Action = iota
	Skip
)

// String returns "proceed" or "skip".
func (a Action) String() string {
	if a == Skip {
		return "skip"
	}
	return "proceed"
}

// ElementID is a document-local integer element id.
type ElementID int64

// InvalidElementID marks an absent reference.
const InvalidElementID ElementID = -1

// Valid reports whether id refers to an element.
func (id ElementID) Valid() bool {
	return id != InvalidElementID
}

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Int packs the color as 0xRRGGBB.
func (c Color) Int() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Unit is a document length unit.
type Unit string

// Supported length units.
const (
	UnitFeet        Unit = "feet"
	UnitInches      Unit = "inches"
	UnitMeters      Unit = "meters"
	UnitCentimeters Unit = "centimeters"
	UnitMillimeters Unit = "millimeters"
)

// Millimetres returns the linear factor converting one unit to millimeters.
// The second result is false for unknown units.
func (u Unit) Millimetres() (float64, bool) {
	switch u {
	case UnitFeet, "":
		return 25.4 * 12, true
	case UnitInches:
		return 25.4, true
	case UnitMeters:
		return 1000, true
	case UnitCentimeters:
		return 10, true
	case UnitMillimeters:
		return 1, true
	default:
		return 0, false
	}
}

// Parameter is one named, already formatted parameter value.
type Parameter struct {
	Name  string
	Value string
}

// Material is a document material element.
type Material struct {
	ID           ElementID
	UniqueID     string
	Name         string
	Color        Color
	Transparency int // 0 (opaque) to 100
}

// Category classifies elements. Material is the category default material
// or InvalidElementID.
type Category struct {
	Name     string
	Material ElementID
}

// ElementType carries type-level parameters shared by instances.
type ElementType struct {
	ID         ElementID
	Name       string
	Parameters []Parameter
}

// View is a document view. Eye and Forward are only meaningful for 3D views.
type View struct {
	ID          ElementID
	UniqueID    string
	Name        string
	Perspective bool
	Template    bool
	Eye         math.Vec3
	Forward     math.Vec3
}

// MaterialNode describes the material of the geometry that follows it.
// When MaterialID is invalid the host only knows an ad-hoc color and a
// transparency in [0,1].
type MaterialNode struct {
	MaterialID   ElementID
	Color        Color
	Transparency float64
}

// Polymesh is a tessellated batch: points plus triangles indexing them.
type Polymesh struct {
	Points []math.Vec3
	Facets [][3]int
}

// InstanceNode is a placed family instance.
type InstanceNode struct {
	SymbolID  ElementID
	Transform math.Mat4
}

// LinkNode is a linked document placement.
type LinkNode struct {
	Name      string
	Transform math.Mat4
	Document  *Document
}

// Geometry is one item of an element's geometry: either a material-tagged
// mesh or a nested instance with its own geometry.
type Geometry struct {
	Material MaterialNode
	Mesh     *Polymesh
	Instance *Instance
}

// Instance is a nested instance placement inside element geometry.
type Instance struct {
	Node     InstanceNode
	Geometry []Geometry
}
