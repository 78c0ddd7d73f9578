// Package cameras collects the saved perspective views of a document as
// scene cameras.
package cameras

import (
	"strconv"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/export"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

// Collect returns one camera per perspective, non-template view, in
// document order. Eye positions are converted to millimeters and view
// directions normalized; both use the three.js axis convention.
func Collect(doc *bim.Document) []export.Camera {
	mm, ok := doc.Unit.Millimetres()
	if !ok {
		mm = 1
	}

	var out []export.Camera
	for _, v := range doc.Views {
		if v.Template || !v.Perspective {
			continue
		}
		out = append(out, export.Camera{
			Name:     v.Name,
			Position: Format(switchAxes(v.Eye).Scale(mm)),
			Target:   Format(switchAxes(v.Forward.Normalize())),
		})
	}
	return out
}

// Format renders v as "x,y,z" with the shortest exact decimal for each
// component.
func Format(v math.Vec3) string {
	return number(v.X) + "," + number(v.Y) + "," + number(v.Z)
}

func switchAxes(v math.Vec3) math.Vec3 {
	return math.Vec3{X: -v.X, Y: v.Z, Z: v.Y}
}

func number(f float64) string {
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
