package cameras

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/export"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

func TestCollect(t *testing.T) {
	doc := bim.NewDocument("Test")
	doc.Views = []bim.View{
		{ID: 1, Name: "Entrance", Perspective: true, Eye: math.Vec3{X: 1, Y: 2, Z: 3}, Forward: math.Vec3{X: 0, Y: 1, Z: 0}},
		{ID: 2, Name: "Overview", Perspective: false},
		{ID: 3, Name: "Template", Perspective: true, Template: true},
		{ID: 4, Name: "Origin", Perspective: true, Forward: math.Vec3{X: 0, Y: -1, Z: 0}},
	}

	got := Collect(doc)
	assert.Equal(t, []export.Camera{
		{Name: "Entrance", Position: "-304.8,914.4000000000001,609.6", Target: "0,0,1"},
		{Name: "Origin", Position: "0,0,0", Target: "0,0,-1"},
	}, got)
}

func TestCollectMillimeters(t *testing.T) {
	doc := bim.NewDocument("Test")
	doc.Unit = bim.UnitMillimeters
	doc.Views = []bim.View{
		{Name: "A", Perspective: true, Eye: math.Vec3{X: 1000, Y: 2000, Z: 1500}, Forward: math.Vec3{X: 1}},
	}

	got := Collect(doc)
	assert.Equal(t, []export.Camera{{Name: "A", Position: "-1000,1500,2000", Target: "-1,0,0"}}, got)
}

func TestCollectNone(t *testing.T) {
	assert.Empty(t, Collect(bim.NewDocument("Empty")))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   math.Vec3
		want string
	}{
		{math.Vec3{}, "0,0,0"},
		{math.Vec3{X: -0.0, Y: 0.5, Z: -1}, "0,0.5,-1"},
		{math.Vec3{X: 1e6, Y: 0.125, Z: 3}, "1000000,0.125,3"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
