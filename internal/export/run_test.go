package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/properties"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
)

func loadOffice(t *testing.T) *bim.Document {
	t.Helper()
	doc, err := bim.Load("../../pkg/bim/testdata/office.yaml", "")
	require.NoError(t, err)
	return doc
}

func TestRunOffice(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = zap.NewNop()
	opts.Properties = properties.New(nil)

	out, st, err := Run(context.Background(), loadOffice(t), opts)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, Stats{
		Elements:        3,
		SkippedElements: 1,
		Materials:       4,
		Geometries:      4,
		Triangles:       5,
		Vertices:        13,
	}, st)

	root := out.Object
	assert.Equal(t, "BIM Office", root.Name)
	assert.Equal(t, "view-3d-default", root.UUID)
	assert.Equal(t, "Walls,Windows,Structural Columns", root.UserData[UserDataLayers])

	var keys []string
	for _, c := range root.Children {
		keys = append(keys, c.UUID)
	}
	assert.Equal(t, []string{"wall-0001_Office", "window-0001_Office", "column-0001_Structure"}, keys)

	var materials []string
	for _, m := range out.Materials {
		materials = append(materials, m.UUID)
	}
	assert.Equal(t, []string{"mat-concrete", "mat-glass", "MaterialNode_16711680_25", "MaterialNode_8404992_0"}, materials)

	wall := root.Children[0]
	assert.Equal(t, map[string]string{
		"Length":        "3000",
		"Type Width":    "200",
		"Type Function": "Exterior",
		UserDataLayer:   "Walls",
		UserDataID:      "wall-0001_Office",
	}, wall.UserData)

	// Window glass sits under the instance placed at (5, 0, 3) ft.
	glass := out.Geometries[1]
	assert.Equal(t, "window-0001_Office-mat-glass", glass.UUID)
	assert.Equal(t, []float64{-1524, 914, 0, -1829, 914, 0, -1829, 1219, 0}, glass.Data.Vertices)

	// The linked column is placed 100 ft along X.
	column := out.Geometries[3]
	assert.Equal(t, []float64{-30480, 0, 0, -30785, 0, 0, -30480, 0, 305}, column.Data.Vertices)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.Logger = zap.NewNop()
	out, _, err := Run(ctx, loadOffice(t), opts)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
