package export

// VertexPool assigns dense indices to distinct points in first-seen order.
type VertexPool struct {
	index  map[Point3]int
	points []Point3
}

// NewVertexPool returns an empty pool.
func NewVertexPool() *VertexPool {
	return &VertexPool{index: make(map[Point3]int)}
}

// Add returns the index of p, inserting it if new.
func (vp *VertexPool) Add(p Point3) int {
	if i, ok := vp.index[p]; ok {
		return i
	}
	i := len(vp.points)
	vp.index[p] = i
	vp.points = append(vp.points, p)
	return i
}

// Len returns the number of distinct points.
func (vp *VertexPool) Len() int {
	return len(vp.points)
}

// Points returns the points in index order.
func (vp *VertexPool) Points() []Point3 {
	return vp.points
}

// Flatten returns x, y, z triples in index order, multiplied by scale.
func (vp *VertexPool) Flatten(scale float64) []float64 {
	out := make([]float64, 0, 3*len(vp.points))
	for _, p := range vp.points {
		out = append(out, scale*float64(p.X), scale*float64(p.Y), scale*float64(p.Z))
	}
	return out
}
