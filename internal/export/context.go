// Package export turns a BIM traversal into a three.js object scene.
//
// A Context receives the host's traversal callbacks in depth-first order,
// applies the active instance/link transform to every tessellated point,
// deduplicates vertices per element and material, and on Finish assembles
// one scene document with a child node per exported element.
//
// A Context serves exactly one traversal and is not safe for concurrent
// use, except for Cancel.
package export

import (
	"fmt"
	"maps"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/logger"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// User data keys added to every element node.
const (
	UserDataLayer = "layer"
	UserDataID    = "revit_id"
)

// PropertyExtractor returns the string properties of an element.
type PropertyExtractor interface {
	Properties(e *bim.Element, includeType bool) (map[string]string, error)
}

// Options configures a Context.
type Options struct {
	SwitchCoordinates     bool
	ModelScale            float64 // uniform scale of the root node
	VertexScale           float64 // applied to every vertex coordinate
	IncludeTypeParameters bool
	Generator             string

	Properties PropertyExtractor // nil exports no properties
	Cameras    []Camera

	Logger *zap.Logger // nil uses the "export" logger
}

// DefaultOptions returns millimeter output in the three.js axis convention.
func DefaultOptions() Options {
	return Options{
		SwitchCoordinates:     true,
		ModelScale:            1.0,
		VertexScale:           1.0,
		IncludeTypeParameters: true,
		Generator:             threejs.DefaultGenerator,
	}
}

// Stats counts what an export did.
type Stats struct {
	Elements        int // element nodes in the scene
	SkippedElements int
	Materials       int
	Geometries      int
	Triangles       int
	Vertices        int
	Faults          int // recoverable callback faults
}

type elementRef struct {
	doc *bim.Document
	id  bim.ElementID
}

// Context is the traversal consumer.
type Context struct {
	opts      Options
	log       *zap.Logger
	doc       *bim.Document
	quantizer Quantizer
	hostMM    float64

	stack   *TransformStack
	scene   *sceneBuilder
	element *elementState
	skipped map[elementRef]int

	started  bool
	finished bool
	err      error
	cancel   atomic.Bool

	result *threejs.Document
	stats  Stats
}

// NewContext returns a consumer exporting doc.
func NewContext(doc *bim.Document, opts Options) *Context {
	if opts.ModelScale == 0 {
		opts.ModelScale = 1
	}
	if opts.VertexScale == 0 {
		opts.VertexScale = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("export")
	}
	q := NewQuantizer(doc.Unit, opts.SwitchCoordinates)
	return &Context{
		opts:      opts,
		log:       log.With(zap.String("document", doc.Title)),
		doc:       doc,
		quantizer: q,
		hostMM:    q.Factor,
	}
}

// Start prepares empty registries and the identity transform.
func (c *Context) Start() error {
	if c.started {
		return c.fail(ErrAlreadyStarted)
	}
	c.started = true
	c.stack = NewTransformStack(c.doc)
	c.scene = newSceneBuilder(c.doc, c.opts.ModelScale)
	c.skipped = make(map[elementRef]int)
	c.log.Debug("start")
	return nil
}

// ViewBegin always proceeds.
func (c *Context) ViewBegin(view bim.View) bim.Action {
	c.log.Debug("view begin", zap.String("view", view.Name), zap.Int64("id", int64(view.ID)))
	return bim.Proceed
}

// ViewEnd is called even for skipped views.
func (c *Context) ViewEnd(id bim.ElementID) {
	c.log.Debug("view end", zap.Int64("id", int64(id)))
}

// ElementBegin opens an element. Uncategorized elements and elements
// already exported under the same key are skipped.
func (c *Context) ElementBegin(id bim.ElementID) bim.Action {
	if !c.ready() {
		return bim.Skip
	}
	doc := c.stack.Document()
	if c.element != nil {
		c.fail(fmt.Errorf("%w: %d begun while %d is open", ErrNestedElement, id, c.element.element.ID))
		return bim.Skip
	}

	e := doc.Element(id)
	if e == nil {
		c.fault(fmt.Errorf("%w: %d in %q", ErrUnknownElement, id, doc.Title))
		return c.skip(doc, id)
	}

	key := ElementKey(e, doc)
	log := c.log.With(zap.Int64("id", int64(id)), zap.String("key", key))
	log.Debug("element begin", zap.String("category", e.CategoryName()), zap.String("name", e.Name))

	if c.scene.hasElement(key) {
		log.Debug("duplicate element skipped")
		return c.skip(doc, id)
	}
	if e.Category == nil {
		log.Debug("uncategorized element skipped")
		return c.skip(doc, id)
	}

	c.element = newElementState(e, doc)

	if e.Category.Material.Valid() {
		c.useDocumentMaterial(e.Category.Material)
	}
	return bim.Proceed
}

// ElementEnd closes an element, freezing its per-material geometry into
// the scene. It is a no-op for elements skipped at ElementBegin.
func (c *Context) ElementEnd(id bim.ElementID) {
	if !c.ready() {
		return
	}
	doc := c.stack.Document()
	ref := elementRef{doc: doc, id: id}

	s := c.element
	if s == nil || s.element.ID != id || s.doc != doc {
		if n := c.skipped[ref]; n > 0 {
			if n == 1 {
				delete(c.skipped, ref)
			} else {
				c.skipped[ref] = n - 1
			}
			return
		}
		c.fail(fmt.Errorf("%w: %d in %q", ErrElementNotBegun, id, doc.Title))
		return
	}
	c.element = nil

	vertices := s.flush(c.scene.geometries, c.opts.VertexScale)

	props := c.properties(s.element)
	category := s.element.Category.Name
	props[UserDataLayer] = category
	props[UserDataID] = s.key
	s.node.UserData = props
	c.scene.addLayer(category)
	c.scene.addElement(s.key, s.node)

	c.stats.Vertices += vertices
	c.log.Debug("element end",
		zap.Int64("id", int64(id)),
		zap.Int("materials", s.drafts.Len()),
		zap.Int("vertices", vertices))
}

// InstanceBegin pushes the instance transform.
func (c *Context) InstanceBegin(node bim.InstanceNode) bim.Action {
	if !c.ready() {
		return bim.Skip
	}
	c.log.Debug("instance begin", zap.Int64("symbol", int64(node.SymbolID)))
	c.stack.Push(FrameInstance, node.Transform, nil)
	return bim.Proceed
}

// InstanceEnd pops the instance transform.
func (c *Context) InstanceEnd(node bim.InstanceNode) {
	if !c.ready() {
		return
	}
	c.log.Debug("instance end", zap.Int64("symbol", int64(node.SymbolID)))
	if err := c.stack.Pop(FrameInstance); err != nil {
		c.fail(err)
	}
}

// LinkBegin pushes the link transform and makes the linked document
// current. Linked coordinates are rescaled into the host document unit.
func (c *Context) LinkBegin(node bim.LinkNode) bim.Action {
	if !c.ready() {
		return bim.Skip
	}
	if node.Document == nil {
		c.fault(fmt.Errorf("link %q has no document", node.Name))
		c.stack.Push(FrameLink, math.Identity(), nil)
		return bim.Skip
	}
	c.log.Debug("link begin", zap.String("link", node.Name), zap.String("linked", node.Document.Title))

	t := node.Transform
	if mm, ok := node.Document.Unit.Millimetres(); ok && mm != c.hostMM {
		r := mm / c.hostMM
		t = t.Mul(math.Scale(r, r, r))
	}
	c.stack.Push(FrameLink, t, node.Document)
	return bim.Proceed
}

// LinkEnd pops the link transform and restores the linking document.
func (c *Context) LinkEnd(node bim.LinkNode) {
	if !c.ready() {
		return
	}
	c.log.Debug("link end", zap.String("link", node.Name))
	if err := c.stack.Pop(FrameLink); err != nil {
		c.fail(err)
	}
}

// MaterialChange activates the material of the geometry that follows.
// Hosts repeat it for every mesh even when nothing changed.
func (c *Context) MaterialChange(node bim.MaterialNode) {
	if !c.ready() {
		return
	}
	if c.element == nil {
		c.fault(fmt.Errorf("material change: %w", ErrNoActiveElement))
		return
	}

	if node.MaterialID.Valid() {
		c.useDocumentMaterial(node.MaterialID)
		return
	}

	key := AdHocMaterialKey(node.Color, node.Transparency)
	c.scene.materials.Ensure(key, func() *threejs.Material {
		return NewAdHocMaterial(node.Color, node.Transparency)
	})
	c.element.activate(key)
}

func (c *Context) useDocumentMaterial(id bim.ElementID) {
	doc := c.stack.Document()
	m := doc.Material(id)
	if m == nil {
		c.fault(fmt.Errorf("%w: %d in %q", ErrUnknownMaterial, id, doc.Title))
		return
	}
	key := ElementMaterialKey(m)
	c.scene.materials.Ensure(key, func() *threejs.Material {
		return NewElementMaterial(m)
	})
	c.element.activate(key)
}

// TriangleBatch adds a tessellated batch to the active material.
func (c *Context) TriangleBatch(mesh *bim.Polymesh) {
	if !c.ready() {
		return
	}
	if c.element == nil {
		c.fault(fmt.Errorf("triangle batch: %w", ErrNoActiveElement))
		return
	}
	n, err := c.element.addPolymesh(mesh, c.stack.Current(), c.quantizer)
	if err != nil {
		c.fault(fmt.Errorf("element %d: %w", c.element.element.ID, err))
		return
	}
	c.stats.Triangles += n
}

// IsCancelled reports whether the host should stop. It also turns true
// after a structural fault.
func (c *Context) IsCancelled() bool {
	return c.cancel.Load() || c.err != nil
}

// Cancel asks the host to stop. Safe to call from another goroutine.
func (c *Context) Cancel() {
	c.cancel.Store(true)
}

// Finish checks the traversal was balanced and assembles the document.
func (c *Context) Finish() error {
	if !c.started {
		return ErrNotStarted
	}
	if c.err != nil {
		return c.err
	}
	if c.cancel.Load() {
		return ErrCancelled
	}
	if c.element != nil {
		return c.fail(fmt.Errorf("%w: %d", ErrOpenElement, c.element.element.ID))
	}
	if d := c.stack.Depth(); d != 1 {
		return c.fail(fmt.Errorf("%w: %d frames open at finish", ErrUnbalancedStack, d-1))
	}

	c.result = c.scene.finish(c.opts.Cameras, c.opts.Generator)
	c.finished = true

	c.stats.Elements = c.scene.elements.Len()
	c.stats.Materials = c.scene.materials.Len()
	c.stats.Geometries = c.scene.geometries.Len()
	c.log.Info("export finished",
		zap.Int("elements", c.stats.Elements),
		zap.Int("skipped", c.stats.SkippedElements),
		zap.Int("materials", c.stats.Materials),
		zap.Int("geometries", c.stats.Geometries),
		zap.Int("triangles", c.stats.Triangles),
		zap.Int("faults", c.stats.Faults))
	return nil
}

// Document returns the assembled scene, or nil before a successful Finish.
func (c *Context) Document() *threejs.Document {
	return c.result
}

// Stats returns the export counters.
func (c *Context) Stats() Stats {
	return c.stats
}

// Err returns the first structural fault.
func (c *Context) Err() error {
	return c.err
}

func (c *Context) ready() bool {
	if !c.started {
		c.fail(ErrNotStarted)
		return false
	}
	if c.finished {
		c.fail(ErrFinished)
		return false
	}
	return c.err == nil
}

func (c *Context) skip(doc *bim.Document, id bim.ElementID) bim.Action {
	c.skipped[elementRef{doc: doc, id: id}]++
	c.stats.SkippedElements++
	return bim.Skip
}

func (c *Context) properties(e *bim.Element) map[string]string {
	props := make(map[string]string)
	if c.opts.Properties == nil {
		return props
	}
	got, err := c.opts.Properties.Properties(e, c.opts.IncludeTypeParameters)
	if err != nil {
		c.fault(fmt.Errorf("properties of element %d: %w", e.ID, err))
		return props
	}
	maps.Copy(props, got)
	return props
}

// fault records a recoverable callback fault.
func (c *Context) fault(err error) {
	c.stats.Faults++
	c.log.Warn("callback ignored", zap.Error(err))
}

// fail records the first structural fault and returns it.
func (c *Context) fail(err error) error {
	if c.err == nil {
		c.err = err
		c.log.Error("export aborted", zap.Error(err))
	}
	return c.err
}
