// Package traversal walks a bim.Document the way a BIM host's custom
// exporter does, invoking the export callbacks depth-first.
package traversal

import (
	"context"
	"errors"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
)

// ErrCancelled is returned when the consumer or the context asked to stop.
var ErrCancelled = errors.New("traversal cancelled")

// Consumer receives traversal callbacks. End callbacks are delivered even
// when the matching begin returned bim.Skip.
type Consumer interface {
	Start() error
	ViewBegin(view bim.View) bim.Action
	ViewEnd(id bim.ElementID)
	ElementBegin(id bim.ElementID) bim.Action
	ElementEnd(id bim.ElementID)
	InstanceBegin(node bim.InstanceNode) bim.Action
	InstanceEnd(node bim.InstanceNode)
	LinkBegin(node bim.LinkNode) bim.Action
	LinkEnd(node bim.LinkNode)
	MaterialChange(node bim.MaterialNode)
	TriangleBatch(mesh *bim.Polymesh)
	IsCancelled() bool
	Finish() error
}

// Walk drives c over doc: view begin, every element of the document, every
// link (recursively), view end, finish. It polls for cancellation between
// callbacks and stops without calling Finish when cancelled.
func Walk(ctx context.Context, doc *bim.Document, c Consumer) error {
	w := &walker{ctx: ctx, c: c}

	if err := c.Start(); err != nil {
		return err
	}
	if w.cancelled() {
		return ErrCancelled
	}

	view := doc.ActiveView
	if c.ViewBegin(view) == bim.Proceed {
		if err := w.document(doc); err != nil {
			return err
		}
	}
	c.ViewEnd(view.ID)
	if w.cancelled() {
		return ErrCancelled
	}

	return c.Finish()
}

type walker struct {
	ctx context.Context
	c   Consumer
}

func (w *walker) cancelled() bool {
	return w.ctx.Err() != nil || w.c.IsCancelled()
}

func (w *walker) document(doc *bim.Document) error {
	for _, e := range doc.Elements {
		if err := w.element(e); err != nil {
			return err
		}
	}
	for _, link := range doc.Links {
		if err := w.link(link); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) element(e *bim.Element) error {
	if w.cancelled() {
		return ErrCancelled
	}
	if w.c.ElementBegin(e.ID) == bim.Proceed {
		if err := w.geometry(e.Geometry); err != nil {
			return err
		}
	}
	w.c.ElementEnd(e.ID)
	return nil
}

func (w *walker) geometry(items []bim.Geometry) error {
	for _, g := range items {
		if w.cancelled() {
			return ErrCancelled
		}
		switch {
		case g.Instance != nil:
			if w.c.InstanceBegin(g.Instance.Node) == bim.Proceed {
				if err := w.geometry(g.Instance.Geometry); err != nil {
					return err
				}
			}
			w.c.InstanceEnd(g.Instance.Node)
		case g.Mesh != nil:
			w.c.MaterialChange(g.Material)
			w.c.TriangleBatch(g.Mesh)
		}
	}
	return nil
}

func (w *walker) link(link *bim.LinkNode) error {
	if w.cancelled() {
		return ErrCancelled
	}
	if w.c.LinkBegin(*link) == bim.Proceed && link.Document != nil {
		if err := w.document(link.Document); err != nil {
			return err
		}
	}
	w.c.LinkEnd(*link)
	return nil
}
