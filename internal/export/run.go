package export

import (
	"context"
	"errors"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/traversal"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// Run walks doc with a new Context and returns the assembled scene.
// Cancelling ctx stops the walk between callbacks.
func Run(ctx context.Context, doc *bim.Document, opts Options) (*threejs.Document, Stats, error) {
	c := NewContext(doc, opts)
	stop := context.AfterFunc(ctx, c.Cancel)
	defer stop()

	err := traversal.Walk(ctx, doc, c)
	if cerr := c.Err(); cerr != nil {
		return nil, c.Stats(), cerr
	}
	if errors.Is(err, traversal.ErrCancelled) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, c.Stats(), errors.Join(ErrCancelled, ctxErr)
		}
		return nil, c.Stats(), ErrCancelled
	}
	if err != nil {
		return nil, c.Stats(), err
	}
	return c.Document(), c.Stats(), nil
}
