package export

import (
	"fmt"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

// FrameKind tells which callback pair pushed a frame.
type FrameKind int

// Frame kinds.
const (
	FrameBase FrameKind = iota
	FrameInstance
	FrameLink
)

func (k FrameKind) String() string {
	switch k {
	case FrameBase:
		return "base"
	case FrameInstance:
		return "instance"
	case FrameLink:
		return "link"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

type frame struct {
	kind      FrameKind
	transform math.Mat4
	doc       *bim.Document
}

// TransformStack holds composed transforms paired with the document that
// is active under them, so a link pop restores both at once. The identity
// base frame is never popped.
type TransformStack struct {
	frames []frame
}

// NewTransformStack returns a stack holding only the identity transform
// over doc.
func NewTransformStack(doc *bim.Document) *TransformStack {
	return &TransformStack{
		frames: []frame{{kind: FrameBase, transform: math.Identity(), doc: doc}},
	}
}

// Push composes t with the current top (top * t) and pushes it. A nil doc
// keeps the current document.
func (s *TransformStack) Push(kind FrameKind, t math.Mat4, doc *bim.Document) {
	top := s.top()
	if doc == nil {
		doc = top.doc
	}
	s.frames = append(s.frames, frame{kind: kind, transform: top.transform.Mul(t), doc: doc})
}

// Pop removes the top frame, which must be of the given kind.
func (s *TransformStack) Pop(kind FrameKind) error {
	if len(s.frames) == 1 {
		return fmt.Errorf("%w: %s end without begin", ErrUnbalancedStack, kind)
	}
	top := s.top()
	if top.kind != kind {
		return fmt.Errorf("%w: %s end while %s is open", ErrUnbalancedStack, kind, top.kind)
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Current returns the composed transform on top.
func (s *TransformStack) Current() math.Mat4 {
	return s.top().transform
}

// Document returns the document active on top.
func (s *TransformStack) Document() *bim.Document {
	return s.top().doc
}

// Depth returns the number of frames, base included.
func (s *TransformStack) Depth() int {
	return len(s.frames)
}

func (s *TransformStack) top() frame {
	return s.frames[len(s.frames)-1]
}
