package export

import "errors"

// Structural faults. They mean the host broke the callback contract and
// abort the export.
var (
	ErrNotStarted      = errors.New("export not started")
	ErrAlreadyStarted  = errors.New("export already started")
	ErrFinished        = errors.New("callback after finish")
	ErrUnbalancedStack = errors.New("unbalanced transform stack")
	ErrNestedElement   = errors.New("element begun inside another element")
	ErrElementNotBegun = errors.New("element ended but never begun")
	ErrOpenElement     = errors.New("element still open at finish")
	ErrCancelled       = errors.New("export cancelled")
)

// Recoverable faults. The offending callback is logged and ignored.
var (
	ErrUnknownElement   = errors.New("unknown element")
	ErrUnknownMaterial  = errors.New("unknown material")
	ErrNoActiveElement  = errors.New("no active element")
	ErrNoActiveMaterial = errors.New("no active material")
	ErrFacetOutOfRange  = errors.New("facet index out of range")
)
