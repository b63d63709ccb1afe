package domain

import (
	"errors"
	"fmt"
)

// ErrNotConverged is returned by glyph formation when the convergence gate
// fails. Callers receive this instead of a degraded glyph.
var ErrNotConverged = errors.New("system has not converged")

// ErrUnknownNode is returned when an operation references a node ID that is
// not part of the topology.
var ErrUnknownNode = errors.New("unknown node")

// ErrNoBasisStates is returned by collapse operations when the topology
// supplies no discrete basis set.
var ErrNoBasisStates = errors.New("no basis states configured")

// ErrGlyphNotFound is returned by stores when a glyph ID does not exist.
var ErrGlyphNotFound = errors.New("glyph not found")

// ErrDuplicateGlyph is returned by stores when appending an ID that already
// exists. Glyphs are immutable; a second append is always a caller bug.
var ErrDuplicateGlyph = errors.New("glyph already stored")

// ConfigError reports an out-of-range construction parameter. Construction
// fails; nothing is auto-corrected.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// DimensionError reports a stimulus whose length does not match the configured
// state dimension. The step is rejected and prior state is unchanged.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("stimulus dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// InsufficientHistoryError reports an analytics query made before the minimum
// number of samples exists. It is an explicit result, not an empty success.
type InsufficientHistoryError struct {
	Need int
	Have int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: need %d samples, have %d", e.Need, e.Have)
}

// InstabilityError reports a step that produced a non-finite value. The step
// was rejected and state rolled back to the last good snapshot; the caller may
// collapse the offending node or reset.
type InstabilityError struct {
	NodeID string // empty when the global state went non-finite
	Step   uint64
}

func (e *InstabilityError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("numeric instability in global state at step %d", e.Step)
	}
	return fmt.Sprintf("numeric instability in node %s at step %d", e.NodeID, e.Step)
}
