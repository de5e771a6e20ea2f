// Package editor implements the sector boundary editing state machine: an
// admin selects a sector, accumulates boundary points by clicking the map,
// and confirms or discards the candidate polygon.
package editor

import (
	"errors"

	"montapulse/internal/domain/model"
)

// ErrTooFewPoints rejects confirmation of a candidate with fewer than the
// minimum number of polygon points.
var ErrTooFewPoints = errors.New("un polígono necesita al menos 3 puntos")

// ErrNotEditing rejects point operations while no sector is selected.
var ErrNotEditing = errors.New("ningún sector en edición")

// MinPolygonPoints is the smallest committed boundary allowed.
const MinPolygonPoints = 3

// State is the editor's current phase.
type State string

const (
	// StateIdle means no sector is selected for editing.
	StateIdle State = "idle"
	// StateEditing means a sector is selected and points are accumulating.
	StateEditing State = "editing"
	// StatePreviewingEdge is editing plus a tracked pointer position used to
	// draw the dashed preview segment. Purely cosmetic.
	StatePreviewingEdge State = "previewing-edge"
)

// CommitFunc receives the completed boundary when an edit is confirmed.
type CommitFunc func(sector model.Sector, coords []model.LatLng)

// Editor accumulates a candidate boundary for one sector at a time. It is not
// safe for concurrent use; the owning controller serializes access.
type Editor struct {
	sector    model.Sector
	editing   bool
	candidate []model.LatLng
	pointer   *model.LatLng
	commit    CommitFunc
}

// New creates an idle Editor that commits confirmed boundaries through fn.
func New(fn CommitFunc) *Editor {
	return &Editor{commit: fn}
}

// State reports the current phase.
func (e *Editor) State() State {
	switch {
	case !e.editing:
		return StateIdle
	case e.pointer != nil:
		return StatePreviewingEdge
	default:
		return StateEditing
	}
}

// Sector returns the sector under edit, or false when idle.
func (e *Editor) Sector() (model.Sector, bool) {
	return e.sector, e.editing
}

// Candidate returns a copy of the accumulating point list. While editing, a
// list shorter than MinPolygonPoints must never be treated as a committed
// boundary.
func (e *Editor) Candidate() []model.LatLng {
	out := make([]model.LatLng, len(e.candidate))
	copy(out, e.candidate)
	return out
}

// Pointer returns the last observed pointer position, if any.
func (e *Editor) Pointer() (model.LatLng, bool) {
	if e.pointer == nil {
		return model.LatLng{}, false
	}
	return *e.pointer, true
}

// PreviewSegment returns the dashed preview edge from the last committed
// candidate point to the pointer, when both exist.
func (e *Editor) PreviewSegment() ([2]model.LatLng, bool) {
	if !e.editing || e.pointer == nil || len(e.candidate) == 0 {
		return [2]model.LatLng{}, false
	}
	return [2]model.LatLng{e.candidate[len(e.candidate)-1], *e.pointer}, true
}

// Begin starts an editing pass for the given sector. The candidate list is
// seeded from seed, which may be nil to start from scratch.
func (e *Editor) Begin(sector model.Sector, seed []model.LatLng) {
	e.sector = sector
	e.editing = true
	e.candidate = append([]model.LatLng(nil), seed...)
	e.pointer = nil
}

// AddPoint appends a clicked coordinate to the candidate list.
func (e *Editor) AddPoint(p model.LatLng) error {
	if !e.editing {
		return ErrNotEditing
	}
	e.candidate = append(e.candidate, p)
	return nil
}

// MovePointer records the pointer position for the preview edge.
func (e *Editor) MovePointer(p model.LatLng) error {
	if !e.editing {
		return ErrNotEditing
	}
	e.pointer = &p
	return nil
}

// Undo removes the most recently added point. Undo on an empty candidate
// list is a no-op.
func (e *Editor) Undo() error {
	if !e.editing {
		return ErrNotEditing
	}
	if len(e.candidate) > 0 {
		e.candidate = e.candidate[:len(e.candidate)-1]
	}
	return nil
}

// Confirm commits the candidate list as the sector's new boundary and resets
// to idle. Candidates with fewer than MinPolygonPoints are rejected with no
// state change.
func (e *Editor) Confirm() error {
	if !e.editing {
		return ErrNotEditing
	}
	if len(e.candidate) < MinPolygonPoints {
		return ErrTooFewPoints
	}
	if e.commit != nil {
		e.commit(e.sector, e.Candidate())
	}
	e.reset()
	return nil
}

// Cancel discards the candidate list without persisting anything.
func (e *Editor) Cancel() {
	e.reset()
}

func (e *Editor) reset() {
	e.sector = ""
	e.editing = false
	e.candidate = nil
	e.pointer = nil
}
