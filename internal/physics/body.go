// Package physics wraps a Chipmunk2D space for circles resting in a box.
// It adds held (suspended) bodies, static walls, sensor regions and
// collision-start notifications keyed by stable body IDs.
package physics

import (
	"errors"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

// BodyID identifies a body. IDs are never reused within a World.
type BodyID uint64

// Shape is the collision geometry of a body.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
)

var (
	// ErrUnknownBody is returned for operations on removed or never-created bodies.
	ErrUnknownBody = errors.New("physics: unknown body")
	// ErrStaticBody is returned when trying to move or wake a static body.
	ErrStaticBody = errors.New("physics: body is static")
	// ErrInvalidShape is returned for non-positive radii or extents.
	ErrInvalidShape = errors.New("physics: invalid shape")
)

// Body is a snapshot of one body's state.
type Body struct {
	ID     BodyID
	Label  string
	Shape  Shape
	Pos    core.Vec // Centre
	Vel    core.Vec // Units per second
	Radius float64  // Circles only
	HalfW  float64  // Rects only
	HalfH  float64  // Rects only
	Static bool
	Sensor bool // Detects contacts without being pushed or pushing
	Held   bool // Suspended: no gravity, no contacts
	Color  core.Color
	Sprite string
}

// CircleDef describes a circle to add.
type CircleDef struct {
	Label  string
	Pos    core.Vec
	Radius float64
	Held   bool
	Color  core.Color
	Sprite string
}

// RectDef describes a static rectangle to add.
type RectDef struct {
	Label  string
	Center core.Vec
	W, H   float64
	Sensor bool
	Color  core.Color
}

// Contact reports two bodies that started touching during a Step.
// A always has the lower ID.
type Contact struct {
	A, B  BodyID
	Point core.Vec
}

// entry pairs a body description with its Chipmunk objects.
type entry struct {
	desc  Body
	body  *cp.Body
	shape *cp.Shape
}

// snapshot refreshes the description from the simulation.
func (e *entry) snapshot() Body {
	b := e.desc
	b.Pos = fromVector(e.body.Position())
	if !b.Static {
		b.Vel = fromVector(e.body.Velocity())
	}
	return b
}

func toVector(v core.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVector(v cp.Vector) core.Vec {
	return core.V(v.X, v.Y)
}
