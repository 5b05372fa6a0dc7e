package physics

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

// Options tunes the simulation.
type Options struct {
	Gravity     float64 // Downward acceleration, units/s^2
	Restitution float64 // Shape elasticity; 0 = no bounce
	Friction    float64 // Shape friction coefficient
	Iterations  int     // Solver passes per step
	MaxSpeed    float64 // Speed cap, units/s; 0 disables
}

// DefaultOptions returns settings tuned for the fruit container.
func DefaultOptions() Options {
	return Options{
		Gravity:     2500,
		Restitution: 0.2,
		Friction:    0.1,
		Iterations:  4,
		MaxSpeed:    1800,
	}
}

// bodyCollision is the collision type of every shape the world creates.
const bodyCollision cp.CollisionType = 1

// World owns every body. It is not safe for concurrent use; the game drives
// it from a single goroutine.
type World struct {
	opts    Options
	space   *cp.Space
	entries *intmap.Map[BodyID, *entry]
	ids     map[*cp.Body]BodyID
	order   []BodyID // Ascending IDs for deterministic iteration
	nextID  BodyID
	started []Contact
	steps   uint64
}

// NewWorld creates an empty world.
func NewWorld(opts Options) *World {
	if opts.Iterations <= 0 {
		opts.Iterations = 1
	}
	w := &World{
		opts:    opts,
		entries: intmap.New[BodyID, *entry](64),
		ids:     make(map[*cp.Body]BodyID),
	}
	w.space = w.newSpace()
	return w
}

func (w *World) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = uint(w.opts.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: w.opts.Gravity})

	handler := space.NewCollisionHandler(bodyCollision, bodyCollision)
	handler.BeginFunc = w.begin
	return space
}

// begin records a pair that started touching. Pairs involving a held body
// are ignored until they separate.
func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	ba, bb := arb.Bodies()
	a, okA := w.ids[ba]
	b, okB := w.ids[bb]
	if !okA || !okB {
		return true
	}
	ea, _ := w.entries.Get(a)
	eb, _ := w.entries.Get(b)
	if ea.desc.Held || eb.desc.Held {
		return false
	}

	point := fromVector(ba.Position().Add(bb.Position()).Mult(0.5))
	if set := arb.ContactPointSet(); set.Count > 0 {
		point = fromVector(set.Points[0].PointA.Add(set.Points[0].PointB).Mult(0.5))
	}
	if a > b {
		a, b = b, a
	}
	w.started = append(w.started, Contact{A: a, B: b, Point: point})
	return true
}

// SetGravity changes the downward acceleration.
func (w *World) SetGravity(g float64) {
	w.opts.Gravity = g
	w.space.SetGravity(cp.Vector{X: 0, Y: g})
}

// Gravity returns the current downward acceleration.
func (w *World) Gravity() float64 {
	return w.opts.Gravity
}

// Steps returns the number of completed steps.
func (w *World) Steps() uint64 {
	return w.steps
}

// Len returns the number of bodies, static ones included.
func (w *World) Len() int {
	return w.entries.Len()
}

// AddCircle adds a dynamic circle, optionally held in place. Circles are
// discs of uniform density.
func (w *World) AddCircle(def CircleDef) (BodyID, error) {
	if def.Radius <= 0 {
		return 0, fmt.Errorf("%w: radius %v", ErrInvalidShape, def.Radius)
	}

	body := w.space.AddBody(cp.NewBody(0, 0))
	body.SetPosition(toVector(def.Pos))
	shape := w.space.AddShape(cp.NewCircle(body, def.Radius, cp.Vector{}))
	shape.SetMass(def.Radius * def.Radius)
	w.configure(shape)

	e := &entry{
		desc: Body{
			Label:  def.Label,
			Shape:  ShapeCircle,
			Radius: def.Radius,
			Color:  def.Color,
			Sprite: def.Sprite,
		},
		body:  body,
		shape: shape,
	}
	if def.Held {
		e.desc.Held = true
		body.SetType(cp.BODY_KINEMATIC)
	}
	return w.insert(e), nil
}

// AddRect adds a static rectangle such as a wall or a sensor line.
func (w *World) AddRect(def RectDef) (BodyID, error) {
	if def.W <= 0 || def.H <= 0 {
		return 0, fmt.Errorf("%w: rect %vx%v", ErrInvalidShape, def.W, def.H)
	}

	body := cp.NewStaticBody()
	body.SetPosition(toVector(def.Center))
	w.space.AddBody(body)
	shape := w.space.AddShape(cp.NewBox(body, def.W, def.H, 0))
	shape.SetSensor(def.Sensor)
	w.configure(shape)

	return w.insert(&entry{
		desc: Body{
			Label:  def.Label,
			Shape:  ShapeRect,
			HalfW:  def.W / 2,
			HalfH:  def.H / 2,
			Static: true,
			Sensor: def.Sensor,
			Color:  def.Color,
		},
		body:  body,
		shape: shape,
	}), nil
}

func (w *World) configure(shape *cp.Shape) {
	shape.SetElasticity(w.opts.Restitution)
	shape.SetFriction(w.opts.Friction)
	shape.SetCollisionType(bodyCollision)
}

func (w *World) insert(e *entry) BodyID {
	w.nextID++
	e.desc.ID = w.nextID
	w.entries.Put(e.desc.ID, e)
	w.ids[e.body] = e.desc.ID
	w.order = append(w.order, e.desc.ID)
	return e.desc.ID
}

// Body returns a copy of the body's state.
func (w *World) Body(id BodyID) (Body, bool) {
	e, ok := w.entries.Get(id)
	if !ok {
		return Body{}, false
	}
	return e.snapshot(), true
}

// Bodies returns copies of all bodies in creation order.
func (w *World) Bodies() []Body {
	out := make([]Body, 0, len(w.order))
	for _, id := range w.order {
		if e, ok := w.entries.Get(id); ok {
			out = append(out, e.snapshot())
		}
	}
	return out
}

// SetPosition teleports a body and clears its velocity.
func (w *World) SetPosition(id BodyID, pos core.Vec) error {
	e, err := w.mutable(id)
	if err != nil {
		return err
	}
	e.body.SetPosition(toVector(pos))
	e.body.SetVelocity(0, 0)
	e.body.SetAngularVelocity(0)
	return nil
}

// SetHeld suspends or releases a circle. Held circles are kinematic: they
// ignore gravity and take part in no contacts. Releasing starts from rest.
func (w *World) SetHeld(id BodyID, held bool) error {
	e, err := w.mutable(id)
	if err != nil {
		return err
	}
	if e.desc.Held == held {
		return nil
	}
	e.desc.Held = held
	if held {
		e.body.SetType(cp.BODY_KINEMATIC)
	} else {
		// Mass is recomputed from the shape.
		e.body.SetType(cp.BODY_DYNAMIC)
	}
	e.body.SetVelocity(0, 0)
	e.body.SetAngularVelocity(0)
	return nil
}

// Remove deletes a body.
func (w *World) Remove(id BodyID) error {
	e, ok := w.entries.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	w.space.RemoveShape(e.shape)
	w.space.RemoveBody(e.body)
	delete(w.ids, e.body)
	w.entries.Del(id)

	idx := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	if idx < len(w.order) && w.order[idx] == id {
		w.order = append(w.order[:idx], w.order[idx+1:]...)
	}
	return nil
}

// Clear removes every body and forgets all contacts. IDs keep increasing.
func (w *World) Clear() {
	for _, id := range w.order {
		w.entries.Del(id)
	}
	w.order = w.order[:0]
	w.ids = make(map[*cp.Body]BodyID)
	w.space = w.newSpace()
}

func (w *World) mutable(id BodyID) (*entry, error) {
	e, ok := w.entries.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	if e.desc.Static {
		return nil, fmt.Errorf("%w: %d", ErrStaticBody, id)
	}
	return e, nil
}

// Step advances the simulation by dt seconds and returns the pairs that
// started touching during this step, ordered by (A, B).
func (w *World) Step(dt float64) []Contact {
	w.steps++
	w.started = w.started[:0]

	w.space.Step(dt)
	w.capSpeed()

	if len(w.started) == 0 {
		return nil
	}
	out := slices.Clone(w.started)
	slices.SortFunc(out, func(x, y Contact) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

func (w *World) capSpeed() {
	if w.opts.MaxSpeed <= 0 {
		return
	}
	for _, id := range w.order {
		e, _ := w.entries.Get(id)
		if e.desc.Static || e.desc.Held {
			continue
		}
		v := e.body.Velocity()
		if speed := v.Length(); speed > w.opts.MaxSpeed {
			v = v.Mult(w.opts.MaxSpeed / speed)
			e.body.SetVelocity(v.X, v.Y)
		}
	}
}
