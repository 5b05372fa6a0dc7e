package merge

import (
	"fmt"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/physics"
)

// Labels of the container's static bodies.
const (
	LabelWall    = "wall"
	LabelGround  = "ground"
	LabelTopLine = "top_line"
)

// physicsWorld adapts *physics.World to the World interface.
type physicsWorld struct {
	w *physics.World
}

func (p physicsWorld) CreateBody(spec BodySpec) (BodyHandle, error) {
	id, err := p.w.AddCircle(physics.CircleDef{
		Label:  spec.Label,
		Pos:    spec.Pos,
		Radius: spec.Radius,
		Held:   spec.Held,
		Color:  spec.Color,
		Sprite: spec.Sprite,
	})
	return BodyHandle(id), err
}

func (p physicsWorld) SetPosition(h BodyHandle, pos core.Vec) error {
	return p.w.SetPosition(physics.BodyID(h), pos)
}

func (p physicsWorld) SetDynamic(h BodyHandle, dynamic bool) error {
	return p.w.SetHeld(physics.BodyID(h), !dynamic)
}

func (p physicsWorld) RemoveBody(h BodyHandle) error {
	return p.w.Remove(physics.BodyID(h))
}

func physicsOptions(cfg config.MergePhysics) physics.Options {
	opts := physics.DefaultOptions()
	opts.Gravity = cfg.Gravity
	opts.Restitution = cfg.Restitution
	opts.Friction = cfg.Friction
	opts.Iterations = cfg.Iterations
	return opts
}

// buildArena adds the walls, the ground and the top-line sensor, returning
// the sensor's ID.
func buildArena(w *physics.World, b config.MergeBoard) (physics.BodyID, error) {
	rects := []physics.RectDef{
		{
			Label:  LabelWall,
			Center: core.V(b.Wall/2, b.Height/2),
			W:      b.Wall,
			H:      b.Height,
			Color:  core.ColorGray,
		},
		{
			Label:  LabelWall,
			Center: core.V(b.Width-b.Wall/2, b.Height/2),
			W:      b.Wall,
			H:      b.Height,
			Color:  core.ColorGray,
		},
		{
			Label:  LabelGround,
			Center: core.V(b.Width/2, b.Floor()+b.Ground/2),
			W:      b.Width,
			H:      b.Ground,
			Color:  core.ColorBrown,
		},
	}
	for _, r := range rects {
		if _, err := w.AddRect(r); err != nil {
			return 0, fmt.Errorf("merge: build %s: %w", r.Label, err)
		}
	}

	sensor, err := w.AddRect(physics.RectDef{
		Label:  LabelTopLine,
		Center: core.V(b.Width/2, b.TopLineY),
		W:      b.InnerRight() - b.InnerLeft(),
		H:      2,
		Sensor: true,
		Color:  core.ColorRed,
	})
	if err != nil {
		return 0, fmt.Errorf("merge: build %s: %w", LabelTopLine, err)
	}
	return sensor, nil
}

func toContacts(in []physics.Contact) []Contact {
	if len(in) == 0 {
		return nil
	}
	out := make([]Contact, len(in))
	for i, c := range in {
		out[i] = Contact{A: BodyHandle(c.A), B: BodyHandle(c.B), Point: c.Point}
	}
	return out
}
