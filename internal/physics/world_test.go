package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

const dt = 1.0 / 60

func newBox(t *testing.T, opts Options) (*World, BodyID) {
	t.Helper()
	w := NewWorld(opts)
	ground, err := w.AddRect(RectDef{Label: "ground", Center: core.V(310, 820), W: 620, H: 60})
	require.NoError(t, err)
	return w, ground
}

func stepN(w *World, n int) []Contact {
	var all []Contact
	for i := 0; i < n; i++ {
		all = append(all, w.Step(dt)...)
	}
	return all
}

func TestCircleRestsOnGround(t *testing.T) {
	opts := DefaultOptions()
	opts.Restitution = 0
	w, ground := newBox(t, opts)

	ball, err := w.AddCircle(CircleDef{Label: "cherry", Pos: core.V(300, 700), Radius: 20})
	require.NoError(t, err)

	contacts := stepN(w, 180)
	require.Len(t, contacts, 1, "landing should start exactly one contact")
	assert.Equal(t, ground, contacts[0].A)
	assert.Equal(t, ball, contacts[0].B)
	assert.InDelta(t, 790, contacts[0].Point.Y, 6)

	b, ok := w.Body(ball)
	require.True(t, ok)
	assert.InDelta(t, 770, b.Pos.Y, 1.5)
	assert.InDelta(t, 300, b.Pos.X, 0.001)
}

func TestHeldCircleIgnoresGravityAndContacts(t *testing.T) {
	w, _ := newBox(t, DefaultOptions())

	// Overlaps the ground but is suspended.
	id, err := w.AddCircle(CircleDef{Pos: core.V(300, 785), Radius: 20, Held: true})
	require.NoError(t, err)

	assert.Empty(t, stepN(w, 60))
	b, _ := w.Body(id)
	assert.Equal(t, core.V(300, 785), b.Pos)
	assert.Equal(t, core.Vec{}, b.Vel)
}

func TestReleasedCircleFalls(t *testing.T) {
	w, _ := newBox(t, DefaultOptions())
	id, err := w.AddCircle(CircleDef{Pos: core.V(300, 100), Radius: 20, Held: true})
	require.NoError(t, err)

	require.NoError(t, w.SetHeld(id, false))
	stepN(w, 10)

	b, _ := w.Body(id)
	assert.Greater(t, b.Pos.Y, 100.0)
	assert.False(t, b.Held)
}

func TestSensorReportsWithoutPushing(t *testing.T) {
	w := NewWorld(DefaultOptions())
	line, err := w.AddRect(RectDef{Label: "top", Center: core.V(310, 150), W: 560, H: 2, Sensor: true})
	require.NoError(t, err)
	ball, err := w.AddCircle(CircleDef{Pos: core.V(300, 100), Radius: 20})
	require.NoError(t, err)

	contacts := stepN(w, 30)
	require.Len(t, contacts, 1)
	assert.Equal(t, line, contacts[0].A)
	assert.Equal(t, ball, contacts[0].B)

	b, _ := w.Body(ball)
	assert.Greater(t, b.Pos.Y, 200.0, "ball should fall through the sensor")
	assert.InDelta(t, 300, b.Pos.X, 0.001)
}

func TestCircleContactPointOnCentreLine(t *testing.T) {
	opts := DefaultOptions()
	opts.Gravity = 0
	w := NewWorld(opts)

	a, err := w.AddCircle(CircleDef{Pos: core.V(100, 500), Radius: 20})
	require.NoError(t, err)
	b, err := w.AddCircle(CircleDef{Pos: core.V(135, 500), Radius: 20})
	require.NoError(t, err)

	contacts := w.Step(dt)
	require.Len(t, contacts, 1)
	assert.Equal(t, a, contacts[0].A)
	assert.Equal(t, b, contacts[0].B)
	assert.InDelta(t, 117.5, contacts[0].Point.X, 1e-6)
	assert.InDelta(t, 500, contacts[0].Point.Y, 1e-6)

	// Still touching: no second start.
	assert.Empty(t, w.Step(dt))

	ba, _ := w.Body(a)
	bb, _ := w.Body(b)
	assert.Less(t, ba.Pos.X, 100.0)
	assert.Greater(t, bb.Pos.X, 135.0)
}

func TestRemovedBodyStopsReporting(t *testing.T) {
	opts := DefaultOptions()
	opts.Gravity = 0
	w := NewWorld(opts)

	a, _ := w.AddCircle(CircleDef{Pos: core.V(100, 500), Radius: 20})
	b, _ := w.AddCircle(CircleDef{Pos: core.V(130, 500), Radius: 20})
	require.Len(t, w.Step(dt), 1)

	require.NoError(t, w.Remove(a))
	assert.Empty(t, w.Step(dt))
	assert.Equal(t, 1, w.Len())

	_, ok := w.Body(a)
	assert.False(t, ok)
	_, ok = w.Body(b)
	assert.True(t, ok)
}

func TestIDsAreNeverReused(t *testing.T) {
	w := NewWorld(DefaultOptions())
	first, _ := w.AddCircle(CircleDef{Pos: core.V(0, 0), Radius: 1})
	require.NoError(t, w.Remove(first))
	w.Clear()
	second, _ := w.AddCircle(CircleDef{Pos: core.V(0, 0), Radius: 1})
	assert.Greater(t, second, first)
}

func TestWorldErrors(t *testing.T) {
	w, ground := newBox(t, DefaultOptions())

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"remove unknown", w.Remove(99), ErrUnknownBody},
		{"move unknown", w.SetPosition(99, core.V(1, 1)), ErrUnknownBody},
		{"move static", w.SetPosition(ground, core.V(1, 1)), ErrStaticBody},
		{"hold static", w.SetHeld(ground, true), ErrStaticBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}

	_, err := w.AddCircle(CircleDef{Radius: 0})
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = w.AddRect(RectDef{W: 10, H: -1})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestSetPositionClearsVelocity(t *testing.T) {
	w := NewWorld(DefaultOptions())
	id, _ := w.AddCircle(CircleDef{Pos: core.V(300, 100), Radius: 20})
	stepN(w, 5)

	require.NoError(t, w.SetPosition(id, core.V(200, 100)))
	b, _ := w.Body(id)
	assert.Equal(t, core.V(200, 100), b.Pos)
	assert.Equal(t, core.Vec{}, b.Vel)
}

func TestStackedCirclesStayInsideBox(t *testing.T) {
	w, _ := newBox(t, DefaultOptions())
	for _, x := range []float64{15, 605} {
		_, err := w.AddRect(RectDef{Label: "wall", Center: core.V(x, 425), W: 30, H: 850})
		require.NoError(t, err)
	}

	var ids []BodyID
	for i := 0; i < 6; i++ {
		id, err := w.AddCircle(CircleDef{Pos: core.V(200+float64(i)*17, 300-float64(i)*40), Radius: 20 + float64(i)*3})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	stepN(w, 240)

	for _, id := range ids {
		b, ok := w.Body(id)
		require.True(t, ok)
		assert.GreaterOrEqual(t, b.Pos.X-b.Radius, 29.0, "body %d left the box", id)
		assert.LessOrEqual(t, b.Pos.X+b.Radius, 591.0, "body %d left the box", id)
		assert.LessOrEqual(t, b.Pos.Y+b.Radius, 791.0, "body %d sank into the ground", id)
	}
}

func TestClearResetsContacts(t *testing.T) {
	opts := DefaultOptions()
	opts.Gravity = 0
	w := NewWorld(opts)

	_, _ = w.AddCircle(CircleDef{Pos: core.V(100, 500), Radius: 20})
	_, _ = w.AddCircle(CircleDef{Pos: core.V(130, 500), Radius: 20})
	require.Len(t, w.Step(dt), 1)

	w.Clear()
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.Step(dt))

	a, _ := w.AddCircle(CircleDef{Pos: core.V(100, 500), Radius: 20})
	b, _ := w.AddCircle(CircleDef{Pos: core.V(130, 500), Radius: 20})
	contacts := w.Step(dt)
	require.Len(t, contacts, 1)
	assert.Equal(t, Contact{A: a, B: b, Point: contacts[0].Point}, contacts[0])
}

func TestSpeedIsCapped(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSpeed = 100
	w := NewWorld(opts)
	id, _ := w.AddCircle(CircleDef{Pos: core.V(300, 0), Radius: 10})

	stepN(w, 60)
	b, _ := w.Body(id)
	assert.LessOrEqual(t, b.Vel.Len(), 100.0+1e-9)
}
