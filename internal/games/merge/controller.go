package merge

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

// BodyHandle identifies a body owned by the World.
type BodyHandle uint64

// BodySpec describes a fruit body to create.
type BodySpec struct {
	Label  string
	Radius float64
	Pos    core.Vec
	Held   bool // Suspended: no gravity and no contacts until released
	Color  core.Color
	Sprite string
}

// World is the physics service the controller drives.
type World interface {
	CreateBody(spec BodySpec) (BodyHandle, error)
	SetPosition(h BodyHandle, pos core.Vec) error
	// SetDynamic releases a held body into full simulation, or holds it.
	SetDynamic(h BodyHandle, dynamic bool) error
	RemoveBody(h BodyHandle) error
}

// Contact is a pair of bodies that started touching.
type Contact struct {
	A, B  BodyHandle
	Point core.Vec
}

// Key is a player input the controller reacts to.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyDrop
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Direction is the horizontal movement currently held.
type Direction int

const (
	DirNone  Direction = 0
	DirLeft  Direction = -1
	DirRight Direction = 1
)

// Settings configures a Controller.
type Settings struct {
	Ranks        *RankTable
	Pool         int      // Lowest ranks eligible for spawning, capped at 5
	SpawnPoint   core.Vec // Where new pieces appear, held
	InnerLeft    float64  // Inner face of the left wall
	InnerRight   float64  // Inner face of the right wall
	MoveStep     float64  // Units per movement firing
	MoveInterval time.Duration
	Cooldown     time.Duration // Delay between a drop and the next spawn
	Sensor       BodyHandle    // Top boundary sensor
}

// ActivePiece is the piece under player control.
type ActivePiece struct {
	Handle BodyHandle
	Rank   int
	Pos    core.Vec
}

// ControllerState is a copy of the controller's turn state.
type ControllerState struct {
	Active       *ActivePiece
	PreviousRank int
	Direction    Direction
	Locked       bool
	GameOver     bool
}

// Controller owns the active piece and applies the merge and game-over
// rules on top of a physics World. All methods must be called from one
// goroutine, the same one that advances the scheduler.
type Controller struct {
	world    World
	sched    *core.Scheduler
	settings Settings
	ranks    *RankTable
	policy   *SpawnPolicy

	pieces    map[BodyHandle]int // Rank of every fruit body in the world
	active    *ActivePiece
	direction Direction
	moveTask  *core.Task
	cooldown  *core.Task
	locked    bool
	over      bool
	err       error

	score int
	best  int

	listener Listener
	recorder Recorder
}

// NewController creates a controller. Call Start to spawn the first piece.
func NewController(world World, sched *core.Scheduler, settings Settings, rng *rand.Rand) *Controller {
	return &Controller{
		world:    world,
		sched:    sched,
		settings: settings,
		ranks:    settings.Ranks,
		policy:   NewSpawnPolicy(rng, settings.Pool, settings.Ranks.Len()),
		pieces:   make(map[BodyHandle]int),
		best:     -1,
	}
}

// SetListener registers the game-over listener.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// SetRecorder registers an event recorder.
func (c *Controller) SetRecorder(r Recorder) {
	c.recorder = r
}

// Start spawns the first piece.
func (c *Controller) Start() error {
	return c.Spawn()
}

// Spawn creates a new held piece at the spawn point. It is a no-op when a
// piece is already active, input is locked, or the game is over.
func (c *Controller) Spawn() error {
	if c.err != nil {
		return c.err
	}
	if c.active != nil || c.locked || c.over {
		return nil
	}
	return c.spawn()
}

func (c *Controller) spawn() error {
	rank := c.policy.Next()
	r := c.ranks.At(rank)
	pos := c.settings.SpawnPoint

	h, err := c.world.CreateBody(BodySpec{
		Label:  r.Label,
		Radius: r.Radius,
		Pos:    pos,
		Held:   true,
		Color:  r.Color,
	})
	if err != nil {
		return c.fail(fmt.Errorf("merge: spawn %s: %w", r.Label, err))
	}

	c.pieces[h] = rank
	c.active = &ActivePiece{Handle: h, Rank: rank, Pos: pos}
	c.note(rank)
	c.emit(EventSpawn, rank, pos)
	return nil
}

// KeyDown handles a key press.
func (c *Controller) KeyDown(k Key) error {
	if c.err != nil {
		return c.err
	}
	switch k {
	case KeyLeft:
		c.startMove(DirLeft)
	case KeyRight:
		c.startMove(DirRight)
	case KeyDrop:
		return c.Drop()
	}
	return nil
}

// KeyUp handles a key release. Releasing a direction other than the one
// being held does nothing.
func (c *Controller) KeyUp(k Key) error {
	if c.err != nil {
		return c.err
	}
	switch k {
	case KeyLeft:
		if c.direction == DirLeft {
			c.stopMove()
		}
	case KeyRight:
		if c.direction == DirRight {
			c.stopMove()
		}
	}
	return nil
}

func (c *Controller) startMove(dir Direction) {
	if c.active == nil || c.locked || c.over {
		return
	}
	if c.moveTask.Active() {
		return
	}
	c.direction = dir
	c.moveTask = c.sched.Every(c.settings.MoveInterval, c.moveTick)
}

func (c *Controller) stopMove() {
	c.moveTask.Cancel()
	c.moveTask = nil
	c.direction = DirNone
}

func (c *Controller) moveTick() {
	if c.active == nil || c.locked || c.over || c.err != nil {
		c.stopMove()
		return
	}

	r := c.ranks.At(c.active.Rank).Radius
	pos := c.active.Pos
	x := pos.X + float64(c.direction)*c.settings.MoveStep
	x = core.ClampF(x, c.settings.InnerLeft+r, c.settings.InnerRight-r)
	if x == pos.X {
		return
	}

	pos.X = x
	if err := c.world.SetPosition(c.active.Handle, pos); err != nil {
		c.fail(fmt.Errorf("merge: move: %w", err))
		c.stopMove()
		return
	}
	c.active.Pos = pos
}

// Drop releases the active piece and schedules the next spawn after the
// cooldown. It is a no-op without an active piece.
func (c *Controller) Drop() error {
	if c.err != nil {
		return c.err
	}
	if c.active == nil || c.over {
		return nil
	}

	c.stopMove()
	c.locked = true

	piece := c.active
	if err := c.world.SetDynamic(piece.Handle, true); err != nil {
		return c.fail(fmt.Errorf("merge: drop: %w", err))
	}
	c.active = nil
	c.emit(EventDrop, piece.Rank, piece.Pos)

	c.cooldown = c.sched.After(c.settings.Cooldown, c.afterCooldown)
	return nil
}

func (c *Controller) afterCooldown() {
	if c.over || c.err != nil {
		return
	}
	if err := c.spawn(); err != nil {
		return
	}
	c.locked = false
}

// HandleCollisions applies the merge and game-over rules to one batch of
// collision-start pairs. Bodies removed by an earlier pair in the batch
// are skipped.
func (c *Controller) HandleCollisions(contacts []Contact) error {
	if c.err != nil {
		return c.err
	}

	removed := make(map[BodyHandle]bool)
	for _, ct := range contacts {
		if c.over {
			return nil
		}
		if removed[ct.A] || removed[ct.B] {
			continue
		}

		if ct.A == c.settings.Sensor || ct.B == c.settings.Sensor {
			other := ct.A
			if other == c.settings.Sensor {
				other = ct.B
			}
			c.checkBoundary(other, ct.Point)
			continue
		}

		ra, okA := c.pieces[ct.A]
		rb, okB := c.pieces[ct.B]
		if !okA || !okB || ra != rb || c.isActive(ct.A) || c.isActive(ct.B) {
			continue
		}

		if err := c.merge(ct, ra); err != nil {
			return err
		}
		removed[ct.A] = true
		removed[ct.B] = true
	}
	return nil
}

func (c *Controller) merge(ct Contact, rank int) error {
	for _, h := range []BodyHandle{ct.A, ct.B} {
		if err := c.world.RemoveBody(h); err != nil {
			return c.fail(fmt.Errorf("merge: remove %s: %w", c.ranks.At(rank).Label, err))
		}
		delete(c.pieces, h)
	}

	next, ok := c.ranks.Next(rank)
	if !ok {
		c.score += 2 * c.ranks.At(rank).Points
		c.emit(EventAnnihilate, rank, ct.Point)
		return nil
	}

	r := c.ranks.At(next)
	h, err := c.world.CreateBody(BodySpec{
		Label:  r.Label,
		Radius: r.Radius,
		Pos:    ct.Point,
		Color:  r.Color,
	})
	if err != nil {
		return c.fail(fmt.Errorf("merge: create %s: %w", r.Label, err))
	}
	c.pieces[h] = next
	c.score += r.Points
	c.note(next)
	c.emit(EventMerge, next, ct.Point)
	return nil
}

// checkBoundary ends the game when a released piece reaches the sensor
// outside the post-drop window.
func (c *Controller) checkBoundary(h BodyHandle, at core.Vec) {
	rank, ok := c.pieces[h]
	if !ok || c.isActive(h) || c.locked {
		return
	}

	c.over = true
	c.stopMove()
	c.cooldown.Cancel()
	c.emit(EventGameOver, rank, at)
	if c.listener != nil {
		c.listener.OnGameOver()
	}
}

// Advance moves the scheduler forward and reports a failure raised by a
// scheduled movement or spawn.
func (c *Controller) Advance(d time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.sched.Advance(d)
	return c.err
}

func (c *Controller) isActive(h BodyHandle) bool {
	return c.active != nil && c.active.Handle == h
}

// fail records the first service failure. The session cannot continue.
func (c *Controller) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

func (c *Controller) note(rank int) {
	if rank > c.best {
		c.best = rank
	}
}

func (c *Controller) emit(kind EventKind, rank int, pos core.Vec) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(Event{
		Kind:  kind,
		At:    c.sched.Now(),
		Rank:  rank,
		Label: c.ranks.At(rank).Label,
		Pos:   pos,
		Score: c.score,
	})
}

// State returns a copy of the turn state.
func (c *Controller) State() ControllerState {
	s := ControllerState{
		PreviousRank: c.policy.Previous(),
		Direction:    c.direction,
		Locked:       c.locked,
		GameOver:     c.over,
	}
	if c.active != nil {
		a := *c.active
		s.Active = &a
	}
	return s
}

// Err returns the service failure that ended the session, if any.
func (c *Controller) Err() error {
	return c.err
}

// Score returns the points earned so far.
func (c *Controller) Score() int {
	return c.score
}

// BestRank returns the highest rank seen in play, or -1 before any spawn.
func (c *Controller) BestRank() int {
	return c.best
}

// NextRank returns the rank of the piece that will spawn next.
func (c *Controller) NextRank() int {
	return c.policy.Peek()
}

// Pieces returns the number of fruit bodies in the world.
func (c *Controller) Pieces() int {
	return len(c.pieces)
}

// Ranks returns the rank table.
func (c *Controller) Ranks() *RankTable {
	return c.ranks
}

// Rank returns the rank of a fruit body.
func (c *Controller) Rank(h BodyHandle) (int, bool) {
	r, ok := c.pieces[h]
	return r, ok
}
