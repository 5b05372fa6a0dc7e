package merge

import (
	"fmt"
	"math"

	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/physics"
)

const (
	hudRows    = 2  // Status line and separator
	panelWidth = 20 // Side panel with score and preview
)

// layout maps world units onto screen cells. Cells are roughly twice as
// tall as wide, so one row covers twice the units of one column.
type layout struct {
	offX, offY float64
	unitsX     float64 // World units per column
	unitsY     float64 // World units per row
	cols, rows int
}

func newLayout(screenW, screenH int, board worldSize) layout {
	rows := screenH - hudRows
	unitsY := board.h / float64(rows)
	unitsX := unitsY / 2
	cols := int(math.Ceil(board.w / unitsX))

	if avail := screenW - panelWidth - 1; cols > avail {
		cols = avail
		unitsX = board.w / float64(cols)
		unitsY = unitsX * 2
		rows = int(math.Ceil(board.h / unitsY))
	}

	return layout{
		offX:   1,
		offY:   float64(hudRows + (screenH-hudRows-rows)/2),
		unitsX: unitsX,
		unitsY: unitsY,
		cols:   cols,
		rows:   rows,
	}
}

type worldSize struct {
	w, h float64
}

func (l layout) cell(p core.Vec) (float64, float64) {
	return l.offX + p.X/l.unitsX, l.offY + p.Y/l.unitsY
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}
	if g.ctrl == nil {
		g.renderOverlay(dst, "Failed to start", "Press Q to quit")
		return
	}

	l := newLayout(dst.Width(), dst.Height(), worldSize{g.cfg.Board.Width, g.cfg.Board.Height})
	bodies := g.world.Bodies()

	g.renderArena(dst, l, bodies)
	g.renderGuide(dst, l)
	g.renderFruits(dst, l, bodies)
	g.renderPanel(dst, l)

	switch {
	case g.err != nil:
		g.renderOverlay(dst, "Session aborted", "Press Q to quit")
	case g.ctrl.State().GameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  R to restart", g.ctrl.Score()))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	score := 0
	if g.ctrl != nil {
		score = g.ctrl.Score()
	}
	dst.DrawText(0, 0, fmt.Sprintf(" Fruit Merge  Score: %d", score))
	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorDefault)
}

// renderArena draws walls, ground and the top line.
func (g *Game) renderArena(dst *core.Screen, l layout, bodies []physics.Body) {
	for _, b := range bodies {
		if b.Shape != physics.ShapeRect {
			continue
		}
		x0, y0 := l.cell(core.V(b.Pos.X-b.HalfW, b.Pos.Y-b.HalfH))
		x1, y1 := l.cell(core.V(b.Pos.X+b.HalfW, b.Pos.Y+b.HalfH))

		if b.Sensor {
			y := int(math.Floor((y0 + y1) / 2))
			dst.DrawHLine(int(x0), y, int(math.Ceil(x1))-int(x0), '┄', b.Color)
			continue
		}
		for y := int(y0); y < int(math.Ceil(y1)); y++ {
			dst.DrawHLine(int(x0), y, int(math.Ceil(x1))-int(x0), '█', b.Color)
		}
	}
}

// renderGuide draws a dotted line below the held piece.
func (g *Game) renderGuide(dst *core.Screen, l layout) {
	st := g.ctrl.State()
	if st.Active == nil {
		return
	}
	x, top := l.cell(st.Active.Pos)
	_, floor := l.cell(core.V(0, g.cfg.Board.Floor()))
	for y := int(top) + 1; y < int(floor); y++ {
		dst.SetColored(int(x), y, '·', core.ColorGray)
	}
}

// renderFruits draws every fruit, larger ones first so small ones stay
// visible on top.
func (g *Game) renderFruits(dst *core.Screen, l layout, bodies []physics.Body) {
	st := g.ctrl.State()
	ranks := g.ctrl.Ranks()

	for rank := ranks.Top(); rank >= 0; rank-- {
		r := ranks.At(rank)
		for _, b := range bodies {
			if b.Shape != physics.ShapeCircle || b.Label != r.Label {
				continue
			}
			fill := '█'
			if st.Active != nil && BodyHandle(b.ID) == st.Active.Handle {
				fill = '▓'
			}
			cx, cy := l.cell(b.Pos)
			rx, ry := b.Radius/l.unitsX, b.Radius/l.unitsY
			dst.FillEllipse(cx, cy, rx, ry, fill, r.Color)
			if rx >= 2 {
				dst.SetColored(int(cx), int(cy), []rune(r.Label)[0], core.ColorBrightWhite)
			}
		}
	}
}

// renderPanel draws score, best fruit, next-piece preview and controls.
func (g *Game) renderPanel(dst *core.Screen, l layout) {
	x := int(l.offX) + l.cols + 2
	y := hudRows + 1
	ranks := g.ctrl.Ranks()

	dst.DrawText(x, y, fmt.Sprintf("Score: %d", g.ctrl.Score()))
	if best := g.ctrl.BestRank(); best >= 0 {
		dst.DrawText(x, y+1, "Best:  ")
		dst.DrawTextColored(x+7, y+1, ranks.At(best).Label, ranks.At(best).Color)
	}

	next := ranks.At(g.ctrl.NextRank())
	dst.DrawText(x, y+3, "Next:  ")
	dst.DrawTextColored(x+7, y+3, next.Label, next.Color)
	dst.SetColored(x+2, y+5, '█', next.Color)
	dst.SetColored(x+3, y+5, '█', next.Color)

	controls := []string{"←/→  move", "Space drop", "P    pause", "Q    quit"}
	for i, s := range controls {
		dst.DrawTextColored(x, y+7+i, s, core.ColorGray)
	}
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	h := 5
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	for y := box.Y; y < box.Bottom(); y++ {
		dst.DrawHLine(box.X, y, box.W, ' ', core.ColorDefault)
	}
	dst.DrawBox(box, core.ColorDefault)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
