// Package window runs a session in a desktop window using ebiten.
package window

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/samdwyer/mazecrawler/internal/game"
)

const (
	windowScale = 3
	lineHeight  = 14
)

var keyActions = map[ebiten.Key]game.Action{
	ebiten.KeyArrowUp:    game.ActionMoveForward,
	ebiten.KeyArrowDown:  game.ActionMoveBackward,
	ebiten.KeyArrowLeft:  game.ActionTurnLeft,
	ebiten.KeyArrowRight: game.ActionTurnRight,
	ebiten.KeyW:          game.ActionMoveForward,
	ebiten.KeyS:          game.ActionMoveBackward,
	ebiten.KeyA:          game.ActionTurnLeft,
	ebiten.KeyD:          game.ActionTurnRight,
	ebiten.KeyX:          game.ActionTurnAround,
	ebiten.KeyE:          game.ActionUseStairs,
	ebiten.KeyF:          game.ActionFight,
	ebiten.KeyEnter:      game.ActionFight,
	ebiten.KeyR:          game.ActionFlee,
	ebiten.KeyK:          game.ActionSave,
	ebiten.KeyL:          game.ActionLoad,
	ebiten.KeyQ:          game.ActionQuit,
	ebiten.KeyEscape:     game.ActionQuit,
}

// actionForKey maps a window key to an action.
func actionForKey(k ebiten.Key) game.Action {
	if a, ok := keyActions[k]; ok {
		return a
	}
	return game.ActionNone
}

// Window implements ebiten.Game for a session.
type Window struct {
	ctx     context.Context
	session *game.Session
	width   int
	height  int

	img  *ebiten.Image
	keys []ebiten.Key
	last time.Time
}

// New creates a window frontend with a fixed logical frame size.
func New(ctx context.Context, session *game.Session, width, height int) *Window {
	session.Resize(width, height)
	return &Window{
		ctx:     ctx,
		session: session,
		width:   width,
		height:  height,
	}
}

// Update applies the keys pressed this tick, then advances the session by
// the time since the previous tick.
func (w *Window) Update() error {
	now := time.Now()
	dt := 0.0
	if !w.last.IsZero() {
		dt = now.Sub(w.last).Seconds()
	}
	w.last = now

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		if a := actionForKey(k); a != game.ActionNone {
			w.session.Handle(w.ctx, a)
		}
	}
	if w.session.Done() || w.ctx.Err() != nil {
		return ebiten.Termination
	}

	w.session.Tick(w.ctx, dt)
	return nil
}

// Draw copies the session's frame to the screen and prints the HUD.
func (w *Window) Draw(screen *ebiten.Image) {
	frame := w.session.Frame()
	if w.img == nil {
		w.img = ebiten.NewImage(w.width, w.height)
	}
	w.img.WritePixels(frame.Pix)
	screen.DrawImage(w.img, nil)

	status := w.session.Status()
	if enc := w.session.Encounter(); enc != nil {
		status = fmt.Sprintf("[%c] %s", enc.Enemy.GlyphRune(), status)
	}
	ebitenutil.DebugPrintAt(screen, status, 2, w.height-2*lineHeight-2)
	ebitenutil.DebugPrintAt(screen, w.session.Message(), 2, w.height-lineHeight-2)
}

// Layout keeps the logical size fixed; ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

// Run opens the window and blocks until the player quits.
func Run(ctx context.Context, session *game.Session, cfg game.Config) error {
	w := New(ctx, session, cfg.Width, cfg.Height)

	ebiten.SetWindowSize(cfg.Width*windowScale, cfg.Height*windowScale)
	ebiten.SetWindowTitle("mazecrawler")
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("window closed with error: %w", err)
	}
	return nil
}
