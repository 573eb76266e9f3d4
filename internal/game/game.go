package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazecrawler/internal/ui"
)

// Game runs a session in the terminal.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	fps      int
}

// New opens the terminal screen for a session.
func New(session *Session, fps int) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		session:  session,
		fps:      max(1, fps),
	}
	session.Resize(g.renderer.FrameSize())
	return g, nil
}

// Run executes the main game loop until the player quits or ctx ends.
// Input arrives from a pump goroutine; the frame delta is sampled once per
// tick and fed to the session.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	events := make(chan tcell.Event, 16)
	go g.screen.PumpEvents(events)

	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	last := time.Now()
	g.draw()
	for !g.session.Done() {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.handleEvent(ctx, ev)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			g.session.Tick(ctx, dt)
			g.draw()
		}
	}
	return nil
}

func (g *Game) draw() {
	hud := ui.HUD{
		Status:  g.session.Status(),
		Message: g.session.Message(),
	}
	if enc := g.session.Encounter(); enc != nil {
		hud.Badge = enc.Enemy.GlyphRune()
		hud.BadgeColor = enc.Enemy.RGB()
	}
	g.renderer.Render(g.session.Frame(), hud)
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a := actionForKey(ev); a != ActionNone {
			g.session.Handle(ctx, a)
		}
	case *tcell.EventResize:
		g.session.Resize(g.renderer.FrameSize())
		g.screen.Sync()
	}
}

// actionForKey maps terminal keys to actions.
func actionForKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyUp:
		return ActionMoveForward
	case tcell.KeyDown:
		return ActionMoveBackward
	case tcell.KeyLeft:
		return ActionTurnLeft
	case tcell.KeyRight:
		return ActionTurnRight
	case tcell.KeyEnter:
		return ActionFight
	case tcell.KeyRune:
		return ActionForRune(ev.Rune())
	}
	return ActionNone
}
