package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazecrawler/internal/combat"
	"github.com/samdwyer/mazecrawler/internal/entity"
	"github.com/samdwyer/mazecrawler/internal/gamedata"
	"github.com/samdwyer/mazecrawler/internal/render"
	"github.com/samdwyer/mazecrawler/internal/store"
	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/world"
)

// Deps are the collaborators a session draws and persists through. Any of
// them may be nil: the renderer falls back to flat colours, encounters are
// disabled without enemies, and saving fails without a store.
type Deps struct {
	Themes   render.ThemeSource
	Textures render.TextureSource
	Enemies  *gamedata.EnemyRegistry
	Store    store.Storage
}

// Session is one play-through of a level. It dispatches actions, advances
// animation by an externally sampled frame delta and renders frames. It is
// not safe for concurrent use.
type Session struct {
	cfg       Config
	levelName string

	maze     *world.Maze
	player   *entity.Player
	renderer *render.Renderer

	enemies *gamedata.EnemyRegistry
	store   store.Storage
	gate    *EncounterGate

	state       State
	encounter   *Encounter
	pendingStep bool
	message     string
	done        bool
}

// NewSession places a player at the level's start.
func NewSession(ctx context.Context, cfg Config, level *gamedata.Level, deps Deps) *Session {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "session.init")
	defer span.End()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := level.Maze
	s := &Session{
		cfg:       cfg,
		levelName: level.Name,
		maze:      m,
		player:    entity.NewPlayer(m.Start.X, m.Start.Y, m.Start.Floor, level.Facing),
		renderer:  render.New(render.DefaultConfig(cfg.Width, cfg.Height), deps.Themes, deps.Textures),
		enemies:   deps.Enemies,
		store:     deps.Store,
		gate:      NewEncounterGate(seed, cfg.EncounterMinSteps, cfg.EncounterRate),
		state:     StateExplore,
		message:   fmt.Sprintf("You enter %s.", level.Name),
	}

	span.SetAttributes(
		attribute.String("level.name", level.Name),
		attribute.String("maze.biome", m.Biome),
		attribute.Int("maze.floors", m.NumFloors()),
		attribute.String("player.start", m.Start.String()),
		attribute.Int64("session.seed", seed),
	)
	return s
}

// Maze returns the maze being explored.
func (s *Session) Maze() *world.Maze { return s.maze }

// Player returns the player.
func (s *Session) Player() *entity.Player { return s.player }

// State returns the current game state.
func (s *Session) State() State { return s.state }

// Encounter returns the active encounter, or nil.
func (s *Session) Encounter() *Encounter { return s.encounter }

// Message returns the latest status message.
func (s *Session) Message() string { return s.message }

// Done returns true once the player has quit.
func (s *Session) Done() bool { return s.done }

// Handle applies one action. It returns whether the action was accepted.
func (s *Session) Handle(ctx context.Context, a Action) bool {
	switch a {
	case ActionQuit:
		s.done = true
		return true
	case ActionSave:
		if err := s.Save(ctx); err != nil {
			log.Printf("Warning: save failed: %v", err)
			s.message = "Save failed."
			return false
		}
		s.message = fmt.Sprintf("Saved to %s.", s.cfg.SaveSlot)
		return true
	case ActionLoad:
		if err := s.Load(ctx, s.cfg.SaveSlot); err != nil {
			log.Printf("Warning: load failed: %v", err)
			s.message = "Load failed."
			return false
		}
		s.message = fmt.Sprintf("Loaded %s.", s.cfg.SaveSlot)
		return true
	}

	if s.state == StateEncounter {
		return s.handleEncounter(ctx, a)
	}
	return s.handleExplore(a)
}

func (s *Session) handleExplore(a Action) bool {
	p := s.player
	switch a {
	case ActionMoveForward, ActionMoveBackward:
		var ok bool
		if a == ActionMoveForward {
			ok = p.StartMoveForward(s.maze)
		} else {
			ok = p.StartMoveBackward(s.maze)
		}
		if ok {
			s.pendingStep = true
		} else if d := s.blockingDoor(a); d != nil && d.Locked {
			s.message = "The door is locked."
		}
		return ok
	case ActionTurnLeft:
		return p.StartTurnLeft()
	case ActionTurnRight:
		return p.StartTurnRight()
	case ActionTurnAround:
		return p.StartTurnAround()
	case ActionUseStairs:
		t := p.Tile()
		st := s.maze.Stairs(t.X, t.Y, t.Floor)
		if !p.TakeStairs(s.maze) {
			return false
		}
		verb := "descend"
		if st.Kind == world.StairsUp {
			verb = "climb"
		}
		s.message = fmt.Sprintf("You %s to floor %d.", verb, p.Floor()+1)
		return true
	}
	return false
}

// blockingDoor returns the door on the edge the last move attempt crossed.
func (s *Session) blockingDoor(a Action) *world.Door {
	from := s.player.Tile()
	to := s.player.ForwardTile()
	if a == ActionMoveBackward {
		to = from.Step(s.player.Facing().Opposite())
	}
	return s.maze.DoorBetween(from, to)
}

func (s *Session) handleEncounter(ctx context.Context, a Action) bool {
	enc := s.encounter
	me := hero{stats: &s.player.Stats}

	switch a {
	case ActionFight:
		dealt, taken := enc.Fight(me)
		if dealt.Defeated {
			s.endEncounter(ctx, "victory")
			s.message = fmt.Sprintf("The %s is defeated.", enc.Enemy.Name)
			return true
		}
		if taken.Defeated {
			s.defeat(ctx)
			return true
		}
		s.message = fmt.Sprintf("You hit the %s for %d. It strikes back for %d.", enc.Enemy.Name, dealt.Damage, taken.Damage)
		return true
	case ActionFlee:
		if s.gate.Rand().Float64() < fleeChance {
			s.endEncounter(ctx, "fled")
			s.message = "You got away."
			return true
		}
		taken := combat.Strike(enc, me)
		if taken.Defeated {
			s.defeat(ctx)
			return true
		}
		s.message = fmt.Sprintf("You fail to escape and take %d.", taken.Damage)
		return true
	}
	return false
}

// defeat ends the encounter and wakes the player at the maze start with
// full health.
func (s *Session) defeat(ctx context.Context) {
	s.endEncounter(ctx, "defeat")
	st := &s.player.Stats
	st.HP = st.MaxHP
	start := s.maze.Start
	s.player.Restore(entity.PlayerState{X: start.X, Y: start.Y, Floor: start.Floor, Direction: int(s.player.Facing())})
	s.maze.CloseDoorsNotAt(start.X, start.Y, start.Floor)
	s.message = "You black out and wake at the entrance."
}

func (s *Session) startEncounter(ctx context.Context) {
	enemy := s.enemies.SpawnRandom(s.gate.Rand())
	if enemy == nil {
		return
	}

	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "encounter.start")
	span.SetAttributes(
		attribute.String("enemy.id", enemy.ID),
		attribute.String("player.tile", s.player.Tile().String()),
	)
	span.End()

	s.encounter = NewEncounter(enemy)
	s.state = StateEncounter
	s.message = fmt.Sprintf("A %s appears! [F]ight or [R]un.", enemy.Name)
}

func (s *Session) endEncounter(ctx context.Context, outcome string) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "encounter.end")
	span.SetAttributes(attribute.String("encounter.outcome", outcome))
	if s.encounter != nil {
		span.SetAttributes(
			attribute.String("enemy.id", s.encounter.Enemy.ID),
			attribute.Int("encounter.rounds", s.encounter.Round),
		)
	}
	span.End()

	s.encounter = nil
	s.state = StateExplore
	s.gate.Reset()
}

// Tick advances the session by dt seconds. It returns whether any player
// animation is still in flight.
func (s *Session) Tick(ctx context.Context, dt float64) bool {
	busy := s.player.Update(ctx, dt, s.maze)

	if s.pendingStep && !s.player.IsMoving() {
		s.pendingStep = false
		if s.state == StateExplore && s.enemies != nil && s.gate.Step() {
			s.startEncounter(ctx)
		}
		if s.player.Tile() == s.maze.Exit && s.state == StateExplore {
			s.message = "You found the way out."
		}
	}
	return busy
}

// Frame renders the current view. The image is reused by the next call.
func (s *Session) Frame() *image.RGBA {
	return s.renderer.Render(s.maze, s.player)
}

// Resize changes the rendered frame size.
func (s *Session) Resize(width, height int) {
	s.renderer.Resize(width, height)
}

// Status returns the one-line HUD summary.
func (s *Session) Status() string {
	p := s.player
	st := p.Stats
	t := p.Tile()
	line := fmt.Sprintf("Lv%d HP %d/%d MP %d/%d | F%d (%d,%d) %s",
		st.Level, st.HP, st.MaxHP, st.MP, st.MaxMP, t.Floor+1, t.X, t.Y, p.Facing())
	if s.encounter != nil {
		line += " | " + s.encounter.String()
	}
	return line
}

// errNoStore is returned when saving without a store.
var errNoStore = errors.New("no save store configured")

// Save writes the maze and player to the configured slot.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errNoStore
	}
	return s.store.Save(ctx, &store.SaveFile{
		Name:   s.cfg.SaveSlot,
		Level:  s.levelName,
		Maze:   s.maze.Snapshot(),
		Player: s.player.State(),
	})
}

// Load replaces the maze and player with a saved game. Any encounter in
// progress is abandoned.
func (s *Session) Load(ctx context.Context, name string) error {
	if s.store == nil {
		return errNoStore
	}
	save, err := s.store.Load(ctx, name)
	if err != nil {
		return err
	}
	m, err := world.FromSnapshot(ctx, save.Maze)
	if err != nil {
		return fmt.Errorf("failed to restore save %s: %w", name, err)
	}

	s.maze = m
	s.player.Restore(save.Player)
	if save.Level != "" {
		s.levelName = save.Level
	}
	s.encounter = nil
	s.state = StateExplore
	s.pendingStep = false
	s.gate.Reset()
	return nil
}
