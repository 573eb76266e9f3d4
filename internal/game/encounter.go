package game

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/mazecrawler/internal/combat"
	"github.com/samdwyer/mazecrawler/internal/entity"
	"github.com/samdwyer/mazecrawler/internal/gamedata"
)

const (
	heroAttack  = 20
	heroDefense = 10
	fleeChance  = 0.5
)

// EncounterGate decides after each completed step whether an encounter
// starts. No encounter can start before MinSteps steps since the last one.
type EncounterGate struct {
	MinSteps int
	Rate     float64

	steps int
	rng   *rand.Rand
}

// NewEncounterGate creates a gate with its own seeded RNG.
func NewEncounterGate(seed int64, minSteps int, rate float64) *EncounterGate {
	return &EncounterGate{
		MinSteps: minSteps,
		Rate:     rate,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Step records one completed step and rolls for an encounter.
func (g *EncounterGate) Step() bool {
	g.steps++
	if g.steps < g.MinSteps {
		return false
	}
	if g.rng.Float64() < g.Rate {
		g.steps = 0
		return true
	}
	return false
}

// Steps returns the steps taken since the last encounter.
func (g *EncounterGate) Steps() int {
	return g.steps
}

// Reset clears the step counter.
func (g *EncounterGate) Reset() {
	g.steps = 0
}

// Rand exposes the gate's RNG for the rolls that follow an encounter.
func (g *EncounterGate) Rand() *rand.Rand {
	return g.rng
}

// Encounter is one enemy met in the maze. It fights as a combat.Combatant.
type Encounter struct {
	Enemy *gamedata.EnemyDef
	Round int

	hp int
}

// NewEncounter starts an encounter with a full-health enemy.
func NewEncounter(enemy *gamedata.EnemyDef) *Encounter {
	return &Encounter{Enemy: enemy, hp: enemy.HP}
}

func (e *Encounter) Name() string { return e.Enemy.Name }
func (e *Encounter) HP() int      { return e.hp }
func (e *Encounter) Attack() int  { return e.Enemy.Attack }
func (e *Encounter) Defense() int { return 0 }

// TakeDamage lowers the enemy's HP, never below zero.
func (e *Encounter) TakeDamage(amount int) int {
	amount = min(amount, e.hp)
	e.hp -= amount
	return amount
}

// Defeated returns true once the enemy has no HP left.
func (e *Encounter) Defeated() bool {
	return e.hp <= 0
}

// Fight resolves one round against the player.
func (e *Encounter) Fight(h combat.Combatant) (dealt, taken combat.Result) {
	e.Round++
	return combat.Exchange(h, e)
}

// String describes the encounter for the status line.
func (e *Encounter) String() string {
	return fmt.Sprintf("%s (%d/%d HP)", e.Enemy.Name, e.hp, e.Enemy.HP)
}

// hero lets the player's stats take part in combat.
type hero struct {
	stats *entity.Stats
}

func (h hero) Name() string { return "You" }
func (h hero) HP() int      { return h.stats.HP }
func (h hero) Attack() int  { return heroAttack }
func (h hero) Defense() int { return heroDefense }

func (h hero) TakeDamage(amount int) int {
	amount = min(amount, h.stats.HP)
	h.stats.HP -= amount
	return amount
}
