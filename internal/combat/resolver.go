// Package combat resolves the blows exchanged during an encounter.
package combat

import "fmt"

// Combatant is anything that can strike and be struck. The player and
// enemies both implement it.
type Combatant interface {
	Name() string
	HP() int
	Attack() int
	Defense() int

	// TakeDamage applies damage and returns the amount actually taken.
	TakeDamage(amount int) int
}

// Result is the outcome of one blow.
type Result struct {
	Damage   int
	Defeated bool
	Message  string
}

// Damage calculates a blow without applying it: attack minus defense,
// never less than 1.
func Damage(attacker, target Combatant) int {
	damage := attacker.Attack() - target.Defense()
	if damage < 1 {
		damage = 1
	}
	return damage
}

// Strike applies one blow from attacker to target.
func Strike(attacker, target Combatant) Result {
	actual := target.TakeDamage(Damage(attacker, target))
	return Result{
		Damage:   actual,
		Defeated: target.HP() <= 0,
		Message:  fmt.Sprintf("%s hits %s for %d.", attacker.Name(), target.Name(), actual),
	}
}

// Exchange resolves a round: the attacker strikes, and a surviving
// defender strikes back. The reply is zero when the defender falls.
func Exchange(attacker, defender Combatant) (dealt, taken Result) {
	dealt = Strike(attacker, defender)
	if dealt.Defeated {
		return dealt, Result{}
	}
	return dealt, Strike(defender, attacker)
}
