package combat

import "testing"

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	name            string
	hp              int
	attack, defense int
}

func (m *mockCombatant) Name() string { return m.name }
func (m *mockCombatant) HP() int      { return m.hp }
func (m *mockCombatant) Attack() int  { return m.attack }
func (m *mockCombatant) Defense() int { return m.defense }

func (m *mockCombatant) TakeDamage(amount int) int {
	if amount > m.hp {
		amount = m.hp
	}
	m.hp -= amount
	return amount
}

func TestDamage(t *testing.T) {
	tests := []struct {
		name    string
		attack  int
		defense int
		want    int
	}{
		{"unmitigated", 20, 0, 20},
		{"mitigated", 20, 5, 15},
		{"minimum one", 5, 10, 1},
		{"equal", 7, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &mockCombatant{name: "A", hp: 10, attack: tt.attack}
			b := &mockCombatant{name: "B", hp: 10, defense: tt.defense}
			if got := Damage(a, b); got != tt.want {
				t.Errorf("Damage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStrike(t *testing.T) {
	a := &mockCombatant{name: "Hero", hp: 50, attack: 12}
	b := &mockCombatant{name: "Goblin", hp: 20, defense: 2}

	r := Strike(a, b)
	if r.Damage != 10 || r.Defeated {
		t.Errorf("Strike() = %+v, want 10 damage, not defeated", r)
	}
	if b.hp != 10 {
		t.Errorf("target HP = %d, want 10", b.hp)
	}
	if r.Message != "Hero hits Goblin for 10." {
		t.Errorf("Strike().Message = %q", r.Message)
	}

	Strike(a, b)
	r = Strike(a, b)
	if r.Damage != 0 || !r.Defeated {
		t.Errorf("Strike() on a fallen target = %+v, want 0 damage, defeated", r)
	}
}

func TestExchange(t *testing.T) {
	hero := &mockCombatant{name: "Hero", hp: 30, attack: 20, defense: 10}
	orc := &mockCombatant{name: "Orc", hp: 30, attack: 30}

	dealt, taken := Exchange(hero, orc)
	if dealt.Damage != 20 || taken.Damage != 20 {
		t.Errorf("Exchange() = %d dealt, %d taken, want 20 and 20", dealt.Damage, taken.Damage)
	}

	dealt, taken = Exchange(hero, orc)
	if !dealt.Defeated {
		t.Error("second Exchange() should defeat the orc")
	}
	if taken != (Result{}) {
		t.Errorf("reply from a defeated defender = %+v, want none", taken)
	}
	if hero.hp != 10 {
		t.Errorf("hero HP = %d, want 10", hero.hp)
	}
}
