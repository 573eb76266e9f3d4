package world

import (
	"math"
	"sort"
)

// NPC is a character standing on a tile. It is only seen when the player
// shares its tile and faces the NPC's direction.
type NPC struct {
	X, Y    int
	Floor   int
	Type    string
	Name    string
	Image   string
	Facing  Direction
	Visible bool
}

// Tile returns the tile the NPC stands on.
func (n *NPC) Tile() Tile {
	return Tile{X: n.X, Y: n.Y, Floor: n.Floor}
}

// AddNPC places an NPC, replacing any NPC already on the tile.
func (m *Maze) AddNPC(x, y, floor int, npcType, name, image string, facing Direction) *NPC {
	if m.Floor(floor) == nil {
		return nil
	}
	npc := &NPC{
		X:      x,
		Y:      y,
		Floor:  floor,
		Type:   npcType,
		Name:   name,
		Image:  image,
		Facing: facing,
	}
	m.npcs[npc.Tile()] = npc
	return npc
}

// RemoveNPC deletes the NPC on a tile.
func (m *Maze) RemoveNPC(x, y, floor int) bool {
	key := Tile{X: x, Y: y, Floor: floor}
	if _, ok := m.npcs[key]; !ok {
		return false
	}
	delete(m.npcs, key)
	return true
}

// NPC returns the NPC on a tile, or nil.
func (m *Maze) NPC(x, y, floor int) *NPC {
	return m.npcs[Tile{X: x, Y: y, Floor: floor}]
}

// HasNPC returns true if an NPC stands on the tile.
func (m *Maze) HasNPC(x, y, floor int) bool {
	return m.NPC(x, y, floor) != nil
}

// NPCs returns every NPC ordered by floor then position.
func (m *Maze) NPCs() []*NPC {
	npcs := make([]*NPC, 0, len(m.npcs))
	for _, n := range m.npcs {
		npcs = append(npcs, n)
	}
	sort.Slice(npcs, func(i, j int) bool {
		a, b := npcs[i], npcs[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return npcs
}

// VisibleNPCs returns the NPCs seen during the last visibility update.
func (m *Maze) VisibleNPCs() []*NPC {
	var visible []*NPC
	for _, n := range m.NPCs() {
		if n.Visible {
			visible = append(visible, n)
		}
	}
	return visible
}

// UpdateNPCVisibility recomputes which NPCs the player can see from a
// continuous position and heading (in quarter turns).
func (m *Maze) UpdateNPCVisibility(x, y float64, floor int, heading float64) {
	here := Tile{X: int(math.Floor(x)), Y: int(math.Floor(y)), Floor: floor}
	facing := int(math.Round(heading)) % 4
	if facing < 0 {
		facing += 4
	}

	for _, n := range m.npcs {
		n.Visible = n.Tile() == here && int(n.Facing) == facing
	}
}
