// Package game provides the play session and the terminal game loop.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode where the player walks the maze.
	StateExplore State = iota
	// StateEncounter blocks movement until the encounter is fought or fled.
	StateEncounter
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateEncounter:
		return "encounter"
	default:
		return "unknown"
	}
}
