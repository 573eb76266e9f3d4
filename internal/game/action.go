package game

// Action is a player command, independent of the input device.
type Action int

const (
	ActionNone Action = iota
	ActionMoveForward
	ActionMoveBackward
	ActionTurnLeft
	ActionTurnRight
	ActionTurnAround
	ActionUseStairs
	ActionFight
	ActionFlee
	ActionSave
	ActionLoad
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionMoveForward:  "move_forward",
	ActionMoveBackward: "move_backward",
	ActionTurnLeft:     "turn_left",
	ActionTurnRight:    "turn_right",
	ActionTurnAround:   "turn_around",
	ActionUseStairs:    "use_stairs",
	ActionFight:        "fight",
	ActionFlee:         "flee",
	ActionSave:         "save",
	ActionLoad:         "load",
	ActionQuit:         "quit",
}

// String returns the action's name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionForRune maps the letter keys shared by every frontend.
func ActionForRune(r rune) Action {
	switch r {
	case 'w', 'W':
		return ActionMoveForward
	case 's', 'S':
		return ActionMoveBackward
	case 'a', 'A':
		return ActionTurnLeft
	case 'd', 'D':
		return ActionTurnRight
	case 'x', 'X':
		return ActionTurnAround
	case 'e', 'E', '>', '<':
		return ActionUseStairs
	case 'f', 'F':
		return ActionFight
	case 'r', 'R':
		return ActionFlee
	case 'k', 'K':
		return ActionSave
	case 'l', 'L':
		return ActionLoad
	case 'q', 'Q':
		return ActionQuit
	default:
		return ActionNone
	}
}
