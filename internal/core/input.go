package core

// Action represents a semantic platform action, abstracted from physical key presses.
// Movement and jumping are routed to the input aggregator; the rest are handled by
// the platform layer around a session.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // Left arrow
	ActionRight             // Right arrow
	ActionJump              // Up arrow, Space
	ActionPause             // P, Escape
	ActionRestart           // R
	ActionQuit              // Q, Ctrl+C
	ActionScreenshot        // Ctrl+S
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}
