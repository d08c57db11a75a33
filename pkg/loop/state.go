// Package loop drives the capture/detect/announce cycle.
//
// The Controller is the only component with lifecycle state: it owns the
// camera session, the loop state, and the tick schedule. External
// collaborators observe it through status projections and the event feed;
// they never mutate its fields.
package loop

// State is the loop lifecycle state. Exactly one value is current,
// owned by the Controller.
type State int

const (
	// StateIdle means no camera session exists.
	StateIdle State = iota

	// StateAcquiring means camera acquisition is in progress.
	StateAcquiring

	// StateReady means a camera session exists and detection is not running.
	StateReady

	// StateDetecting means the tick schedule is running.
	StateDetecting

	// StatePaused means the schedule fires but ticks are dropped.
	StatePaused

	// StateStopped means detection was stopped; the camera is kept.
	StateStopped

	// StateCameraError means acquisition failed; terminal for the session.
	StateCameraError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateReady:
		return "ready"
	case StateDetecting:
		return "detecting"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateCameraError:
		return "camera_error"
	default:
		return "unknown"
	}
}

// Tier is the severity of a status label or event.
type Tier int

const (
	// TierInfo is neutral information.
	TierInfo Tier = iota

	// TierActive marks a healthy running activity.
	TierActive

	// TierWarn marks a recoverable, per-tick problem.
	TierWarn

	// TierError marks a terminal problem such as a failed acquisition.
	TierError
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierActive:
		return "active"
	case TierWarn:
		return "warn"
	case TierError:
		return "error"
	default:
		return "info"
	}
}

// Status is a short label plus severity, projected to external display
// collaborators after every transition. Rendering is out of scope.
type Status struct {
	Label string `json:"label"`
	Tier  Tier   `json:"tier"`
}

// Snapshot is the externally visible view of the controller.
type Snapshot struct {
	State       State  `json:"-"`
	StateLabel  string `json:"state"`
	System      Status `json:"system"`
	Camera      Status `json:"camera"`
	Ticks       uint64 `json:"ticks"`
	Errors      uint64 `json:"errors"`
	LastTotal   int    `json:"last_total"`
	Description string `json:"description"`
}
