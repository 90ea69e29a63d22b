package backdrop

// State is the lifecycle state of an Instance.
type State uint8

const (
	// Unmounted means the instance holds no resources. Instances start and
	// end here.
	Unmounted State = iota

	// Mounting means resources are being created.
	Mounting

	// Running means the frame loop is active.
	Running

	// Unmounting means resources are being released.
	Unmounting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Running:
		return "running"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}
