package field

// Strength is the ordinal attraction-strength tier of a resource or the
// policy floor of a field. Bonds are refused inside a field when either
// participant's strength is below the field's floor.
type Strength int

const (
	// Weak bindings are easily broken and intended to be temporary.
	Weak Strength = iota + 1
	// Medium is the default tier for most resources and fields.
	Medium
	// Strong marks high-priority, persistent bindings.
	Strong
	// Super marks bindings that should be treated as permanent.
	Super
)

// String returns the tier name in upper case.
func (s Strength) String() string {
	switch s {
	case Weak:
		return "WEAK"
	case Medium:
		return "MEDIUM"
	case Strong:
		return "STRONG"
	case Super:
		return "SUPER"
	default:
		return "UNKNOWN"
	}
}
