package counterpoint

// Phase is the rule regime for the position a State composes next.
type Phase int

const (
	Opening Phase = iota + 1
	Interior
	Penultimate
	Final
	Complete
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Interior:
		return "interior"
	case Penultimate:
		return "penultimate"
	case Final:
		return "final"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of Next.
type Outcome int

const (
	// Expanded means Next returned one or more successors.
	Expanded Outcome = iota + 1
	// DeadEnd means no legal continuation exists; the branch is pruned.
	DeadEnd
	// Done means the line is complete and rule-valid.
	Done
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Expanded:
		return "expanded"
	case DeadEnd:
		return "dead-end"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
