package matcher

// Level is a classifier level, progressively richer as the auto-match
// driver escalates through a session (spec §4.2).
type Level int

const (
	Initial Level = iota
	Intermediate
	Full
	Extra
)

func (l Level) String() string {
	switch l {
	case Initial:
		return "Initial"
	case Intermediate:
		return "Intermediate"
	case Full:
		return "Full"
	case Extra:
		return "Extra"
	default:
		return "Unknown"
	}
}

// ParseLevel parses a level name as produced by Level.String, case
// sensitively, defaulting to Full for an unrecognized name — the same
// default the config package uses (spec §6).
func ParseLevel(name string) Level {
	switch name {
	case "Initial":
		return Initial
	case "Intermediate":
		return Intermediate
	case "Extra":
		return Extra
	default:
		return Full
	}
}
