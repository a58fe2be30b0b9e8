package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning never blocks later phases.
	SevWarning Severity = iota + 1
	// SevError is fatal for the phase that reported it.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
