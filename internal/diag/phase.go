package diag

// Phase identifies the pipeline step that produced a diagnostic.
type Phase uint8

const (
	PhaseProject Phase = iota
	PhaseLex
	PhaseParse
	PhaseResolve
	PhaseInherit
	PhaseTypes
	PhaseSema
)

var phaseNames = [...]string{
	PhaseProject: "project",
	PhaseLex:     "lex",
	PhaseParse:   "parse",
	PhaseResolve: "resolve",
	PhaseInherit: "inherit",
	PhaseTypes:   "types",
	PhaseSema:    "sema",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
