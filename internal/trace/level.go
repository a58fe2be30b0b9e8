package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // failure points only
	LevelPhase        // driver and pass spans
	LevelDetail       // plus unit spans
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected one of %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether spans of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeUnit
	case LevelDebug:
		return true
	}
	return false
}

// Admits reports whether ev is recorded at this level. Points pass at
// LevelError whatever their scope.
func (l Level) Admits(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	return l.ShouldEmit(ev.Scope) || ev.Kind == KindPoint && l == LevelError
}
