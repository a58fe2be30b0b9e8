package trace

import "time"

// Kind of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event outside any span.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole analysis batch or one of its waves.
	ScopeDriver Scope = iota + 1
	// ScopePass covers one phase: discover, parse, resolve, types, sema.
	ScopePass
	// ScopeUnit covers one unit handled by a worker.
	ScopeUnit
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeUnit:
		return "unit"
	}
	return "unknown"
}

// Event is one record handed to a Tracer.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 at the root
	Name     string // e.g. "parse" or a unit path
	Detail   string
	// Dur is set on KindSpanEnd.
	Dur   time.Duration
	Extra map[string]string
}
