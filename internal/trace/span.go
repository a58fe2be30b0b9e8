package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open span. Spans begun on a disabled tracer are inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func emit(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = seq.Add(1)
	t.Emit(&ev)
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	emit(t, Event{Kind: KindSpanBegin, Scope: scope, SpanID: s.id, ParentID: parent, Name: name})
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || !s.tracer.Enabled() {
		return 0
	}
	dur := time.Since(s.started)
	emit(s.tracer, Event{
		Kind: KindSpanEnd, Scope: s.scope, SpanID: s.id, ParentID: s.parent,
		Name: s.name, Detail: detail, Dur: dur, Extra: s.extra,
	})
	return dur
}

// WithExtra attaches a key-value pair reported when the span ends.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event, used for failures worth keeping at LevelError.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() {
		return
	}
	ev := Event{Kind: KindPoint, Scope: scope, SpanID: spanIDs.Add(1), ParentID: parent, Name: name, Detail: detail}
	if t.Level().Admits(&ev) {
		emit(t, ev)
	}
}
