package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	lex := tm.Begin("lex")
	tm.End(lex, "tokens=3")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(7, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "lex" || r.Phases[0].Note != "tokens=3" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %.3f below phase %.3f", r.TotalMS, r.Phases[0].DurationMS)
	}
	if s := r.Summary(); !strings.Contains(s, "lex") || !strings.Contains(s, "// tokens=3") {
		t.Fatalf("summary missing phase: %q", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("lex")
	tm.End(idx, "")
	if idx != -1 || len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer recorded a phase")
	}
}
