package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDebug, ScopeUnit, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "analyze", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	unit := Begin(tr, ScopeUnit, "unit:a.sol", pass.ID())
	unit.End("")
	pass.WithExtra("files", "2").End("")
	root.End("ok")

	out := buf.String()
	if strings.Contains(out, "unit:a.sol") {
		t.Fatalf("unit span emitted at phase level:\n%s", out)
	}
	for _, want := range []string{"→ analyze", "→ parse", "← parse {files=2}", "← analyze (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeUnit, "unit:b.sol", 7).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "unit" || ev["name"] != "unit:b.sol" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingTracerKeepsLatest(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopePass, name, "", 0)
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("snapshot = %+v", got)
	}
}

func TestErrorLevelKeepsPoints(t *testing.T) {
	ring := NewRingTracer(4, LevelError)
	Begin(ring, ScopeDriver, "analyze", 0).End("")
	Point(ring, ScopeUnit, "import cycle", "a.sol -> b.sol", 0)
	got := ring.Snapshot()
	if len(got) != 1 || got[0].Kind != KindPoint {
		t.Fatalf("snapshot = %+v", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without a tracer")
	}
	ring := NewRingTracer(1, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not carried by context")
	}
}

func TestTeeFansOut(t *testing.T) {
	a, b := NewRingTracer(4, LevelPhase), NewRingTracer(4, LevelDetail)
	m := Tee(a, Nop, b)
	if m.Level() != LevelDetail {
		t.Fatalf("tee level = %s, want detail", m.Level())
	}
	Begin(m, ScopePass, "types", 0).End("")
	Begin(m, ScopeUnit, "unit:a.sol", 0).End("")
	if len(a.Snapshot()) != 2 || len(b.Snapshot()) != 4 {
		t.Fatalf("got %d and %d events, want 2 and 4", len(a.Snapshot()), len(b.Snapshot()))
	}
	if Tee(Nop, nil) != Nop {
		t.Fatalf("tee of disabled tracers should be Nop")
	}
}

func TestChildSpans(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	ctx, root := Child(ctx, ScopeDriver, "analyze")
	_, pass := Child(ctx, ScopePass, "parse")
	pass.End("")
	root.End("")
	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[1].ParentID != root.ID() {
		t.Fatalf("parse parent = %d, want %d", events[1].ParentID, root.ID())
	}
	if Parent(context.Background()) != 0 {
		t.Fatalf("root context has a parent")
	}
}

func TestNewBuildsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, ring, err := New(Config{Level: LevelPhase, Output: &buf, Ring: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeDriver, "analyze", 0).End("")
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring did not record the span")
	}
	if !strings.Contains(buf.String(), "analyze") {
		t.Fatalf("stream output missing span: %q", buf.String())
	}
	if tr, ring, _ := New(Config{}); tr != Nop || ring != nil {
		t.Fatalf("LevelOff should give Nop")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	for _, s := range []string{"detail", "DETAIL", "Detail"} {
		if l, err := ParseLevel(s); err != nil || l != LevelDetail {
			t.Fatalf("ParseLevel(%q) = %s, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel accepted an unknown level")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(json) = %d, %v", f, err)
	}
}

func TestEndCarriesDuration(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	Begin(ring, ScopePass, "types", 0).End("")
	events := ring.Snapshot()
	if len(events) != 2 || events[1].Kind != KindSpanEnd || events[0].Dur != 0 {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Seq <= events[0].Seq || events[1].SpanID != events[0].SpanID {
		t.Fatalf("end event does not follow its begin: %+v", events)
	}
	if line := string(FormatEvent(&events[1], FormatText)); !strings.Contains(line, "← types [") {
		t.Fatalf("text = %q", line)
	}
}
