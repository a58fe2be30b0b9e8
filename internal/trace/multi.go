package trace

import "errors"

// Tee returns a tracer that emits to every tracer in ts. Its level is the
// most verbose of theirs; each tracer still filters by its own level.
func Tee(ts ...Tracer) Tracer {
	var live []Tracer
	level := LevelOff
	for _, t := range ts {
		if t == nil || !t.Enabled() {
			continue
		}
		live = append(live, t)
		level = max(level, t.Level())
	}
	switch len(live) {
	case 0:
		return Nop
	case 1:
		return live[0]
	}
	return &tee{tracers: live, level: level}
}

type tee struct {
	tracers []Tracer
	level   Level
}

func (t *tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *tee) Level() Level { return t.level }

func (t *tee) Enabled() bool { return t.level > LevelOff }
