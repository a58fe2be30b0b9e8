package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be safe for
// concurrent use because unit workers emit in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the output.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// Config selects the tracers built by New.
type Config struct {
	Level Level
	// Output receives streamed events. When nil, Path is opened instead;
	// "-" means stderr and an empty Path disables streaming.
	Output io.Writer
	Path   string
	// Format of streamed events; paths ending in .ndjson force FormatNDJSON.
	Format Format
	// Ring keeps the last Ring events in memory when positive.
	Ring int
}

// New builds the tracer described by cfg. The returned ring is nil unless
// cfg.Ring is positive.
func New(cfg Config) (Tracer, *RingTracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil, nil
	}
	var ts []Tracer
	w, err := openOutput(cfg)
	if err != nil {
		return nil, nil, err
	}
	if w != nil {
		format := cfg.Format
		if strings.HasSuffix(cfg.Path, ".ndjson") {
			format = FormatNDJSON
		}
		ts = append(ts, NewStreamTracer(w, cfg.Level, format))
	}
	var ring *RingTracer
	if cfg.Ring > 0 {
		ring = NewRingTracer(cfg.Ring, cfg.Level)
		ts = append(ts, ring)
	}
	return Tee(ts...), ring, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.Path == "":
		return nil, nil
	case cfg.Path == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
