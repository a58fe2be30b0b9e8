package diag

import (
	"sort"

	"solfront/internal/source"
)

// Bag collects the diagnostics of one unit. A zero max means no limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16), max: max}
}

// Add stores d unless the limit is reached. Errors are always counted
// as dropped so HasErrors stays truthful when the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		if d.IsFatal() {
			b.dropped++
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any error was added, including dropped ones.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// ErrorCount counts stored and dropped errors.
func (b *Bag) ErrorCount() int {
	n := b.dropped
	for i := range b.items {
		if b.items[i].IsFatal() {
			n++
		}
	}
	return n
}

// HasErrorsIn reports errors produced by the given phase.
func (b *Bag) HasErrorsIn(p Phase) bool {
	for i := range b.items {
		if b.items[i].Phase == p && b.items[i].IsFatal() {
			return true
		}
	}
	return false
}

// Filter keeps the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}

// OnlyFile drops diagnostics whose primary span lies in another file.
func (b *Bag) OnlyFile(file source.FileID) {
	b.Filter(func(d Diagnostic) bool { return d.Primary.File == file })
}

// Sort orders by file, start offset, phase, code and message.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Phase != dj.Phase {
			return di.Phase < dj.Phase
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}
