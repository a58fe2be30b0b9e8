// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: Severity, Code, Message, the Primary span,
// the Phase that produced it and optional Notes pointing at related source.
// The Code range encodes the error category:
//
//	LEX1xxx  lexical          SYN2xxx  syntax
//	NAM3xxx  name resolution  INH4xxx  inheritance
//	TYP5xxx  type             MUT6xxx  mutability
//	VIS7xxx  visibility       LOC8xxx  data location
//	PRJ9xxx  project / imports
//
// Phases emit through a Reporter. BagReporter stamps the phase and stores the
// diagnostic in a Bag; the driver later resolves spans into Located records
// (path, line, column) and merges them in a deterministic order.
//
// Package diag does no formatting; rendering lives in internal/diagfmt.
package diag
