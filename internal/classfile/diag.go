package classfile

import "fmt"

// DiagKind classifies a non-fatal issue encountered while parsing one
// classfile.
type DiagKind string

const (
	DiagSkippedPathMismatch DiagKind = "path_mismatch"
	DiagSkippedBadMagic     DiagKind = "bad_magic"
	DiagStructuralError     DiagKind = "structural_error"
)

// Diag records one non-fatal issue for a single classfile.
type Diag struct {
	Offset int
	Kind   DiagKind
	Msg    string
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] 0x%x: %s", d.Kind, d.Offset, d.Msg)
}

// Diags accumulates diagnostics produced while parsing one classfile.
// A scan driver collects one Diags value per input and flushes them, in
// input order, once the matching record (if any) has been linked.
type Diags struct {
	items []Diag
}

func (d *Diags) Add(offset int, kind DiagKind, msg string) {
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: msg})
}

func (d *Diags) Addf(offset int, kind DiagKind, format string, args ...any) {
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag { return d.items }
func (d *Diags) Len() int      { return len(d.items) }

// Mode controls how the parser reacts to a structural parse error.
type Mode int

const (
	// ModeBestEffort discards the offending classfile and records a
	// diagnostic; Parse returns a nil record and a nil error.
	ModeBestEffort Mode = iota
	// ModeStrict returns the structural error from Parse instead of
	// swallowing it, for callers that want to fail fast on a single
	// malformed input (e.g. interactive debugging of one classfile).
	ModeStrict
)

// Options controls parsing behavior.
type Options struct {
	Mode Mode
	// ScanNonPublicFields, when false (the default), skips resolving
	// name/descriptor/attributes for non-public fields entirely.
	ScanNonPublicFields bool
}
