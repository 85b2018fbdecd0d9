package classfile

import "fmt"

// ParseError marks a structural defect in one classfile: an unknown
// constant-pool tag, malformed modified UTF-8, an unknown annotation
// element-value tag, or a short read. A bad magic number is not a
// ParseError; it is recorded as a DiagSkippedBadMagic diagnostic and the
// classfile is skipped. A ParseError is never a
// programmer-invariant violation; a scan driver catches it, logs it, and
// moves on to the next classfile.
type ParseError struct {
	RelativePath string
	Offset       int
	Reason       string
	Err          error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classfile: %s: 0x%x: %s: %v", e.RelativePath, e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("classfile: %s: 0x%x: %s", e.RelativePath, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(path string, offset int, reason string, err error) *ParseError {
	return &ParseError{RelativePath: path, Offset: offset, Reason: reason, Err: err}
}
