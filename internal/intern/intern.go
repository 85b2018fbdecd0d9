// Package intern deduplicates class/interface/annotation name strings
// across every classfile a scan parses, so that two records referencing
// the same dotted name always share one string identity.
package intern

import "sync"

// Table is a concurrent put-if-absent string cache. Parser goroutines
// may call Intern concurrently while producing records; the linker may
// also call it safely while consuming them.
type Table struct {
	m sync.Map // string -> string
}

// New returns an empty intern table.
func New() *Table {
	return &Table{}
}

// Intern returns the canonical string for s: the first string value
// observed for s's content is returned on every subsequent call with an
// equal value.
func (t *Table) Intern(s string) string {
	if v, ok := t.m.Load(s); ok {
		return v.(string)
	}
	actual, _ := t.m.LoadOrStore(s, s)
	return actual.(string)
}

// Len reports the number of distinct interned strings, for diagnostics.
func (t *Table) Len() int {
	n := 0
	t.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
