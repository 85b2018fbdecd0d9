// Package scanfilter defines the predicate the parser consults before
// recording a reference to a class name.
package scanfilter

// Filter decides whether a dotted class name is in scope for scanning.
// It must be a pure function: the parser may call it concurrently from
// multiple goroutines parsing distinct classfiles.
type Filter func(dottedName string) bool

// AllowAll is a Filter that blacklists nothing.
func AllowAll(string) bool { return true }

// Blacklist returns a Filter that rejects any name equal to, or in a
// package under, one of the given prefixes (dotted form without a
// trailing dot, e.g. "java").
// A name matches a prefix either by exact equality or by the prefix
// being a dotted-package ancestor of the name.
func Blacklist(prefixes ...string) Filter {
	list := append([]string(nil), prefixes...)
	return func(name string) bool {
		for _, p := range list {
			if name == p {
				return false
			}
			if len(name) > len(p) && name[:len(p)] == p && name[len(p)] == '.' {
				return false
			}
		}
		return true
	}
}
