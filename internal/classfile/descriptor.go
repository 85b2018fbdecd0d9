package classfile

import "strings"

// extractFieldTypeNames scans a field descriptor or generic signature
// for class references: every maximal substring between an 'L' and the
// next '<' or ';' is an internal class name. Array prefixes ('[') and
// primitive codes (B C D F I J S Z V) carry no class name and are
// skipped implicitly by the scan. Applied repeatedly, the same rule
// picks up each type argument nested inside a generic signature.
func extractFieldTypeNames(descriptor string) []string {
	var names []string
	i := 0
	for i < len(descriptor) {
		if descriptor[i] != 'L' {
			i++
			continue
		}
		start := i + 1
		j := start
		for j < len(descriptor) && descriptor[j] != ';' && descriptor[j] != '<' {
			j++
		}
		if j > start {
			names = append(names, strings.ReplaceAll(descriptor[start:j], "/", "."))
		}
		i = j
		if i >= len(descriptor) {
			break
		}
		// Advance past the terminator so the next 'L' search resumes
		// inside a generic argument list or after this reference.
		i++
	}
	return names
}
