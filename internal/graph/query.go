package graph

// Direct returns the immediate edge targets of node under relation r.
func Direct(node *ClassInfo, r Relation) []*ClassInfo {
	return node.Direct(r)
}

// Reachable returns the breadth-first closure of node under repeated
// application of r, excluding node itself. Enumeration order is
// unspecified.
func Reachable(node *ClassInfo, r Relation) []*ClassInfo {
	visited := map[*ClassInfo]struct{}{node: {}}
	var queue []*ClassInfo
	queue = append(queue, node)
	var out []*ClassInfo

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range cur.Direct(r) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// Category identifies a class-category filter for Filter.
type Category int

const (
	CategoryAny Category = iota
	CategoryStandardClass
	CategoryInterface
	CategoryAnnotation
)

func matchesCategory(n *ClassInfo, cat Category) bool {
	switch cat {
	case CategoryAny:
		return true
	case CategoryAnnotation:
		return n.IsAnnotation
	case CategoryInterface:
		if n.IsInterface && !n.IsAnnotation {
			return true
		}
		return len(n.edges[ImplementingClass]) > 0
	case CategoryStandardClass:
		if n.IsAnnotation {
			return false
		}
		hasHierarchyEdges := len(n.edges[Superclass]) > 0 || len(n.edges[Subclass]) > 0
		isImplementedInterface := n.IsInterface || len(n.edges[ImplementingClass]) > 0
		return hasHierarchyEdges || !isImplementedInterface
	default:
		return false
	}
}

// Filter selects the subset of nodes matching any of cats, excluding
// externally-referenced-only nodes (classfile_scanned == false) unless
// includeExternals is true. When nothing would be removed, the input
// slice is returned unmodified rather than copied.
func Filter(nodes []*ClassInfo, includeExternals bool, cats ...Category) []*ClassInfo {
	if len(cats) == 0 {
		cats = []Category{CategoryAny}
	}
	keepAll := true
	for _, n := range nodes {
		if !nodeMatches(n, includeExternals, cats) {
			keepAll = false
			break
		}
	}
	if keepAll {
		return nodes
	}
	out := make([]*ClassInfo, 0, len(nodes))
	for _, n := range nodes {
		if nodeMatches(n, includeExternals, cats) {
			out = append(out, n)
		}
	}
	return out
}

func nodeMatches(n *ClassInfo, includeExternals bool, cats []Category) bool {
	if !includeExternals && !n.ClassfileScanned {
		return false
	}
	for _, c := range cats {
		if matchesCategory(n, c) {
			return true
		}
	}
	return false
}
