// Package graph assembles Unlinked Class Records into a cross-linked
// class graph and answers relation queries over it.
package graph

import "strings"

// Relation identifies one of the seven edge kinds a ClassInfo node
// carries. SUPERCLASS/SUBCLASS, IMPLEMENTED_INTERFACE/IMPLEMENTING_CLASS,
// and ANNOTATION/ANNOTATED_CLASS are inverse pairs; FIELD_TYPE has no
// inverse.
type Relation int

const (
	Superclass Relation = iota
	Subclass
	ImplementedInterface
	ImplementingClass
	Annotation
	AnnotatedClass
	FieldType
)

var inverseOf = map[Relation]Relation{
	Superclass:            Subclass,
	Subclass:              Superclass,
	ImplementedInterface:  ImplementingClass,
	ImplementingClass:     ImplementedInterface,
	Annotation:            AnnotatedClass,
	AnnotatedClass:        Annotation,
}

func (r Relation) String() string {
	switch r {
	case Superclass:
		return "SUPERCLASS"
	case Subclass:
		return "SUBCLASS"
	case ImplementedInterface:
		return "IMPLEMENTED_INTERFACE"
	case ImplementingClass:
		return "IMPLEMENTING_CLASS"
	case Annotation:
		return "ANNOTATION"
	case AnnotatedClass:
		return "ANNOTATED_CLASS"
	case FieldType:
		return "FIELD_TYPE"
	default:
		return "UNKNOWN"
	}
}

// ClassInfo is one node of the class graph: every distinct dotted class
// name ever observed, whether scanned directly or only referenced.
type ClassInfo struct {
	Name         string
	IsInterface  bool
	IsAnnotation bool

	ClassfileScanned    bool
	CompanionScanned    bool
	TraitMethodsScanned bool

	FieldValues map[string]FieldValue

	edges [7]map[*ClassInfo]struct{}
}

// FieldValue is the graph's copy of classfile.FieldValue, filled in by
// the Builder; Kind holds the classfile.ValueKind as a plain int.
type FieldValue struct {
	Kind    int
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Int8    int8
	Int16   int16
	Uint16  uint16
	Bool    bool
	Str     string
}

func newClassInfo(name string) *ClassInfo {
	return &ClassInfo{Name: name}
}

func (c *ClassInfo) edgeSet(r Relation) map[*ClassInfo]struct{} {
	if c.edges[r] == nil {
		c.edges[r] = make(map[*ClassInfo]struct{})
	}
	return c.edges[r]
}

// Direct returns the immediate edge targets of c under relation r.
func (c *ClassInfo) Direct(r Relation) []*ClassInfo {
	set := c.edges[r]
	if len(set) == 0 {
		return nil
	}
	out := make([]*ClassInfo, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}

// BaseName applies the Scala auxiliary-class merging rule: a name
// ending in "$" maps to its prefix, and a name ending in "$class" maps
// to the prefix without that suffix.
func BaseName(name string) string {
	if strings.HasSuffix(name, "$class") {
		return name[:len(name)-len("$class")]
	}
	if strings.HasSuffix(name, "$") {
		return name[:len(name)-1]
	}
	return name
}

// Graph is the cross-linked class graph: every ClassInfo node ever
// created, indexed by base name.
type Graph struct {
	nodes map[string]*ClassInfo
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*ClassInfo)}
}

// Node returns the node for name (applying the Scala base-name rule),
// or nil if none has been created yet.
func (g *Graph) Node(name string) *ClassInfo {
	return g.nodes[BaseName(name)]
}

// nodeFor returns the existing node for base name, or creates one.
func (g *Graph) nodeFor(baseName string) *ClassInfo {
	n, ok := g.nodes[baseName]
	if !ok {
		n = newClassInfo(baseName)
		g.nodes[baseName] = n
	}
	return n
}

// Len reports the number of distinct nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns every node in the graph, in unspecified order.
func (g *Graph) Nodes() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}
