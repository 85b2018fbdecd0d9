package graph

import (
	"fmt"

	"classgraph/internal/classfile"
)

// Builder links Unlinked Class Records into a Graph. Linking is
// single-threaded: Add must never be called concurrently, even though
// the records it consumes may have been produced by concurrent parser
// instances.
type Builder struct {
	g *Graph
}

// NewBuilder returns a Builder over a fresh, empty Graph.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

// Graph returns the graph assembled so far.
func (b *Builder) Graph() *Graph { return b.g }

// Add links one Unlinked Class Record into the graph, per the linker
// algorithm: resolve the base name, mark the appropriate scanned flag
// (fatal if already set), OR-merge the interface/annotation flags,
// record every edge in both directions, and merge static-final field
// values.
func (b *Builder) Add(rec *classfile.Record) error {
	base := BaseName(rec.ClassName)
	node := b.g.nodeFor(base)

	aux := auxiliaryKind(rec.ClassName)
	if err := markScanned(node, aux, rec.ClassName); err != nil {
		return err
	}

	if rec.IsInterface {
		node.IsInterface = true
	}
	if rec.IsAnnotation {
		node.IsAnnotation = true
	}

	if rec.HasSuperclass {
		super := b.g.nodeFor(BaseName(rec.SuperclassName))
		link(node, super, Superclass)
	}
	for _, iface := range rec.ImplementedInterfaces {
		target := b.g.nodeFor(BaseName(iface))
		target.IsInterface = true
		link(node, target, ImplementedInterface)
	}
	for _, ann := range rec.Annotations {
		target := b.g.nodeFor(BaseName(ann))
		target.IsAnnotation = true
		link(node, target, Annotation)
	}
	for ft := range rec.FieldTypes {
		target := b.g.nodeFor(BaseName(ft))
		node.edgeSet(FieldType)[target] = struct{}{}
	}

	if len(rec.StaticFinalFields) > 0 {
		if node.FieldValues == nil {
			node.FieldValues = make(map[string]FieldValue)
		}
		for name, v := range rec.StaticFinalFields {
			node.FieldValues[name] = convertFieldValue(v)
		}
	}

	return nil
}

// auxiliaryKind classifies a raw (pre-base-name) class name as a
// Scala companion ("$"), trait-methods class ("$class"), or neither.
type auxKind int

const (
	auxNone auxKind = iota
	auxCompanion
	auxTraitMethods
)

func auxiliaryKind(rawName string) auxKind {
	switch {
	case len(rawName) > len("$class") && rawName[len(rawName)-len("$class"):] == "$class":
		return auxTraitMethods
	case len(rawName) > 0 && rawName[len(rawName)-1] == '$':
		return auxCompanion
	default:
		return auxNone
	}
}

func markScanned(node *ClassInfo, aux auxKind, rawName string) error {
	switch aux {
	case auxCompanion:
		if node.CompanionScanned {
			return fmt.Errorf("graph: duplicate companion scan for %q", rawName)
		}
		node.CompanionScanned = true
	case auxTraitMethods:
		if node.TraitMethodsScanned {
			return fmt.Errorf("graph: duplicate trait-methods scan for %q", rawName)
		}
		node.TraitMethodsScanned = true
	default:
		if node.ClassfileScanned {
			return fmt.Errorf("graph: duplicate classfile scan for %q", rawName)
		}
		node.ClassfileScanned = true
	}
	return nil
}

// link records the edge from-relation-to r in both directions, using
// r's inverse when one is defined.
func link(from, to *ClassInfo, r Relation) {
	from.edgeSet(r)[to] = struct{}{}
	if inv, ok := inverseOf[r]; ok {
		to.edgeSet(inv)[from] = struct{}{}
	}
}

func convertFieldValue(v classfile.FieldValue) FieldValue {
	return FieldValue{
		Kind:    int(v.Kind),
		Int32:   v.Int32,
		Int64:   v.Int64,
		Float32: v.Float32,
		Float64: v.Float64,
		Int8:    v.Int8,
		Int16:   v.Int16,
		Uint16:  v.Uint16,
		Bool:    v.Bool,
		Str:     v.Str,
	}
}
