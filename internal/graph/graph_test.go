package graph

import (
	"testing"

	"classgraph/internal/classfile"
)

func rec(name string) *classfile.Record {
	return &classfile.Record{ClassName: name, FieldTypes: map[string]struct{}{}}
}

// Scenario: an empty scan yields an empty graph.
func TestBuilder_EmptyGraph(t *testing.T) {
	b := NewBuilder()
	if b.Graph().Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Graph().Len())
	}
}

// Scenario 3: a class whose only superclass is java.lang.Object has no
// SUPERCLASS edges — this is enforced upstream by the parser (it never
// sets HasSuperclass for java.lang.Object), so a record with
// HasSuperclass=false produces no SUPERCLASS edge here.
func TestBuilder_NoSuperclassEdgeWhenAbsent(t *testing.T) {
	b := NewBuilder()
	a := rec("A")
	if err := b.Add(a); err != nil {
		t.Fatal(err)
	}
	node := b.Graph().Node("A")
	if len(node.Direct(Superclass)) != 0 {
		t.Fatalf("expected no SUPERCLASS edges, got %v", node.Direct(Superclass))
	}
}

// Scenario 4: B extends A, and A arrives after B; both directions of
// the edge are present once A is linked.
func TestBuilder_SuperclassEdgeArrivesOutOfOrder(t *testing.T) {
	b := NewBuilder()
	bRec := rec("B")
	bRec.HasSuperclass = true
	bRec.SuperclassName = "A"
	if err := b.Add(bRec); err != nil {
		t.Fatal(err)
	}
	aRec := rec("A")
	if err := b.Add(aRec); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	aNode := g.Node("A")
	bNode := g.Node("B")

	subs := aNode.Direct(Subclass)
	if len(subs) != 1 || subs[0] != bNode {
		t.Fatalf("direct(A, SUBCLASS) = %v, want [B]", subs)
	}
	supers := bNode.Direct(Superclass)
	if len(supers) != 1 || supers[0] != aNode {
		t.Fatalf("direct(B, SUPERCLASS) = %v, want [A]", supers)
	}
}

// Scenario 5: an interface I annotated with @Marker: is_interface and
// is_annotation are set on the right nodes, with an ANNOTATION edge.
func TestBuilder_InterfaceWithAnnotationEdge(t *testing.T) {
	b := NewBuilder()
	iRec := rec("I")
	iRec.IsInterface = true
	iRec.Annotations = []string{"Marker"}
	if err := b.Add(iRec); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	iNode := g.Node("I")
	markerNode := g.Node("Marker")

	if !iNode.IsInterface {
		t.Fatal("expected I.IsInterface = true")
	}
	if !markerNode.IsAnnotation {
		t.Fatal("expected Marker.IsAnnotation = true")
	}
	anns := iNode.Direct(Annotation)
	if len(anns) != 1 || anns[0] != markerNode {
		t.Fatalf("direct(I, ANNOTATION) = %v, want [Marker]", anns)
	}
	annotated := markerNode.Direct(AnnotatedClass)
	if len(annotated) != 1 || annotated[0] != iNode {
		t.Fatalf("direct(Marker, ANNOTATED_CLASS) = %v, want [I]", annotated)
	}
}

// Scenario 6: Outer$ (companion) and Outer merge onto one node, each
// scanned flag set exactly once.
func TestBuilder_ScalaCompanionMerge(t *testing.T) {
	b := NewBuilder()
	companion := rec("Outer$")
	if err := b.Add(companion); err != nil {
		t.Fatal(err)
	}
	base := rec("Outer")
	if err := b.Add(base); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	node := g.Node("Outer")
	if !node.CompanionScanned || !node.ClassfileScanned {
		t.Fatalf("expected both scanned flags set, got companion=%v classfile=%v", node.CompanionScanned, node.ClassfileScanned)
	}
}

// Duplicate scan of the same real class is a fatal linker error.
func TestBuilder_DuplicateScanIsFatal(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(rec("A")); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(rec("A")); err == nil {
		t.Fatal("expected an error on duplicate scan of A")
	}
}

func TestReachable_ExcludesStartNodeAndHandlesCycles(t *testing.T) {
	b := NewBuilder()
	aRec := rec("A")
	aRec.Annotations = []string{"B"}
	if err := b.Add(aRec); err != nil {
		t.Fatal(err)
	}
	bRec := rec("B")
	bRec.Annotations = []string{"A"} // cycle
	if err := b.Add(bRec); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	got := Reachable(g.Node("A"), Annotation)
	if len(got) != 1 || got[0] != g.Node("B") {
		t.Fatalf("Reachable(A, ANNOTATION) = %v, want [B]", got)
	}
}

func TestFilter_ExcludesExternalsByDefault(t *testing.T) {
	b := NewBuilder()
	aRec := rec("A")
	aRec.HasSuperclass = true
	aRec.SuperclassName = "Unscanned"
	if err := b.Add(aRec); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	all := g.Nodes()
	filtered := Filter(all, false, CategoryAny)
	for _, n := range filtered {
		if n.Name == "Unscanned" {
			t.Fatal("expected Unscanned (not classfile_scanned) to be excluded")
		}
	}

	withExternals := Filter(all, true, CategoryAny)
	if len(withExternals) != len(all) {
		t.Fatalf("Filter with includeExternals=true dropped nodes: got %d, want %d", len(withExternals), len(all))
	}
}

// An annotation that is also used as an implemented interface still
// matches the interface category, via its IMPLEMENTING_CLASS edge.
func TestFilter_AnnotationUsedAsInterfaceMatchesInterfaceCategory(t *testing.T) {
	b := NewBuilder()
	annotatedRec := rec("Annotated")
	annotatedRec.Annotations = []string{"Marker"}
	if err := b.Add(annotatedRec); err != nil {
		t.Fatal(err)
	}
	implRec := rec("Impl")
	implRec.ImplementedInterfaces = []string{"Marker"}
	if err := b.Add(implRec); err != nil {
		t.Fatal(err)
	}

	g := b.Graph()
	marker := g.Node("Marker")
	if !marker.IsAnnotation || !marker.IsInterface {
		t.Fatalf("expected Marker to be both annotation and interface, got annotation=%v interface=%v",
			marker.IsAnnotation, marker.IsInterface)
	}

	got := Filter([]*ClassInfo{marker}, true, CategoryInterface)
	if len(got) != 1 || got[0] != marker {
		t.Fatalf("Filter(CategoryInterface) = %v, want [Marker]", got)
	}
}
