package classfile

import (
	"bytes"
	"testing"

	"classgraph/internal/intern"
	"classgraph/internal/scanfilter"
)

// cfBuilder assembles a minimal classfile byte stream by hand, for
// tests that exercise the parser against a known-good binary layout
// rather than a real compiled .class file.
type cfBuilder struct {
	buf          bytes.Buffer
	constants    [][]byte // encoded constant-pool entries, 1-indexed by position
	constantTags []byte
}

func newCFBuilder() *cfBuilder {
	b := &cfBuilder{}
	return b
}

// addUTF8 appends a CONSTANT_Utf8 entry and returns its 1-based index.
func (b *cfBuilder) addUTF8(s string) uint16 {
	var entry bytes.Buffer
	entry.WriteByte(TagUtf8)
	entry.WriteByte(byte(len(s) >> 8))
	entry.WriteByte(byte(len(s)))
	entry.WriteString(s)
	b.constants = append(b.constants, entry.Bytes())
	return uint16(len(b.constants))
}

// addClass appends a CONSTANT_Class entry referencing a UTF8 entry by
// index and returns its own 1-based index.
func (b *cfBuilder) addClass(utf8Idx uint16) uint16 {
	entry := []byte{TagClass, byte(utf8Idx >> 8), byte(utf8Idx)}
	b.constants = append(b.constants, entry)
	return uint16(len(b.constants))
}

// addInteger appends a CONSTANT_Integer entry and returns its index.
func (b *cfBuilder) addInteger(v int32) uint16 {
	uv := uint32(v)
	entry := []byte{TagInteger, byte(uv >> 24), byte(uv >> 16), byte(uv >> 8), byte(uv)}
	b.constants = append(b.constants, entry)
	return uint16(len(b.constants))
}

// classBuild describes the per-class fields that finish assembles,
// together with the already-registered constant-pool entries, into a
// full classfile.
type classBuild struct {
	accessFlags           uint16
	thisClassIdx          uint16
	superClassIdx         uint16
	interfaces            []uint16
	fields                []fieldBuild
	annotationTypeIndices []uint16 // indices into constants for RuntimeVisibleAnnotations, via addClass-style UTF8 descriptors
}

type fieldBuild struct {
	accessFlags    uint16
	nameIdx        uint16
	descriptorIdx  uint16
	constantValue  *uint16 // index of the ConstantValue attribute's cp entry, if any
}

func (b *cfBuilder) finish(c classBuild) []byte {
	// Pre-register every UTF8 entry the body below will need, before the
	// constant-pool header is written: the pool layout must be final
	// before cp_count and the entries themselves are emitted.
	var constantValueNameIdx uint16
	hasConstantValueField := false
	for _, f := range c.fields {
		if f.constantValue != nil {
			hasConstantValueField = true
		}
	}
	if hasConstantValueField {
		constantValueNameIdx = b.addUTF8("ConstantValue")
	}
	var annotationsNameIdx uint16
	if len(c.annotationTypeIndices) > 0 {
		annotationsNameIdx = b.addUTF8("RuntimeVisibleAnnotations")
	}

	var out bytes.Buffer
	out.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	out.Write([]byte{0x00, 0x00, 0x00, 0x34}) // minor=0, major=52

	cpCount := uint16(len(b.constants) + 1)
	out.WriteByte(byte(cpCount >> 8))
	out.WriteByte(byte(cpCount))
	for _, entry := range b.constants {
		out.Write(entry)
	}

	writeU16 := func(v uint16) { out.WriteByte(byte(v >> 8)); out.WriteByte(byte(v)) }

	writeU16(c.accessFlags)
	writeU16(c.thisClassIdx)
	writeU16(c.superClassIdx)

	writeU16(uint16(len(c.interfaces)))
	for _, idx := range c.interfaces {
		writeU16(idx)
	}

	writeU16(uint16(len(c.fields)))
	for _, f := range c.fields {
		writeU16(f.accessFlags)
		writeU16(f.nameIdx)
		writeU16(f.descriptorIdx)
		if f.constantValue != nil {
			writeU16(1) // attributes_count
			writeU16(constantValueNameIdx)
			writeU16(0) // attribute_length is a u4: high half
			writeU16(2) // low half
			writeU16(*f.constantValue)
		} else {
			writeU16(0)
		}
	}

	writeU16(0) // methods_count

	if len(c.annotationTypeIndices) == 0 {
		writeU16(0) // attributes_count
		return out.Bytes()
	}

	writeU16(1) // attributes_count
	var body bytes.Buffer
	bw16 := func(v uint16) { body.WriteByte(byte(v >> 8)); body.WriteByte(byte(v)) }
	bw16(uint16(len(c.annotationTypeIndices)))
	for _, typeIdx := range c.annotationTypeIndices {
		bw16(typeIdx) // type_index
		bw16(0)       // num_element_value_pairs
	}
	writeU16(annotationsNameIdx)
	length := uint32(body.Len())
	out.WriteByte(byte(length >> 24))
	out.WriteByte(byte(length >> 16))
	out.WriteByte(byte(length >> 8))
	out.WriteByte(byte(length))
	out.Write(body.Bytes())
	return out.Bytes()
}

func mustParse(t *testing.T, data []byte, path string, fields FieldSpec, filter scanfilter.Filter) (*Record, Diags) {
	t.Helper()
	p := NewParser()
	interner := intern.New()
	if filter == nil {
		filter = scanfilter.AllowAll
	}
	rec, diags, err := p.Parse(bytes.NewReader(data), path, fields, filter, interner, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return rec, diags
}

// Scenario 1: minimal empty-pool-relative classfile with no edges.
func TestParse_MinimalClass(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("A")
	thisClass := b.addClass(nameUTF8)

	rec, diags := mustParse(t, b.finish(classBuild{
		accessFlags:   0x0021,
		thisClassIdx:  thisClass,
		superClassIdx: 0,
	}), "A.class", nil, nil)

	if diags.Len() != 0 {
		t.Fatalf("unexpected diags: %v", diags.Items())
	}
	if rec == nil {
		t.Fatal("expected a record, got nil")
	}
	if rec.ClassName != "A" {
		t.Fatalf("ClassName = %q, want %q", rec.ClassName, "A")
	}
	if rec.HasSuperclass {
		t.Fatal("expected no superclass edge")
	}
	if len(rec.ImplementedInterfaces) != 0 || len(rec.Annotations) != 0 {
		t.Fatal("expected no edges on a minimal class")
	}
}

// Scenario 2: a public static final int field, pre-registered, yields
// its coerced value.
func TestParse_StaticFinalIntField(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("A")
	thisClass := b.addClass(nameUTF8)
	fieldName := b.addUTF8("X")
	fieldDesc := b.addUTF8("I")
	constVal := b.addInteger(42)

	rec, _ := mustParse(t, b.finish(classBuild{
		accessFlags:   0x0021,
		thisClassIdx:  thisClass,
		superClassIdx: 0,
		fields: []fieldBuild{
			{accessFlags: AccPublic | AccStatic | AccFinal, nameIdx: fieldName, descriptorIdx: fieldDesc, constantValue: &constVal},
		},
	}), "A.class", FieldSpec{"X": {}}, nil)

	if rec == nil {
		t.Fatal("expected a record")
	}
	fv, ok := rec.StaticFinalFields["X"]
	if !ok {
		t.Fatal("expected X to be captured")
	}
	if fv.Kind != KindInt32 || fv.Int32 != 42 {
		t.Fatalf("X = %+v, want int32 42", fv)
	}
}

// Scenario 3: a superclass resolving to java.lang.Object yields no
// SUPERCLASS edge.
func TestParse_ObjectSuperclassOmitted(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("A")
	thisClass := b.addClass(nameUTF8)
	objUTF8 := b.addUTF8("java/lang/Object")
	superClass := b.addClass(objUTF8)

	rec, _ := mustParse(t, b.finish(classBuild{
		accessFlags:   0x0021,
		thisClassIdx:  thisClass,
		superClassIdx: superClass,
	}), "A.class", nil, nil)

	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.HasSuperclass {
		t.Fatalf("expected no superclass edge, got %q", rec.SuperclassName)
	}
}

// Scenario 5: an interface with an annotation records both the
// interface flag and the annotation edge.
func TestParse_InterfaceWithAnnotation(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("I")
	thisClass := b.addClass(nameUTF8)
	annotationDesc := b.addUTF8("Lcom/example/Marker;")

	rec, _ := mustParse(t, b.finish(classBuild{
		accessFlags:           0x0601, // public, interface, abstract
		thisClassIdx:          thisClass,
		superClassIdx:         0,
		annotationTypeIndices: []uint16{annotationDesc},
	}), "I.class", nil, nil)

	if rec == nil {
		t.Fatal("expected a record")
	}
	if !rec.IsInterface {
		t.Fatal("expected IsInterface = true")
	}
	if len(rec.Annotations) != 1 || rec.Annotations[0] != "com.example.Marker" {
		t.Fatalf("Annotations = %v, want [com.example.Marker]", rec.Annotations)
	}
}

// A classfile whose this_class disagrees with its relative path is
// silently skipped (a diagnostic is recorded, but no error and no
// record).
func TestParse_PathMismatchSkipped(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("A")
	thisClass := b.addClass(nameUTF8)

	rec, diags := mustParse(t, b.finish(classBuild{
		accessFlags:   0x0021,
		thisClassIdx:  thisClass,
		superClassIdx: 0,
	}), "pkg/Other.class", nil, nil)

	if rec != nil {
		t.Fatal("expected no record on path mismatch")
	}
	if diags.Len() != 1 || diags.Items()[0].Kind != DiagSkippedPathMismatch {
		t.Fatalf("diags = %v, want one DiagSkippedPathMismatch", diags.Items())
	}
}

// Bad magic is discarded with a diagnostic, never propagated.
func TestParse_BadMagicDiscarded(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	rec, diags := mustParse(t, data, "A.class", nil, nil)
	if rec != nil {
		t.Fatal("expected no record on bad magic")
	}
	if diags.Len() != 1 || diags.Items()[0].Kind != DiagSkippedBadMagic {
		t.Fatalf("diags = %v, want one DiagSkippedBadMagic", diags.Items())
	}
}

// The scan filter excludes a blacklisted superclass from the record.
func TestParse_ScanFilterExcludesSuperclass(t *testing.T) {
	b := newCFBuilder()
	nameUTF8 := b.addUTF8("A")
	thisClass := b.addClass(nameUTF8)
	superUTF8 := b.addUTF8("java/util/AbstractList")
	superClass := b.addClass(superUTF8)

	rec, _ := mustParse(t, b.finish(classBuild{
		accessFlags:   0x0021,
		thisClassIdx:  thisClass,
		superClassIdx: superClass,
	}), "A.class", nil, scanfilter.Blacklist("java"))

	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.HasSuperclass {
		t.Fatalf("expected blacklisted superclass to be omitted, got %q", rec.SuperclassName)
	}
}

// A parser instance is reusable across successive Parse calls.
func TestParse_ParserReusableAcrossCalls(t *testing.T) {
	p := NewParser()
	interner := intern.New()

	for i := 0; i < 3; i++ {
		b := newCFBuilder()
		nameUTF8 := b.addUTF8("A")
		thisClass := b.addClass(nameUTF8)
		data := b.finish(classBuild{accessFlags: 0x0021, thisClassIdx: thisClass})

		rec, diags, err := p.Parse(bytes.NewReader(data), "A.class", nil, scanfilter.AllowAll, interner, Options{})
		if err != nil {
			t.Fatalf("iteration %d: Parse: %v", i, err)
		}
		if diags.Len() != 0 {
			t.Fatalf("iteration %d: unexpected diags: %v", i, diags.Items())
		}
		if rec == nil || rec.ClassName != "A" {
			t.Fatalf("iteration %d: rec = %+v", i, rec)
		}
	}
}
