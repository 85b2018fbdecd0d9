// Package classfile parses a single JVM classfile into an Unlinked
// Class Record, the unit of work later consumed by the class graph
// linker.
package classfile

import (
	"fmt"
	"io"
	"strings"

	"classgraph/internal/cfreader"
	"classgraph/internal/intern"
	"classgraph/internal/scanfilter"
)

const runtimeVisibleAnnotations = "RuntimeVisibleAnnotations"
const constantValueAttr = "ConstantValue"
const signatureAttr = "Signature"

// FieldSpec names the static final fields a caller wants captured for
// one class, keyed by field name.
type FieldSpec map[string]struct{}

// Parser parses successive classfiles, reusing its byte buffer and
// constant-pool arrays across calls. A Parser is not safe for
// concurrent use by multiple goroutines, but distinct Parser instances
// may run in parallel over distinct classfiles.
type Parser struct {
	r    *cfreader.Reader
	pool *constantPool
}

// NewParser returns a ready-to-use Parser with no backing input.
func NewParser() *Parser {
	return &Parser{
		r:    cfreader.New(),
		pool: newConstantPool(),
	}
}

// Parse consumes one classfile from input. relativePath is the
// archive-relative path the class was discovered under (used both to
// validate this_class and to tag diagnostics). fields is the set of
// static-final field names the caller wants captured for this class,
// or nil if none. filter decides which referenced names are in scope.
// interner canonicalizes every name recorded into the returned Record.
//
// Parse never returns an error under opts.Mode == ModeBestEffort: a
// structural defect yields (nil, diags, nil) with the defect noted in
// diags. Under ModeStrict, a structural defect is returned as an
// error instead of being swallowed.
func (p *Parser) Parse(input io.Reader, relativePath string, fields FieldSpec, filter scanfilter.Filter, interner *intern.Table, opts Options) (*Record, Diags, error) {
	p.r.Reset(input)

	var diags Diags
	rec, err := p.parseInner(relativePath, fields, filter, interner, opts, &diags)
	if err != nil {
		var perr *ParseError
		if isParseError(err, &perr) {
			diags.Addf(perr.Offset, DiagStructuralError, "%s", perr.Error())
			if opts.Mode == ModeStrict {
				return nil, diags, err
			}
			return nil, diags, nil
		}
		return nil, diags, err
	}
	return rec, diags, nil
}

func isParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*target = pe
	}
	return ok
}

func (p *Parser) parseInner(relativePath string, fields FieldSpec, filter scanfilter.Filter, interner *intern.Table, opts Options, diags *Diags) (*Record, error) {
	r := p.r

	// Step 1: magic. Compared byte-by-byte since 0xCAFEBABE does not fit
	// in a signed 32-bit constant.
	b0, err := r.U8()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading magic", err)
	}
	b1, err := r.U8()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading magic", err)
	}
	b2, err := r.U8()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading magic", err)
	}
	b3, err := r.U8()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading magic", err)
	}
	if b0 != magicByte0 || b1 != magicByte1 || b2 != magicByte2 || b3 != magicByte3 {
		diags.Add(0, DiagSkippedBadMagic, "bad classfile magic")
		return nil, nil
	}

	// Step 2: versions.
	if err := r.Skip(4); err != nil {
		return nil, parseErr(relativePath, r.Pos(), "skipping version fields", err)
	}

	// Step 3: constant pool.
	cpCount, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading constant_pool_count", err)
	}
	p.pool.r = r
	if err := p.pool.parseEntries(relativePath, int(cpCount)); err != nil {
		return nil, err
	}

	// Step 4: access flags.
	accessFlags, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading access_flags", err)
	}
	isInterface := accessFlags&AccInterface != 0
	isAnnotation := accessFlags&AccAnnotation != 0

	// Step 5: this_class.
	thisClassIdx, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading this_class", err)
	}
	thisName, err := p.resolveClassName(int(thisClassIdx))
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "resolving this_class", err)
	}
	if thisName == objectClassName {
		return nil, nil
	}
	expectedName := pathToClassName(relativePath)
	if thisName != expectedName {
		diags.Add(0, DiagSkippedPathMismatch, fmt.Sprintf("this_class %q does not match path %q", thisName, relativePath))
		return nil, nil
	}

	rec := newRecord(interner.Intern(thisName))
	rec.IsInterface = isInterface
	rec.IsAnnotation = isAnnotation

	// Step 6: super_class.
	superIdx, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading super_class", err)
	}
	if superIdx != 0 {
		superName, err := p.resolveClassName(int(superIdx))
		if err != nil {
			return nil, parseErr(relativePath, r.Pos(), "resolving super_class", err)
		}
		if superName != "" && superName != objectClassName && filter(superName) {
			rec.SuperclassName = interner.Intern(superName)
			rec.HasSuperclass = true
		}
	}

	// Step 7: interfaces.
	ifaceCount, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading interfaces_count", err)
	}
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.U16()
		if err != nil {
			return nil, parseErr(relativePath, r.Pos(), "reading interface index", err)
		}
		name, err := p.resolveClassName(int(idx))
		if err != nil {
			return nil, parseErr(relativePath, r.Pos(), "resolving interface", err)
		}
		if name != "" && filter(name) {
			rec.ImplementedInterfaces = append(rec.ImplementedInterfaces, interner.Intern(name))
		}
	}

	// Step 8: fields.
	fieldCount, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading fields_count", err)
	}
	for i := 0; i < int(fieldCount); i++ {
		if err := p.parseField(rec, fields, filter, interner, opts); err != nil {
			return nil, err
		}
	}

	// Step 9: methods, skipped entirely.
	methodCount, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading methods_count", err)
	}
	for i := 0; i < int(methodCount); i++ {
		if err := p.skipMethod(relativePath); err != nil {
			return nil, err
		}
	}

	// Step 10: class-level attributes.
	attrCount, err := r.U16()
	if err != nil {
		return nil, parseErr(relativePath, r.Pos(), "reading attributes_count", err)
	}
	for i := 0; i < int(attrCount); i++ {
		if err := p.parseClassAttribute(rec, filter, interner, relativePath); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// resolveClassName resolves a CONSTANT_Class entry at cpIndex to its
// dotted name, with '/' rewritten to '.'. A zero index yields "".
func (p *Parser) resolveClassName(cpIndex int) (string, error) {
	if cpIndex == 0 {
		return "", nil
	}
	utf8Idx, err := p.pool.resolveUtf8Index(cpIndex)
	if err != nil {
		return "", err
	}
	if utf8Idx == 0 {
		return "", nil
	}
	raw, err := p.pool.utf8Bytes(utf8Idx)
	if err != nil {
		return "", err
	}
	return decodeModifiedUTF8(raw, true)
}

// pathToClassName derives the expected dotted class name from an
// archive-relative path of the form "pkg/.../Name.class".
func pathToClassName(relativePath string) string {
	trimmed := strings.TrimSuffix(relativePath, ".class")
	return strings.ReplaceAll(trimmed, "/", ".")
}

func (p *Parser) parseField(rec *Record, fields FieldSpec, filter scanfilter.Filter, interner *intern.Table, opts Options) error {
	r := p.r
	accessFlags, err := r.U16()
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "reading field access_flags", err)
	}
	isPublic := accessFlags&AccPublic != 0
	isStaticFinal := accessFlags&(AccStatic|AccFinal) == (AccStatic | AccFinal)

	if !isPublic && !opts.ScanNonPublicFields {
		return p.skipFieldRemainder(rec.ClassName)
	}

	nameIdx, err := r.U16()
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "reading field name_index", err)
	}
	descIdx, err := r.U16()
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "reading field descriptor_index", err)
	}
	fieldName, _, err := p.pool.String(int(nameIdx), false)
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "resolving field name", err)
	}
	descriptor, _, err := p.pool.String(int(descIdx), false)
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "resolving field descriptor", err)
	}

	for _, name := range extractFieldTypeNames(descriptor) {
		if filter(name) {
			rec.addFieldType(interner.Intern(name))
		}
	}

	wantsValue := false
	if fields != nil {
		_, wantsValue = fields[fieldName]
	}
	wantsValue = wantsValue && isStaticFinal

	attrCount, err := r.U16()
	if err != nil {
		return parseErr(rec.ClassName, r.Pos(), "reading field attributes_count", err)
	}
	for i := 0; i < int(attrCount); i++ {
		attrNameIdx, err := r.U16()
		if err != nil {
			return parseErr(rec.ClassName, r.Pos(), "reading field attribute name_index", err)
		}
		attrLen, err := r.U32()
		if err != nil {
			return parseErr(rec.ClassName, r.Pos(), "reading field attribute length", err)
		}
		isConstantValue, err := p.pool.StringEquals(int(attrNameIdx), constantValueAttr)
		if err != nil {
			return parseErr(rec.ClassName, r.Pos(), "comparing field attribute name", err)
		}
		isSignature := false
		if !isConstantValue {
			isSignature, err = p.pool.StringEquals(int(attrNameIdx), signatureAttr)
			if err != nil {
				return parseErr(rec.ClassName, r.Pos(), "comparing field attribute name", err)
			}
		}

		switch {
		case isConstantValue && wantsValue:
			cpIdx, err := r.U16()
			if err != nil {
				return parseErr(rec.ClassName, r.Pos(), "reading ConstantValue index", err)
			}
			fv, err := coerceFieldValue(p.pool, int(cpIdx), descriptor)
			if err != nil {
				return parseErr(rec.ClassName, r.Pos(), "coercing ConstantValue", err)
			}
			if rec.StaticFinalFields == nil {
				rec.StaticFinalFields = make(map[string]FieldValue)
			}
			rec.StaticFinalFields[fieldName] = fv
		case isSignature:
			sigIdx, err := r.U16()
			if err != nil {
				return parseErr(rec.ClassName, r.Pos(), "reading Signature index", err)
			}
			sig, _, err := p.pool.String(int(sigIdx), false)
			if err != nil {
				return parseErr(rec.ClassName, r.Pos(), "resolving Signature", err)
			}
			for _, name := range extractFieldTypeNames(sig) {
				if filter(name) {
					rec.addFieldType(interner.Intern(name))
				}
			}
		default:
			if err := r.Skip(int(attrLen)); err != nil {
				return parseErr(rec.ClassName, r.Pos(), "skipping field attribute", err)
			}
		}
	}
	return nil
}

// skipFieldRemainder consumes name_index, descriptor_index, and every
// attribute of a non-public field without resolving any strings.
func (p *Parser) skipFieldRemainder(path string) error {
	r := p.r
	if err := r.Skip(4); err != nil { // name_index, descriptor_index
		return parseErr(path, r.Pos(), "skipping unresolved field name/descriptor", err)
	}
	attrCount, err := r.U16()
	if err != nil {
		return parseErr(path, r.Pos(), "reading field attributes_count", err)
	}
	for i := 0; i < int(attrCount); i++ {
		if err := r.Skip(2); err != nil { // attribute_name_index
			return parseErr(path, r.Pos(), "skipping field attribute name", err)
		}
		length, err := r.U32()
		if err != nil {
			return parseErr(path, r.Pos(), "reading field attribute length", err)
		}
		if err := r.Skip(int(length)); err != nil {
			return parseErr(path, r.Pos(), "skipping field attribute body", err)
		}
	}
	return nil
}

// skipMethod consumes one method_info structure in its entirety:
// access_flags, name_index, descriptor_index, and every attribute.
func (p *Parser) skipMethod(path string) error {
	r := p.r
	if err := r.Skip(6); err != nil { // access_flags, name_index, descriptor_index
		return parseErr(path, r.Pos(), "skipping method header", err)
	}
	attrCount, err := r.U16()
	if err != nil {
		return parseErr(path, r.Pos(), "reading method attributes_count", err)
	}
	for i := 0; i < int(attrCount); i++ {
		if err := r.Skip(2); err != nil {
			return parseErr(path, r.Pos(), "skipping method attribute name", err)
		}
		length, err := r.U32()
		if err != nil {
			return parseErr(path, r.Pos(), "reading method attribute length", err)
		}
		if err := r.Skip(int(length)); err != nil {
			return parseErr(path, r.Pos(), "skipping method attribute body", err)
		}
	}
	return nil
}

func (p *Parser) parseClassAttribute(rec *Record, filter scanfilter.Filter, interner *intern.Table, path string) error {
	r := p.r
	nameIdx, err := r.U16()
	if err != nil {
		return parseErr(path, r.Pos(), "reading class attribute name_index", err)
	}
	length, err := r.U32()
	if err != nil {
		return parseErr(path, r.Pos(), "reading class attribute length", err)
	}
	isAnnotations, err := p.pool.StringEquals(int(nameIdx), runtimeVisibleAnnotations)
	if err != nil {
		return parseErr(path, r.Pos(), "comparing class attribute name", err)
	}
	if !isAnnotations {
		if err := r.Skip(int(length)); err != nil {
			return parseErr(path, r.Pos(), "skipping class attribute", err)
		}
		return nil
	}

	count, err := r.U16()
	if err != nil {
		return parseErr(path, r.Pos(), "reading num_annotations", err)
	}
	for i := 0; i < int(count); i++ {
		typeIdx, err := readAnnotationEntry(r)
		if err != nil {
			return parseErr(path, r.Pos(), "reading class-level annotation", err)
		}
		typeDescriptor, _, err := p.pool.String(int(typeIdx), false)
		if err != nil {
			return parseErr(path, r.Pos(), "resolving annotation type", err)
		}
		name := annotationDescriptorToName(typeDescriptor)
		if name != "" && filter(name) {
			rec.Annotations = append(rec.Annotations, interner.Intern(name))
		}
	}
	return nil
}

// annotationDescriptorToName strips the leading 'L' and trailing ';'
// from an annotation type descriptor, e.g. "Lcom/x/Marker;", and
// rewrites '/' to '.'.
func annotationDescriptorToName(descriptor string) string {
	if len(descriptor) < 2 || descriptor[0] != 'L' || descriptor[len(descriptor)-1] != ';' {
		return ""
	}
	return strings.ReplaceAll(descriptor[1:len(descriptor)-1], "/", ".")
}

// coerceFieldValue resolves the constant-pool entry at cpIndex and
// coerces it per the descriptor's leading character, as a
// static-final ConstantValue.
func coerceFieldValue(pool *constantPool, cpIndex int, descriptor string) (FieldValue, error) {
	if descriptor == "" {
		return FieldValue{}, fmt.Errorf("classfile: empty field descriptor for ConstantValue")
	}
	v, err := pool.value(cpIndex)
	if err != nil {
		return FieldValue{}, err
	}
	switch descriptor[0] {
	case 'B':
		if v.Kind != KindInt32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor B is not an int")
		}
		return FieldValue{Kind: KindInt8, Int8: int8(v.Int32)}, nil
	case 'C':
		if v.Kind != KindInt32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor C is not an int")
		}
		return FieldValue{Kind: KindUint16, Uint16: uint16(v.Int32)}, nil
	case 'S':
		if v.Kind != KindInt32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor S is not an int")
		}
		return FieldValue{Kind: KindInt16, Int16: int16(v.Int32)}, nil
	case 'Z':
		if v.Kind != KindInt32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor Z is not an int")
		}
		return FieldValue{Kind: KindBool, Bool: v.Int32 != 0}, nil
	case 'I':
		if v.Kind != KindInt32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor I is not an int")
		}
		return FieldValue{Kind: KindInt32, Int32: v.Int32}, nil
	case 'J':
		if v.Kind != KindInt64 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor J is not a long")
		}
		return FieldValue{Kind: KindInt64, Int64: v.Int64}, nil
	case 'F':
		if v.Kind != KindFloat32 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor F is not a float")
		}
		return FieldValue{Kind: KindFloat32, Float32: v.Float32}, nil
	case 'D':
		if v.Kind != KindFloat64 {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor D is not a double")
		}
		return FieldValue{Kind: KindFloat64, Float64: v.Float64}, nil
	case 'L':
		if descriptor != "Ljava/lang/String;" || v.Kind != KindString {
			return FieldValue{}, fmt.Errorf("classfile: ConstantValue for descriptor %s is not a string", descriptor)
		}
		return FieldValue{Kind: KindString, Str: v.Str}, nil
	default:
		return FieldValue{}, fmt.Errorf("classfile: unsupported ConstantValue descriptor %q", descriptor)
	}
}
