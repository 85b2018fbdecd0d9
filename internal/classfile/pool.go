package classfile

import (
	"fmt"

	"classgraph/internal/cfreader"
)

// constantPool holds the parallel arrays describing every entry in one
// classfile's constant pool. A constantPool value is reusable across
// parses: reset truncates and re-grows the backing slices rather than
// reallocating when the next classfile's pool fits in the existing
// capacity.
type constantPool struct {
	tag      []byte
	offset   []int
	indirect []int
	r        *cfreader.Reader
}

func newConstantPool() *constantPool {
	return &constantPool{}
}

// reset grows (but does not shrink) the backing arrays to length n and
// rebinds the reader used to resolve absolute offsets.
func (p *constantPool) reset(n int, r *cfreader.Reader) {
	if cap(p.tag) < n {
		p.tag = make([]byte, n)
		p.offset = make([]int, n)
		p.indirect = make([]int, n)
	} else {
		p.tag = p.tag[:n]
		p.offset = p.offset[:n]
		p.indirect = p.indirect[:n]
	}
	p.r = r
}

// parseEntries reads count-1 constant-pool entries (index 0 is unused) starting
// at the reader's current sequential position, per the tag/payload-width
// table. relativePath is carried only for error messages.
func (p *constantPool) parseEntries(relativePath string, count int) error {
	p.reset(count, p.r)
	for i := 1; i < count; i++ {
		entryStart := p.r.Pos()
		tagByte, err := p.r.U8()
		if err != nil {
			return parseErr(relativePath, entryStart, "reading constant-pool tag", err)
		}
		p.tag[i] = tagByte
		p.offset[i] = p.r.Pos()
		p.indirect[i] = noIndirection

		switch tagByte {
		case TagUtf8:
			length, err := p.r.U16()
			if err != nil {
				return parseErr(relativePath, p.r.Pos(), "reading UTF8 length", err)
			}
			if err := p.r.Skip(int(length)); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping UTF8 payload", err)
			}
		case TagInteger, TagFloat:
			if err := p.r.Skip(4); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping 4-byte constant", err)
			}
		case TagLong, TagDouble:
			if err := p.r.Skip(8); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping 8-byte constant", err)
			}
			i++ // consumes two constant-pool slots
			if i < count {
				p.tag[i] = 0
				p.offset[i] = noIndirection
				p.indirect[i] = noIndirection
			}
		case TagClass, TagString:
			idx, err := p.r.U16()
			if err != nil {
				return parseErr(relativePath, p.r.Pos(), "reading class/string indirection", err)
			}
			p.indirect[i] = int(idx)
		case TagFieldref, TagMethodref, TagInterfaceMethod, TagNameAndType, TagInvokeDynamic:
			if err := p.r.Skip(4); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping 4-byte ref entry", err)
			}
		case TagMethodHandle:
			if err := p.r.Skip(3); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping method handle", err)
			}
		case TagMethodType:
			if err := p.r.Skip(2); err != nil {
				return parseErr(relativePath, p.r.Pos(), "skipping method type", err)
			}
		default:
			return parseErr(relativePath, entryStart, fmt.Sprintf("unknown constant-pool tag %d", tagByte), nil)
		}
	}
	return nil
}

func (p *constantPool) count() int { return len(p.tag) }

func (p *constantPool) checkIndex(i int) error {
	if i < 1 || i >= len(p.tag) {
		return fmt.Errorf("classfile: constant-pool index %d out of range [1,%d)", i, len(p.tag))
	}
	return nil
}

// resolveUtf8Index follows a Class/String entry's indirection to its
// UTF8 entry index. A zero indirection denotes a null string.
func (p *constantPool) resolveUtf8Index(i int) (int, error) {
	if err := p.checkIndex(i); err != nil {
		return 0, err
	}
	switch p.tag[i] {
	case TagClass, TagString:
		return p.indirect[i], nil
	case TagUtf8:
		return i, nil
	default:
		return 0, fmt.Errorf("classfile: entry %d (tag %d) is not a class/string/utf8 entry", i, p.tag[i])
	}
}

// utf8Bytes returns the raw modified-UTF8 payload bytes of UTF8 entry i.
func (p *constantPool) utf8Bytes(i int) ([]byte, error) {
	if err := p.checkIndex(i); err != nil {
		return nil, err
	}
	if p.tag[i] != TagUtf8 {
		return nil, fmt.Errorf("classfile: entry %d (tag %d) is not a UTF8 entry", i, p.tag[i])
	}
	length, err := p.r.U16At(p.offset[i])
	if err != nil {
		return nil, err
	}
	return p.r.Slice(p.offset[i]+2, int(length))
}

// String resolves entry i (following a Class/String indirection if
// needed) and decodes it as modified UTF-8. A Class/String entry whose
// indirection is zero (null reference) yields ("", false, nil); index 0
// itself is out of range and returns an error.
func (p *constantPool) String(i int, replaceSlashWithDot bool) (string, bool, error) {
	utf8Idx, err := p.resolveUtf8Index(i)
	if err != nil {
		return "", false, err
	}
	if utf8Idx == 0 {
		return "", false, nil
	}
	raw, err := p.utf8Bytes(utf8Idx)
	if err != nil {
		return "", false, err
	}
	s, err := decodeModifiedUTF8(raw, replaceSlashWithDot)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// StringEquals compares entry i against literal without allocating an
// intermediate decoded string.
func (p *constantPool) StringEquals(i int, literal string) (bool, error) {
	utf8Idx, err := p.resolveUtf8Index(i)
	if err != nil {
		return false, err
	}
	if utf8Idx == 0 {
		return literal == "", nil
	}
	raw, err := p.utf8Bytes(utf8Idx)
	if err != nil {
		return false, err
	}
	return modifiedUTF8Equals(raw, literal)
}

// ValueKind identifies the Go-typed representation of a resolved
// constant-pool value or coerced field constant.
type ValueKind int

const (
	KindInt32 ValueKind = iota
	KindInt64
	KindFloat32
	KindFloat64
	KindInt8
	KindInt16
	KindUint16
	KindBool
	KindString
)

// Value is a typed constant resolved from the constant pool.
type Value struct {
	Kind    ValueKind
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Str     string
}

// value resolves entry i to its typed constant for tags 1,3,4,5,6,7,8.
// Any other tag is a structural parse error.
func (p *constantPool) value(i int) (Value, error) {
	if err := p.checkIndex(i); err != nil {
		return Value{}, err
	}
	switch p.tag[i] {
	case TagInteger:
		v, err := p.r.U32At(p.offset[i])
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt32, Int32: v}, nil
	case TagFloat:
		v, err := p.r.U32At(p.offset[i])
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat32, Float32: int32BitsToFloat32(v)}, nil
	case TagLong:
		v, err := p.r.I64At(p.offset[i])
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt64, Int64: v}, nil
	case TagDouble:
		v, err := p.r.I64At(p.offset[i])
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat64, Float64: int64BitsToFloat64(v)}, nil
	case TagClass, TagString:
		s, _, err := p.String(i, false)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s}, nil
	case TagUtf8:
		s, _, err := p.String(i, false)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s}, nil
	default:
		return Value{}, fmt.Errorf("classfile: entry %d (tag %d) is not a value-bearing constant", i, p.tag[i])
	}
}
