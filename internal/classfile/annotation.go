package classfile

import (
	"fmt"

	"classgraph/internal/cfreader"
)

// walkElementValue consumes one annotation element_value structure from
// r, discarding its content, per the table in the annotation
// element-value walker. An unrecognized tag is a structural parse error
// for the enclosing classfile.
func walkElementValue(r *cfreader.Reader) error {
	tag, err := r.U8()
	if err != nil {
		return err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		return r.Skip(2)
	case 'e':
		return r.Skip(4)
	case 'c':
		return r.Skip(2)
	case '@':
		_, err := readAnnotationEntry(r)
		return err
	case '[':
		count, err := r.U16()
		if err != nil {
			return err
		}
		for i := 0; i < int(count); i++ {
			if err := walkElementValue(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("classfile: unknown element_value tag 0x%02x at offset 0x%x", tag, r.Pos())
	}
}

// readAnnotationEntry reads one annotation structure — type_index,
// num_element_value_pairs, then each (element_name_index, element_value)
// pair, discarding the pairs — and returns the type_index so the caller
// can resolve it to a dotted name. Used both for class-level
// RuntimeVisibleAnnotations entries and for nested ('@') element values.
func readAnnotationEntry(r *cfreader.Reader) (uint16, error) {
	typeIndex, err := r.U16()
	if err != nil {
		return 0, err
	}
	numPairs, err := r.U16()
	if err != nil {
		return 0, err
	}
	for i := 0; i < int(numPairs); i++ {
		if _, err := r.U16(); err != nil { // element_name_index
			return 0, err
		}
		if err := walkElementValue(r); err != nil {
			return 0, err
		}
	}
	return typeIndex, nil
}
