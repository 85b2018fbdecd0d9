package classfile

// FieldValue is a typed constant captured from a static final field's
// ConstantValue attribute, coerced according to the field's descriptor.
type FieldValue struct {
	Kind    ValueKind
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

// Record is an Unlinked Class Record: the output of parsing one
// accepted classfile, not yet cross-referenced with any other class.
type Record struct {
	ClassName             string
	IsInterface           bool
	IsAnnotation          bool
	SuperclassName        string
	HasSuperclass         bool
	ImplementedInterfaces []string
	Annotations           []string
	FieldTypes            map[string]struct{}
	StaticFinalFields     map[string]FieldValue
}

func newRecord(className string) *Record {
	return &Record{
		ClassName:  className,
		FieldTypes: make(map[string]struct{}),
	}
}

func (rec *Record) addFieldType(name string) {
	rec.FieldTypes[name] = struct{}{}
}
