package classfile

// Constant-pool tag values, per the JVM classfile format.
const (
	TagUtf8            = 1
	TagInteger         = 3
	TagFloat           = 4
	TagLong            = 5
	TagDouble          = 6
	TagClass           = 7
	TagString          = 8
	TagFieldref        = 9
	TagMethodref       = 10
	TagInterfaceMethod = 11
	TagNameAndType     = 12
	TagMethodHandle    = 15
	TagMethodType      = 16
	TagInvokeDynamic   = 18
	noIndirection      = -1
)

const magicByte0, magicByte1, magicByte2, magicByte3 = 0xCA, 0xFE, 0xBA, 0xBE

// Access flag bits relevant to class-level and field-level parsing.
const (
	AccPublic    = 0x0001
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccStatic    = 0x0008
	AccAnnotation = 0x2000
)

const objectClassName = "java.lang.Object"
