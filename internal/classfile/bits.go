package classfile

import "math"

// int32BitsToFloat32 reinterprets the 32 bits read from a CONSTANT_Float
// entry as an IEEE 754 single-precision value.
func int32BitsToFloat32(bits int32) float32 {
	return math.Float32frombits(uint32(bits))
}

// int64BitsToFloat64 reinterprets the 64 bits read from a
// CONSTANT_Double entry as an IEEE 754 double-precision value.
func int64BitsToFloat64(bits int64) float64 {
	return math.Float64frombits(uint64(bits))
}
