package shape

type KindEnum int

const (
	KindUnknown   KindEnum = iota
	KindScalar             // primitive kinds and sql.Scanner implementations
	KindInterface          // holds any raw value implementing it
	KindOpaque             // slices, maps and arrays: assigned as is from the raw value
	KindStruct             // nestable object
	KindInvalid            // func, chan, unsafe pointer, multi-level pointers

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// CanHoldColumn reports whether a value of this kind may be filled from a single column.
func (k KindEnum) CanHoldColumn() bool {
	switch k {
	default:
		return false
	case KindScalar, KindInterface, KindOpaque:
		return true
	}
}
