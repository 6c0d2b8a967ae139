package eval

// ObjectKind represents the type of an object using an enum for faster comparisons.
type ObjectKind uint8

const (
	KindInvalid ObjectKind = iota
	KindInteger
	KindBoolean
	KindString
	KindNone
	KindList
	KindTuple
	KindDictionary
	KindFunction
	KindMethod
	KindClass
	KindInstance
	KindSuper
)

func (k ObjectKind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindBoolean:
		return "BOOLEAN"
	case KindString:
		return "STRING"
	case KindNone:
		return "NONE"
	case KindList:
		return "LIST"
	case KindTuple:
		return "TUPLE"
	case KindDictionary:
		return "DICTIONARY"
	case KindFunction:
		return "FUNCTION"
	case KindMethod:
		return "METHOD"
	case KindClass:
		return "CLASS"
	case KindInstance:
		return "INSTANCE"
	case KindSuper:
		return "SUPER"
	default:
		return "INVALID"
	}
}

// Integer cache for small integers (-128 to 127)
const (
	minCachedInt = -128
	maxCachedInt = 127
	intCacheSize = maxCachedInt - minCachedInt + 1
)

var (
	intCache [intCacheSize]*Integer

	NONE  *None
	TRUE  *Boolean
	FALSE *Boolean
)

// Initialize the integer cache and common singletons
func init() {
	for i := 0; i < intCacheSize; i++ {
		intCache[i] = &Integer{Value: int64(i) + minCachedInt}
	}

	NONE = &None{}
	TRUE = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
}

// NewInteger returns a cached integer for small values or allocates a new one.
func NewInteger(value int64) *Integer {
	if value >= minCachedInt && value <= maxCachedInt {
		return intCache[value-minCachedInt]
	}
	return &Integer{Value: value}
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}
