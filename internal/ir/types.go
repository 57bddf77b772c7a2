// Package ir defines the elaborated-program data model the translator
// consumes: the state hierarchy, the interned expression DAG, rules,
// channels and the fault configuration. Nothing in this package performs
// translation; it is the input-side value model described by the
// elaborator's external interface.
package ir

// PrimType is a ModelLang primitive type.
type PrimType int

const (
	Bool PrimType = iota
	Int8
	Int16
	Int32
	Int64
	Word8
	Word16
	Word32
	Word64
	Float
	Double
)

func (t PrimType) String() string {
	switch t {
	case Bool:
		return "Bool"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Word8:
		return "Word8"
	case Word16:
		return "Word16"
	case Word32:
		return "Word32"
	case Word64:
		return "Word64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	default:
		return "?"
	}
}

// ConstKind is the base representation a Const carries; several PrimTypes
// share a representation (all integer widths become an Int).
type ConstKind int

const (
	KindBool ConstKind = iota
	KindInt
	KindReal
)

// Const is a typed literal. Its representation kind is inferable from Type.
type Const struct {
	Type PrimType
	B    bool
	I    int64
	R    float64
}

func BoolConst(v bool) Const  { return Const{Type: Bool, B: v} }
func IntConst(t PrimType, v int64) Const { return Const{Type: t, I: v} }
func RealConst(t PrimType, v float64) Const { return Const{Type: t, R: v} }

// Kind reports the base representation of the type a Const belongs to.
func Kind(t PrimType) ConstKind {
	switch t {
	case Bool:
		return KindBool
	case Float, Double:
		return KindReal
	default:
		return KindInt
	}
}
