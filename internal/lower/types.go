// Package lower implements C2 (type & constant lowering) and C3
// (expression lowering): the two components that turn ir-side values into
// smtts-side Terms. Everything here is a pure function of its arguments —
// no component in this package touches the state hierarchy or rule list.
package lower

import (
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// Type lowers a ModelLang primitive type to its SMT-TS base type (§3's
// table): Bool -> Bool; every integer width -> Int; Float/Double -> Real.
// Unsigned types lower to Int with no modular-wrap semantics — overflow
// and unsigned comparison against the original domain are not preserved
// (§7, §9 open question).
func Type(t ir.PrimType) smtts.Type {
	switch ir.Kind(t) {
	case ir.KindBool:
		return smtts.TBool
	case ir.KindReal:
		return smtts.TReal
	default:
		return smtts.TInt
	}
}

// Default returns the type-default literal for an SMT-TS type: false for
// Bool, 0 for Int, 0.0 for Real.
func Default(t smtts.Type) smtts.Term {
	switch t {
	case smtts.TBool:
		return smtts.BoolLit{Value: false}
	case smtts.TReal:
		return smtts.RealLit{Value: 0}
	default:
		return smtts.IntLit{Value: 0}
	}
}

// Const lowers a typed literal to its emitted term.
func Const(c ir.Const) smtts.Term {
	switch ir.Kind(c.Type) {
	case ir.KindBool:
		return smtts.BoolLit{Value: c.B}
	case ir.KindReal:
		return smtts.RealLit{Value: c.R}
	default:
		return smtts.IntLit{Value: c.I}
	}
}
