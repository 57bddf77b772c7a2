// Package render is a debug/inspection surface over a translated
// smtts.Program, in the spirit of the teacher's prettyprinter
// (internal/prettyprinter/code_printer.go): a small buffered printer with
// its own indentation bookkeeping. It is not part of the translator's
// core semantics (§1: a downstream checker, not this renderer, consumes
// the real output) — it exists so cmd/smtsc and tests have something
// human-readable to print.
package render

import (
	"bytes"
	"fmt"

	"github.com/modellang/smtts-compiler/internal/smtts"
)

// Printer accumulates an s-expression rendering of SMT-TS terms and
// declarations, indenting nested forms the way CodePrinter indents nested
// blocks.
type Printer struct {
	buf    bytes.Buffer
	indent int
	debug  bool
}

// New builds a Printer. debug controls whether comments annotating each
// declaration are emitted — purely cosmetic (§6: "does not affect semantic
// output").
func New(debug bool) *Printer {
	return &Printer{debug: debug}
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *Printer) comment(format string, args ...any) {
	if !p.debug {
		return
	}
	p.writeIndent()
	p.buf.WriteString("; ")
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// Term renders a single term as an s-expression.
func Term(t smtts.Term) string {
	var buf bytes.Buffer
	writeTerm(&buf, t)
	return buf.String()
}

func writeTerm(buf *bytes.Buffer, t smtts.Term) {
	switch v := t.(type) {
	case smtts.Var:
		buf.WriteString(v.Name)
	case smtts.BoolLit:
		if v.Value {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case smtts.IntLit:
		fmt.Fprintf(buf, "%d", v.Value)
	case smtts.RealLit:
		fmt.Fprintf(buf, "%g", v.Value)
	case smtts.App:
		buf.WriteByte('(')
		buf.WriteString(v.Op)
		for _, a := range v.Args {
			buf.WriteByte(' ')
			writeTerm(buf, a)
		}
		buf.WriteByte(')')
	default:
		fmt.Fprintf(buf, "<?%T>", t)
	}
}

// Program renders a full translated program as a sequence of SMT-TS
// declarations, for cmd/smtsc's translate output and for tests that want a
// readable golden string rather than asserting on the AST directly.
func Program(prog *smtts.Program, debug bool) string {
	p := New(debug)
	p.comment("state type %s", prog.StateType.Name)
	p.line("(declare-state-type %s", prog.StateType.Name)
	p.indent++
	for _, v := range prog.StateType.Vars {
		kind := "state"
		if v.Input {
			kind = "input"
		}
		p.line("(%s %s %s)", kind, v.Name, v.Type)
	}
	p.indent--
	p.line(")")

	p.comment("initial state %s", prog.Init.Name)
	p.line("(define-initial-state %s %s %s)", prog.Init.Name, prog.Init.StateTypeName, Term(prog.Init.Pred))

	for _, t := range prog.Transitions {
		p.comment("transition %s", t.Name)
		p.line("(define-transition %s %s", t.Name, t.StateTypeName)
		p.indent++
		for _, lb := range t.Lets {
			p.line("(let %s %s)", lb.Var, Term(lb.Expr))
		}
		p.line("%s", Term(t.Pred))
		p.indent--
		p.line(")")
	}

	p.comment("system %s", prog.System.Name)
	p.line("(define-system %s %s %s %s)", prog.System.Name, prog.System.StateTypeName,
		prog.System.InitialStateName, prog.System.MasterTransition)

	p.comment("fault assumptions")
	p.line("(assume %s)", Term(prog.Assumptions))

	return p.buf.String()
}
