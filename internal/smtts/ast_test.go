package smtts

import "testing"

func TestAndDropsLiteralTrue(t *testing.T) {
	x := Var{Name: "x"}
	got := And(BoolLit{true}, x)
	if got != Term(x) {
		t.Errorf("And(true, x) = %#v, want x", got)
	}
}

func TestAndShortCircuitsOnLiteralFalse(t *testing.T) {
	x := Var{Name: "x"}
	got := And(x, BoolLit{false}, Var{Name: "y"})
	if got != (Term(BoolLit{false})) {
		t.Errorf("And(x, false, y) = %#v, want false", got)
	}
}

func TestAndFlattensNestedConjunctions(t *testing.T) {
	inner := App{Op: "and", Args: []Term{Var{Name: "a"}, Var{Name: "b"}}}
	got := And(inner, Var{Name: "c"})
	app, ok := got.(App)
	if !ok || app.Op != "and" {
		t.Fatalf("And() = %#v, want a flattened and-application", got)
	}
	if len(app.Args) != 3 {
		t.Fatalf("And() flattened to %d args, want 3: %#v", len(app.Args), app.Args)
	}
	names := []string{app.Args[0].(Var).Name, app.Args[1].(Var).Name, app.Args[2].(Var).Name}
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAndOfSingleTermReturnsItUnwrapped(t *testing.T) {
	x := Var{Name: "x"}
	got := And(x)
	if got != Term(x) {
		t.Errorf("And(x) = %#v, want x unwrapped", got)
	}
}

func TestAndOfNoTermsIsLiteralTrue(t *testing.T) {
	got := And()
	if got != (Term(BoolLit{true})) {
		t.Errorf("And() = %#v, want true", got)
	}
}

func TestOrFlattensNestedDisjunctions(t *testing.T) {
	inner := App{Op: "or", Args: []Term{Var{Name: "a"}, Var{Name: "b"}}}
	got := Or(inner, Var{Name: "c"})
	app, ok := got.(App)
	if !ok || app.Op != "or" {
		t.Fatalf("Or() = %#v, want a flattened or-application", got)
	}
	if len(app.Args) != 3 {
		t.Fatalf("Or() flattened to %d args, want 3: %#v", len(app.Args), app.Args)
	}
}

func TestOrOfSingleTermReturnsItUnwrapped(t *testing.T) {
	x := Var{Name: "x"}
	got := Or(x)
	if got != Term(x) {
		t.Errorf("Or(x) = %#v, want x unwrapped", got)
	}
}

func TestOrOfNoTermsIsLiteralFalse(t *testing.T) {
	got := Or()
	if got != (Term(BoolLit{false})) {
		t.Errorf("Or() = %#v, want false", got)
	}
}

func TestTypeStringNames(t *testing.T) {
	cases := []struct {
		ty   Type
		want string
	}{
		{TBool, "Bool"},
		{TInt, "Int"},
		{TReal, "Real"},
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("Type(%d).String() = %q, want %q", c.ty, got, c.want)
		}
	}
}
