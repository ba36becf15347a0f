// parser_test.go
package mathcad

import (
	"errors"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// translate runs Translate and fails the test on any advisory error, for
// inputs that are known to be well formed.
func translate(t *testing.T, in string) string {
	t.Helper()
	out, err := Translate(in)
	if err != nil {
		t.Fatalf("Translate(%q) reported %v", in, err)
	}
	return out
}

// --- dispatch --------------------------------------------------------------

func Test_Translate_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n"} {
		if got := translate(t, in); got != "" {
			t.Fatalf("Translate(%q) = %q, want empty", in, got)
		}
	}
}

func Test_Translate_BinaryOperators(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(+ x y)", "x + y"},
		{"(+ a b c)", "a + b + c"},
		{"(- x y)", "x - y"},
		{"(* x y)", "x \\cdot y"},
		{"(* 2 x y)", "2 \\cdot x \\cdot y"},
		{"(/ x y)", "\\frac{x}{y}"},
		{"(^ x 2)", "{x}^{2}"},
		{"(^ e (* i π))", "e^{i \\cdot \\pi}"},
		{"(+ (* 2 x) (/ y z))", "2 \\cdot x + \\frac{y}{z}"},
	}
	for _, tc := range cases {
		got := translate(t, tc.in)
		if got != tc.want {
			t.Fatalf("translate mismatch\nin:   %q\nwant: %q\ngot:  %q", tc.in, tc.want, got)
		}
	}
}

func Test_Translate_OperatorArity_Degrades(t *testing.T) {
	// Too few arguments produce an empty string, never an error.
	for _, in := range []string{"(- x)", "(/ x)", "(^ x)"} {
		if got := translate(t, in); got != "" {
			t.Fatalf("Translate(%q) = %q, want empty", in, got)
		}
	}
}

func Test_Translate_Literals(t *testing.T) {
	cases := []struct{ in, want string }{
		{"e", "e"},
		{"∞", "\\infty"},
		{"x", "x"},
		{"42", "42"},
	}
	for _, tc := range cases {
		if got := translate(t, tc.in); got != tc.want {
			t.Fatalf("Translate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func Test_Translate_SymbolReplacement_InsideExpressions(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(α + β)", "(\\alpha + \\beta)"},
		{"2π", "2\\pi"},
		{"αβ", "\\alpha\\beta"},
		{"R_∞", "R_\\infty"},
		{"x†", "x{\\dagger}"},
	}
	for _, tc := range cases {
		if got := translate(t, tc.in); got != tc.want {
			t.Fatalf("Translate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func Test_Translate_UnknownTag_PassesThrough(t *testing.T) {
	// Unrecognized tags keep their text, with symbols still normalized.
	got := translate(t, "(@FRACTION α β)")
	want := "(@FRACTION \\alpha \\beta)"
	if got != want {
		t.Fatalf("unknown tag mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func Test_Translate_Equals(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(= x 5)", "x = 5"},
		{"(= (+ a b) c)", "a + b = c"},
		{"(= y (/ 1 x))", "y = \\frac{1}{x}"},
	}
	for _, tc := range cases {
		got := translate(t, tc.in)
		if got != tc.want {
			t.Fatalf("equals mismatch\nin:   %q\nwant: %q\ngot:  %q", tc.in, tc.want, got)
		}
	}
}

// --- complex evaluation ----------------------------------------------------

func Test_Translate_ComplexEvaluation_StructuralTier(t *testing.T) {
	// Operator forms carrying labeled leaves disassemble structurally.
	cases := []struct{ in, want string }{
		{"(/ (@LABEL CONSTANT c) (@LABEL VARIABLE n))", "\\frac{c}{n}"},
		{"(* 2 (@LABEL VARIABLE x))", "2 \\cdot x"},
		{"(+ (@APPLY sin (@ARGS x)) 1)", "\\sin(x) + 1"},
		{"(- (@LABEL VARIABLE a) (@LABEL VARIABLE b))", "a - b"},
	}
	for _, tc := range cases {
		got := translate(t, tc.in)
		if got != tc.want {
			t.Fatalf("complex evaluation mismatch\nin:   %q\nwant: %q\ngot:  %q", tc.in, tc.want, got)
		}
	}
}

func Test_Translate_ComplexEvaluation_RewriteTier(t *testing.T) {
	// A division with a single argument cannot split structurally; the
	// pattern tier still resolves the label and strips leftover syntax.
	got := translate(t, "(/ (@LABEL UNIT m))")
	want := "(/ \\mathrm{m}"
	if got != want {
		t.Fatalf("rewrite tier mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

// --- degradation -----------------------------------------------------------

func Test_Translate_MalformedInput_DegradedOutput(t *testing.T) {
	out, err := Translate("(+ x y))")
	if out != "x + y)" {
		t.Fatalf("degraded output mismatch: got %q", out)
	}
	var me *MalformedInputError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MalformedInputError, got %v", err)
	}
	if me.Offset != 7 {
		t.Fatalf("wrong offset: got %d, want 7", me.Offset)
	}

	out, err = Translate("((+ x y)")
	if out == "" {
		t.Fatalf("unclosed input produced no output")
	}
	if !errors.As(err, &me) || me.Offset != 0 {
		t.Fatalf("expected unclosed '(' at offset 0, got %v", err)
	}
}

func Test_Translate_RecursionLimit(t *testing.T) {
	deep := strings.Repeat("(@PARENS ", MaxDepth+50) + "x" + strings.Repeat(")", MaxDepth+50)
	out, err := Translate(deep)
	if out == "" {
		t.Fatalf("deep input produced no output")
	}
	var re *RecursionLimitError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RecursionLimitError, got %v", err)
	}
	if re.Limit != MaxDepth {
		t.Fatalf("wrong limit: got %d, want %d", re.Limit, MaxDepth)
	}

	// Within the bound no error is reported.
	ok := strings.Repeat("(@PARENS ", 20) + "x" + strings.Repeat(")", 20)
	if _, err := Translate(ok); err != nil {
		t.Fatalf("shallow nesting reported %v", err)
	}
}

// --- convert ---------------------------------------------------------------

func Test_Convert_AppendsCommentWhenNothingToRefine(t *testing.T) {
	got, err := Convert("(+ x y)")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	want := "x + y  % No further refinements available"
	if got != want {
		t.Fatalf("convert mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func Test_Convert_RefinesTranslatedOutput(t *testing.T) {
	got, err := Convert("(@SUM (@IS i 1) 10 i^2)")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	want := "\\displaystyle\\sum_{i = 1}^{10} i^{2}"
	if got != want {
		t.Fatalf("convert mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

// --- whole-expression coverage ---------------------------------------------

func Test_Translate_NestedIntegral(t *testing.T) {
	got := translate(t, "(@INTEGRAL 0 1 (@INTEGRAL 0 y x^2 x) y)")
	want := "\\int_{0}^{1} \\int_{0}^{y} x^2 \\, dx \\, dy"
	if got != want {
		t.Fatalf("nested integral mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

// The example corpus from the desktop front end. Every entry must translate
// and convert without error into something non-empty; entries marked wantCmd
// carry at least one LaTeX control sequence.
func Test_Translate_ExampleCorpus(t *testing.T) {
	corpus := []struct {
		in      string
		wantCmd bool
	}{
		{"(x + y)", false},
		{"(α + β)", true},
		{"(/ x y)", true},
		{"(^ x 2)", false},
		{"(@INTEGRAL 0 1 x^2 x)", true},
		{"(@DERIV x 1 (^ x 2))", true},
		{"(@PART_DERIV x 1 (@PARENS (+ x y)))", true},
		{"(@LIMIT x 0 (@PARENS (/ (^ x 2) x)))", true},
		{"(@PRODUCT (@IS i 1) n i)", true},
		{"(@NTHROOT 2 x)", true},
		{"(@NTHROOT 3 x)", true},
		{"(@APPLY sin (@ARGS x))", true},
		{"(@APPLY ln (@ARGS x))", true},
		{"(@APPLY abs (@ARGS x))", true},
		{"(+ (* 2 x) (/ y z))", true},
		{"(@IS (^ x 2) (+ y z))", false},
		{"(@LEQ x y)", true},
		{"(@GEQ x y)", true},
		{"(@INTEGRAL 0 1 (@INTEGRAL 0 y x^2 x) y)", true},
		{"(@FRACTION α β)", true},
		{"(@PARENS (*x y))", true},
		{"(@DERIV x 2 (@PARENS (*x y)))", true},
		{"(@SUM (@IS i 1) 10 i^2)", true},
	}
	for _, tc := range corpus {
		got := translate(t, tc.in)
		if got == "" {
			t.Fatalf("Translate(%q) produced empty output", tc.in)
		}
		if tc.wantCmd && !strings.Contains(got, "\\") {
			t.Fatalf("Translate(%q) = %q, want a LaTeX control sequence", tc.in, got)
		}

		refined, err := Convert(tc.in)
		if err != nil {
			t.Fatalf("Convert(%q) reported %v", tc.in, err)
		}
		if refined == "" {
			t.Fatalf("Convert(%q) produced empty output", tc.in)
		}
	}
}

func Test_Translate_IsReentrant(t *testing.T) {
	// Concurrent calls share only the read-only tables.
	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				out, err := Translate("(@SUM (@IS i 1) 10 (^ i 2))")
				if err != nil {
					done <- err
					return
				}
				if out != "\\sum_{i=1}^{10} {i}^{2}" {
					done <- errors.New("unexpected output " + out)
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent translate failed: %v", err)
		}
	}
}
