// validate_test.go
package mathcad

import (
	"strings"
	"testing"
)

func Test_Validate_AcceptsPlainMath(t *testing.T) {
	cases := []string{
		"x + y",
		"x^{2}",
		"a = b",
		"(x + y)",
		"\\frac{x}{y}",
	}
	for _, in := range cases {
		if err := Validate(in); err != nil {
			t.Fatalf("Validate(%q) = %v, want nil", in, err)
		}
	}
}

func Test_Validate_RejectsUnknownMacro(t *testing.T) {
	err := Validate("\\qqqzzz x")
	if err == nil {
		t.Fatalf("unknown macro accepted")
	}
	if !strings.Contains(err.Error(), "unknown macro") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Validate_StripsRefinementComment(t *testing.T) {
	if err := Validate("x + y" + noRefinements); err != nil {
		t.Fatalf("comment not stripped: %v", err)
	}
}

func Test_Validate_AfterConvert(t *testing.T) {
	out, err := Convert("(+ x y)")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if err := Validate(out); err != nil {
		t.Fatalf("Validate(%q) = %v, want nil", out, err)
	}
}
