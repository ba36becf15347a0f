package mathcad

import (
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func Test_Errors_Messages(t *testing.T) {
	me := &MalformedInputError{Offset: 7, Msg: "unmatched ')'"}
	if got := me.Error(); got != "malformed input at offset 7: unmatched ')'" {
		t.Fatalf("unexpected message: %q", got)
	}
	re := &RecursionLimitError{Limit: MaxDepth}
	if got := re.Error(); got != "recursion limit of 200 exceeded" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func Test_ErrorWrap_ShowsCaretAndContext(t *testing.T) {
	src := "(+ x y))"
	_, err := Translate(src)
	if err == nil {
		t.Fatalf("expected malformed input error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()

	// Header with 1-based line:column of the stray parenthesis.
	mustContain(t, msg, "MALFORMED INPUT at 1:8: unmatched ')'")
	// Context line (line number + source)
	mustContain(t, msg, "   1 | (+ x y))")
	// Caret under column 8
	mustContain(t, msg, "     |        ^")
}

func Test_ErrorWrap_MultiLineSource(t *testing.T) {
	src := "(+ x\n y))"
	_, err := Translate(src)
	if err == nil {
		t.Fatalf("expected malformed input error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()

	mustContain(t, msg, "MALFORMED INPUT at 2:4: unmatched ')'")
	mustContain(t, msg, "   1 | (+ x")
	mustContain(t, msg, "   2 |  y))")
	mustContain(t, msg, "     |    ^")
}

func Test_ErrorWrap_PassesForeignErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	if got := WrapErrorWithSource(boom, "src"); got != boom {
		t.Fatalf("foreign error rewritten: %v", got)
	}
	re := &RecursionLimitError{Limit: MaxDepth}
	if got := WrapErrorWithSource(re, "src"); got != error(re) {
		t.Fatalf("recursion error rewritten: %v", got)
	}
	if got := WrapErrorWithSource(nil, "src"); got != nil {
		t.Fatalf("nil error rewritten: %v", got)
	}
}
