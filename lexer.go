// lexer.go: depth-aware splitting of tagged-form interiors
//
// A tagged form is "(TAG arg1 ... argN)". The functions here cut a form's
// interior into its top-level arguments: a space separates arguments only at
// parenthesis depth zero, so nested forms travel as single arguments. The
// splitter is deliberately permissive about unbalanced input (depth may go
// negative without aborting); checkBalance is the separate up-front scan that
// lets Translate surface a MalformedInputError next to best-effort output.
package mathcad

import (
	"strings"
	"unicode/utf8"
)

// scanArgs splits content on top-level spaces. When breakBeforeParen is set,
// a '(' opening at depth zero also ends the argument being accumulated, so a
// nested form abutting a bare token still starts its own argument.
func scanArgs(content string, breakBeforeParen bool) []string {
	var args []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			args = append(args, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '(':
			if breakBeforeParen && depth == 0 && strings.TrimSpace(cur.String()) != "" {
				flush()
			}
			cur.WriteByte(c)
			depth++
		case c == ')':
			cur.WriteByte(c)
			depth--
		case c == ' ' && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return args
}

// splitTopLevel splits an already-extracted interior on top-level spaces.
func splitTopLevel(content string) []string {
	return scanArgs(content, false)
}

// formArgs extracts the arguments of a full tagged form "(TAG a b ...)".
// Everything up to the first space is the tag token and is dropped, as is the
// final rune (the form's closing parenthesis on well-formed input).
func formArgs(expr string) []string {
	sp := strings.IndexByte(expr, ' ')
	if sp < 0 {
		return nil
	}
	rest := dropLast(expr[sp+1:])
	if rest == "" {
		return nil
	}
	return scanArgs(rest, true)
}

// opContent returns the trimmed interior of a two-byte operator form:
// "(+ a b)" becomes "a b". The final rune is dropped unconditionally, which
// keeps unterminated forms degraded rather than fatal.
func opContent(expr string) string {
	return dropLast(expr[2:])
}

// dropLast removes the final rune of s and trims the remainder.
func dropLast(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return strings.TrimSpace(s[:len(s)-size])
}

// matchParen returns the index of the ')' matching the '(' at start, or -1.
func matchParen(s string, start int) int {
	if start >= len(s) || s[start] != '(' {
		return -1
	}
	depth := 1
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Incomplete reports whether input stops mid-form, i.e. at least one
// parenthesis is still open. REPLs use it to decide between translating
// and prompting for a continuation line. A stray ')' does not count: that
// input is complete, just malformed.
func Incomplete(input string) bool {
	depth := 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

// checkBalance reports the first unmatched parenthesis, or nil when the
// input is balanced.
func checkBalance(s string) *MalformedInputError {
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return &MalformedInputError{Offset: i, Msg: "unmatched ')'"}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return &MalformedInputError{Offset: open[0], Msg: "unclosed '('"}
	}
	return nil
}
