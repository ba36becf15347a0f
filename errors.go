// errors.go: translation diagnostics and caret-snippet rendering
//
// What this file does
// -------------------
// Translation never aborts: Translate and Convert always hand back their
// best-effort LaTeX, and the error return carries advisory conditions the
// caller may surface. Two conditions are modeled:
//
//   - *MalformedInputError: the input's parentheses do not balance. Carries
//     the byte offset of the first unmatched parenthesis.
//   - *RecursionLimitError: the input nests deeper than MaxDepth; descent
//     stopped there and the remaining sub-expression was emitted raw.
//
// `WrapErrorWithSource` upgrades a MalformedInputError into a readable
// snippet with a caret pointing at the offending column:
//
//	MALFORMED INPUT at 1:9: unmatched ')'
//
//	   1 | (+ x y))
//	      |         ^
//
// Errors without a position (and foreign errors) pass through unchanged.
package mathcad

import (
	"errors"
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// MalformedInputError reports unbalanced parentheses in the source input.
// Offset is the byte offset of the first unmatched parenthesis.
type MalformedInputError struct {
	Offset int
	Msg    string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at offset %d: %s", e.Offset, e.Msg)
}

// RecursionLimitError reports that translation stopped descending because
// the input nested deeper than the configured bound.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit of %d exceeded", e.Limit)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the input. Only *MalformedInputError carries a position;
// every other error is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	var me *MalformedInputError
	if errors.As(err, &me) {
		line, col := lineCol(src, me.Offset)
		// col is 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorString(src, "MALFORMED INPUT", line, col+1, me.Msg))
	}
	return err
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: helpers & rendering
   =========================== */

// lineCol converts a byte offset into a 1-based line and 0-based column.
// Out-of-range offsets are clamped to the source bounds.
func lineCol(src string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	col := offset
	if i := strings.LastIndexByte(src[:offset], '\n'); i >= 0 {
		col = offset - i - 1
	}
	return line, col
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are
// 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
