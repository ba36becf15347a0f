// parser.go — recursive-descent translation of Mathcad tagged notation to LaTeX.
//
// OVERVIEW
// --------
// Mathcad's region/clipboard format is a Lisp-style tagged notation: every
// construct is a parenthesized form whose head token names it, either an
// operator character ("(+ x y)") or an @-tag ("(@INTEGRAL 0 1 x^2 x)").
// This module walks that notation top-down and emits LaTeX directly; there
// is no intermediate tree, each handler assembles its template from
// recursively translated argument strings.
//
// Dispatch order (first match wins):
//
//  1. empty input → empty output
//  2. operator prefix + embedded "(@LABEL"/"(@APPLY" → complexEval: results
//     of Mathcad's symbolic evaluation mix raw operator forms with labeled
//     leaves and need pattern-based reconstruction, not positional splits
//  3. plain operator prefixes "(+ (- (* (/ (^" → binary/N-ary handlers
//  4. bare "e" and "∞"
//  5. single-character Greek-letter / special-symbol lookup
//  6. whole-string symbol replacement (always runs; dispatch continues on
//     the replaced text)
//  7. "(@TAG ...)" → formHandlers table (forms.go), result through the
//     spacing normalizer
//  8. bare "(= lhs rhs)" → equals
//  9. fallback: the text itself, through the spacing normalizer
//
// Translation is total: malformed input degrades to partial or raw output
// instead of aborting. Translate reports what went wrong on the side, as
// advisory *MalformedInputError / *RecursionLimitError values (errors.go).
//
// Dependencies
// ------------
//   - lexer.go   (splitTopLevel, formArgs, opContent, checkBalance)
//   - symbols.go (greekLetters, specialSymbols, units, constants, replaceSymbols)
//   - forms.go   (formHandlers dispatch table)
//   - spacing.go (normalizeSpacing)
//   - refine.go  (Refine, used by Convert)
package mathcad

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// MaxDepth bounds recursive descent. Input nested deeper than this stops
// descending and is emitted raw, with a *RecursionLimitError on the side.
const MaxDepth = 200

// Translate converts one Mathcad tagged-notation expression into LaTeX.
// The returned string is always usable; the error, when non-nil, carries the
// advisory conditions encountered (unbalanced parentheses, recursion bound).
func Translate(input string) (string, error) {
	var errs []error
	if me := checkBalance(input); me != nil {
		errs = append(errs, me)
	}
	t := &translator{}
	out := t.parse(input, 0)
	if t.depthErr != nil {
		errs = append(errs, t.depthErr)
	}
	return out, errors.Join(errs...)
}

// Convert is Translate followed by Refine.
func Convert(input string) (string, error) {
	out, err := Translate(input)
	return Refine(out), err
}

//// END_OF_PUBLIC

// translator carries per-call state. A fresh value is allocated for every
// Translate, so concurrent calls share nothing but the read-only tables in
// symbols.go.
type translator struct {
	depthErr *RecursionLimitError
}

func (t *translator) parse(expr string, depth int) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	if depth > MaxDepth {
		if t.depthErr == nil {
			t.depthErr = &RecursionLimitError{Limit: MaxDepth}
		}
		return expr
	}

	if hasOpPrefix(expr) &&
		(strings.Contains(expr, "(@LABEL") || strings.Contains(expr, "(@APPLY")) {
		return t.complexEval(expr, depth)
	}

	switch {
	case strings.HasPrefix(expr, "(+"):
		return t.addition(expr, depth)
	case strings.HasPrefix(expr, "(-"):
		return t.subtraction(expr, depth)
	case strings.HasPrefix(expr, "(*"):
		return t.multiplication(expr, depth)
	case strings.HasPrefix(expr, "(/"):
		return t.division(expr, depth)
	case strings.HasPrefix(expr, "(^"):
		return t.power(expr, depth)
	}

	if expr == "e" {
		return "e"
	}
	if expr == "∞" {
		return "\\infty"
	}
	if utf8.RuneCountInString(expr) == 1 {
		if v, ok := greekLetters[expr]; ok {
			return v
		}
		if v, ok := specialSymbols[expr]; ok {
			return v
		}
	}

	// Symbols inside longer expressions are normalized up front; every
	// branch below sees the replaced text.
	expr = replaceSymbols(expr)

	if tag, ok := tagOf(expr); ok {
		if h, ok := formHandlers[tag]; ok {
			return normalizeSpacing(h(t, expr, depth))
		}
	}
	if strings.HasPrefix(expr, "(=") {
		return normalizeSpacing(t.equals(expr, depth))
	}
	return normalizeSpacing(expr)
}

func hasOpPrefix(expr string) bool {
	return strings.HasPrefix(expr, "(/") || strings.HasPrefix(expr, "(*") ||
		strings.HasPrefix(expr, "(+") || strings.HasPrefix(expr, "(-")
}

// tagOf extracts TAG from a "(@TAG ...)" form.
func tagOf(expr string) (string, bool) {
	if !strings.HasPrefix(expr, "(@") {
		return "", false
	}
	i := 2
	for i < len(expr) && expr[i] != ' ' && expr[i] != '(' && expr[i] != ')' {
		i++
	}
	if i == 2 {
		return "", false
	}
	return expr[2:i], true
}

////////////////////////////////////////////////////////////////////////////////
//                               OPERATOR FORMS
////////////////////////////////////////////////////////////////////////////////

func (t *translator) addition(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	return t.joinParsed(args, " + ", depth)
}

func (t *translator) subtraction(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	return t.parse(args[0], depth+1) + " - " + t.parse(args[1], depth+1)
}

func (t *translator) multiplication(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	return t.joinParsed(args, " \\cdot ", depth)
}

func (t *translator) division(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	return "\\frac{" + t.parse(args[0], depth+1) + "}{" + t.parse(args[1], depth+1) + "}"
}

func (t *translator) power(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	base := t.parse(args[0], depth+1)
	exp := t.parse(args[1], depth+1)
	// Euler's number keeps a bare base so e^{x} reads naturally.
	if base == "e" {
		return "e^{" + exp + "}"
	}
	return "{" + base + "}^{" + exp + "}"
}

// equals renders a bare "(= lhs rhs)" form. The split point is the first
// top-level space; failing that, the first whitespace run; failing both,
// the input passes through untouched.
func (t *translator) equals(expr string, depth int) string {
	content := opContent(expr)
	split, level := -1, 0
	for i := 0; i < len(content) && split < 0; i++ {
		switch content[i] {
		case '(':
			level++
		case ')':
			level--
		case ' ':
			if level == 0 {
				split = i
			}
		}
	}
	if split >= 0 {
		return t.parse(content[:split], depth+1) + " = " + t.parse(content[split+1:], depth+1)
	}
	if i := strings.IndexFunc(content, unicode.IsSpace); i >= 0 {
		if right := strings.TrimSpace(content[i:]); right != "" {
			return t.parse(content[:i], depth+1) + " = " + t.parse(right, depth+1)
		}
	}
	return expr
}

// flattenOp renders an operator-prefixed form by splitting its interior
// directly, bypassing the complex-evaluation heuristic. The second return is
// false when the form has too few arguments to flatten.
func (t *translator) flattenOp(expr string, depth int) (string, bool) {
	if len(expr) < 2 {
		return "", false
	}
	args := splitTopLevel(opContent(expr))
	switch expr[1] {
	case '+':
		if len(args) > 0 {
			return t.joinParsed(args, " + ", depth), true
		}
	case '*':
		if len(args) > 0 {
			return t.joinParsed(args, " \\cdot ", depth), true
		}
	case '-':
		if len(args) >= 2 {
			return t.parse(args[0], depth+1) + " - " + t.parse(args[1], depth+1), true
		}
	case '/':
		if len(args) >= 2 {
			return "\\frac{" + t.parse(args[0], depth+1) + "}{" + t.parse(args[1], depth+1) + "}", true
		}
	}
	return "", false
}

func (t *translator) joinParsed(args []string, sep string, depth int) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = t.parse(a, depth+1)
	}
	return strings.Join(parts, sep)
}

////////////////////////////////////////////////////////////////////////////////
//                             COMPLEX EVALUATION
////////////////////////////////////////////////////////////////////////////////

var (
	labelForm = regexp.MustCompile(`\(@LABEL\s+([A-Z]+)\s+([^)]+)\)`)
	applyForm = regexp.MustCompile(`\(@APPLY\s+([^)]+)\s+\(@ARGS\s+([^)]+)\)\)`)
	taggedAny = regexp.MustCompile(`\(@([A-Z_]+)([^)]*)\)`)
	openTag   = regexp.MustCompile(`\(@[A-Z_]+`)

	opRewrites = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\(/\s+([^)]+)\s+([^)]+)\)`), `\frac{${1}}{${2}}`},
		{regexp.MustCompile(`\(\*\s+([^)]+)\s+([^)]+)\)`), `${1} \cdot ${2}`},
		{regexp.MustCompile(`\(\+\s+([^)]+)\s+([^)]+)\)`), `${1} + ${2}`},
		{regexp.MustCompile(`\(-\s+([^)]+)\s+([^)]+)\)`), `${1} - ${2}`},
		{regexp.MustCompile(`\(\^\s+([^)]+)\s+([^)]+)\)`), `{${1}}^{${2}}`},
	}
)

// complexEval reconstructs operator forms whose arguments carry labeled
// leaves. Tier 1 disassembles the form structurally. When the split comes up
// short, tier 2 rewrites labels, applications and operator forms by pattern
// and strips leftover tag markers. When even that changes nothing, tier 3
// routes by operator prefix or dispatches leftover tags through the handler
// table.
func (t *translator) complexEval(expr string, depth int) string {
	switch {
	case strings.HasPrefix(expr, "(/"):
		if args := splitTopLevel(opContent(expr)); len(args) >= 2 {
			return "\\frac{" + t.parse(args[0], depth+1) + "}{" + t.parse(args[1], depth+1) + "}"
		}
	case strings.HasPrefix(expr, "(*"):
		if args := splitTopLevel(opContent(expr)); len(args) > 0 {
			return t.joinParsed(args, " \\cdot ", depth)
		}
	case strings.HasPrefix(expr, "(+"):
		if args := splitTopLevel(opContent(expr)); len(args) > 0 {
			return t.joinParsed(args, " + ", depth)
		}
	case strings.HasPrefix(expr, "(-"):
		if args := splitTopLevel(opContent(expr)); len(args) >= 2 {
			return t.parse(args[0], depth+1) + " - " + t.parse(args[1], depth+1)
		}
	}

	out := labelForm.ReplaceAllStringFunc(expr, func(m string) string {
		sub := labelForm.FindStringSubmatch(m)
		return resolveLabelText(sub[1], sub[2])
	})
	out = applyForm.ReplaceAllStringFunc(out, func(m string) string {
		sub := applyForm.FindStringSubmatch(m)
		name, arg := sub[1], sub[2]
		if strings.HasPrefix(name, "(@LABEL") {
			if lm := labelForm.FindStringSubmatch(name); lm != nil && strings.ToUpper(lm[1]) == "FUNCTION" {
				name = "\\operatorname{" + lm[2] + "}"
			} else {
				name = t.parse(name, depth+1)
			}
		}
		return name + "(" + arg + ")"
	})
	for _, r := range opRewrites {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	out = openTag.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, ")", "")

	if out != expr {
		return out
	}

	switch {
	case strings.HasPrefix(expr, "(/"):
		return t.division(expr, depth)
	case strings.HasPrefix(expr, "(*"):
		return t.multiplication(expr, depth)
	case strings.HasPrefix(expr, "(+"):
		return t.addition(expr, depth)
	case strings.HasPrefix(expr, "(-"):
		return t.subtraction(expr, depth)
	}
	return taggedAny.ReplaceAllStringFunc(expr, func(m string) string {
		sub := taggedAny.FindStringSubmatch(m)
		if h, ok := formHandlers[sub[1]]; ok {
			return h(t, m, depth)
		}
		return m
	})
}

// resolveLabelText renders one "@LABEL TYPE value" occurrence by type. The
// unit path uses the exact-key lookup only; the Label handler in forms.go
// carries the fuller case-insensitive treatment.
func resolveLabelText(labelType, content string) string {
	switch strings.ToUpper(labelType) {
	case "CONSTANT":
		if v, ok := constants[content]; ok {
			return v
		}
		return content
	case "VARIABLE":
		return content
	case "UNIT":
		if v, ok := units[content]; ok {
			return v
		}
		return "\\mathrm{" + content + "}"
	case "FUNCTION":
		return "\\operatorname{" + content + "}"
	}
	return content
}
