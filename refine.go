// refine.go — post-pass refinement of translated LaTeX.
//
// Refine operates on a finished LaTeX string, never on tagged notation. It
// runs a fixed sequence of independent rewrite rules; each rule returns its
// output together with a flag saying whether it changed anything, and the
// driver composes the flags. When no rule fires the output gains a trailing
// comment so callers of an iterative "keep refining" loop know to stop.
package mathcad

import (
	"regexp"
	"strings"
)

const noRefinements = "  % No further refinements available"

// Refine applies typesetting improvements to a LaTeX expression: divisions
// become fractions, operators gain spacing, bare function names gain their
// backslash, and so on. Safe to apply repeatedly; a pass that finds nothing
// left to improve appends the "no further refinements" comment.
func Refine(latex string) string {
	if latex == "" {
		return latex
	}
	refined := latex
	changed := false
	for _, rule := range refineRules {
		out, fired := rule(refined)
		refined = out
		changed = changed || fired
	}
	if !changed {
		refined += noRefinements
	}
	return refined
}

var refineRules = []func(string) (string, bool){
	refineFractions,
	refineOperatorSpacing,
	refineSuperscripts,
	refineFractionParens,
	refineFunctionNames,
	refineDisplayStyle,
	refineUnits,
}

/* ===========================
   RULES
   =========================== */

var slashDivision = regexp.MustCompile(`([\p{L}\p{N}_]+|\([^)]+\)) */ *([\p{L}\p{N}_]+|\([^)]+\))`)

// refineFractions rewrites slash divisions such as "a/b" or "(a+b)/c" into
// \frac form.
func refineFractions(s string) (string, bool) {
	if !slashDivision.MatchString(s) {
		return s, false
	}
	return slashDivision.ReplaceAllString(s, `\frac{${1}}{${2}}`), true
}

// spacedOperators are rewritten in this order; each pattern requires a
// non-space on the right so already spaced operators are left alone. The
// left context excludes '\' to keep command text such as \neq intact.
var spacedOperators = []struct {
	op string
	re *regexp.Regexp
}{
	{"+", regexp.MustCompile(`([^\\])\+([^\s])`)},
	{"-", regexp.MustCompile(`([^\\])-([^\s])`)},
	{"=", regexp.MustCompile(`([^\\])=([^\s])`)},
	{`\times`, regexp.MustCompile(`([^\\])\\times([^\s])`)},
	{`\cdot`, regexp.MustCompile(`([^\\])\\cdot([^\s])`)},
	{"<", regexp.MustCompile(`([^\\])<([^\s])`)},
	{">", regexp.MustCompile(`([^\\])>([^\s])`)},
	{`\leq`, regexp.MustCompile(`([^\\])\\leq([^\s])`)},
	{`\geq`, regexp.MustCompile(`([^\\])\\geq([^\s])`)},
	{`\neq`, regexp.MustCompile(`([^\\])\\neq([^\s])`)},
}

func refineOperatorSpacing(s string) (string, bool) {
	changed := false
	for _, entry := range spacedOperators {
		if !entry.re.MatchString(s) {
			continue
		}
		changed = true
		s = entry.re.ReplaceAllString(s, "${1} "+entry.op+" ${2}")
	}
	return s, changed
}

var bareSuperscript = regexp.MustCompile(`([\p{L}\p{N}_]+)\^([\p{L}\p{N}_])`)

// refineSuperscripts braces single-character exponents: x^2 becomes x^{2}.
func refineSuperscripts(s string) (string, bool) {
	if !bareSuperscript.MatchString(s) {
		return s, false
	}
	return bareSuperscript.ReplaceAllString(s, `${1}^{${2}}`), true
}

var fracParens = regexp.MustCompile(`\(([^()]*\\frac\{[^{}]*\}\{[^{}]*\}[^()]*)\)`)

// refineFractionParens sizes parentheses around fractions with \left \right.
// A paren already part of a \left( group is skipped so repeated refinement
// does not stack delimiters.
func refineFractionParens(s string) (string, bool) {
	matches := fracParens.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, false
	}
	var b strings.Builder
	changed := false
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		if strings.HasSuffix(s[:m[0]], `\left`) {
			b.WriteString(s[m[0]:m[1]])
		} else {
			b.WriteString(`\left(`)
			b.WriteString(s[m[2]:m[3]])
			b.WriteString(`\right)`)
			changed = true
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), changed
}

// mathFuncs are escaped when they appear bare. Order matters only for
// readability; the boundary checks keep "sin" out of "sinh" and "arcsin".
var mathFuncs = []string{
	"sin", "cos", "tan", "cot", "sec", "csc",
	"arcsin", "arccos", "arctan",
	"sinh", "cosh", "tanh",
	"log", "ln", "exp", "lim", "max", "min",
}

// refineFunctionNames prefixes bare function tokens with a backslash. A
// token counts as bare when no backslash or letter precedes it and no
// letter follows it.
func refineFunctionNames(s string) (string, bool) {
	changed := false
	for _, name := range mathFuncs {
		out, fired := escapeBareToken(s, name)
		s = out
		changed = changed || fired
	}
	return s, changed
}

func escapeBareToken(s, name string) (string, bool) {
	var b strings.Builder
	changed := false
	i := 0
	for {
		j := strings.Index(s[i:], name)
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		j += i
		end := j + len(name)
		okBefore := j == 0 || (s[j-1] != '\\' && !isASCIILetter(s[j-1]))
		okAfter := end == len(s) || !isASCIILetter(s[end])
		if okBefore && okAfter {
			b.WriteString(s[i:j])
			b.WriteByte('\\')
			b.WriteString(name)
			changed = true
		} else {
			b.WriteString(s[i : j+1])
			end = j + 1
		}
		i = end
	}
	return b.String(), changed
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var displayOperators = []*regexp.Regexp{
	regexp.MustCompile(`\\int(_\{[^}]*\}\^\{[^}]*\})`),
	regexp.MustCompile(`\\sum(_\{[^}]*\}\^\{[^}]*\})`),
	regexp.MustCompile(`\\prod(_\{[^}]*\}\^\{[^}]*\})`),
}

// refineDisplayStyle enlarges big operators that carry both bounds. Already
// \displaystyle-prefixed operators are skipped.
func refineDisplayStyle(s string) (string, bool) {
	changed := false
	for _, re := range displayOperators {
		matches := re.FindAllStringIndex(s, -1)
		if len(matches) == 0 {
			continue
		}
		var b strings.Builder
		last := 0
		for _, m := range matches {
			b.WriteString(s[last:m[0]])
			if !strings.HasSuffix(s[:m[0]], `\displaystyle`) {
				b.WriteString(`\displaystyle`)
				changed = true
			}
			b.WriteString(s[m[0]:m[1]])
			last = m[1]
		}
		b.WriteString(s[last:])
		s = b.String()
	}
	return s, changed
}

var numberUnit = regexp.MustCompile(`([0-9]+) *([a-zA-Z]+)`)

// unitSkip holds letters far more likely to be variables than units.
var unitSkip = map[string]bool{
	"x": true, "y": true, "z": true,
	"i": true, "j": true, "k": true,
	"t": true, "n": true,
	"a": true, "b": true, "c": true,
}

// refineUnits sets an alphabetic token following a number upright:
// "5 m" becomes "5\,\mathrm{m}". Common variable letters are left alone.
func refineUnits(s string) (string, bool) {
	changed := false
	out := numberUnit.ReplaceAllStringFunc(s, func(m string) string {
		sub := numberUnit.FindStringSubmatch(m)
		number, unit := sub[1], sub[2]
		if unitSkip[unit] {
			return m
		}
		changed = true
		return number + `\,\mathrm{` + unit + `}`
	})
	return out, changed
}
