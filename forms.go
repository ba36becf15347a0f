// forms.go — the tagged-form dispatch table and its handlers.
//
// Every "(@TAG ...)" construct resolves here through formHandlers, an exact
// tag → handler map built once at startup. Handlers share one template:
// extract arguments with formArgs, check a minimum count (too few degrades
// to "" or a neutral default, never an abort), recursively translate each
// argument, assemble the LaTeX fragment. The dispatch driver in parser.go
// runs every handler result through the spacing normalizer.
package mathcad

import (
	"regexp"
	"strconv"
	"strings"
)

type handlerFunc func(t *translator, expr string, depth int) string

// formHandlers maps a form's tag to its handler. Lookup is exact: an
// unknown tag falls through to the parser's passthrough branch. The map is
// assigned in init because the handlers recurse into parse, which reads the
// map back; a literal initializer would form an initialization cycle.
var formHandlers map[string]handlerFunc

func init() {
	formHandlers = map[string]handlerFunc{
		"INTEGRAL":   (*translator).integral,
		"PART_DERIV": (*translator).partialDerivative,
		"LIMIT":      (*translator).limit,
		"DERIV":      (*translator).derivative,
		"PRIME":      (*translator).prime,
		"NTHROOT":    (*translator).nthroot,
		"PRODUCT":    (*translator).product,
		"SUM":        (*translator).sum,
		"APPLY":      (*translator).apply,
		"ARGS":       (*translator).argList,
		"SCALE":      (*translator).scale,
		"RSCALE":     (*translator).rscale,
		"PARENS":     (*translator).parens,
		"LABEL":      (*translator).label,
		"MATRIX":     (*translator).matrix,
		"SYM_EVAL":   (*translator).symEval,
		"SUB":        (*translator).subscript,
		"ID":         (*translator).idSubscript,
		"EQ":         (*translator).equation,
		"NOT":        (*translator).logicalNot,
		"NEG":        (*translator).negation,
		"AND":        (*translator).logicalAnd,
		"OR":         (*translator).logicalOr,

		"IS":           func(t *translator, e string, d int) string { return t.binary(e, "=", d) },
		"ELEMENT_OF":   func(t *translator, e string, d int) string { return t.binary(e, "\\in", d) },
		"XOR":          func(t *translator, e string, d int) string { return t.binary(e, "\\oplus", d) },
		"GEQ":          func(t *translator, e string, d int) string { return t.binary(e, "\\geq", d) },
		"LEQ":          func(t *translator, e string, d int) string { return t.binary(e, "\\leq", d) },
		"NEQ":          func(t *translator, e string, d int) string { return t.binary(e, "\\neq", d) },
		"CROSS":        func(t *translator, e string, d int) string { return t.binary(e, "\\times", d) },
		"DOT":          func(t *translator, e string, d int) string { return t.binary(e, "\\cdot", d) },
		"GREATER_THAN": func(t *translator, e string, d int) string { return t.binary(e, ">", d) },
		"LESS_THAN":    func(t *translator, e string, d int) string { return t.binary(e, "<", d) },
	}
}

// binary renders the two-argument forms that differ only in their operator.
func (t *translator) binary(expr, op string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	return t.parse(args[0], depth+1) + " " + op + " " + t.parse(args[1], depth+1)
}

/* ===========================
   CALCULUS
   =========================== */

func (t *translator) integral(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 4 {
		return "\\int{}"
	}
	lower := t.parse(args[0], depth+1)
	upper := t.parse(args[1], depth+1)
	integrand := t.parse(args[2], depth+1)
	v := t.parse(args[3], depth+1)
	return "\\int_{" + lower + "}^{" + upper + "} " + integrand + " \\, d" + v
}

func (t *translator) derivative(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return ""
	}
	variable := t.parse(args[0], depth+1)
	order := args[1]
	if order == "@PLACEHOLDER" {
		order = "1"
	} else {
		order = t.parse(order, depth+1)
	}
	function := t.wrapParens(args[2], depth)
	if order == "1" {
		return "\\frac{\\mathrm{d}}{\\mathrm{d}" + variable + "} " + function
	}
	return "\\frac{\\mathrm{d}^{" + order + "}}{\\mathrm{d}" + variable + "^{" + order + "}} " + function
}

// partialDerivative accepts the order either as a numeric second argument or,
// when that slot is a placeholder, as a trailing fourth argument.
func (t *translator) partialDerivative(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return ""
	}
	variable := t.parse(args[0], depth+1)
	order := ""
	if isDigits(args[1]) {
		order = args[1]
	} else if args[1] == "@PLACEHOLDER" && len(args) > 3 {
		order = t.parse(args[3], depth+1)
	}
	function := t.wrapParens(args[2], depth)
	if order != "" {
		return "\\frac{\\partial^{" + order + "}}{\\partial " + variable + "^{" + order + "}} " + function
	}
	return "\\frac{\\partial}{\\partial " + variable + "} " + function
}

func (t *translator) limit(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return ""
	}
	variable := t.parse(args[0], depth+1)
	approach := t.parse(args[1], depth+1)
	direction := ""
	funcIdx := 2
	switch args[2] {
	case "@LEFT_HAND":
		direction = "^{-}"
		funcIdx = 3
	case "@RIGHT_HAND":
		direction = "^{+}"
		funcIdx = 3
	}
	function := variable
	if len(args) > funcIdx {
		function = t.wrapParens(args[funcIdx], depth)
	}
	return "\\lim_{" + variable + " \\to " + approach + direction + "} " + function
}

func (t *translator) prime(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	function := t.parse(args[0], depth+1)
	count := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			count = n
		}
	}
	if count < 0 {
		count = 0
	}
	return function + strings.Repeat("'", count)
}

func (t *translator) nthroot(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	n := args[0]
	if n == "@PLACEHOLDER" {
		n = ""
	} else {
		n = t.parse(n, depth+1)
	}
	radicand := t.parse(args[1], depth+1)
	if n == "2" || n == "" {
		return "\\sqrt{" + radicand + "}"
	}
	return "\\sqrt[" + n + "]{" + radicand + "}"
}

// wrapParens translates one argument; a "(@PARENS ...)" form keeps explicit
// \left \right delimiters around its translated interior.
func (t *translator) wrapParens(arg string, depth int) string {
	if strings.HasPrefix(arg, "(@PARENS") {
		if inner := formArgs(arg); len(inner) > 0 {
			return "\\left(" + t.parse(inner[0], depth+1) + "\\right)"
		}
		return ""
	}
	return t.parse(arg, depth+1)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

/* ===========================
   BIG OPERATORS
   =========================== */

// sum translates "(@SUM (@IS var start) upper body)" and the positional
// variant "(@SUM var upper body)", whose start value defaults to "1".
func (t *translator) sum(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return "\\sum"
	}
	var v, start string
	if strings.HasPrefix(args[0], "(@IS") {
		if isArgs := formArgs(args[0]); len(isArgs) >= 2 {
			v = t.parse(isArgs[0], depth+1)
			start = t.parse(isArgs[1], depth+1)
		} else {
			v, start = "i", "1"
		}
	} else {
		v = t.parse(args[0], depth+1)
		start = "1"
	}
	upper := t.parse(args[1], depth+1)
	body := t.parse(args[2], depth+1)
	return "\\sum_{" + v + "=" + start + "}^{" + upper + "} " + body
}

// product translates "(@PRODUCT (@IS var start) upper body)" and the longer
// positional variant "(@PRODUCT var start upper body)". A start that
// resolves empty defaults to "1", same as sum.
func (t *translator) product(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return ""
	}
	var v, start, upper, body string
	if strings.HasPrefix(args[0], "(@IS") {
		if isArgs := formArgs(args[0]); len(isArgs) >= 2 {
			v = t.parse(isArgs[0], depth+1)
			start = t.parse(isArgs[1], depth+1)
		} else {
			v, start = "i", "1"
		}
		upper = t.parse(args[1], depth+1)
		body = t.parse(args[2], depth+1)
	} else {
		v = t.parse(args[0], depth+1)
		start = t.parse(args[1], depth+1)
		upper = t.parse(args[2], depth+1)
		body = "1"
		if len(args) > 3 {
			body = t.parse(args[3], depth+1)
		}
	}
	if start == "" {
		start = "1"
	}
	return "\\prod_{" + v + "=" + start + "}^{" + upper + "} " + body
}

/* ===========================
   FUNCTION APPLICATION
   =========================== */

func (t *translator) apply(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	name := strings.ToLower(args[0])
	latexFunc, known := applyFunctions[name]
	if !known {
		latexFunc = name
	}
	if len(args) > 1 && strings.HasPrefix(args[1], "(@ARGS") {
		argsExpr := t.argList(args[1], depth+1)
		// abs is a wrap template, not call syntax.
		if name == "abs" {
			return strings.ReplaceAll(latexFunc, "#", argsExpr)
		}
		return latexFunc + "(" + argsExpr + ")"
	}
	return latexFunc
}

func (t *translator) argList(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	return t.joinParsed(args, ", ", depth)
}

/* ===========================
   LOGIC
   =========================== */

func (t *translator) logicalAnd(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	return t.joinParsed(args, " \\land ", depth)
}

func (t *translator) logicalOr(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	return t.joinParsed(args, " \\lor ", depth)
}

func (t *translator) logicalNot(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	return "\\neg " + t.parse(args[0], depth+1)
}

func (t *translator) negation(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	operand := t.parse(args[0], depth+1)
	// Compound operands keep their grouping visible.
	if strings.ContainsAny(operand, " +-") {
		return "-\\left(" + operand + "\\right)"
	}
	return "-" + operand
}

/* ===========================
   UNITS & LABELS
   =========================== */

// scale attaches a unit to a value: "(@SCALE 5 m)" → "5\,\mathrm{m}". The
// unit slot may also hold a division form (unit fraction), a power form, or
// an arbitrary sub-expression.
func (t *translator) scale(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	value := t.parse(args[0], depth+1)
	unitExpr := args[1]
	if u, ok := units[unitExpr]; ok {
		return value + "\\," + u
	}
	switch {
	case strings.HasPrefix(unitExpr, "(/"):
		if unitArgs := formArgs(unitExpr); len(unitArgs) >= 2 {
			num := t.parse(unitArgs[0], depth+1)
			den := t.parse(unitArgs[1], depth+1)
			return value + "\\,\\frac{" + num + "}{" + den + "}"
		}
		return value
	case strings.HasPrefix(unitExpr, "(^"):
		if unitArgs := formArgs(unitExpr); len(unitArgs) >= 2 {
			base := unitArgs[0]
			pow := t.parse(unitArgs[1], depth+1)
			if u, ok := units[base]; ok {
				base = u
			} else {
				base = t.parse(base, depth+1)
			}
			return value + "\\," + base + "^{" + pow + "}"
		}
		return value
	}
	return value + "\\," + t.parse(unitExpr, depth+1)
}

// rscale formats an evaluation result with its display unit. The value slot
// drops a "(@PARENS ...)" wrapper without adding delimiters; the unit slot
// resolves "(@LABEL UNIT x)" through the case-insensitive unit lookup.
func (t *translator) rscale(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	value := ""
	if strings.HasPrefix(args[0], "(@PARENS") {
		if valueArgs := formArgs(args[0]); len(valueArgs) > 0 {
			value = t.parse(valueArgs[0], depth+1)
		}
	} else {
		value = t.parse(args[0], depth+1)
	}
	unit := ""
	unitExpr := args[1]
	if strings.HasPrefix(unitExpr, "(@LABEL") {
		labelArgs := formArgs(unitExpr)
		if len(labelArgs) >= 2 && strings.EqualFold(labelArgs[0], "UNIT") {
			unit = unitOrUpright(labelArgs[1])
		} else {
			unit = t.parse(unitExpr, depth+1)
		}
	} else {
		unit = t.parse(unitExpr, depth+1)
	}
	return value + "\\," + unit
}

// label resolves a "(@LABEL TYPE value)" form by its type keyword. Constants
// may arrive as "(@ID name sub)" nests; those are looked up by the composed
// "name_sub" key before degrading to plain subscript formatting.
func (t *translator) label(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	switch strings.ToUpper(args[0]) {
	case "CONSTANT":
		if len(args) < 2 {
			return ""
		}
		value := args[1]
		if v, ok := constants[value]; ok {
			return v
		}
		if strings.HasPrefix(value, "(@ID") {
			idArgs := formArgs(value)
			if len(idArgs) < 2 {
				return value
			}
			main := idArgs[0]
			sub := t.parse(idArgs[1], depth+1)
			key := main + "_" + strings.ReplaceAll(sub, "\\", "")
			if v, ok := constants[key]; ok {
				return v
			}
			return main + "_{" + sub + "}"
		}
		return value
	case "UNIT":
		if len(args) < 2 {
			return ""
		}
		return unitOrUpright(args[1])
	case "VARIABLE":
		if len(args) < 2 {
			return ""
		}
		return args[1]
	case "FUNCTION":
		if len(args) < 2 {
			return ""
		}
		return "\\operatorname{" + args[1] + "}"
	}
	if len(args) > 1 {
		return t.parse(args[1], depth+1)
	}
	return args[0]
}

/* ===========================
   STRUCTURE
   =========================== */

func (t *translator) parens(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return "()"
	}
	return "\\left(" + t.parse(args[0], depth+1) + "\\right)"
}

// maxMatrixCells bounds the grid a "(@MATRIX rows cols ...)" header may
// declare, padding included.
const maxMatrixCells = 4096

func (t *translator) matrix(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 3 {
		return "\\begin{pmatrix} \\end{pmatrix}"
	}
	rows, err1 := strconv.Atoi(args[0])
	cols, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || rows < 0 || cols < 0 {
		return "\\begin{pmatrix} \\end{pmatrix}"
	}
	// A dimension header beyond any real worksheet region degrades like an
	// unparseable one instead of driving the padding loops.
	if rows > maxMatrixCells || cols > maxMatrixCells || rows*cols > maxMatrixCells {
		return "\\begin{pmatrix} \\end{pmatrix}"
	}
	elements := args[2:]
	var b strings.Builder
	b.WriteString("\\begin{pmatrix}\n")
	for i := 0; i < rows; i++ {
		row := make([]string, cols)
		for j := 0; j < cols; j++ {
			// Missing trailing elements render as zeros.
			row[j] = "0"
			if idx := i*cols + j; idx < len(elements) {
				row[j] = t.parse(elements[idx], depth+1)
			}
		}
		b.WriteString(strings.Join(row, " & "))
		if i < rows-1 {
			b.WriteString(" \\\\\n")
		}
	}
	b.WriteString("\n\\end{pmatrix}")
	return b.String()
}

func (t *translator) subscript(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) == 0 {
		return ""
	}
	return "{" + t.parse(args[0], depth+1) + "}"
}

var idName = regexp.MustCompile(`\(@ID\s+([^\s)]+)`)

// idSubscript renders "(@ID name ... (@SUB sub) ...)" as name_{sub}. A form
// with no "(@SUB ...)" part reduces to the bare identifier.
func (t *translator) idSubscript(expr string, depth int) string {
	m := idName.FindStringSubmatch(expr)
	if m == nil {
		return expr
	}
	identifier := m[1]
	subStart := strings.Index(expr, "(@SUB")
	if subStart < 0 {
		return identifier
	}
	rest := expr[subStart:]
	if end := matchParen(rest, 0); end >= 0 {
		if subArgs := formArgs(rest[:end+1]); len(subArgs) > 0 {
			return identifier + "_{" + t.parse(subArgs[0], depth+1) + "}"
		}
	}
	return identifier
}

/* ===========================
   EQUATIONS & EVALUATION
   =========================== */

// equation renders a user-created "(@EQ lhs rhs)". Arithmetic right-hand
// sides flatten through their operator form directly, bypassing the
// complex-evaluation heuristic.
func (t *translator) equation(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	left := t.parse(args[0], depth+1)
	rhs := args[1]
	right := ""
	if hasOpPrefix(rhs) {
		if flat, ok := t.flattenOp(rhs, depth); ok {
			right = flat
		} else {
			right = t.parse(rhs, depth+1)
		}
	} else {
		right = t.parse(rhs, depth+1)
	}
	return left + " = " + right
}

// symEval renders a symbolic evaluation "(@SYM_EVAL input [kw] result)" as
// input → result, skipping a "(@KW_STACK ...)" keyword block when present.
func (t *translator) symEval(expr string, depth int) string {
	args := formArgs(expr)
	if len(args) < 2 {
		return ""
	}
	left := t.parse(args[0], depth+1)
	rightIdx := 1
	if strings.HasPrefix(args[1], "(@KW_STACK") {
		rightIdx = 2
	}
	right := ""
	if len(args) > rightIdx {
		right = t.parse(args[rightIdx], depth+1)
	}
	if right == "" {
		return left
	}
	return left + " \\rightarrow " + right
}
