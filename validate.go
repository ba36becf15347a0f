package mathcad

import (
	"strings"

	"github.com/go-latex/latex"
)

// Validate runs a produced fragment through a math-mode LaTeX parser and
// reports the first syntax problem it finds. Translation degrades rather
// than rejects, so this is advisory: a nil error means the fragment parses
// as math text, not that it typesets the intended expression.
func Validate(expr string) error {
	expr = strings.TrimSuffix(expr, noRefinements)
	_, err := latex.ParseExpr("$" + expr + "$")
	return err
}
