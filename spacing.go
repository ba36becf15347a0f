// Handler output can fuse a command name to whatever follows it: "\pib"
// instead of "\pi b". Two passes repair this. The first targets lowercase
// greek commands with a single regex; the second scans for any remaining
// command run and inserts a space when a digit follows the name directly.
package mathcad

import (
	"regexp"
	"strings"
	"unicode"
)

// greekAdjacent matches a lowercase greek command fused to a following
// letter or digit, e.g. "\pib" or "\alphax".
var greekAdjacent = regexp.MustCompile(`\\(pi|alpha|beta|gamma|delta|epsilon|zeta|eta|theta|iota|kappa|lambda|mu|nu|xi|omicron|rho|sigma|tau|upsilon|phi|chi|psi|omega)([a-zA-Z0-9])`)

// completeCommands take their arguments through sub/superscripts or braces
// and never need a separating space after the name.
var completeCommands = map[string]bool{
	"int":  true,
	"sum":  true,
	"prod": true,
	"lim":  true,
	"frac": true,
	"sqrt": true,
	"in":   true,
}

// normalizeSpacing separates LaTeX commands from adjacent characters so the
// output stays compilable. Text without a backslash passes through untouched.
func normalizeSpacing(latex string) string {
	if latex == "" || !strings.Contains(latex, "\\") {
		return latex
	}
	latex = greekAdjacent.ReplaceAllString(latex, `\$1 $2`)
	return spaceAfterCommands(latex)
}

// spaceAfterCommands walks the text once, tracking whether the previous run
// was a command name. A digit right after a non-complete command gets a
// space in front of it.
func spaceAfterCommands(latex string) string {
	runes := []rune(latex)
	var b strings.Builder
	b.Grow(len(latex) + 8)
	inCommand := false
	for i := 0; i < len(runes); {
		if runes[i] == '\\' && !inCommand {
			b.WriteRune('\\')
			i++
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			name := string(runes[start:i])
			b.WriteString(name)
			inCommand = !completeCommands[name]
			continue
		}
		if inCommand && !unicode.IsLetter(runes[i]) {
			inCommand = false
			if unicode.IsDigit(runes[i]) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}
