// symbols.go: static source-token to LaTeX fragment tables
package mathcad

import (
	"sort"
	"strings"
)

// specialSymbols maps typographic marks to LaTeX fragments.
var specialSymbols = map[string]string{
	"†": "{\\dagger}",
	"‡": "{\\ddagger}",
	"∗": "^{*}",
	"°": "^{\\circ}",
	"′": "^{\\prime}",
	"″": "^{\\prime\\prime}",
	"‴": "^{\\prime\\prime\\prime}",
}

// greekLetters maps Greek characters to LaTeX commands. The uppercase set
// deliberately includes commands with no standard LaTeX definition
// (\Alpha, \Beta, ...): Mathcad distinguishes the letters, and downstream
// styles are expected to define the missing macros.
var greekLetters = map[string]string{
	"α": "\\alpha",
	"β": "\\beta",
	"χ": "\\chi",
	"δ": "\\delta",
	"ε": "\\epsilon",
	"φ": "\\phi",
	"ϕ": "\\varphi",
	"γ": "\\gamma",
	"η": "\\eta",
	"ι": "\\iota",
	"κ": "\\kappa",
	"λ": "\\lambda",
	"μ": "\\mu",
	"ν": "\\nu",
	"ο": "\\omicron",
	"π": "\\pi",
	"θ": "\\theta",
	"ρ": "\\rho",
	"σ": "\\sigma",
	"τ": "\\tau",
	"υ": "\\upsilon",
	"ω": "\\omega",
	"ξ": "\\xi",
	"ψ": "\\psi",
	"ζ": "\\zeta",
	"ϑ": "\\vartheta",

	"Α": "\\Alpha",
	"Β": "\\Beta",
	"Χ": "\\Chi",
	"Δ": "\\Delta",
	"Ε": "\\Epsilon",
	"Φ": "\\Phi",
	"Γ": "\\Gamma",
	"Η": "\\Eta",
	"Ι": "\\Iota",
	"Κ": "\\Kappa",
	"Λ": "\\Lambda",
	"Μ": "\\Mu",
	"Ν": "\\Nu",
	"Ο": "\\Omicron",
	"Π": "\\Pi",
	"Θ": "\\Theta",
	"Ρ": "\\Rho",
	"Σ": "\\Sigma",
	"Τ": "\\Tau",
	"Υ": "\\Upsilon",
	"Ω": "\\Omega",
	"Ξ": "\\Xi",
	"Ψ": "\\Psi",
	"Ζ": "\\Zeta",
}

// units maps unit tokens to upright LaTeX. "N" and "n" are both present so
// Newton survives the case-insensitive fallback lookup (see lookupUnit).
var units = map[string]string{
	// SI base
	"m":   "\\mathrm{m}",
	"kg":  "\\mathrm{kg}",
	"s":   "\\mathrm{s}",
	"A":   "\\mathrm{A}",
	"K":   "\\mathrm{K}",
	"mol": "\\mathrm{mol}",
	"cd":  "\\mathrm{cd}",

	// SI derived
	"N":      "\\mathrm{N}",
	"n":      "\\mathrm{n}",
	"newton": "\\mathrm{N}",
	"Pa":     "\\mathrm{Pa}",
	"J":      "\\mathrm{J}",
	"W":      "\\mathrm{W}",
	"C":      "\\mathrm{C}",
	"V":      "\\mathrm{V}",
	"F":      "\\mathrm{F}",
	"Ω":      "\\Omega",
	"S":      "\\mathrm{S}",
	"T":      "\\mathrm{T}",
	"H":      "\\mathrm{H}",
	"Hz":     "\\mathrm{Hz}",

	// common non-SI
	"min": "\\mathrm{min}",
	"h":   "\\mathrm{h}",
	"day": "\\mathrm{day}",
	"deg": "^{\\circ}",
	"rad": "\\mathrm{rad}",
	"sr":  "\\mathrm{sr}",
	"L":   "\\mathrm{L}",
	"g":   "\\mathrm{g}",
	"t":   "\\mathrm{t}",
	"eV":  "\\mathrm{eV}",
	"bar": "\\mathrm{bar}",
	"atm": "\\mathrm{atm}",
	"in":  "\\mathrm{in}",
	"ft":  "\\mathrm{ft}",
	"mi":  "\\mathrm{mi}",
	"lb":  "\\mathrm{lb}",
}

// constants maps physical-constant tokens (including pre-subscripted keys
// like "e_c" and "μ_B") to their conventional LaTeX rendering.
var constants = map[string]string{
	"c":   "c",
	"e_c": "e",
	"h":   "h",
	"ℏ":   "\\hbar",
	"k":   "k_\\mathrm{B}",
	"m_u": "m_\\mathrm{u}",
	"N_A": "N_\\mathrm{A}",
	"R":   "R",
	"R_∞": "R_{\\infty}",
	"α":   "\\alpha",
	"γ":   "\\gamma",
	"ε_0": "\\varepsilon_0",
	"μ_0": "\\mu_0",
	"σ":   "\\sigma",
	"Φ_0": "\\Phi_0",

	"G":   "G",
	"g":   "g",
	"M_e": "m_\\mathrm{e}",
	"M_p": "m_\\mathrm{p}",
	"M_n": "m_\\mathrm{n}",
	"q_e": "e",
	"F":   "F",
	"n_0": "n_0",
	"K_J": "K_\\mathrm{J}",
	"R_K": "R_\\mathrm{K}",
	"μ_B": "\\mu_\\mathrm{B}",
	"μ_N": "\\mu_\\mathrm{N}",
	"a_0": "a_0",
	"E_h": "E_\\mathrm{h}",
	"λ_C": "\\lambda_\\mathrm{C}",
}

// applyFunctions maps @APPLY function names (lowercased) to LaTeX commands.
// "abs" is a wrap template: '#' marks where the argument goes.
var applyFunctions = map[string]string{
	"sin":    "\\sin",
	"cos":    "\\cos",
	"tan":    "\\tan",
	"cot":    "\\cot",
	"sec":    "\\sec",
	"csc":    "\\csc",
	"arcsin": "\\arcsin",
	"arccos": "\\arccos",
	"arctan": "\\arctan",
	"sinh":   "\\sinh",
	"cosh":   "\\cosh",
	"tanh":   "\\tanh",
	"ln":     "\\ln",
	"log":    "\\log",
	"log10":  "\\log_{10}",
	"exp":    "\\exp",
	"abs":    "\\left|#\\right|",
	"max":    "\\max",
	"min":    "\\min",
}

// unitKeys holds the unit tokens in sorted order so the case-insensitive
// fallback in lookupUnit resolves the same key on every run.
var unitKeys = func() []string {
	keys := make([]string, 0, len(units))
	for k := range units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// symbolReplacer rewrites every Greek letter, special symbol and the
// infinity glyph anywhere in a string in a single pass.
var symbolReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*(len(greekLetters)+len(specialSymbols)+1))
	for k, v := range greekLetters {
		pairs = append(pairs, k, v)
	}
	for k, v := range specialSymbols {
		pairs = append(pairs, k, v)
	}
	pairs = append(pairs, "∞", "\\infty")
	return strings.NewReplacer(pairs...)
}()

// replaceSymbols normalizes all symbol characters in s to LaTeX commands.
func replaceSymbols(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= 0x80 }) {
		return s
	}
	return symbolReplacer.Replace(s)
}

// lookupUnit resolves a unit token: exact match first, then the Newton
// special case, then a case-insensitive scan over the sorted keys.
func lookupUnit(name string) (string, bool) {
	if u, ok := units[name]; ok {
		return u, true
	}
	if name == "N" {
		return "\\mathrm{N}", true
	}
	for _, k := range unitKeys {
		if strings.EqualFold(k, name) {
			return units[k], true
		}
	}
	return "", false
}

// unitOrUpright resolves a unit token, falling back to \mathrm{name}.
func unitOrUpright(name string) string {
	if u, ok := lookupUnit(name); ok {
		return u
	}
	return "\\mathrm{" + name + "}"
}
