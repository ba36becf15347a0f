// symbols_test.go
package mathcad

import "testing"

func Test_Symbols_GreekLetters_Total(t *testing.T) {
	// Every table entry must resolve through the single-character branch.
	for glyph, want := range greekLetters {
		got := translate(t, glyph)
		if got != want {
			t.Fatalf("Translate(%q) = %q, want %q", glyph, got, want)
		}
	}
}

func Test_Symbols_SpecialSymbols_Total(t *testing.T) {
	for glyph, want := range specialSymbols {
		got := translate(t, glyph)
		if got != want {
			t.Fatalf("Translate(%q) = %q, want %q", glyph, got, want)
		}
	}
}

func Test_Symbols_Replacer(t *testing.T) {
	cases := []struct{ in, want string }{
		{"α+β", "\\alpha+\\beta"},
		{"Δx", "\\Deltax"},
		{"x∞", "x\\infty"},
		{"plain ascii", "plain ascii"},
	}
	for _, tc := range cases {
		if got := replaceSymbols(tc.in); got != tc.want {
			t.Fatalf("replaceSymbols(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func Test_Symbols_LookupUnit(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"m", "\\mathrm{m}", true},
		{"N", "\\mathrm{N}", true},
		{"n", "\\mathrm{n}", true},
		{"newton", "\\mathrm{N}", true},
		{"Newton", "\\mathrm{N}", true},
		{"KG", "\\mathrm{kg}", true},
		{"hz", "\\mathrm{Hz}", true},
		{"parsec", "", false},
	}
	for _, tc := range cases {
		got, ok := lookupUnit(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("lookupUnit(%q) = %q, %v, want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func Test_Symbols_UnitOrUpright(t *testing.T) {
	if got := unitOrUpright("J"); got != "\\mathrm{J}" {
		t.Fatalf("unitOrUpright(J) = %q", got)
	}
	if got := unitOrUpright("widget"); got != "\\mathrm{widget}" {
		t.Fatalf("unitOrUpright(widget) = %q", got)
	}
}

func Test_Symbols_ApplyFunctions_AbsTemplate(t *testing.T) {
	// abs is the one entry that wraps instead of prefixing.
	if tmpl := applyFunctions["abs"]; tmpl != "\\left|#\\right|" {
		t.Fatalf("abs template = %q", tmpl)
	}
}
