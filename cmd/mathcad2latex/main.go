package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"

	mathcad "github.com/UlrikTJ/Mathcad2LaTex"
)

const (
	appName     = "mathcad2latex"
	historyFile = ".mathcad2latex_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	banner   = fmt.Sprintf("Mathcad2LaTeX %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", mathcad.Version)
	helpText = `
REPL commands:
  :refine  Run another refinement pass over the last result
  :check   Parse the last result as LaTeX math and report problems
  :help    Show this help
  :quit    Exit the REPL
`
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

// splitTrailingComment finds the first '%' that starts a LaTeX comment,
// skipping escaped "\%". Returns left/math and right/comment (starting
// at '%').
func splitTrailingComment(line string) (left, comment string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '%' {
			return line[:i], line[i:], true
		}
	}
	return "", "", false
}

// Colorize produced LaTeX: math in blue, any trailing %-comment in green.
// Multi-line output (matrices) is colored line by line.
func colorizeLatex(latex string) string {
	lines := strings.Split(latex, "\n")
	for i, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		if left, comment, ok := splitTrailingComment(ln); ok {
			lines[i] = blue(left) + green(comment)
		} else {
			lines[i] = blue(ln)
		}
	}
	return strings.Join(lines, "\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		os.Exit(cmdPipeline(os.Args[2:], "convert", mathcad.Convert))
	case "translate":
		os.Exit(cmdPipeline(os.Args[2:], "translate", mathcad.Translate))
	case "refine":
		os.Exit(cmdPipeline(os.Args[2:], "refine", func(s string) (string, error) {
			return mathcad.Refine(s), nil
		}))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "examples":
		os.Exit(cmdExamples(os.Args[2:]))
	case "version":
		fmt.Println(mathcad.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Mathcad2LaTeX %s (built %s)

Usage:
  %s convert [-f FILE] <expr>       Translate tagged Mathcad notation and refine the result.
  %s translate [-f FILE] <expr>     Translate only, skipping the refinement pass.
  %s refine [-f FILE] <latex>       Run the refinement pass over existing LaTeX.
  %s check [-c] [-f FILE] <latex>   Parse LaTeX as math and report syntax problems.
  %s repl                           Start the interactive REPL.
  %s examples                       Convert a built-in tour of tagged forms.
  %s version                        Print the compiled version.

Batch files hold one expression per line; blank lines and #-comments are
skipped. FILE may be "-" for stdin.
`, mathcad.Version, mathcad.BuildDate, appName, appName, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// convert / translate / refine
// -----------------------------------------------------------------------------

// cmdPipeline runs one of the string-to-string operations over a single
// expression or a batch file. Output always goes to stdout; warnings are
// advisory and go to stderr with exit status 1.
func cmdPipeline(args []string, name string, fn func(string) (string, error)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	file := fs.String("f", "", `read expressions from a file, one per line ("-" for stdin)`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *file != "" {
		return runBatch(*file, fn)
	}

	expr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if expr == "" {
		fmt.Fprintf(os.Stderr, "usage: %s %s [-f FILE] <expression>\n", appName, name)
		return 2
	}

	out, err := fn(expr)
	fmt.Println(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(mathcad.WrapErrorWithSource(err, expr).Error()))
		return 1
	}
	return 0
}

func runBatch(path string, fn func(string) (string, error)) int {
	src, err := readInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}

	var done, warned int64
	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out, err := fn(line)
		fmt.Println(out)
		done++
		if err != nil {
			fmt.Fprintln(os.Stderr, red(fmt.Sprintf("%s:%d: %v", path, i+1, err)))
			warned++
		}
	}

	fmt.Fprintf(os.Stderr, "%s expressions (%s) processed, %s with warnings.\n",
		humanize.Comma(done), humanize.Bytes(uint64(len(src))), humanize.Comma(warned))
	if warned > 0 {
		return 1
	}
	return 0
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	convertFirst := fs.Bool("c", false, "input is tagged Mathcad notation; convert before checking")
	file := fs.String("f", "", `read expressions from a file, one per line ("-" for stdin)`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	check := func(expr string) error {
		if *convertFirst {
			out, cerr := mathcad.Convert(expr)
			if cerr != nil {
				return mathcad.WrapErrorWithSource(cerr, expr)
			}
			expr = out
		}
		return mathcad.Validate(expr)
	}

	if *file != "" {
		src, err := readInput(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, *file, err)
			return 1
		}
		var checked, bad int64
		for i, line := range strings.Split(src, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			checked++
			if err := check(line); err != nil {
				fmt.Printf("%s:%d: %s\n", *file, i+1, red(err.Error()))
				bad++
			}
		}
		fmt.Fprintf(os.Stderr, "%s expressions checked, %s with problems.\n",
			humanize.Comma(checked), humanize.Comma(bad))
		if bad > 0 {
			return 1
		}
		return 0
	}

	expr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if expr == "" {
		fmt.Fprintf(os.Stderr, "usage: %s check [-c] [-f FILE] <expression>\n", appName)
		return 2
	}
	if err := check(expr); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	fmt.Println(green("ok"))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) (ret int) {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	last := ""
	for {
		code, ok := readBalanced(ln.Prompt, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":help":
				fmt.Print(helpText)
			case ":refine":
				if last == "" {
					fmt.Println("nothing to refine yet")
					continue
				}
				last = mathcad.Refine(last)
				fmt.Println(colorizeLatex(last))
			case ":check":
				if last == "" {
					fmt.Println("nothing to check yet")
					continue
				}
				if err := mathcad.Validate(last); err != nil {
					fmt.Fprintln(os.Stderr, red(err.Error()))
				} else {
					fmt.Println(green("ok"))
				}
			default:
				fmt.Printf("unknown command. Type :help for commands.\n")
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		out, err := mathcad.Convert(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(mathcad.WrapErrorWithSource(err, code).Error()))
		}
		if out != "" {
			last = out
			fmt.Println(colorizeLatex(out))
		}
		ln.AppendHistory(code)
	}

	return 0
}

// readBalanced keeps prompting until the accumulated input has no open
// parenthesis left, so a tagged form can span multiple lines. Continuation
// lines join with a single space; the splitter treats only spaces as
// top-level separators.
func readBalanced(readLine func(prompt string) (string, error), prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = readLine(prompt)
		} else {
			line, err = readLine(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)

		src := b.String()
		if mathcad.Incomplete(src) {
			continue
		}
		return src, true
	}
}

// -----------------------------------------------------------------------------
// examples
// -----------------------------------------------------------------------------

var exampleExpressions = []string{
	"(+ x y)",
	"(/ α β)",
	"(^ e (* i π))",
	"(@INTEGRAL 0 1 (^ x 2) x)",
	"(@DERIV x 2 (@PARENS (* x y)))",
	"(@PART_DERIV x 2 (@APPLY f (@ARGS x y)))",
	"(@SUM (@IS i 1) 10 (^ i 2))",
	"(@PRODUCT (@IS k 1) n (@APPLY f (@ARGS k)))",
	"(@LIMIT x 0 (@APPLY sin (@ARGS x)))",
	"(@NTHROOT 3 x)",
	"(@APPLY abs (@ARGS (- x y)))",
	"(@SCALE 9.81 (/ m (^ s 2)))",
	"(@RSCALE (@PARENS 42) (@LABEL UNIT J))",
	"(@MATRIX 2 2 a b c d)",
	"(@EQ y (* m x))",
	"(@SYM_EVAL (* 2 2) 4)",
}

func cmdExamples(_ []string) int {
	for _, expr := range exampleExpressions {
		out, err := mathcad.Convert(expr)
		fmt.Printf("Mathcad: %s\n", expr)
		if err != nil {
			fmt.Printf("LaTeX:   %s %s\n", out, red("("+err.Error()+")"))
		} else {
			fmt.Printf("LaTeX:   %s\n", out)
		}
		fmt.Println()
	}
	return 0
}
