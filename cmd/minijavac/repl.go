package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/Ozzcarr/minijava-compiler/internal/compiler"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
)

const (
	historyFile = ".minijavac_history"
	promptMain  = "mj> "
	promptCont  = "... "
	replFile    = "<repl>"
)

var (
	banner   = "MiniJava checker REPL\nEnter a program or statements. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit."
	helpText = `
REPL commands:
  :help    Show this help
  :quit    Exit the REPL

Input that starts with "class" is checked as a whole program. Anything else
is checked as the body of main.
`
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func cmdRepl(_ []string) int {
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
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
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

	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":help":
				fmt.Print(helpText)
			default:
				fmt.Println("unknown command. Type :help for help.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		diags, err := checkSnippet(context.Background(), code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		printSnippetResult(os.Stdout, diags)
	}
	return 0
}

// readBalanced reads lines until every opened brace is closed. The second
// result is false on end of input.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending input
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// braceDepth returns the number of '{' not yet closed by '}'. Braces inside
// line and block comments are ignored.
func braceDepth(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return depth
			}
			i += nl
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return depth
			}
			i += end + 3
		case src[i] == '{':
			depth++
		case src[i] == '}':
			depth--
		}
	}
	return depth
}

// mainPrefix wraps statement input. It ends with a newline so statement
// columns are unchanged and lines shift by exactly one.
const mainPrefix = "class Main { public static void main(String[] args) {\n"

// checkSnippet compiles REPL input. Statements are placed in the body of a
// main class and the diagnostics are mapped back to the lines as typed.
func checkSnippet(ctx context.Context, code string) (*diagnostic.Diagnostics, error) {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, "class") || strings.HasPrefix(trimmed, "public class") {
		res, err := compiler.Compile(ctx, code, compiler.Options{File: replFile, Workers: 1})
		if err != nil {
			return nil, err
		}
		return res.Diagnostics, nil
	}

	res, err := compiler.Compile(ctx, mainPrefix+code+"\n} }", compiler.Options{File: replFile, Workers: 1})
	if err != nil {
		return nil, err
	}
	shifted := diagnostic.New()
	for _, d := range res.Diagnostics.All() {
		if d.Line > 0 {
			d.Line--
		}
		shifted.Report(d)
	}
	return shifted, nil
}

func printSnippetResult(w io.Writer, diags *diagnostic.Diagnostics) {
	if diags.Count() == 0 {
		fmt.Fprintln(w, green("ok"))
		return
	}
	out := diags.Format(replFile)
	if diags.HasErrors() {
		out = red(out)
	}
	fmt.Fprintln(w, out)
}
