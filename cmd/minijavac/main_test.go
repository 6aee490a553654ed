package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ozzcarr/minijava-compiler/internal/compiler"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
)

const goodProgram = `class Main {
    public static void main(String[] a) {
        System.out.println(new A().f(1));
    }
}

class A {
    public int f(int n) {
        return n + 1;
    }
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, stderr = runCLI("frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, stdout, _ := runCLI("help")
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "minijavac check")
}

func TestCheckCommand(t *testing.T) {
	good := writeFile(t, "Good.java", goodProgram)
	code, stdout, stderr := runCLI("check", "-j", "2", good)
	assert.Equal(t, compiler.ExitOK, code, stderr)
	assert.Contains(t, stdout, "No errors found.")

	fixture := filepath.Join("..", "..", "internal", "compiler", "testdata", "InvalidReturn.java")
	code, stdout, stderr = runCLI("check", fixture)
	assert.Equal(t, compiler.ExitSemantic, code)
	assert.NotContains(t, stdout, "No errors found.")
	assert.Contains(t, stderr, "InvalidReturnType: method 'MyClass.xyFunc' must return int")
	assert.Contains(t, stderr, "NonIntegerArrayIndex")
}

func TestCheckCommandVerboseAndSymbols(t *testing.T) {
	good := writeFile(t, "Good.java", goodProgram)
	code, stdout, stderr := runCLI("check", "-v", "-symbols", good)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "Class: A\n")
	assert.Contains(t, stdout, "Method: f returns int")
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=checking")
}

func TestCheckCommandExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   int
	}{
		{"lexical", "class Main { public static void main(String[] a) { System.out.println(1 # 2); } }", compiler.ExitLexical},
		{"syntax", "class Main { public static void main(String[] a) { System.out.println(1) } }", compiler.ExitSyntax},
		{"semantic", "class Main { public static void main(String[] a) { System.out.println(x); } }", compiler.ExitSemantic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "Prog.java", tt.source)
			code, _, stderr := runCLI("check", path)
			assert.Equal(t, tt.code, code, stderr)
		})
	}
}

func TestCheckCommandMissingFile(t *testing.T) {
	code, _, stderr := runCLI("check", filepath.Join(t.TempDir(), "nope.java"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "nope.java")

	code, _, _ = runCLI("check")
	assert.Equal(t, exitUsage, code)
}

func TestSymbolsAndASTCommands(t *testing.T) {
	path := writeFile(t, "Good.java", goodProgram)

	code, stdout, _ := runCLI("symbols", path)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "Param: n of type int")

	code, stdout, _ = runCLI("ast", path)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "MainClass: Main")

	bad := writeFile(t, "Bad.java", "class Main {")
	code, _, stderr := runCLI("ast", bad)
	assert.Equal(t, compiler.ExitSyntax, code)
	assert.Contains(t, stderr, "SyntaxError")
}

func TestLintCommand(t *testing.T) {
	path := writeFile(t, "Lint.java", goodProgram+"class lower { public void f(int unused) { } }\n")
	code, stdout, _ := runCLI("lint", path)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "class 'lower' should use PascalCase")
	assert.Contains(t, stdout, "warning(s) found.")

	clean := writeFile(t, "Clean.java", goodProgram)
	_, stdout, _ = runCLI("lint", clean)
	assert.Contains(t, stdout, "No lint warnings.")
}

func TestFmtCommand(t *testing.T) {
	messy := "class Main{public static void main(String[] a){System.out.println(1+2);}}"
	path := writeFile(t, "Messy.java", messy)

	code, stdout, _ := runCLI("fmt", "-check", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, path)

	code, stdout, _ = runCLI("fmt", path)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Contains(t, stdout, "        System.out.println(1 + 2);\n")

	code, _, _ = runCLI("fmt", "-w", path)
	assert.Equal(t, compiler.ExitOK, code)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(written))

	code, stdout, _ = runCLI("fmt", "-check", path)
	assert.Equal(t, compiler.ExitOK, code)
	assert.Empty(t, stdout)
}

func TestBraceDepth(t *testing.T) {
	tests := []struct {
		src   string
		depth int
	}{
		{"", 0},
		{"class A {", 1},
		{"class A { int x; }", 0},
		{"class A { // }", 1},
		{"class A { /* } */", 1},
		{"class A { /* }", 1},
		{"{ {\n} // {\n}", 0},
		{"}", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.depth, braceDepth(tt.src), "%q", tt.src)
	}
}

func TestCheckSnippet(t *testing.T) {
	diags, err := checkSnippet(context.Background(), "int x;\nx = true;")
	require.NoError(t, err)
	require.Equal(t, 1, diags.Count(), diags.Format(replFile))
	d := diags.All()[0]
	assert.Equal(t, diagnostic.TypeMismatch, d.Kind)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)

	diags, err = checkSnippet(context.Background(), goodProgram)
	require.NoError(t, err)
	assert.Zero(t, diags.Count())

	var out bytes.Buffer
	printSnippetResult(&out, diags)
	assert.Contains(t, out.String(), "ok")
}
