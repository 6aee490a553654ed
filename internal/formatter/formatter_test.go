package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ozzcarr/minijava-compiler/internal/parser"
)

// helper: parse source, format, return formatted string
func formatSource(t *testing.T, source string) string {
	t.Helper()
	p := parser.New(source)
	prog := p.Parse()
	require.False(t, p.Diagnostics().HasErrors(), "parse error: %s", p.Diagnostics().Format("<test>"))
	return Format(prog)
}

func wrapMain(stmts string) string {
	return "class Main { public static void main(String[] args) { " + stmts + " } }"
}

func TestFormatMainClass(t *testing.T) {
	got := formatSource(t, `public class Main{public static void main(String[]a){System.out.println(1);}}`)
	assert.Equal(t, `class Main {
    public static void main(String[] a) {
        System.out.println(1);
    }
}
`, got)
}

func TestFormatClassDecl(t *testing.T) {
	src := wrapMain("") + `
class B extends A { int[] xs; A other; public boolean f(int a,boolean b){int y;y=a;return b;} public void g(){ } }`
	got := formatSource(t, src)
	assert.Equal(t, `class Main {
    public static void main(String[] args) {
    }
}

class B extends A {
    int[] xs;
    A other;

    public boolean f(int a, boolean b) {
        int y;
        y = a;
        return b;
    }

    public void g() {
    }
}
`, got)
}

func TestFormatStatements(t *testing.T) {
	tests := []struct {
		name   string
		stmts  string
		expect string
	}{
		{"assign", "x=1;", "        x = 1;\n"},
		{"array assign", "xs[i+1]=2;", "        xs[i + 1] = 2;\n"},
		{"print", "System.out.println(a.f(1,2));", "        System.out.println(a.f(1, 2));\n"},
		{"block", "{x=1;}", "        {\n            x = 1;\n        }\n"},
		{
			"if else blocks",
			"if(a){x=1;}else{x=2;}",
			"        if (a) {\n            x = 1;\n        } else {\n            x = 2;\n        }\n",
		},
		{
			"if else unbraced",
			"if(a)x=1;else x=2;",
			"        if (a)\n            x = 1;\n        else\n            x = 2;\n",
		},
		{
			"else if chain",
			"if(a){x=1;}else if(b){x=2;}else{x=3;}",
			"        if (a) {\n            x = 1;\n        } else if (b) {\n            x = 2;\n        } else {\n            x = 3;\n        }\n",
		},
		{"if without else", "if(a)x=1;", "        if (a)\n            x = 1;\n"},
		{"while", "while(i<n){i=i+1;}", "        while (i < n) {\n            i = i + 1;\n        }\n"},
		{"while unbraced", "while(b)b=false;", "        while (b)\n            b = false;\n"},
		{
			"dangling else stays outer",
			"if(a)if(b)x=1;else{}else x=2;",
			"        if (a) {\n            if (b)\n                x = 1;\n            else {\n            }\n        } else\n            x = 2;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSource(t, wrapMain(tt.stmts))
			want := "class Main {\n    public static void main(String[] args) {\n" + tt.expect + "    }\n}\n"
			assert.Equal(t, want, got)
		})
	}
}

func TestFormatExpressions(t *testing.T) {
	tests := []struct {
		source string
		expect string
	}{
		{"a+b*c", "a + b * c"},
		{"(a+b)*c", "(a + b) * c"},
		{"a-(b-c)", "a - (b - c)"},
		{"(a-b)-c", "a - b - c"},
		{"a<b&&c<d||e", "a < b && c < d || e"},
		{"a&&(b||c)", "a && (b || c)"},
		{"!(a&&b)", "!(a && b)"},
		{"!!a", "!!a"},
		{"(!a).f()", "(!a).f()"},
		{"(new int[n]).length", "(new int[n]).length"},
		{"new int[n+1]", "new int[n + 1]"},
		{"new T().g(this,true)", "new T().g(this, true)"},
		{"xs[(i)]", "xs[i]"},
		{"(a+b).length", "(a + b).length"},
		{"a==b==c", "a == b == c"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := formatSource(t, wrapMain("x = "+tt.source+";"))
			assert.Contains(t, got, "x = "+tt.expect+";\n")
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	src := `class Main { public static void main(String[] a) { System.out.println(new Fac().compute(10)); } }
class Fac {
  int[] memo;
  public int compute(int num) {
    int result; boolean done;
    if (num < 1) result = 1; else result = num * (this.compute(num - 1));
    done = !(result < 0) && true;
    while (done) { done = false; }
    return result;
  }
}
class Sub extends Fac { public int compute(int n) { return (new int[n]).length; } }`

	first := formatSource(t, src)
	second := formatSource(t, first)
	assert.Equal(t, first, second)
}
