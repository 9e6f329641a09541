package extract

import (
	"reflect"
	"testing"

	"github.com/countfunc/countfunc/internal/parser"
)

func parseCode(t *testing.T, lang parser.Language, code string) *parser.ParseResult {
	t.Helper()
	p, err := parser.NewParser(lang)
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(code))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return result
}

func TestQualifiedNames(t *testing.T) {
	tests := []struct {
		name string
		lang parser.Language
		code string
		want []string
	}{
		{
			name: "duplicate definitions",
			lang: parser.Cpp,
			code: "int foo() {}\nint foo() {}\n",
			want: []string{"foo", "foo"},
		},
		{
			name: "namespace and global prototypes",
			lang: parser.Cpp,
			code: "namespace ns { void f(); }\nvoid f();\n",
			want: []string{"ns::f", "f"},
		},
		{
			name: "class members and out-of-line definition",
			lang: parser.Cpp,
			code: `namespace ns {
class W {
public:
    void draw() const;
    static int count();
    virtual void tick() = 0;
    int size_;
};
}
void ns::W::draw() const {}
`,
			want: []string{"ns::W::draw", "ns::W::count", "ns::W::tick", "ns::W::draw"},
		},
		{
			name: "out-of-line definition inside namespace",
			lang: parser.Cpp,
			code: "namespace ns {\nstruct W { void d(); };\nvoid W::d() {}\n}\n",
			want: []string{"ns::W::d", "ns::W::d"},
		},
		{
			name: "destructor",
			lang: parser.Cpp,
			code: "struct W { ~W(); };\nW::~W() {}\n",
			want: []string{"W::~W", "W::~W"},
		},
		{
			name: "function pointers are not functions",
			lang: parser.Cpp,
			code: "int (*fp)(int);\nint *f(int);\nint &g();\n",
			want: []string{"f", "g"},
		},
		{
			name: "several declarators in one declaration",
			lang: parser.Cpp,
			code: "int f(), g(), x;\n",
			want: []string{"f", "g"},
		},
		{
			name: "anonymous namespace",
			lang: parser.Cpp,
			code: "namespace { void h() {} }\n",
			want: []string{"(anonymous namespace)::h"},
		},
		{
			name: "template arguments are dropped",
			lang: parser.Cpp,
			code: `template <typename T>
struct Box {
    T get() const;
};

template <typename T>
T Box<T>::get() const { return T(); }
`,
			want: []string{"Box::get", "Box::get"},
		},
		{
			name: "operators",
			lang: parser.Cpp,
			code: "struct V {\n    V operator+(const V &o) const;\n    bool operator==(const V &o) const;\n};\n",
			want: []string{"V::operator+", "V::operator=="},
		},
		{
			name: "friend belongs to enclosing namespace",
			lang: parser.Cpp,
			code: "namespace ns {\nclass W {\n    friend void swap(W &a, W &b);\n};\n}\n",
			want: []string{"ns::swap"},
		},
		{
			name: "extern C is transparent",
			lang: parser.Cpp,
			code: "extern \"C\" {\nint c_api(void);\n}\n",
			want: []string{"c_api"},
		},
		{
			name: "block scope prototypes belong to the namespace",
			lang: parser.Cpp,
			code: `namespace ns {
int main() {
    int helper(int);
    void h();
    Widget w(size);
    return 0;
}
}
`,
			want: []string{"ns::main", "ns::helper", "ns::h"},
		},
		{
			name: "block scope prototypes in C",
			lang: parser.C,
			code: "int main(void) {\n    int helper(int);\n    return helper(1);\n}\n",
			want: []string{"main", "helper"},
		},
		{
			name: "conversion operators keep the full target type",
			lang: parser.Cpp,
			code: `struct S {
    operator const char*() const;
    operator char() const;
    operator int&();
};
`,
			want: []string{"S::operator const char *", "S::operator char", "S::operator int &"},
		},
		{
			name: "local classes are scoped by their function",
			lang: parser.Cpp,
			code: `struct L { void m(); };
namespace ns {
void g() {
    struct L { void m() {} };
}
}
`,
			want: []string{"L::m", "ns::g", "ns::g()::L::m"},
		},
		{
			name: "parenthesised function name",
			lang: parser.Cpp,
			code: "int (f)(int);\nint (*fp)(int);\n",
			want: []string{"f"},
		},
		{
			name: "C definitions and prototypes",
			lang: parser.C,
			code: `static int add(int a, int b) { return a + b; }
int printf(const char *fmt, ...);
struct ops {
    int (*open)(void);
};
`,
			want: []string{"add", "printf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCode(t, tt.lang, tt.code)
			defer result.Close()

			got := QualifiedNames(result)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QualifiedNames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionDecls_Metadata(t *testing.T) {
	code := `int proto(int);

int defined(int x) {
    return x;
}
`
	result := parseCode(t, parser.Cpp, code)
	defer result.Close()

	var decls []*FunctionDecl
	Traverse(result, VisitorFunc(func(decl *FunctionDecl) bool {
		decls = append(decls, decl)
		return true
	}))

	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}

	if decls[0].Name != "proto" || decls[0].IsDefinition {
		t.Errorf("decl 0: expected prototype 'proto', got %q (definition=%v)", decls[0].Name, decls[0].IsDefinition)
	}
	if decls[0].Line != 1 {
		t.Errorf("decl 0: expected line 1, got %d", decls[0].Line)
	}

	if decls[1].Name != "defined" || !decls[1].IsDefinition {
		t.Errorf("decl 1: expected definition 'defined', got %q (definition=%v)", decls[1].Name, decls[1].IsDefinition)
	}
	if decls[1].Line != 3 {
		t.Errorf("decl 1: expected line 3, got %d", decls[1].Line)
	}
	if decls[1].Node.Type() != "function_definition" {
		t.Errorf("decl 1: expected function_definition node, got %s", decls[1].Node.Type())
	}
}

func TestTraverse_Stops(t *testing.T) {
	result := parseCode(t, parser.C, "void a(void);\nvoid b(void);\nvoid c(void);\n")
	defer result.Close()

	visited := 0
	completed := Traverse(result, VisitorFunc(func(decl *FunctionDecl) bool {
		visited++
		return visited < 2
	}))

	if completed {
		t.Error("expected Traverse to report an early stop")
	}
	if visited != 2 {
		t.Errorf("expected 2 visits, got %d", visited)
	}
}

func TestNormalizeOperator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"operator+", "operator+"},
		{"operator <<", "operator<<"},
		{"operator ( )", "operator()"},
		{"operator new", "operator new"},
		{"operator new [ ]", "operator new[]"},
		{"operator  delete[]", "operator delete[]"},
		{`operator "" _km`, `operator""_km`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeOperator(tt.in); got != tt.want {
				t.Errorf("normalizeOperator(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTypeSpelling(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"char", "char"},
		{" const  char*", "const char *"},
		{"char **", "char **"},
		{"char* *", "char **"},
		{"char * const", "char *const"},
		{"T&&", "T &&"},
		{"std::string const&", "std::string const &"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeTypeSpelling(tt.in); got != tt.want {
				t.Errorf("normalizeTypeSpelling(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitScope(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ns", []string{"ns"}},
		{"a::b", []string{"a", "b"}},
		{"Box<std::vector<int>>", []string{"Box"}},
		{"::a", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitScope(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitScope(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
