package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// newCppParser creates a tree-sitter parser configured for C++.
func newCppParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	return parser
}

// CppScopeNodeTypes maps tree-sitter node types that open a named scope to
// the kind of scope they open. Function names declared inside these nodes
// are qualified with the scope's name.
var CppScopeNodeTypes = map[string]string{
	"namespace_definition": "namespace",
	"class_specifier":      "class",
	"struct_specifier":     "struct",
	"union_specifier":      "union",
}

// GetCppScopeKind returns the scope kind for a tree-sitter node,
// or an empty string if the node does not open a scope.
func GetCppScopeKind(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return CppScopeNodeTypes[node.Type()]
}
