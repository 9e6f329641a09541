package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// newCParser creates a tree-sitter parser configured for C.
func newCParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	return parser
}

// DefinitionNodeTypes are node types that always define a function. The
// operator_cast and constructor forms are usually aliased to
// function_definition by the C++ grammar but are listed for completeness.
var DefinitionNodeTypes = map[string]bool{
	"function_definition":                  true,
	"operator_cast_definition":             true,
	"constructor_or_destructor_definition": true,
}

// DeclarationNodeTypes are node types that may declare functions without
// defining them. Callers still need to inspect the declarators, since these
// nodes also declare variables and fields.
var DeclarationNodeTypes = map[string]bool{
	"declaration":                           true,
	"field_declaration":                     true,
	"operator_cast_declaration":             true,
	"constructor_or_destructor_declaration": true,
}

// IsDeclarationNode checks if a tree-sitter node can carry a function
// declaration or definition.
func IsDeclarationNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	return DefinitionNodeTypes[node.Type()] || DeclarationNodeTypes[node.Type()]
}

// IsFunctionDefinition reports whether node is a function body definition.
func IsFunctionDefinition(node *sitter.Node) bool {
	return node != nil && DefinitionNodeTypes[node.Type()]
}
