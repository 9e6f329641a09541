package extract

import (
	"github.com/countfunc/countfunc/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Visitor is invoked once per function declaration found during Traverse.
// Returning false stops the traversal.
type Visitor interface {
	VisitFunctionDecl(decl *FunctionDecl) bool
}

// VisitorFunc adapts an ordinary function to the Visitor interface.
type VisitorFunc func(decl *FunctionDecl) bool

// VisitFunctionDecl calls f(decl).
func (f VisitorFunc) VisitFunctionDecl(decl *FunctionDecl) bool {
	return f(decl)
}

// Traverse walks the whole tree depth-first in pre-order and calls v for
// every function declaration, in source order. It reports whether the
// traversal ran to completion.
func Traverse(result *parser.ParseResult, v Visitor) bool {
	completed := true
	result.WalkNodes(func(node *sitter.Node) bool {
		for _, decl := range FunctionDecls(result, node) {
			if !v.VisitFunctionDecl(decl) {
				completed = false
				return false
			}
		}
		return true
	})
	return completed
}

// QualifiedNames returns the qualified names of every function declaration
// in the tree, in source order, with duplicates.
func QualifiedNames(result *parser.ParseResult) []string {
	var names []string
	Traverse(result, VisitorFunc(func(decl *FunctionDecl) bool {
		names = append(names, decl.QualifiedName)
		return true
	}))
	return names
}
