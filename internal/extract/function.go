package extract

import (
	"strings"

	"github.com/countfunc/countfunc/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// FunctionDecl is one function declared or defined in a syntax tree.
type FunctionDecl struct {
	// Name is the unqualified function name, e.g. "draw" or "operator<<".
	Name string
	// QualifiedName includes enclosing namespace and class scopes, e.g. "ns::Widget::draw".
	QualifiedName string
	// Node is the declaration or definition node.
	Node *sitter.Node
	// Declarator is the function_declarator (or operator_cast) naming the function.
	Declarator *sitter.Node
	// Line is the 1-based line of the declarator.
	Line uint32
	// IsDefinition is true when the node carries a function body.
	IsDefinition bool
}

// FunctionDecls returns the functions declared by node. A definition
// declares exactly one function; a declaration may declare none (a variable)
// or several (`int f(), g();`).
func FunctionDecls(result *parser.ParseResult, node *sitter.Node) []*FunctionDecl {
	if !parser.IsDeclarationNode(node) {
		return nil
	}

	if parser.IsFunctionDefinition(node) {
		fd := resolveFunctionDeclarator(node.ChildByFieldName("declarator"))
		if fd == nil {
			return nil
		}
		return []*FunctionDecl{newFunctionDecl(result, node, fd, true)}
	}

	blockScope := inBlockScope(node)

	var decls []*FunctionDecl
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		t := child.Type()
		if t != "function_declarator" && t != "operator_cast" && !wrapperDeclaratorTypes[t] {
			continue
		}
		fd := resolveFunctionDeclarator(child)
		if fd == nil {
			continue
		}
		if blockScope && !isBlockScopePrototype(result, fd) {
			continue
		}
		decls = append(decls, newFunctionDecl(result, node, fd, false))
	}
	return decls
}

func newFunctionDecl(result *parser.ParseResult, node, declarator *sitter.Node, definition bool) *FunctionDecl {
	spelled, name := declaratorName(declarator, result.Source)
	scopes := append(enclosingScopes(node, result.Source), spelled...)

	return &FunctionDecl{
		Name:          name,
		QualifiedName: qualify(scopes, name),
		Node:          node,
		Declarator:    declarator,
		Line:          declarator.StartPoint().Row + 1,
		IsDefinition:  definition,
	}
}

// qualify joins scopes and name with "::".
func qualify(scopes []string, name string) string {
	if len(scopes) == 0 {
		return name
	}
	return strings.Join(scopes, "::") + "::" + name
}

// enclosingScopes returns the namespace and class names enclosing node,
// outermost first. Friend declarations belong to the namespace around the
// befriending class, so the nearest class is skipped for them. A class
// local to a function is scoped by that function, spelled "f()". A
// function declared at block scope belongs to the nearest namespace.
func enclosingScopes(node *sitter.Node, source []byte) []string {
	var scopes []string
	friend := false
	namespacesOnly := false

	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parser.IsFunctionDefinition(parent) {
			if len(scopes) == 0 {
				namespacesOnly = true
				continue
			}
			if name := definitionName(parent, source); name != "" {
				scopes = append(scopes, name+"()")
				break
			}
			continue
		}

		switch parser.GetCppScopeKind(parent) {
		case "":
			if parent.Type() == "friend_declaration" {
				friend = true
			}
		case "namespace":
			name := parent.ChildByFieldName("name")
			if name == nil {
				scopes = append(scopes, AnonymousNamespace)
				continue
			}
			names := scopeNames(name, source)
			for i := len(names) - 1; i >= 0; i-- {
				scopes = append(scopes, names[i])
			}
		default:
			if friend {
				friend = false
				continue
			}
			if namespacesOnly {
				continue
			}
			name := parent.ChildByFieldName("name")
			if name == nil {
				scopes = append(scopes, anonymousRecord)
				continue
			}
			names := scopeNames(name, source)
			for i := len(names) - 1; i >= 0; i-- {
				scopes = append(scopes, names[i])
			}
		}
	}

	// Collected innermost first.
	for i, j := 0, len(scopes)-1; i < j; i, j = i+1, j-1 {
		scopes[i], scopes[j] = scopes[j], scopes[i]
	}
	return scopes
}

// definitionName returns the qualified name of the function defined by def,
// or "" when def does not name one.
func definitionName(def *sitter.Node, source []byte) string {
	fd := resolveFunctionDeclarator(def.ChildByFieldName("declarator"))
	if fd == nil {
		return ""
	}
	spelled, name := declaratorName(fd, source)
	return qualify(append(enclosingScopes(def, source), spelled...), name)
}

// inBlockScope reports whether node sits inside a function body.
func inBlockScope(node *sitter.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Type() {
		case "compound_statement":
			return true
		case "field_declaration_list", "declaration_list", "translation_unit":
			return false
		}
	}
	return false
}

// ambiguousParameterTypes are parameter types that may equally be a
// variable or expression name in an initializer: `Widget w(size);`.
var ambiguousParameterTypes = map[string]bool{
	"type_identifier":      true,
	"qualified_identifier": true,
	"template_type":        true,
}

// isBlockScopePrototype reports whether fd, declared inside a function
// body, must be a function rather than a direct-initialised variable.
// In C every such declarator is a prototype. In C++ it is one unless each
// parameter is a bare name that could also be an initializer expression.
func isBlockScopePrototype(result *parser.ParseResult, fd *sitter.Node) bool {
	if result.Language == parser.C {
		return true
	}
	if fd.Type() != "function_declarator" {
		return true
	}
	params := fd.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return true
	}

	for i := uint32(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(int(i))
		if param.Type() != "parameter_declaration" {
			return true
		}
		if param.ChildByFieldName("declarator") != nil || param.NamedChildCount() != 1 {
			return true
		}
		typ := param.ChildByFieldName("type")
		if typ == nil || !ambiguousParameterTypes[typ.Type()] {
			return true
		}
	}
	return false
}
