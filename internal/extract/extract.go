// Package extract recognises function declarations in C and C++ syntax trees
// and computes their qualified names.
//
// A function declaration is a function_definition, or a declaration /
// field_declaration whose declarator resolves (through pointer, reference,
// attributed and parenthesised declarators) to a function_declarator that
// names something. Function pointer variables such as `int (*fp)(int)` are
// not declarations of a function and are skipped.
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// AnonymousNamespace is the scope name used for unnamed namespaces.
const AnonymousNamespace = "(anonymous namespace)"

// anonymousRecord is the scope name used for unnamed classes, structs and unions.
const anonymousRecord = "(anonymous)"

// nameNodeTypes are the declarator leaves that carry a function name.
var nameNodeTypes = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"qualified_identifier": true,
	"operator_name":        true,
	"destructor_name":      true,
	"template_function":    true,
	"operator_cast":        true,
}

// wrapperDeclaratorTypes are declarators that wrap another declarator
// without changing what kind of entity is declared.
var wrapperDeclaratorTypes = map[string]bool{
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"attributed_declarator":    true,
	"parenthesized_declarator": true,
}

// innerDeclarator returns the declarator wrapped by node. Pointer declarators
// expose it as a field; reference, attributed and parenthesised declarators
// only as a named child.
func innerDeclarator(node *sitter.Node) *sitter.Node {
	if d := node.ChildByFieldName("declarator"); d != nil {
		return d
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		t := child.Type()
		if nameNodeTypes[t] || wrapperDeclaratorTypes[t] || t == "function_declarator" {
			return child
		}
	}
	return nil
}

// resolveFunctionDeclarator follows declarator wrappers down from node and
// returns the function_declarator (or operator_cast) that names a function,
// or nil when node declares something else.
func resolveFunctionDeclarator(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch t := node.Type(); {
		case t == "operator_cast":
			return node
		case t == "qualified_identifier":
			// A::operator bool() is spelled without a function_declarator.
			if innermostName(node).Type() == "operator_cast" {
				return node
			}
			return nil
		case t == "function_declarator":
			inner := node.ChildByFieldName("declarator")
			if inner == nil {
				return nil
			}
			if nameNodeTypes[unparen(inner).Type()] {
				return node
			}
			// int (*f(int))(char) declares f; int (*fp)(int) declares a pointer.
			return resolveFunctionDeclarator(inner)
		case wrapperDeclaratorTypes[t]:
			node = innerDeclarator(node)
		default:
			return nil
		}
	}
	return nil
}

// unparen strips parenthesised declarators, so `int (f)(int)` names f.
func unparen(node *sitter.Node) *sitter.Node {
	for node.Type() == "parenthesized_declarator" {
		inner := innerDeclarator(node)
		if inner == nil {
			break
		}
		node = inner
	}
	return node
}

// innermostName follows the name fields of nested qualified identifiers.
func innermostName(node *sitter.Node) *sitter.Node {
	for node.Type() == "qualified_identifier" {
		name := node.ChildByFieldName("name")
		if name == nil {
			break
		}
		node = name
	}
	return node
}

// declaratorName returns the scopes spelled in a declarator name and the
// unqualified function name.
func declaratorName(node *sitter.Node, source []byte) ([]string, string) {
	if node == nil {
		return nil, ""
	}

	switch node.Type() {
	case "function_declarator":
		return declaratorName(node.ChildByFieldName("declarator"), source)
	case "parenthesized_declarator":
		return declaratorName(innerDeclarator(node), source)
	case "qualified_identifier":
		var scopes []string
		if scope := node.ChildByFieldName("scope"); scope != nil {
			scopes = append(scopes, scopeNames(scope, source)...)
		}
		inner, name := declaratorName(node.ChildByFieldName("name"), source)
		return append(scopes, inner...), name
	case "template_function":
		return declaratorName(node.ChildByFieldName("name"), source)
	case "operator_name":
		return nil, normalizeOperator(node.Content(source))
	case "operator_cast":
		return nil, "operator " + conversionType(node, source)
	case "destructor_name":
		return nil, strings.Join(strings.Fields(node.Content(source)), "")
	default:
		return nil, strings.TrimSpace(node.Content(source))
	}
}

// conversionType renders the target type of a conversion operator: the text
// between the operator keyword and the parameter list, spelled with a
// single space before each pointer or reference run ("const char *").
func conversionType(node *sitter.Node, source []byte) string {
	end := node.EndByte()
	if params := findDescendant(node, "parameter_list"); params != nil {
		end = params.StartByte()
	}
	text := string(source[node.StartByte():end])
	text = strings.TrimPrefix(strings.TrimSpace(text), "operator")
	return normalizeTypeSpelling(text)
}

// findDescendant returns the first node of type nodeType under node in
// pre-order, or nil.
func findDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(int(i))
		if child.Type() == nodeType {
			return child
		}
		if found := findDescendant(child, nodeType); found != nil {
			return found
		}
	}
	return nil
}

// normalizeTypeSpelling collapses whitespace and separates runs of '*' and
// '&' from the words before them: "const char*" becomes "const char *",
// "char* const" becomes "char *const" and "T&&" becomes "T &&".
func normalizeTypeSpelling(text string) string {
	var b strings.Builder
	inDeclarator := false
	for _, field := range strings.Fields(text) {
		for _, r := range field {
			isDeclarator := r == '*' || r == '&'
			if isDeclarator && !inDeclarator && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			inDeclarator = isDeclarator
		}
		inDeclarator = false
		b.WriteByte(' ')
	}
	spelled := collapseSpaces(b.String())
	spelled = strings.ReplaceAll(spelled, "* ", "*")
	return strings.ReplaceAll(spelled, "& ", "&")
}

// scopeNames renders a scope node (namespace_identifier, type_identifier,
// template_type, nested qualifiers) as a list of scope names, dropping any
// template arguments.
func scopeNames(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "template_type":
		if name := node.ChildByFieldName("name"); name != nil {
			return []string{name.Content(source)}
		}
	case "qualified_identifier", "nested_namespace_specifier":
		var names []string
		for i := uint32(0); i < node.NamedChildCount(); i++ {
			names = append(names, scopeNames(node.NamedChild(int(i)), source)...)
		}
		return names
	}
	return splitScope(node.Content(source))
}

// splitScope splits a textual scope like "a::b<int>" into ["a", "b"].
func splitScope(text string) []string {
	var names []string
	for _, part := range strings.Split(stripTemplateArgs(text), "::") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// stripTemplateArgs removes every balanced <...> group from text.
func stripTemplateArgs(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeOperator renders an operator function name the way C++ front
// ends print it: "operator <<" becomes "operator<<" while keyword and
// conversion operators keep a single space ("operator new[]").
func normalizeOperator(text string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "operator"))
	if rest == "" {
		return "operator"
	}
	first := rest[0]
	if first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') {
		rest = collapseSpaces(rest)
		rest = strings.ReplaceAll(rest, " [", "[")
		rest = strings.ReplaceAll(rest, "[ ]", "[]")
		return "operator " + rest
	}
	return "operator" + strings.Join(strings.Fields(rest), "")
}

// collapseSpaces replaces every run of whitespace with a single space.
func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
