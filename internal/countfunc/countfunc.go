// Package countfunc collects distinct qualified function names from syntax
// trees into a store.NameSet.
package countfunc

import (
	"context"
	"fmt"
	"io"

	"github.com/countfunc/countfunc/internal/extract"
	"github.com/countfunc/countfunc/internal/logger"
	"github.com/countfunc/countfunc/internal/parser"
	"github.com/countfunc/countfunc/internal/store"
	"github.com/countfunc/countfunc/internal/tooling"
)

// Visitor inserts the qualified name of every visited function declaration
// into a name set.
type Visitor struct {
	names *store.NameSet
	log   logger.Logger
}

// NewVisitor creates a visitor that records into names and logs each visit.
func NewVisitor(names *store.NameSet, log logger.Logger) *Visitor {
	return &Visitor{names: names, log: log}
}

// VisitFunctionDecl records decl and continues the traversal.
func (v *Visitor) VisitFunctionDecl(decl *extract.FunctionDecl) bool {
	v.names.Add(decl.QualifiedName)
	v.log.Logf("visit func: %s", decl.QualifiedName)
	return true
}

// Consumer traverses one translation unit with a Visitor. When dump is
// non-nil the whole tree is written to it before traversal.
type Consumer struct {
	visitor *Visitor
	dump    io.Writer
}

// NewConsumer creates a consumer for one translation unit.
func NewConsumer(visitor *Visitor, dump io.Writer) *Consumer {
	return &Consumer{visitor: visitor, dump: dump}
}

// HandleTranslationUnit visits every function declaration in tu exactly once.
func (c *Consumer) HandleTranslationUnit(ctx context.Context, tu *parser.ParseResult) {
	if c.dump != nil {
		fmt.Fprintf(c.dump, "%s\n", tu.Dump())
	}
	extract.Traverse(tu, extract.VisitorFunc(func(decl *extract.FunctionDecl) bool {
		if ctx.Err() != nil {
			return false
		}
		return c.visitor.VisitFunctionDecl(decl)
	}))
}

// Options configures an Action.
type Options struct {
	// Names receives every qualified name. Required.
	Names *store.NameSet
	// Log receives the per-declaration visit lines. Defaults to a noop logger.
	Log logger.Logger
	// Dump, if set, receives each syntax tree before traversal.
	Dump io.Writer
}

// Action binds a Consumer to one input file.
type Action struct {
	opts Options
}

// NewAction creates an action recording into opts.Names.
func NewAction(opts Options) *Action {
	if opts.Log == nil {
		opts.Log = logger.NewNoopLogger()
	}
	return &Action{opts: opts}
}

// CreateConsumer returns a consumer sharing the action's name set.
func (a *Action) CreateConsumer(file string, lang parser.Language) (tooling.Consumer, error) {
	if a.opts.Names == nil {
		return nil, fmt.Errorf("no name set for %s", file)
	}
	return NewConsumer(NewVisitor(a.opts.Names, a.opts.Log), a.opts.Dump), nil
}

// Factory returns an ActionFactory producing actions that share opts.
func Factory(opts Options) tooling.ActionFactory {
	return func() tooling.FrontendAction {
		return NewAction(opts)
	}
}
