package tooling

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/countfunc/countfunc/internal/parser"
)

// Consumer receives the syntax tree of one translation unit.
type Consumer interface {
	HandleTranslationUnit(ctx context.Context, tu *parser.ParseResult)
}

// ConsumerFunc adapts an ordinary function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, tu *parser.ParseResult)

// HandleTranslationUnit calls f(ctx, tu).
func (f ConsumerFunc) HandleTranslationUnit(ctx context.Context, tu *parser.ParseResult) {
	f(ctx, tu)
}

// FrontendAction binds a Consumer to the front end for one input file.
type FrontendAction interface {
	CreateConsumer(file string, lang parser.Language) (Consumer, error)
}

// ActionFactory creates a fresh FrontendAction for each input file.
type ActionFactory func() FrontendAction

// ArgumentsAdjuster rewrites a compile command line before it is used.
type ArgumentsAdjuster func(args []string, file string) []string

// InsertArguments returns an adjuster that inserts extra arguments after the
// compiler (before=true) or at the end of the command line.
func InsertArguments(extra []string, before bool) ArgumentsAdjuster {
	return func(args []string, _ string) []string {
		if len(extra) == 0 {
			return args
		}
		adjusted := make([]string, 0, len(args)+len(extra))
		if before && len(args) > 0 {
			adjusted = append(adjusted, args[0])
			adjusted = append(adjusted, extra...)
			return append(adjusted, args[1:]...)
		}
		adjusted = append(adjusted, args...)
		return append(adjusted, extra...)
	}
}

// FileError records why one input file failed.
type FileError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// Tool runs a front-end action over each source file, one at a time, in
// order.
type Tool struct {
	db             CompilationDatabase
	sources        []string
	adjusters      []ArgumentsAdjuster
	headerLanguage parser.Language
	errOut         io.Writer
	failures       []*FileError
}

// NewTool creates a tool for sources. A nil db compiles every file without
// flags.
func NewTool(db CompilationDatabase, sources []string) *Tool {
	return &Tool{
		db:             db,
		sources:        sources,
		headerLanguage: parser.Cpp,
		errOut:         os.Stderr,
	}
}

// AppendArgumentsAdjuster adds an adjuster applied to every compile command.
func (t *Tool) AppendArgumentsAdjuster(adjuster ArgumentsAdjuster) {
	t.adjusters = append(t.adjusters, adjuster)
}

// SetHeaderLanguage sets the grammar used for ambiguous ".h" files.
func (t *Tool) SetHeaderLanguage(lang parser.Language) {
	t.headerLanguage = lang
}

// SetErrorOutput sets where per-file failures are reported.
func (t *Tool) SetErrorOutput(w io.Writer) {
	t.errOut = w
}

// Failures returns the per-file failures of the last Run.
func (t *Tool) Failures() []*FileError {
	return t.failures
}

// Run runs an action created by newAction over every source. It returns 0
// when every file was parsed cleanly and 1 otherwise, including when there
// are no sources. Files with syntax errors are still handed to the consumer.
func (t *Tool) Run(ctx context.Context, newAction ActionFactory) int {
	t.failures = nil
	if len(t.sources) == 0 {
		return 1
	}

	for _, file := range t.sources {
		if err := ctx.Err(); err != nil {
			t.fail(file, err)
			continue
		}
		if err := t.runOne(ctx, newAction(), file); err != nil {
			t.fail(file, err)
		}
	}

	if len(t.failures) > 0 {
		return 1
	}
	return 0
}

func (t *Tool) fail(file string, err error) {
	fe := &FileError{File: file, Err: err}
	t.failures = append(t.failures, fe)
	fmt.Fprintf(t.errOut, "Error while processing %s: %v\n", file, err)
}

func (t *Tool) runOne(ctx context.Context, action FrontendAction, file string) error {
	args := t.commandFor(file)
	lang := LanguageForCommand(file, args, t.headerLanguage)
	if lang == "" {
		return &parser.UnsupportedLanguageError{Language: filepath.Ext(file)}
	}

	p, err := parser.NewParser(lang)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.ParseFile(ctx, file)
	if err != nil {
		return err
	}
	defer result.Close()

	consumer, err := action.CreateConsumer(file, lang)
	if err != nil {
		return fmt.Errorf("creating consumer: %w", err)
	}
	consumer.HandleTranslationUnit(ctx, result)
	if err := ctx.Err(); err != nil {
		return err
	}

	if pe := result.FirstError(); pe != nil {
		return pe
	}
	return nil
}

// commandFor returns the adjusted command line used for file.
func (t *Tool) commandFor(file string) []string {
	var args []string
	if t.db != nil {
		if cmds := t.db.CompileCommands(file); len(cmds) > 0 {
			args = cmds[0].Arguments
		}
	}
	if len(args) == 0 {
		args = []string{defaultCompiler(file), file}
	}
	for _, adjust := range t.adjusters {
		args = adjust(args, file)
	}
	return args
}
