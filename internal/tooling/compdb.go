// Package tooling runs a front-end action over a list of source files.
//
// It provides the compilation database that supplies per-file compiler
// flags, the FrontendAction and Consumer contracts, and Tool, which parses
// each file in order and hands its syntax tree to a fresh consumer.
package tooling

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"
)

// DatabaseFileName is the JSON compilation database file name.
const DatabaseFileName = "compile_commands.json"

// ErrDatabaseNotFound is returned when no compilation database can be found.
var ErrDatabaseNotFound = errors.New("compilation database not found")

// CompileCommand describes how one source file is compiled.
type CompileCommand struct {
	// Directory is the working directory of the compilation.
	Directory string `json:"directory"`
	// File is the main source file, relative to Directory or absolute.
	File string `json:"file"`
	// Arguments is the compiler command line, starting with the compiler.
	Arguments []string `json:"arguments,omitempty"`
	// Command is the unsplit command line; used only when Arguments is empty.
	Command string `json:"command,omitempty"`
}

// CompilationDatabase looks up compile commands for source files.
type CompilationDatabase interface {
	// CompileCommands returns the commands recorded for file. The returned
	// commands always have Arguments populated.
	CompileCommands(file string) []CompileCommand
}

// JSONCompilationDatabase is a compilation database read from
// compile_commands.json.
type JSONCompilationDatabase struct {
	path     string
	commands []CompileCommand
	byFile   map[string][]int
}

// LoadJSONDatabase reads compile_commands.json from dir.
func LoadJSONDatabase(dir string) (*JSONCompilationDatabase, error) {
	path := filepath.Join(dir, DatabaseFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("reading compilation database: %w", err)
	}

	var commands []CompileCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("parsing compilation database %s: %w", path, err)
	}

	db := &JSONCompilationDatabase{
		path:   path,
		byFile: make(map[string][]int, len(commands)),
	}
	for _, cmd := range commands {
		if cmd.File == "" {
			return nil, fmt.Errorf("parsing compilation database %s: entry without \"file\"", path)
		}
		if cmd.Directory == "" {
			cmd.Directory = dir
		}
		if len(cmd.Arguments) == 0 {
			args, err := SplitCommandLine(cmd.Command)
			if err != nil {
				return nil, fmt.Errorf("parsing command for %s: %w", cmd.File, err)
			}
			cmd.Arguments = args
		}
		key := normalizePath(cmd.Directory, cmd.File)
		db.byFile[key] = append(db.byFile[key], len(db.commands))
		db.commands = append(db.commands, cmd)
	}

	return db, nil
}

// Path returns the path of the loaded compile_commands.json.
func (db *JSONCompilationDatabase) Path() string {
	return db.path
}

// CompileCommands returns the commands recorded for file. Relative paths are
// resolved against the current working directory.
func (db *JSONCompilationDatabase) CompileCommands(file string) []CompileCommand {
	cwd, _ := os.Getwd()
	indexes := db.byFile[normalizePath(cwd, file)]
	commands := make([]CompileCommand, 0, len(indexes))
	for _, i := range indexes {
		commands = append(commands, db.commands[i])
	}
	return commands
}

// FixedCompilationDatabase applies the same arguments to every file. It is
// built from the compiler flags given after "--" on the command line.
type FixedCompilationDatabase struct {
	Directory string
	Args      []string
}

// NewFixedCompilationDatabase creates a database that compiles every file in
// directory with args.
func NewFixedCompilationDatabase(directory string, args []string) *FixedCompilationDatabase {
	return &FixedCompilationDatabase{Directory: directory, Args: args}
}

// CompileCommands returns a single command: the compiler, the fixed
// arguments, and file.
func (db *FixedCompilationDatabase) CompileCommands(file string) []CompileCommand {
	args := make([]string, 0, len(db.Args)+2)
	args = append(args, defaultCompiler(file))
	args = append(args, db.Args...)
	args = append(args, file)
	return []CompileCommand{{
		Directory: db.Directory,
		File:      file,
		Arguments: args,
	}}
}

// FindCompilationDatabase locates compile_commands.json by walking up from
// startDir. Returns the directory containing it.
func FindCompilationDatabase(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		info, err := os.Stat(filepath.Join(currentDir, DatabaseFileName))
		if err == nil && !info.IsDir() {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrDatabaseNotFound
		}
		currentDir = parentDir
	}
}

// AutoDetectDatabase searches upward from the directory of each source, then
// from workDir, and loads the first compile_commands.json found.
func AutoDetectDatabase(sources []string, workDir string) (*JSONCompilationDatabase, error) {
	var starts []string
	for _, src := range sources {
		starts = append(starts, filepath.Dir(src))
	}
	starts = append(starts, workDir)

	for _, start := range starts {
		dir, err := FindCompilationDatabase(start)
		if err != nil {
			continue
		}
		return LoadJSONDatabase(dir)
	}
	return nil, ErrDatabaseNotFound
}

// SplitCommandLine splits a shell-style command line into arguments,
// honouring single quotes, double quotes and backslash escapes.
func SplitCommandLine(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("splitting command line: %w", err)
	}
	return args, nil
}

// normalizePath makes file absolute against dir and cleans it.
func normalizePath(dir, file string) string {
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	return filepath.Clean(file)
}
