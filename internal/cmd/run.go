package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/countfunc/countfunc/internal/config"
	"github.com/countfunc/countfunc/internal/countfunc"
	"github.com/countfunc/countfunc/internal/logger"
	"github.com/countfunc/countfunc/internal/output"
	"github.com/countfunc/countfunc/internal/parser"
	"github.com/countfunc/countfunc/internal/store"
	"github.com/countfunc/countfunc/internal/tooling"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// settings is the merged result of config file and flags.
type settings struct {
	format         output.Format
	printAll       bool
	sort           bool
	astDump        bool
	headerLanguage parser.Language
	buildPath      string
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	sources, compilerArgs, fixed := splitArgs(cmd, args)
	if len(sources) == 0 {
		return errors.New("no source files given")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := loadConfig(opts.configPath, workDir)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd.Flags(), cfg, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	// Structured reports own stdout; diagnostics move to stderr.
	diagOut := out
	if s.format.IsStructured() {
		diagOut = errOut
	}
	log := logger.New(diagOut)
	if opts.quiet {
		log = logger.NewNoopLogger()
	}

	db, err := openDatabase(s.buildPath, sources, compilerArgs, fixed, workDir, errOut)
	if err != nil {
		return err
	}

	log.Logf("start")
	if jdb, ok := db.(*tooling.JSONCompilationDatabase); ok {
		log.Logf("compilation database: %s", jdb.Path())
	}
	for _, src := range sources {
		log.Logf("file name: %s", src)
	}

	tool := tooling.NewTool(db, sources)
	tool.SetHeaderLanguage(s.headerLanguage)
	tool.SetErrorOutput(errOut)
	tool.AppendArgumentsAdjuster(tooling.InsertArguments(opts.extraArgsBefore, true))
	tool.AppendArgumentsAdjuster(tooling.InsertArguments(opts.extraArgs, false))

	names := store.NewNameSet()
	actionOpts := countfunc.Options{Names: names, Log: log}
	if s.astDump {
		actionOpts.Dump = diagOut
	}

	log.Logf("run front end")
	status := tool.Run(cmd.Context(), countfunc.Factory(actionOpts))

	var listing []string
	if s.sort {
		listing = names.Sorted()
	} else {
		listing = names.Names()
	}

	formatter, err := output.GetFormatter(s.format)
	if err != nil {
		return err
	}
	if err := formatter.FormatToWriter(out, output.NewReport(listing, s.printAll)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.Logf("finish")

	if status != 0 {
		return fmt.Errorf("%w: %d of %d files", ErrCompilationFailed, len(tool.Failures()), len(sources))
	}
	return nil
}

// splitArgs separates source paths from the compiler flags given after
// "--". fixed reports whether "--" was present at all.
func splitArgs(cmd *cobra.Command, args []string) (sources, compilerArgs []string, fixed bool) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil, false
	}
	return args[:dash], args[dash:], true
}

// loadConfig reads the config named by --config, or discovers one from
// workDir. An explicit path must exist.
func loadConfig(configPath, workDir string) (*config.Config, error) {
	if configPath == "" {
		return config.Load(workDir)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.LoadFromPath(configPath)
}

// resolveSettings applies explicitly set flags on top of cfg.
func resolveSettings(flags *pflag.FlagSet, cfg *config.Config, opts *options) (*settings, error) {
	formatName := cfg.Output.Format
	s := &settings{
		printAll:  cfg.Output.PrintAll,
		sort:      cfg.Output.Sort,
		astDump:   cfg.Parse.ASTDump,
		buildPath: cfg.Database.BuildPath,
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "format":
			formatName = opts.format
		case "print-all":
			s.printAll = opts.printAll
		case "sort":
			s.sort = opts.sort
		case "ast-dump":
			s.astDump = opts.astDump
		case "build-path":
			s.buildPath = opts.buildPath
		}
	})

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	s.format = format

	lang, err := parser.ParseLanguage(cfg.Parse.HeaderLanguage)
	if err != nil {
		return nil, fmt.Errorf("header language: %w", err)
	}
	s.headerLanguage = lang

	return s, nil
}

// openDatabase picks the compilation database for this run: the fixed
// database after "--", then --build-path, then the nearest
// compile_commands.json. A nil database means no flags at all.
func openDatabase(buildPath string, sources, compilerArgs []string, fixed bool, workDir string, errOut io.Writer) (tooling.CompilationDatabase, error) {
	if fixed {
		return tooling.NewFixedCompilationDatabase(workDir, compilerArgs), nil
	}

	if buildPath != "" {
		db, err := tooling.LoadJSONDatabase(buildPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := tooling.AutoDetectDatabase(sources, workDir)
	switch {
	case errors.Is(err, tooling.ErrDatabaseNotFound):
		fmt.Fprintf(errOut, "%s no compilation database found; running without flags\n", logger.Tag)
		return nil, nil
	case err != nil:
		fmt.Fprintf(errOut, "%s ignoring compilation database: %v\n", logger.Tag, err)
		return nil, nil
	}
	return db, nil
}
