package tooling

import (
	"path/filepath"
	"strings"

	"github.com/countfunc/countfunc/internal/parser"
)

// defaultCompiler picks a compiler name for synthesised commands.
func defaultCompiler(file string) string {
	if parser.LanguageFromPath(file) == parser.C {
		return "cc"
	}
	return "c++"
}

// LanguageForCommand decides which grammar parses file. An explicit "-x"
// wins, then the file extension; ambiguous ".h" headers fall back to the
// "-std=" flag, then to a compiler name ending in "++", then to
// headerLanguage. Returns an empty language when nothing applies.
func LanguageForCommand(file string, args []string, headerLanguage parser.Language) parser.Language {
	if lang := languageFromXFlag(args); lang != "" {
		return lang
	}
	if lang := parser.LanguageFromPath(file); lang != "" {
		return lang
	}
	if !parser.IsHeader(file) {
		return ""
	}
	if lang := languageFromStdFlag(args); lang != "" {
		return lang
	}
	if len(args) > 0 && strings.HasSuffix(filepath.Base(args[0]), "++") {
		return parser.Cpp
	}
	return headerLanguage
}

// languageFromXFlag returns the language named by the last -x flag.
func languageFromXFlag(args []string) parser.Language {
	var lang parser.Language
	for i := 0; i < len(args); i++ {
		var value string
		switch {
		case args[i] == "-x" && i+1 < len(args):
			value = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-x") && len(args[i]) > 2:
			value = args[i][2:]
		case strings.HasPrefix(args[i], "--language="):
			value = strings.TrimPrefix(args[i], "--language=")
		default:
			continue
		}

		switch value {
		case "c", "c-header", "cpp-output":
			lang = parser.C
		case "c++", "c++-header", "c++-cpp-output":
			lang = parser.Cpp
		case "none":
			lang = ""
		}
	}
	return lang
}

// languageFromStdFlag returns the language implied by the last -std flag.
func languageFromStdFlag(args []string) parser.Language {
	var lang parser.Language
	for _, arg := range args {
		std, ok := strings.CutPrefix(arg, "-std=")
		if !ok {
			std, ok = strings.CutPrefix(arg, "--std=")
		}
		if !ok {
			continue
		}
		switch {
		case strings.Contains(std, "++"):
			lang = parser.Cpp
		case strings.HasPrefix(std, "c") || strings.HasPrefix(std, "gnu") || strings.HasPrefix(std, "iso9899"):
			lang = parser.C
		}
	}
	return lang
}
