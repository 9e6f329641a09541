package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:   "text",
			PrintAll: false,
			Sort:     false,
		},
		Parse: ParseConfig{
			ASTDump:        false,
			HeaderLanguage: "cpp",
		},
		Database: DatabaseConfig{
			BuildPath: "",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)
	result.Parse = mergeParseConfig(loaded.Parse, defaults.Parse)
	result.Database = mergeDatabaseConfig(loaded.Database, defaults.Database)

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	// Format: use loaded if non-empty
	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	// Booleans can't distinguish unset from false; every default is false
	// so a set value always wins.
	result.PrintAll = loaded.PrintAll || defaults.PrintAll
	result.Sort = loaded.Sort || defaults.Sort

	return result
}

func mergeParseConfig(loaded, defaults ParseConfig) ParseConfig {
	result := ParseConfig{}

	result.ASTDump = loaded.ASTDump || defaults.ASTDump

	// HeaderLanguage: use loaded if non-empty
	if loaded.HeaderLanguage != "" {
		result.HeaderLanguage = loaded.HeaderLanguage
	} else {
		result.HeaderLanguage = defaults.HeaderLanguage
	}

	return result
}

func mergeDatabaseConfig(loaded, defaults DatabaseConfig) DatabaseConfig {
	result := DatabaseConfig{}

	if loaded.BuildPath != "" {
		result.BuildPath = loaded.BuildPath
	} else {
		result.BuildPath = defaults.BuildPath
	}

	return result
}
