package spec

// Default parser configuration values.
const (
	DefaultSeparator     = "="
	DefaultEndOfOptions  = "--"
	DefaultAtFileComment = '#'
)

// Config holds the parser policies of a command. A subcommand snapshots
// its parent's configuration when Configure is called on the root; changes
// made afterwards do not propagate, so configure the tree after wiring all
// subcommands.
type Config struct {
	// Separator attaches a value to an option name ("--opt=value").
	Separator string
	// EndOfOptions forces all following tokens to be positional.
	EndOfOptions string
	// POSIXClustering allows runs of single-character options ("-xvf").
	POSIXClustering bool
	// OverwriteAllowed silently accepts a repeated single-value option.
	OverwriteAllowed bool
	// UnmatchedAllowed records unknown tokens instead of failing.
	UnmatchedAllowed bool
	// StopAtUnmatched halts interpretation at the first unknown token,
	// copying all remaining tokens to the unmatched list.
	StopAtUnmatched bool
	// StopAtPositional treats every token after the first positional as
	// positional.
	StopAtPositional bool
	// UnmatchedAsPositional feeds unknown option-like tokens to the
	// positional slots instead of recording them as unmatched.
	UnmatchedAsPositional bool
	// ToggleBooleanFlags negates the current value of a matched flag
	// instead of setting it to true.
	ToggleBooleanFlags bool
	// CaseInsensitiveEnums accepts enum constants in any case.
	CaseInsensitiveEnums bool
	// LimitSplit caps value splitting at the remaining arity budget.
	LimitSplit bool
	// ArityByAttached treats an arity as satisfied once a value was
	// attached via the separator, consuming no further tokens.
	ArityByAttached bool
	// CollectErrors gathers all violations into one aggregate failure
	// instead of aborting at the first.
	CollectErrors bool
	// TrimQuotes strips one layer of quotes from matched values.
	TrimQuotes bool
	// SplitQuoted applies value splitting inside quoted regions too. By
	// default quoted regions are kept whole.
	SplitQuoted bool
	// ExpandAtFiles replaces @file tokens with the file's contents.
	ExpandAtFiles bool
	// AtFileComment starts a comment line inside an argument file.
	AtFileComment byte
	// Resembles decides whether an unknown token looks like an option
	// rather than a positional value. Nil selects the built-in heuristic,
	// which compares prefix characters against the known option names and
	// refuses anything that parses as a number.
	Resembles func(token string) bool
	// Prompter solicits the value of an interactive argument. Nil makes
	// matching an interactive argument an error.
	Prompter func(prompt string) (string, error)
}

// DefaultConfig returns the configuration described in the package
// documentation: POSIX clustering, boolean toggling, and @-file expansion
// enabled, everything else strict.
func DefaultConfig() Config {
	return Config{
		Separator:          DefaultSeparator,
		EndOfOptions:       DefaultEndOfOptions,
		POSIXClustering:    true,
		ToggleBooleanFlags: true,
		ExpandAtFiles:      true,
		AtFileComment:      DefaultAtFileComment,
	}
}
