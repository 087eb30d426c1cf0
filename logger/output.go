package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Generated programs, errors with hints, final status
//	1 (-v)      - + Per-input progress, watch events, fetched inputs
//	2 (-vv)     - + Timing, config loaded, helper registration
//	3 (-vvv)    - + Per-block dispatch

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated source, written paths
	OutputErrors                           // Errors with hints and block context
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress    // Per-input progress
	OutputWatchEvents // Changes seen by generate --watch

	// Level 2 (-vv) - Detailed
	OutputTiming  // Generation timing
	OutputConfig  // Config values loaded/applied
	OutputHelpers // Helper functions registered by a pass

	// Level 3 (-vvv) - Trace
	OutputBlockDispatch // Every block rendered, with its slot
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:    VerbosityInfo,
	OutputWatchEvents: VerbosityInfo,

	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,
	OutputHelpers: VerbosityDebug,

	OutputBlockDispatch: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// Enabled reports whether category is shown at the verbosity passed to
// Initialize.
func Enabled(category OutputCategory) bool {
	return ShouldOutput(Verbosity, category)
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "programs and errors only"
	case verbosity == VerbosityInfo:
		return "programs, errors, and progress"
	case verbosity == VerbosityDebug:
		return "above + timing, config, helpers"
	default:
		return "above + every rendered block"
	}
}
