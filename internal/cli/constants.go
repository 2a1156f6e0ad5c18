package cli

// Default values for CLI flags and formatted output.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// PercentScale converts a compression ratio to a percentage.
	PercentScale = 100
)
