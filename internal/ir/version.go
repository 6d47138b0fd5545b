package ir

// Version constants for the IR schema and generator.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// GeneratorVersion is the iogen version recorded with each generation run.
	GeneratorVersion = "0.1.0"
)
