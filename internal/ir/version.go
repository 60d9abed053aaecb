package ir

// Version constants recorded with every journaled commit.
const (
	// IRVersion is the record schema version.
	IRVersion = "1"

	// EngineVersion is the arbor engine version.
	EngineVersion = "0.1.0"
)
