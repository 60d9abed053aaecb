package testutil

// FixedSessionGenerator generates the same session token every time.
//
// This enables deterministic journal contents and golden snapshot
// comparison: the same scenario produces byte-identical commit IDs.
//
// Unlike engine.FixedGenerator which returns tokens in sequence, this
// generator always returns the same token.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a new fixed session token generator.
//
// If token is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed session token.
//
// Implements engine.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
