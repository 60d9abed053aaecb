package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCommit = "arbor/commit/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CommitID computes the content-addressed ID of a commit. The same session,
// generation and change list always produce the same ID.
func CommitID(session string, generation int64, changes []Change) (string, error) {
	list := make([]any, len(changes))
	for i, c := range changes {
		list[i] = c.CanonicalMap()
	}
	obj := map[string]any{
		"session":    session,
		"generation": generation,
		"changes":    list,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CommitID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainCommit, canonical), nil
}

// MustCommitID is like CommitID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCommitID(session string, generation int64, changes []Change) string {
	id, err := CommitID(session, generation, changes)
	if err != nil {
		panic(err)
	}
	return id
}
