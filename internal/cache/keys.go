package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Namespace prefixes every key written by this application.
const Namespace = "quizforge"

const responseSchemaVersion = "v1"

// Key joins segments under Namespace with ':'. Empty segments are skipped.
func Key(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, Namespace)
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}

// ResponseKey is the key of a cached model response. Prompts are unbounded,
// so the key embeds a digest of model and prompt instead of the prompt itself.
func ResponseKey(model, prompt string) string {
	return Key("response", responseSchemaVersion, HashKey(model, prompt))
}

// ResponsePattern matches every cached response key, for SCAN-based purges.
func ResponsePattern() string {
	return Key("response", responseSchemaVersion, "*")
}

// HashKey returns the hex SHA-256 of parts joined by NUL.
func HashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
