// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used for the identifiers minted by the server.
const (
	PrefixSession = "fs"  // finder session
	PrefixClient  = "sse" // SSE subscriber
	PrefixToken   = "tok" // session token ID
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "fs-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, which matters because session IDs appear in
// paths and EventSource URLs.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// HasPrefix reports whether id was minted with the given prefix.
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	return ok && rest != ""
}
