// Package id generates random identifiers for sessions and requests.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// requestAlphabet avoids '-' and '_' so request IDs stay readable in logs.
const (
	requestAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	requestIDLength = 12
)

// Generate creates a prefixed unique ID using NanoID,
// e.g. "session-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// RequestID returns a short lowercase alphanumeric ID for tagging one HTTP request.
func RequestID() string {
	id, err := gonanoid.Generate(requestAlphabet, requestIDLength)
	if err != nil {
		return "unknown"
	}
	return id
}
