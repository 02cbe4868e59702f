package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// keyLength is the PASETO v4 symmetric key size in bytes.
const keyLength = 32

// KeyFile is the name of the session key file inside the state directory.
const KeyFile = "session.key"

// LoadOrGenerateKey returns the session key stored hex-encoded in
// <statePath>/session.key, creating the file with a fresh random key when
// it does not exist.
func LoadOrGenerateKey(statePath string) ([]byte, error) {
	keyPath := filepath.Join(statePath, KeyFile)

	//#nosec G304 -- key path is derived from the configured state directory
	data, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		return decodeKey(strings.TrimSpace(string(data)))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	if err := os.MkdirAll(statePath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save session key: %w", err)
	}
	return key, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	if len(keyHex) != hex.EncodedLen(keyLength) {
		return nil, fmt.Errorf("invalid session key length: expected %d hex chars, got %d", hex.EncodedLen(keyLength), len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid session key format: not valid hex: %w", err)
	}
	return key, nil
}
