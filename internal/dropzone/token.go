package dropzone

import (
	"fmt"
	"os"
	"strings"
)

// TokenSource yields the bearer token presented to the signing endpoint.
// It is read once per descriptor fetch.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token value.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// FileToken reads the token from a file on every call, so a token rotated
// on disk is picked up by the next fetch.
type FileToken string

func (p FileToken) Token() (string, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", string(p))
	}
	return token, nil
}
