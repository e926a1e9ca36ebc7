package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// HKDF info labels. One per token kind so a key never signs two kinds.
const (
	apiKeyInfo    = "ledgerbot api token v1"
	choiceKeyInfo = "ledgerbot choice token v1"
)

// Keys holds the signing keys derived from the server secret.
type Keys struct {
	API    []byte
	Choice []byte
}

// DeriveKeys expands secret into one HMAC key per token kind.
func DeriveKeys(secret string) (Keys, error) {
	api, err := expand(secret, apiKeyInfo)
	if err != nil {
		return Keys{}, err
	}
	choice, err := expand(secret, choiceKeyInfo)
	if err != nil {
		return Keys{}, err
	}
	return Keys{API: api, Choice: choice}, nil
}

func expand(secret, info string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive %q key: %w", info, err)
	}
	return key, nil
}
